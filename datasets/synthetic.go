// Package datasets provides deterministic synthetic dataset generators for
// exercising the evaluation routines. All generators are reproducible from
// an explicit seed.
package datasets

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// MakeRegression generates a random linear regression problem. The target
// is a linear combination of nInformative of the nFeatures columns plus
// Gaussian noise with the given standard deviation.
func MakeRegression(nSamples, nFeatures, nInformative int, noise float64, seed uint64) (*mat.Dense, *mat.Dense, error) {
	if nSamples < 1 {
		return nil, nil, errors.NewValidationError("n_samples", "must be at least 1", nSamples)
	}
	if nFeatures < 1 {
		return nil, nil, errors.NewValidationError("n_features", "must be at least 1", nFeatures)
	}
	if nInformative < 1 || nInformative > nFeatures {
		return nil, nil, errors.NewValidationError("n_informative", "must be in [1, n_features]", nInformative)
	}
	if noise < 0 {
		return nil, nil, errors.NewValidationError("noise", "must be non-negative", noise)
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	// Coefficients for the informative block; the rest contribute nothing.
	coef := make([]float64, nInformative)
	for i := range coef {
		coef[i] = rng.Float64()*100 - 50
	}

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewDense(nSamples, 1, nil)

	for i := 0; i < nSamples; i++ {
		target := 0.0
		for j := 0; j < nFeatures; j++ {
			v := rng.NormFloat64()
			X.Set(i, j, v)
			if j < nInformative {
				target += coef[j] * v
			}
		}
		if noise > 0 {
			target += rng.NormFloat64() * noise
		}
		y.Set(i, 0, target)
	}

	return X, y, nil
}

// MakeFriedman1 generates the Friedman #1 regression benchmark:
//
//	y = 10 sin(π x0 x1) + 20 (x2 - 0.5)² + 10 x3 + 5 x4 + noise
//
// with ten uniform [0, 1] features of which only the first five are
// informative. The five noise features make it a standard dataset for
// feature-selection and learning-curve studies.
func MakeFriedman1(nSamples int, noise float64, seed uint64) (*mat.Dense, *mat.Dense, error) {
	if nSamples < 1 {
		return nil, nil, errors.NewValidationError("n_samples", "must be at least 1", nSamples)
	}
	if noise < 0 {
		return nil, nil, errors.NewValidationError("noise", "must be non-negative", noise)
	}

	const nFeatures = 10
	rng := rand.New(rand.NewPCG(seed, seed))

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewDense(nSamples, 1, nil)

	for i := 0; i < nSamples; i++ {
		for j := 0; j < nFeatures; j++ {
			X.Set(i, j, rng.Float64())
		}

		target := 10*math.Sin(math.Pi*X.At(i, 0)*X.At(i, 1)) +
			20*math.Pow(X.At(i, 2)-0.5, 2) +
			10*X.At(i, 3) +
			5*X.At(i, 4)
		if noise > 0 {
			target += rng.NormFloat64() * noise
		}
		y.Set(i, 0, target)
	}

	return X, y, nil
}

// MakeMoons returns nSamples points from two interleaved half circles with
// binary labels, optionally jittered with Gaussian noise.
//
// Modeled after scikit-learn's make_moons.
func MakeMoons(nSamples int, noise float64, seed uint64) (*mat.Dense, *mat.Dense, error) {
	if nSamples < 2 {
		return nil, nil, errors.NewValidationError("n_samples", "must be at least 2", nSamples)
	}
	if noise < 0 {
		return nil, nil, errors.NewValidationError("noise", "must be non-negative", noise)
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	nOuter := nSamples / 2
	nInner := nSamples - nOuter

	X := mat.NewDense(nSamples, 2, nil)
	y := mat.NewDense(nSamples, 1, nil)

	for i := 0; i < nOuter; i++ {
		X.Set(i, 0, math.Cos(arcAngle(i, nOuter)))
		X.Set(i, 1, math.Sin(arcAngle(i, nOuter)))
		y.Set(i, 0, 0)
	}
	for i := 0; i < nInner; i++ {
		row := nOuter + i
		X.Set(row, 0, 1-math.Cos(arcAngle(i, nInner)))
		X.Set(row, 1, 0.5-math.Sin(arcAngle(i, nInner)))
		y.Set(row, 0, 1)
	}

	if noise > 0 {
		for i := 0; i < nSamples; i++ {
			X.Set(i, 0, X.At(i, 0)+rng.NormFloat64()*noise)
			X.Set(i, 1, X.At(i, 1)+rng.NormFloat64()*noise)
		}
	}

	shuffleRows(rng, X, y)
	return X, y, nil
}

// MakeClassification generates a random nClasses classification problem.
// Informative features are drawn from class-dependent Gaussian centers
// separated by classSep; the remaining features are pure noise.
func MakeClassification(nSamples, nFeatures, nInformative, nClasses int, classSep float64, seed uint64) (*mat.Dense, *mat.Dense, error) {
	if nSamples < nClasses {
		return nil, nil, errors.NewValidationError("n_samples", "must be at least n_classes", nSamples)
	}
	if nClasses < 2 {
		return nil, nil, errors.NewValidationError("n_classes", "must be at least 2", nClasses)
	}
	if nInformative < 1 || nInformative > nFeatures {
		return nil, nil, errors.NewValidationError("n_informative", "must be in [1, n_features]", nInformative)
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	// One Gaussian center per class in the informative subspace.
	centers := make([][]float64, nClasses)
	for c := range centers {
		centers[c] = make([]float64, nInformative)
		for j := range centers[c] {
			centers[c][j] = (rng.Float64()*2 - 1) * classSep
		}
	}

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewDense(nSamples, 1, nil)

	for i := 0; i < nSamples; i++ {
		// Round-robin keeps classes balanced, shuffle hides the order.
		class := i % nClasses
		for j := 0; j < nFeatures; j++ {
			if j < nInformative {
				X.Set(i, j, centers[class][j]+rng.NormFloat64())
			} else {
				X.Set(i, j, rng.NormFloat64())
			}
		}
		y.Set(i, 0, float64(class))
	}

	shuffleRows(rng, X, y)
	return X, y, nil
}

// arcAngle spreads n points evenly over a half circle. A single-point arc
// sits at angle 0 so tiny sample counts stay finite.
func arcAngle(i, n int) float64 {
	if n < 2 {
		return 0
	}
	return math.Pi * float64(i) / float64(n-1)
}

// shuffleRows applies one random row permutation to X and y together.
func shuffleRows(rng *rand.Rand, X, y *mat.Dense) {
	n, cols := X.Dims()
	rng.Shuffle(n, func(i, j int) {
		for c := 0; c < cols; c++ {
			xi, xj := X.At(i, c), X.At(j, c)
			X.Set(i, c, xj)
			X.Set(j, c, xi)
		}
		yi, yj := y.At(i, 0), y.At(j, 0)
		y.Set(i, 0, yj)
		y.Set(j, 0, yi)
	})
}
