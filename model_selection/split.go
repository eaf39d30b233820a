// Package model_selection provides the evaluation engine: cross-validation
// splitters, parallel fold execution, grid search, learning and validation
// curves, and permutation testing.
package model_selection

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// Fold holds the train/test index sets of a single cross-validation fold.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter generates cross-validation folds. Implementations must be
// deterministic for a fixed seed.
type Splitter interface {
	// Split generates the folds for the given data.
	Split(X, y mat.Matrix) ([]Fold, error)

	// NumSplits returns the number of folds, or 0 when it depends on the
	// data (LeaveOneOut).
	NumSplits() int

	// Name returns the splitter name for logging.
	Name() string
}

// KFold splits samples into k consecutive folds; each fold serves as the
// test set exactly once. With Shuffle the samples are permuted first.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewKFold creates a k-fold splitter.
func NewKFold(nSplits int, shuffle bool, seed uint64) *KFold {
	return &KFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// NumSplits returns the number of folds.
func (kf *KFold) NumSplits() int { return kf.NSplits }

// Name returns "KFold".
func (kf *KFold) Name() string { return "KFold" }

// Split generates train/test indices for each fold. The test sets are
// disjoint and together cover every sample exactly once.
func (kf *KFold) Split(X, _ mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()

	if kf.NSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", kf.NSplits)
	}
	if kf.NSplits > nSamples {
		return nil, errors.NewValidationError("n_splits", "must not exceed the number of samples", kf.NSplits)
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.Seed, kf.Seed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	// The first (nSamples % k) folds get one extra test sample.
	folds := make([]Fold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	currentIdx := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[currentIdx:currentIdx+testSize])

		trainIndices := make([]int, 0, nSamples-testSize)
		trainIndices = append(trainIndices, indices[:currentIdx]...)
		trainIndices = append(trainIndices, indices[currentIdx+testSize:]...)

		folds[i] = Fold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}

		currentIdx += testSize
	}

	return folds, nil
}

// StratifiedKFold splits samples so every fold preserves the class ratios
// of y to within one sample per class.
type StratifiedKFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewStratifiedKFold creates a stratified k-fold splitter.
func NewStratifiedKFold(nSplits int, shuffle bool, seed uint64) *StratifiedKFold {
	return &StratifiedKFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// NumSplits returns the number of folds.
func (skf *StratifiedKFold) NumSplits() int { return skf.NSplits }

// Name returns "StratifiedKFold".
func (skf *StratifiedKFold) Name() string { return "StratifiedKFold" }

// Split generates stratified train/test indices for each fold. Every class
// must have at least NSplits members.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()

	if skf.NSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", skf.NSplits)
	}
	if yRows != nSamples {
		return nil, errors.NewDimensionError("StratifiedKFold.Split", nSamples, yRows, 0)
	}

	// Group sample indices by class label, in first-seen order for
	// determinism.
	classIndices := make(map[float64][]int)
	var classOrder []float64
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if _, seen := classIndices[label]; !seen {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}

	for _, label := range classOrder {
		if len(classIndices[label]) < skf.NSplits {
			return nil, errors.NewValidationError("n_splits",
				"every class must have at least n_splits members", skf.NSplits)
		}
	}

	if skf.Shuffle {
		r := rand.New(rand.NewPCG(skf.Seed, skf.Seed))
		for _, label := range classOrder {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]Fold, skf.NSplits)

	// Distribute each class across the folds round-robin by block.
	for _, label := range classOrder {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.NSplits
		remainder := nClass % skf.NSplits

		currentIdx := 0
		for i := 0; i < skf.NSplits; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}
			folds[i].TestIndices = append(folds[i].TestIndices, indices[currentIdx:currentIdx+testSize]...)
			currentIdx += testSize
		}
	}

	for i := 0; i < skf.NSplits; i++ {
		sort.Ints(folds[i].TestIndices)

		testSet := make(map[int]bool, len(folds[i].TestIndices))
		for _, idx := range folds[i].TestIndices {
			testSet[idx] = true
		}

		for j := 0; j < nSamples; j++ {
			if !testSet[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}

	return folds, nil
}

// ShuffleSplit generates independent random train/test splits. Unlike
// KFold the test sets may overlap across iterations.
type ShuffleSplit struct {
	NSplits      int
	TestFraction float64
	Seed         uint64
}

// NewShuffleSplit creates a ShuffleSplit splitter.
func NewShuffleSplit(nSplits int, testFraction float64, seed uint64) *ShuffleSplit {
	return &ShuffleSplit{NSplits: nSplits, TestFraction: testFraction, Seed: seed}
}

// NumSplits returns the number of iterations.
func (ss *ShuffleSplit) NumSplits() int { return ss.NSplits }

// Name returns "ShuffleSplit".
func (ss *ShuffleSplit) Name() string { return "ShuffleSplit" }

// Split generates NSplits independent shuffled splits.
func (ss *ShuffleSplit) Split(X, _ mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()

	if ss.NSplits < 1 {
		return nil, errors.NewValidationError("n_splits", "must be at least 1", ss.NSplits)
	}
	if ss.TestFraction <= 0 || ss.TestFraction >= 1 {
		return nil, errors.NewValidationError("test_fraction", "must be in (0, 1)", ss.TestFraction)
	}

	nTest := int(float64(nSamples) * ss.TestFraction)
	if nTest < 1 || nTest >= nSamples {
		return nil, errors.NewValidationError("test_fraction",
			"leaves an empty train or test set", ss.TestFraction)
	}

	r := rand.New(rand.NewPCG(ss.Seed, ss.Seed))
	folds := make([]Fold, ss.NSplits)

	for s := 0; s < ss.NSplits; s++ {
		perm := r.Perm(nSamples)

		test := make([]int, nTest)
		copy(test, perm[:nTest])
		train := make([]int, nSamples-nTest)
		copy(train, perm[nTest:])

		folds[s] = Fold{TrainIndices: train, TestIndices: test}
	}

	return folds, nil
}

// LeaveOneOut generates one fold per sample, each holding out a single
// observation. Expensive, but exact for small datasets.
type LeaveOneOut struct{}

// NewLeaveOneOut creates a LeaveOneOut splitter.
func NewLeaveOneOut() *LeaveOneOut { return &LeaveOneOut{} }

// NumSplits returns 0; the fold count equals the sample count.
func (loo *LeaveOneOut) NumSplits() int { return 0 }

// Name returns "LeaveOneOut".
func (loo *LeaveOneOut) Name() string { return "LeaveOneOut" }

// Split generates one fold per sample.
func (loo *LeaveOneOut) Split(X, _ mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()
	if nSamples < 2 {
		return nil, errors.NewValidationError("n_samples", "LeaveOneOut needs at least 2 samples", nSamples)
	}

	folds := make([]Fold, nSamples)
	for i := 0; i < nSamples; i++ {
		train := make([]int, 0, nSamples-1)
		for j := 0; j < nSamples; j++ {
			if j != i {
				train = append(train, j)
			}
		}
		folds[i] = Fold{TrainIndices: train, TestIndices: []int{i}}
	}

	return folds, nil
}

// TrainTestSplit splits X and y into a single train/test pair.
func TrainTestSplit(X, y mat.Matrix, testFraction float64, shuffle bool, seed uint64) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()

	if yRows != nSamples {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", nSamples, yRows, 0)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("test_fraction", "must be in (0, 1)", testFraction)
	}

	nTest := int(float64(nSamples) * testFraction)
	if nTest < 1 || nTest >= nSamples {
		return nil, nil, nil, nil, errors.NewValidationError("test_fraction",
			"leaves an empty train or test set", testFraction)
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if shuffle {
		r := rand.New(rand.NewPCG(seed, seed))
		r.Shuffle(nSamples, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	testIdx := indices[:nTest]
	trainIdx := indices[nTest:]

	XTrain, yTrain = subset(X, y, trainIdx)
	XTest, yTest = subset(X, y, testIdx)
	return XTrain, XTest, yTrain, yTest, nil
}

// subset extracts the given rows of X and y in ascending index order.
func subset(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	rows := len(indices)
	_, xCols := X.Dims()
	_, yCols := y.Dims()

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	xSubset := mat.NewDense(rows, xCols, nil)
	ySubset := mat.NewDense(rows, yCols, nil)

	for i, idx := range sorted {
		for j := 0; j < xCols; j++ {
			xSubset.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			ySubset.Set(i, j, y.At(idx, j))
		}
	}

	return xSubset, ySubset
}
