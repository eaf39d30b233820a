package feature_selection

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/datasets"
)

func TestFRegressionRanksInformativeFeatures(t *testing.T) {
	// Columns 0 and 1 drive the target, columns 2 and 3 are noise.
	X, y, err := datasets.MakeRegression(200, 4, 2, 0.5, 42)
	require.NoError(t, err)

	scores, err := FRegression(X, y)
	require.NoError(t, err)
	require.Len(t, scores, 4)

	assert.Greater(t, scores[0], scores[2])
	assert.Greater(t, scores[0], scores[3])
	assert.Greater(t, scores[1], scores[2])
	assert.Greater(t, scores[1], scores[3])
}

func TestFClassifSeparatesByClassMeans(t *testing.T) {
	// Column 0 shifts with the class, column 1 is identical noise.
	n := 60
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		class := float64(i % 2)
		X.Set(i, 0, class*5+float64(i%3)*0.1)
		X.Set(i, 1, float64(i%3)*0.1)
		y.Set(i, 0, class)
	}

	scores, err := FClassif(X, y)
	require.NoError(t, err)
	require.Len(t, scores, 2)

	assert.Greater(t, scores[0], scores[1])
}

func TestFClassifValidation(t *testing.T) {
	X := mat.NewDense(5, 2, nil)

	// Single class.
	y := mat.NewDense(5, 1, nil)
	_, err := FClassif(X, y)
	assert.Error(t, err)

	// Row mismatch.
	_, err = FClassif(X, mat.NewDense(4, 1, nil))
	assert.Error(t, err)
}

func TestSelectKBestKeepsInformativeColumns(t *testing.T) {
	// Columns 0 and 1 carry the target, columns 2..5 are pure noise.
	rng := rand.New(rand.NewPCG(7, 7))
	n := 200
	X := mat.NewDense(n, 6, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < 6; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
		y.Set(i, 0, 3*X.At(i, 0)-2*X.At(i, 1)+rng.NormFloat64()*0.1)
	}

	sel := NewSelectKBest(FRegression, 2)
	require.NoError(t, sel.FitWithTarget(X, y))

	assert.Equal(t, []int{0, 1}, sel.SupportIndices())
	assert.Len(t, sel.Scores(), 6)

	reduced, err := sel.Transform(X)
	require.NoError(t, err)
	rows, cols := reduced.Dims()
	assert.Equal(t, 200, rows)
	assert.Equal(t, 2, cols)

	// Selected columns keep their original values and order.
	for i := 0; i < 5; i++ {
		assert.Equal(t, X.At(i, 0), reduced.At(i, 0))
		assert.Equal(t, X.At(i, 1), reduced.At(i, 1))
	}
}

func TestSelectKBestValidation(t *testing.T) {
	X, y, err := datasets.MakeRegression(50, 3, 3, 1.0, 1)
	require.NoError(t, err)

	err = NewSelectKBest(FRegression, 0).FitWithTarget(X, y)
	assert.Error(t, err, "k below 1")

	err = NewSelectKBest(FRegression, 4).FitWithTarget(X, y)
	assert.Error(t, err, "k above n_features")

	err = NewSelectKBest(nil, 2).FitWithTarget(X, y)
	assert.Error(t, err, "nil score function")

	_, err = NewSelectKBest(FRegression, 2).Transform(X)
	assert.Error(t, err, "transform before fit")
}

func TestSelectKBestCloneIsUnfitted(t *testing.T) {
	X, y, err := datasets.MakeRegression(50, 3, 2, 1.0, 3)
	require.NoError(t, err)

	sel := NewSelectKBest(FRegression, 2)
	require.NoError(t, sel.FitWithTarget(X, y))

	clone := sel.CloneTransformer()
	_, err = clone.Transform(X)
	assert.Error(t, err, "clone must not inherit fitted state")
}
