package datasets

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMakeRegressionShapeAndDeterminism(t *testing.T) {
	X, y, err := MakeRegression(50, 8, 3, 1.0, 42)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 50, r)
	assert.Equal(t, 8, c)
	yr, yc := y.Dims()
	assert.Equal(t, 50, yr)
	assert.Equal(t, 1, yc)

	X2, y2, err := MakeRegression(50, 8, 3, 1.0, 42)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, X2, 0), "same seed must reproduce X")
	assert.True(t, mat.EqualApprox(y, y2, 0), "same seed must reproduce y")

	X3, _, err := MakeRegression(50, 8, 3, 1.0, 43)
	require.NoError(t, err)
	assert.False(t, mat.EqualApprox(X, X3, 0), "different seed must change X")
}

func TestMakeRegressionValidation(t *testing.T) {
	_, _, err := MakeRegression(0, 5, 2, 0, 1)
	assert.Error(t, err)

	_, _, err = MakeRegression(10, 5, 6, 0, 1)
	assert.Error(t, err, "n_informative > n_features")

	_, _, err = MakeRegression(10, 5, 2, -1, 1)
	assert.Error(t, err, "negative noise")
}

func TestMakeFriedman1(t *testing.T) {
	X, y, err := MakeFriedman1(100, 0, 7)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 100, r)
	assert.Equal(t, 10, c)

	// Noise-free targets follow the closed form exactly; spot-check bounds.
	// y = 10 sin(pi x0 x1) + 20 (x2-0.5)^2 + 10 x3 + 5 x4 in [-10, 30].
	for i := 0; i < r; i++ {
		v := y.At(i, 0)
		assert.GreaterOrEqual(t, v, -10.0)
		assert.LessOrEqual(t, v, 30.0)
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.GreaterOrEqual(t, X.At(i, j), 0.0)
			assert.Less(t, X.At(i, j), 1.0)
		}
	}
}

func TestMakeMoons(t *testing.T) {
	X, y, err := MakeMoons(100, 0.1, 42)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 100, r)
	assert.Equal(t, 2, c)

	counts := map[float64]int{}
	for i := 0; i < r; i++ {
		counts[y.At(i, 0)]++
	}
	assert.Equal(t, 50, counts[0])
	assert.Equal(t, 50, counts[1])
}

func TestMakeMoonsTinySampleCounts(t *testing.T) {
	// One point per arc must still land on the circle, not at NaN.
	for _, n := range []int{2, 3, 4} {
		X, y, err := MakeMoons(n, 0, 1)
		require.NoError(t, err, "n=%d", n)

		r, c := X.Dims()
		require.Equal(t, n, r)
		require.Equal(t, 2, c)

		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				assert.False(t, math.IsNaN(X.At(i, j)), "n=%d: X[%d,%d] is NaN", n, i, j)
			}
			label := y.At(i, 0)
			assert.True(t, label == 0 || label == 1, "n=%d: label %v", n, label)
		}
	}
}

func TestMakeClassificationBalancedClasses(t *testing.T) {
	X, y, err := MakeClassification(90, 6, 3, 3, 2.0, 11)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 90, r)
	assert.Equal(t, 6, c)

	counts := map[float64]int{}
	for i := 0; i < r; i++ {
		counts[y.At(i, 0)]++
	}
	require.Len(t, counts, 3)
	for class, n := range counts {
		assert.Equal(t, 30, n, "class %v should have 30 members", class)
	}
}
