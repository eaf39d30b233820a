package model_selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/datasets"
	"github.com/YuminosukeSato/evalgo/dummy"
	"github.com/YuminosukeSato/evalgo/linear_model"
	"github.com/YuminosukeSato/evalgo/metrics"
)

func TestPermutationTestScoreSignalData(t *testing.T) {
	X, y, err := datasets.MakeRegression(100, 3, 3, 0.5, 42)
	require.NoError(t, err)

	result, err := PermutationTestScore(
		linear_model.NewRidge(), X, y,
		NewKFold(5, true, 42), metrics.R2Scorer(),
		20, 42,
	)
	require.NoError(t, err)

	require.Len(t, result.PermutationScores, 20)
	assert.Greater(t, result.Score, 0.95)

	// No shuffled labeling can match a strongly predictive model, so the
	// p-value bottoms out at 1/(n+1).
	assert.Equal(t, 1.0/21.0, result.PValue)
	for i, s := range result.PermutationScores {
		assert.Less(t, s, result.Score, "permutation %d", i)
	}
}

func TestPermutationTestScoreNoSignal(t *testing.T) {
	// Constant labels carry no signal: every permutation is identical to
	// the true labeling, so all scores tie and the p-value is 1.
	X, _, err := datasets.MakeRegression(40, 3, 3, 1.0, 1)
	require.NoError(t, err)
	yData := make([]float64, 40)
	for i := range yData {
		yData[i] = 2.5
	}
	y := mat.NewDense(40, 1, yData)

	result, err := PermutationTestScore(
		dummy.NewDummyRegressor(dummy.StrategyMean), X, y,
		NewKFold(4, false, 0), metrics.MSEScorer(),
		15, 1,
	)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 1.0, result.PValue)
}

func TestPermutationTestScoreDeterminism(t *testing.T) {
	X, y, err := datasets.MakeRegression(60, 2, 2, 1.0, 5)
	require.NoError(t, err)

	a, err := PermutationTestScore(
		linear_model.NewRidge(), X, y,
		NewKFold(3, true, 5), metrics.R2Scorer(),
		10, 99,
	)
	require.NoError(t, err)
	b, err := PermutationTestScore(
		linear_model.NewRidge(), X, y,
		NewKFold(3, true, 5), metrics.R2Scorer(),
		10, 99,
	)
	require.NoError(t, err)

	assert.Equal(t, a.PermutationScores, b.PermutationScores)
	assert.Equal(t, a.PValue, b.PValue)
}

func TestPermutationTestScoreValidation(t *testing.T) {
	X, y, err := datasets.MakeRegression(30, 2, 2, 1.0, 1)
	require.NoError(t, err)

	_, err = PermutationTestScore(
		linear_model.NewRidge(), X, y,
		NewKFold(3, false, 0), metrics.R2Scorer(),
		0, 0,
	)
	assert.Error(t, err)
}
