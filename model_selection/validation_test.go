package model_selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/datasets"
	"github.com/YuminosukeSato/evalgo/dummy"
	"github.com/YuminosukeSato/evalgo/linear_model"
	"github.com/YuminosukeSato/evalgo/metrics"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// failingEstimator always fails to fit; used to check error aggregation.
type failingEstimator struct{}

func (f *failingEstimator) Fit(_, _ mat.Matrix) error { return errors.New("fit exploded") }
func (f *failingEstimator) Predict(_ mat.Matrix) (mat.Matrix, error) {
	return nil, errors.New("unreachable")
}
func (f *failingEstimator) Score(_, _ mat.Matrix) (float64, error) {
	return 0, errors.New("unreachable")
}
func (f *failingEstimator) Clone() model.Estimator { return &failingEstimator{} }

func TestCrossValidateRidgeOnLinearData(t *testing.T) {
	X, y, err := datasets.MakeRegression(100, 4, 4, 0.1, 42)
	require.NoError(t, err)

	ridge := linear_model.NewRidge(linear_model.WithAlpha(0.01))
	kf := NewKFold(5, true, 42)

	result, err := CrossValidate(ridge, X, y, kf, metrics.R2Scorer())
	require.NoError(t, err)

	assert.Len(t, result.TestScores, 5)
	assert.Len(t, result.TrainScores, 5)
	assert.Len(t, result.FitTimes, 5)
	assert.Nil(t, result.Models, "models not kept unless requested")

	// Nearly noise-free linear data: every fold should score close to 1.
	for i, s := range result.TestScores {
		assert.Greater(t, s, 0.99, "fold %d", i)
	}
	assert.Greater(t, result.MeanTestScore(), 0.99)
	assert.Less(t, result.StdTestScore(), 0.01)
	assert.Equal(t, "r2", result.ScorerName())
}

func TestCrossValidateReturnModels(t *testing.T) {
	X, y, err := datasets.MakeRegression(60, 3, 3, 0.5, 7)
	require.NoError(t, err)

	result, err := CrossValidate(
		linear_model.NewLinearRegression(), X, y,
		NewKFold(3, false, 0), metrics.R2Scorer(),
		WithReturnModels(),
	)
	require.NoError(t, err)
	require.Len(t, result.Models, 3)

	// Every kept model must be independently fitted and usable.
	for i, m := range result.Models {
		pred, err := m.Predict(X)
		require.NoError(t, err, "model %d", i)
		r, c := pred.Dims()
		assert.Equal(t, 60, r)
		assert.Equal(t, 1, c)
	}
}

func TestCrossValidateSequentialMatchesParallel(t *testing.T) {
	X, y, err := datasets.MakeRegression(80, 3, 3, 1.0, 11)
	require.NoError(t, err)

	ridge := linear_model.NewRidge()
	kf := NewKFold(4, true, 3)

	par, err := CrossValidate(ridge, X, y, kf, metrics.MSEScorer())
	require.NoError(t, err)
	seq, err := CrossValidate(ridge, X, y, kf, metrics.MSEScorer(), WithSequential())
	require.NoError(t, err)

	assert.InDeltaSlice(t, par.TestScores, seq.TestScores, 1e-12)
}

func TestCrossValidatePropagatesFoldError(t *testing.T) {
	X := mat.NewDense(10, 1, nil)
	y := mat.NewDense(10, 1, nil)

	_, err := CrossValidate(&failingEstimator{}, X, y, NewKFold(2, false, 0), metrics.R2Scorer())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fit failed")
}

func TestCrossValidateDimensionMismatch(t *testing.T) {
	X := mat.NewDense(10, 1, nil)
	y := mat.NewDense(8, 1, nil)

	_, err := CrossValidate(linear_model.NewRidge(), X, y, NewKFold(2, false, 0), metrics.R2Scorer())
	require.Error(t, err)

	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}

func TestCrossValScoreBaselineLosesToModel(t *testing.T) {
	X, y, err := datasets.MakeRegression(100, 3, 3, 0.5, 5)
	require.NoError(t, err)

	kf := NewKFold(5, true, 1)

	modelScores, err := CrossValScore(linear_model.NewRidge(), X, y, kf, metrics.R2Scorer())
	require.NoError(t, err)
	baseScores, err := CrossValScore(dummy.NewDummyRegressor(dummy.StrategyMean), X, y, kf, metrics.R2Scorer())
	require.NoError(t, err)

	require.Len(t, modelScores, 5)
	require.Len(t, baseScores, 5)

	// The real model must beat the mean baseline on every fold.
	for i := range modelScores {
		assert.Greater(t, modelScores[i], baseScores[i], "fold %d", i)
	}
}

func TestCVResultBestFoldRespectsScorerDirection(t *testing.T) {
	loss := &CVResult{
		TestScores: []float64{0.5, 0.2, 0.9},
		scorer:     metrics.MSEScorer(),
	}
	assert.Equal(t, 1, loss.BestFold())

	gain := &CVResult{
		TestScores: []float64{0.5, 0.2, 0.9},
		scorer:     metrics.R2Scorer(),
	}
	assert.Equal(t, 2, gain.BestFold())
}
