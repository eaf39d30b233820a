package model_selection

import (
	"log/slog"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/metrics"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
	evallog "github.com/YuminosukeSato/evalgo/pkg/log"
)

// CVResult stores per-fold cross-validation results.
type CVResult struct {
	TrainScores []float64
	TestScores  []float64
	FitTimes    []time.Duration
	ScoreTimes  []time.Duration

	// Models holds the per-fold fitted estimators when requested via
	// WithReturnModels.
	Models []model.Estimator

	scorer metrics.Scorer
}

// ScorerName returns the name of the scorer that produced the scores.
func (cv *CVResult) ScorerName() string { return cv.scorer.Name() }

// MeanTestScore returns the mean of the per-fold test scores.
func (cv *CVResult) MeanTestScore() float64 {
	if len(cv.TestScores) == 0 {
		return 0
	}
	return stat.Mean(cv.TestScores, nil)
}

// StdTestScore returns the sample standard deviation of the test scores.
func (cv *CVResult) StdTestScore() float64 {
	if len(cv.TestScores) <= 1 {
		return 0
	}
	return stat.StdDev(cv.TestScores, nil)
}

// MeanTrainScore returns the mean of the per-fold train scores.
func (cv *CVResult) MeanTrainScore() float64 {
	if len(cv.TrainScores) == 0 {
		return 0
	}
	return stat.Mean(cv.TrainScores, nil)
}

// BestFold returns the index of the fold with the best test score under
// the scorer's direction.
func (cv *CVResult) BestFold() int {
	best := 0
	for i := 1; i < len(cv.TestScores); i++ {
		if cv.scorer.Better(cv.TestScores[i], cv.TestScores[best]) {
			best = i
		}
	}
	return best
}

// cvConfig carries CrossValidate options.
type cvConfig struct {
	returnModels bool
	sequential   bool
}

// CVOption configures CrossValidate.
type CVOption func(*cvConfig)

// WithReturnModels keeps the fitted estimator of every fold in the result.
func WithReturnModels() CVOption {
	return func(c *cvConfig) { c.returnModels = true }
}

// WithSequential disables the per-fold goroutines. Useful when the
// estimator itself parallelizes, or for deterministic profiling.
func WithSequential() CVOption {
	return func(c *cvConfig) { c.sequential = true }
}

// CrossValidate evaluates an estimator by cross-validation. The estimator
// is cloned once per fold so folds never share fitted state; folds run on
// one goroutine each unless WithSequential is given.
func CrossValidate(est model.CloneableEstimator, X, y mat.Matrix, splitter Splitter, scorer metrics.Scorer, opts ...CVOption) (*CVResult, error) {
	cfg := cvConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	xRows, xCols := X.Dims()
	yRows, _ := y.Dims()
	if xRows != yRows {
		return nil, errors.NewDimensionError("CrossValidate", xRows, yRows, 0)
	}

	folds, err := splitter.Split(X, y)
	if err != nil {
		return nil, errors.Wrap(err, "CrossValidate: splitting failed")
	}
	nFolds := len(folds)

	logger := slog.Default().With(
		evallog.ComponentKey, "model_selection",
		evallog.SplitterKey, splitter.Name(),
		evallog.ScorerKey, scorer.Name(),
		evallog.SamplesKey, xRows,
		evallog.FeaturesKey, xCols,
	)
	logger.Debug("cross-validation started", evallog.NumSplitsKey, nFolds)

	result := &CVResult{
		TrainScores: make([]float64, nFolds),
		TestScores:  make([]float64, nFolds),
		FitTimes:    make([]time.Duration, nFolds),
		ScoreTimes:  make([]time.Duration, nFolds),
		scorer:      scorer,
	}
	if cfg.returnModels {
		result.Models = make([]model.Estimator, nFolds)
	}

	foldErrs := make([]error, nFolds)

	runFold := func(idx int) {
		fold := folds[idx]

		trainX, trainY := subset(X, y, fold.TrainIndices)
		testX, testY := subset(X, y, fold.TestIndices)

		clone := est.Clone()

		fitStart := time.Now()
		if err := clone.Fit(trainX, trainY); err != nil {
			foldErrs[idx] = errors.Wrapf(err, "fold %d: fit failed", idx)
			return
		}
		result.FitTimes[idx] = time.Since(fitStart)

		scoreStart := time.Now()
		trainScore, err := scoreEstimator(clone, trainX, trainY, scorer)
		if err != nil {
			foldErrs[idx] = errors.Wrapf(err, "fold %d: train scoring failed", idx)
			return
		}
		testScore, err := scoreEstimator(clone, testX, testY, scorer)
		if err != nil {
			foldErrs[idx] = errors.Wrapf(err, "fold %d: test scoring failed", idx)
			return
		}
		result.ScoreTimes[idx] = time.Since(scoreStart)

		result.TrainScores[idx] = trainScore
		result.TestScores[idx] = testScore
		if cfg.returnModels {
			result.Models[idx] = clone
		}

		logger.Debug("fold finished",
			evallog.FoldKey, idx,
			evallog.ScoreKey, testScore,
			evallog.DurationMsKey, result.FitTimes[idx].Milliseconds(),
		)
	}

	if cfg.sequential {
		for i := 0; i < nFolds; i++ {
			runFold(i)
		}
	} else {
		var wg sync.WaitGroup
		for i := 0; i < nFolds; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				runFold(idx)
			}(i)
		}
		wg.Wait()
	}

	for _, err := range foldErrs {
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("cross-validation finished",
		evallog.ScoreKey, result.MeanTestScore(),
	)
	return result, nil
}

// CrossValScore runs CrossValidate and returns only the test scores.
func CrossValScore(est model.CloneableEstimator, X, y mat.Matrix, splitter Splitter, scorer metrics.Scorer) ([]float64, error) {
	result, err := CrossValidate(est, X, y, splitter, scorer)
	if err != nil {
		return nil, err
	}
	return result.TestScores, nil
}

// scoreEstimator applies a scorer to an estimator's predictions.
func scoreEstimator(est model.Estimator, X, y mat.Matrix, scorer metrics.Scorer) (float64, error) {
	pred, err := est.Predict(X)
	if err != nil {
		return 0, err
	}

	yVec, err := metrics.AsVector(y)
	if err != nil {
		return 0, err
	}
	predVec, err := metrics.AsVector(pred)
	if err != nil {
		return 0, err
	}

	return scorer.Score(yVec, predVec)
}
