package model_selection

import (
	"log/slog"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/core/parallel"
	"github.com/YuminosukeSato/evalgo/metrics"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
	evallog "github.com/YuminosukeSato/evalgo/pkg/log"
)

// CurveResult holds scores collected over a swept axis (training size or a
// hyperparameter value). Scores are indexed [step][fold].
type CurveResult struct {
	// Steps describes the swept axis: absolute training sizes for a
	// learning curve, candidate index for a validation curve.
	Steps []float64

	TrainScores [][]float64
	TestScores  [][]float64
}

// MeanTrainScores returns the per-step mean train score.
func (c *CurveResult) MeanTrainScores() []float64 {
	return meansOf(c.TrainScores)
}

// MeanTestScores returns the per-step mean test score.
func (c *CurveResult) MeanTestScores() []float64 {
	return meansOf(c.TestScores)
}

// StdTestScores returns the per-step test-score standard deviation.
func (c *CurveResult) StdTestScores() []float64 {
	out := make([]float64, len(c.TestScores))
	for i, scores := range c.TestScores {
		if len(scores) > 1 {
			out[i] = stat.StdDev(scores, nil)
		}
	}
	return out
}

func meansOf(scores [][]float64) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		if len(s) > 0 {
			out[i] = stat.Mean(s, nil)
		}
	}
	return out
}

// LearningCurve measures train and test scores as a function of the number
// of training samples. For every fold of the splitter and every fraction in
// trainFractions, the estimator is fitted on a random subsample of the
// fold's training set and scored on that subsample and on the fold's test
// set. The subsampling is driven by seed and reproducible.
func LearningCurve(est model.CloneableEstimator, X, y mat.Matrix, trainFractions []float64, splitter Splitter, scorer metrics.Scorer, seed uint64) (*CurveResult, error) {
	if len(trainFractions) == 0 {
		return nil, errors.NewValidationError("train_fractions", "must not be empty", trainFractions)
	}
	for _, f := range trainFractions {
		if f <= 0 || f > 1 {
			return nil, errors.NewValidationError("train_fractions", "fractions must be in (0, 1]", f)
		}
	}

	folds, err := splitter.Split(X, y)
	if err != nil {
		return nil, errors.Wrap(err, "LearningCurve: splitting failed")
	}
	nFolds := len(folds)
	nSteps := len(trainFractions)

	result := &CurveResult{
		Steps:       make([]float64, nSteps),
		TrainScores: make([][]float64, nSteps),
		TestScores:  make([][]float64, nSteps),
	}
	for s := range trainFractions {
		result.TrainScores[s] = make([]float64, nFolds)
		result.TestScores[s] = make([]float64, nFolds)
	}

	// Pre-shuffle each fold's training indices once so every step of the
	// sweep nests inside the next: growing the budget only adds samples.
	shuffled := make([][]int, nFolds)
	for f, fold := range folds {
		idx := make([]int, len(fold.TrainIndices))
		copy(idx, fold.TrainIndices)
		r := rand.New(rand.NewPCG(seed, uint64(f)))
		r.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
		shuffled[f] = idx
	}

	// Record the step sizes from fold 0; folds differ by at most one
	// sample.
	for s, frac := range trainFractions {
		n := int(frac * float64(len(shuffled[0])))
		if n < 1 {
			n = 1
		}
		result.Steps[s] = float64(n)
	}

	jobs := nSteps * nFolds
	jobErrs := make([]error, jobs)

	parallel.Parallelize(jobs, func(start, end int) {
		for job := start; job < end; job++ {
			s := job / nFolds
			f := job % nFolds

			nTrain := int(trainFractions[s] * float64(len(shuffled[f])))
			if nTrain < 1 {
				nTrain = 1
			}
			trainIdx := shuffled[f][:nTrain]

			trainX, trainY := subset(X, y, trainIdx)
			testX, testY := subset(X, y, folds[f].TestIndices)

			clone := est.Clone()
			if err := clone.Fit(trainX, trainY); err != nil {
				jobErrs[job] = errors.Wrapf(err, "learning curve: size %d fold %d: fit failed", nTrain, f)
				continue
			}

			trainScore, err := scoreEstimator(clone, trainX, trainY, scorer)
			if err != nil {
				jobErrs[job] = errors.Wrapf(err, "learning curve: size %d fold %d: train scoring failed", nTrain, f)
				continue
			}
			testScore, err := scoreEstimator(clone, testX, testY, scorer)
			if err != nil {
				jobErrs[job] = errors.Wrapf(err, "learning curve: size %d fold %d: test scoring failed", nTrain, f)
				continue
			}

			result.TrainScores[s][f] = trainScore
			result.TestScores[s][f] = testScore
		}
	})

	for _, err := range jobErrs {
		if err != nil {
			return nil, err
		}
	}

	logger := slog.Default().With(
		evallog.ComponentKey, "model_selection",
		evallog.SplitterKey, splitter.Name(),
		evallog.ScorerKey, scorer.Name(),
	)
	means := result.MeanTestScores()
	for s, size := range result.Steps {
		logger.Debug("learning curve step finished",
			evallog.TrainSizeKey, int(size),
			evallog.ScoreKey, means[s],
		)
	}

	return result, nil
}

// ValidationCurve measures train and test scores as a function of a single
// hyperparameter. Steps holds the candidate index; pair it with paramRange
// when plotting.
func ValidationCurve(est model.Tunable, X, y mat.Matrix, paramName string, paramRange []interface{}, splitter Splitter, scorer metrics.Scorer) (*CurveResult, error) {
	if len(paramRange) == 0 {
		return nil, errors.NewValidationError("param_range", "must not be empty", paramRange)
	}

	result := &CurveResult{
		Steps:       make([]float64, len(paramRange)),
		TrainScores: make([][]float64, len(paramRange)),
		TestScores:  make([][]float64, len(paramRange)),
	}

	for i, value := range paramRange {
		result.Steps[i] = float64(i)

		clone, ok := est.Clone().(model.Tunable)
		if !ok {
			return nil, errors.NewValueError("ValidationCurve", "estimator clone does not support parameter setting")
		}
		if err := clone.SetParams(map[string]interface{}{paramName: value}); err != nil {
			return nil, errors.Wrapf(err, "validation curve: candidate %d", i)
		}

		cvResult, err := CrossValidate(clone, X, y, splitter, scorer)
		if err != nil {
			return nil, errors.Wrapf(err, "validation curve: candidate %d", i)
		}

		result.TrainScores[i] = cvResult.TrainScores
		result.TestScores[i] = cvResult.TestScores
	}

	return result, nil
}
