package metrics

import (
	"gonum.org/v1/gonum/mat"
)

// ScoreFunc computes a score from true targets and predictions.
type ScoreFunc func(yTrue, yPred *mat.VecDense) (float64, error)

// Scorer pairs a score function with the metadata the evaluation routines
// need: a stable name for logging and result keys, and the direction in
// which the score improves. Loss-like scorers (MSE, log loss) report
// GreaterIsBetter() == false; CVResult and GridSearchCV use the flag to pick
// best folds and candidates.
type Scorer struct {
	name            string
	greaterIsBetter bool
	fn              ScoreFunc
}

// MakeScorer builds a Scorer from a score function.
func MakeScorer(name string, greaterIsBetter bool, fn ScoreFunc) Scorer {
	return Scorer{name: name, greaterIsBetter: greaterIsBetter, fn: fn}
}

// Name returns the scorer's stable name.
func (s Scorer) Name() string { return s.name }

// GreaterIsBetter reports whether larger scores are better.
func (s Scorer) GreaterIsBetter() bool { return s.greaterIsBetter }

// Score applies the score function.
func (s Scorer) Score(yTrue, yPred *mat.VecDense) (float64, error) {
	return s.fn(yTrue, yPred)
}

// Better reports whether score a improves on score b under this scorer's
// direction.
func (s Scorer) Better(a, b float64) bool {
	if s.greaterIsBetter {
		return a > b
	}
	return a < b
}

// R2Scorer scores with the coefficient of determination.
func R2Scorer() Scorer {
	return MakeScorer("r2", true, R2Score)
}

// MSEScorer scores with mean squared error (lower is better).
func MSEScorer() Scorer {
	return MakeScorer("mse", false, MSE)
}

// RMSEScorer scores with root mean squared error (lower is better).
func RMSEScorer() Scorer {
	return MakeScorer("rmse", false, RMSE)
}

// MAEScorer scores with mean absolute error (lower is better).
func MAEScorer() Scorer {
	return MakeScorer("mae", false, MAE)
}

// AccuracyScorer scores with classification accuracy.
func AccuracyScorer() Scorer {
	return MakeScorer("accuracy", true, Accuracy)
}

// F1Scorer scores with the binary F1 score.
func F1Scorer() Scorer {
	return MakeScorer("f1", true, F1Score)
}
