package linear_model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/metrics"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// LogisticRegression is a binary logistic regression trained by batch
// gradient descent. Labels must be 0 and 1.
type LogisticRegression struct {
	state *model.StateManager

	learningRate float64
	maxIter      int
	tol          float64

	coef_      []float64
	intercept_ float64
	nFeatures_ int
	nIter_     int
}

// LogisticRegressionOption configures a LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// WithLearningRate sets the gradient-descent step size.
func WithLearningRate(lr float64) LogisticRegressionOption {
	return func(l *LogisticRegression) {
		l.learningRate = lr
	}
}

// WithMaxIter sets the iteration budget.
func WithMaxIter(n int) LogisticRegressionOption {
	return func(l *LogisticRegression) {
		l.maxIter = n
	}
}

// WithTol sets the convergence tolerance on the gradient norm.
func WithTol(tol float64) LogisticRegressionOption {
	return func(l *LogisticRegression) {
		l.tol = tol
	}
}

// NewLogisticRegression creates a new LogisticRegression model.
func NewLogisticRegression(options ...LogisticRegressionOption) *LogisticRegression {
	l := &LogisticRegression{
		state:        model.NewStateManager(),
		learningRate: 0.1,
		maxIter:      1000,
		tol:          1e-4,
	}

	for _, opt := range options {
		opt(l)
	}

	return l
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Fit trains the model. Emits a ConvergenceWarning when the gradient norm
// has not reached tol within maxIter iterations.
func (l *LogisticRegression) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows != yRows {
		return errors.NewDimensionError("LogisticRegression.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}
	if rows == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}

	for i := 0; i < rows; i++ {
		if v := y.At(i, 0); v != 0 && v != 1 {
			return errors.NewValueError("LogisticRegression.Fit", "labels must be 0 or 1")
		}
	}

	l.nFeatures_ = cols
	l.coef_ = make([]float64, cols)
	l.intercept_ = 0

	grad := make([]float64, cols)
	converged := false

	for iter := 0; iter < l.maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < rows; i++ {
			z := l.intercept_
			for j := 0; j < cols; j++ {
				z += l.coef_[j] * X.At(i, j)
			}
			residual := sigmoid(z) - y.At(i, 0)

			gradIntercept += residual
			for j := 0; j < cols; j++ {
				grad[j] += residual * X.At(i, j)
			}
		}

		gradNorm := gradIntercept * gradIntercept
		for j := 0; j < cols; j++ {
			gradNorm += grad[j] * grad[j]
		}
		gradNorm = math.Sqrt(gradNorm) / float64(rows)

		l.intercept_ -= l.learningRate * gradIntercept / float64(rows)
		for j := 0; j < cols; j++ {
			l.coef_[j] -= l.learningRate * grad[j] / float64(rows)
		}

		l.nIter_ = iter + 1
		if gradNorm < l.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", l.maxIter, ""))
	}

	l.state.SetDimensions(cols, rows)
	l.state.SetFitted()
	return nil
}

// PredictProba returns two columns of class probabilities, P(y=0) and
// P(y=1).
func (l *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !l.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProba")
	}

	rows, cols := X.Dims()
	if cols != l.nFeatures_ {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", l.nFeatures_, cols, 1)
	}

	proba := mat.NewDense(rows, 2, nil)
	for i := 0; i < rows; i++ {
		z := l.intercept_
		for j := 0; j < cols; j++ {
			z += l.coef_[j] * X.At(i, j)
		}
		p := sigmoid(z)
		proba.Set(i, 0, 1-p)
		proba.Set(i, 1, p)
	}

	return proba, nil
}

// Predict returns hard 0/1 labels for the rows of X.
func (l *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := l.PredictProba(X)
	if err != nil {
		return nil, err
	}

	rows, _ := proba.Dims()
	pred := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		if proba.At(i, 1) > 0.5 {
			pred.Set(i, 0, 1)
		}
	}

	return pred, nil
}

// Score returns accuracy on X, y.
func (l *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := l.Predict(X)
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

	return metrics.Accuracy(yVec, predVec)
}

// Classes returns the class labels the model predicts.
func (l *LogisticRegression) Classes() []int {
	return []int{0, 1}
}

// NIter returns the number of gradient-descent iterations run by Fit.
func (l *LogisticRegression) NIter() int {
	return l.nIter_
}

// Clone returns an unfitted copy with the same hyperparameters.
func (l *LogisticRegression) Clone() model.Estimator {
	return NewLogisticRegression(
		WithLearningRate(l.learningRate),
		WithMaxIter(l.maxIter),
		WithTol(l.tol),
	)
}

// GetParams returns the model's hyperparameters.
func (l *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate": l.learningRate,
		"max_iter":      l.maxIter,
		"tol":           l.tol,
	}
}

// SetParams sets the model's hyperparameters.
func (l *LogisticRegression) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		switch name {
		case "learning_rate":
			f, ok := toFloat(value)
			if !ok || f <= 0 {
				return errors.NewValidationError(name, "must be a positive number", value)
			}
			l.learningRate = f
		case "max_iter":
			n, ok := value.(int)
			if !ok || n < 1 {
				return errors.NewValidationError(name, "must be a positive int", value)
			}
			l.maxIter = n
		case "tol":
			f, ok := toFloat(value)
			if !ok || f <= 0 {
				return errors.NewValidationError(name, "must be a positive number", value)
			}
			l.tol = f
		default:
			return errors.NewValidationError(name, "unknown parameter for LogisticRegression", value)
		}
	}
	return nil
}
