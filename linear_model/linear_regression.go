// Package linear_model provides linear estimators used to exercise the
// evaluation routines: ordinary least squares, ridge regression, and a
// binary logistic regression.
package linear_model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/metrics"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// LinearRegression is an ordinary least squares model solved by QR
// factorization, compatible with scikit-learn's LinearRegression.
type LinearRegression struct {
	state *model.StateManager

	fitIntercept bool

	coef_      []float64
	intercept_ float64
	nFeatures_ int
}

// LinearRegressionOption configures a LinearRegression.
type LinearRegressionOption func(*LinearRegression)

// WithLRFitIntercept controls whether the intercept is learned.
func WithLRFitIntercept(fit bool) LinearRegressionOption {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// NewLinearRegression creates a new LinearRegression model.
func NewLinearRegression(options ...LinearRegressionOption) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager(),
		fitIntercept: true,
	}

	for _, opt := range options {
		opt(lr)
	}

	return lr
}

// Fit trains the model on X and y.
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows != yRows {
		return errors.NewDimensionError("LinearRegression.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LinearRegression.Fit", 1, yCols, 1)
	}
	if rows == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}

	lr.nFeatures_ = cols

	var XFit mat.Matrix
	if lr.fitIntercept {
		// Prepend a bias column of ones.
		XWithIntercept := mat.NewDense(rows, cols+1, nil)
		for i := 0; i < rows; i++ {
			XWithIntercept.Set(i, 0, 1.0)
			for j := 0; j < cols; j++ {
				XWithIntercept.Set(i, j+1, X.At(i, j))
			}
		}
		XFit = XWithIntercept
	} else {
		XFit = X
	}

	// QR is numerically stabler than the normal equations.
	var qr mat.QR
	qr.Factorize(mat.DenseCopyOf(XFit))

	_, fitCols := XFit.Dims()
	theta := mat.NewDense(fitCols, 1, nil)
	if err := qr.SolveTo(theta, false, mat.DenseCopyOf(y)); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "QR solve failed", err)
	}

	if lr.fitIntercept {
		lr.intercept_ = theta.At(0, 0)
		lr.coef_ = make([]float64, cols)
		for j := 0; j < cols; j++ {
			lr.coef_[j] = theta.At(j+1, 0)
		}
	} else {
		lr.intercept_ = 0
		lr.coef_ = make([]float64, cols)
		for j := 0; j < cols; j++ {
			lr.coef_[j] = theta.At(j, 0)
		}
	}

	lr.state.SetDimensions(cols, rows)
	lr.state.SetFitted()
	return nil
}

// Predict returns predictions for the rows of X.
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	rows, cols := X.Dims()
	if cols != lr.nFeatures_ {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.nFeatures_, cols, 1)
	}

	pred := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		v := lr.intercept_
		for j := 0; j < cols; j++ {
			v += lr.coef_[j] * X.At(i, j)
		}
		pred.Set(i, 0, v)
	}

	return pred, nil
}

// Score returns the coefficient of determination R² on X, y.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
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

	return metrics.R2Score(yVec, predVec)
}

// Coef returns the learned coefficients.
func (lr *LinearRegression) Coef() []float64 {
	out := make([]float64, len(lr.coef_))
	copy(out, lr.coef_)
	return out
}

// Intercept returns the learned intercept.
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept_
}

// Clone returns an unfitted copy with the same hyperparameters.
func (lr *LinearRegression) Clone() model.Estimator {
	return NewLinearRegression(WithLRFitIntercept(lr.fitIntercept))
}

// GetParams returns the model's hyperparameters.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.fitIntercept,
	}
}

// SetParams sets the model's hyperparameters.
func (lr *LinearRegression) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		switch name {
		case "fit_intercept":
			b, ok := value.(bool)
			if !ok {
				return errors.NewValidationError(name, "must be a bool", value)
			}
			lr.fitIntercept = b
		default:
			return errors.NewValidationError(name, "unknown parameter for LinearRegression", value)
		}
	}
	return nil
}
