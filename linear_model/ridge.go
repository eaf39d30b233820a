package linear_model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/metrics"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// Ridge is a linear regression model with L2 regularization. The alpha
// parameter is the regularization strength and the usual grid-search knob.
type Ridge struct {
	state *model.StateManager

	alpha        float64
	fitIntercept bool

	coef_      []float64
	intercept_ float64
	nFeatures_ int
}

// RidgeOption configures a Ridge model.
type RidgeOption func(*Ridge)

// WithAlpha sets the regularization strength. Must be non-negative.
func WithAlpha(alpha float64) RidgeOption {
	return func(r *Ridge) {
		r.alpha = alpha
	}
}

// WithRidgeFitIntercept controls whether the intercept is learned.
func WithRidgeFitIntercept(fit bool) RidgeOption {
	return func(r *Ridge) {
		r.fitIntercept = fit
	}
}

// NewRidge creates a new Ridge model. The default alpha is 1.0.
func NewRidge(options ...RidgeOption) *Ridge {
	r := &Ridge{
		state:        model.NewStateManager(),
		alpha:        1.0,
		fitIntercept: true,
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

// Fit solves the regularized normal equations
// (XᵀX + αI) w = Xᵀy on centered data. The intercept is never penalized.
func (r *Ridge) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows != yRows {
		return errors.NewDimensionError("Ridge.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("Ridge.Fit", 1, yCols, 1)
	}
	if rows == 0 {
		return errors.NewModelError("Ridge.Fit", "empty data", errors.ErrEmptyData)
	}
	if r.alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", r.alpha)
	}

	r.nFeatures_ = cols

	// Centering removes the intercept from the penalized system.
	xMean := make([]float64, cols)
	yMean := 0.0
	if r.fitIntercept {
		for j := 0; j < cols; j++ {
			for i := 0; i < rows; i++ {
				xMean[j] += X.At(i, j)
			}
			xMean[j] /= float64(rows)
		}
		for i := 0; i < rows; i++ {
			yMean += y.At(i, 0)
		}
		yMean /= float64(rows)
	}

	Xc := mat.NewDense(rows, cols, nil)
	yc := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			Xc.Set(i, j, X.At(i, j)-xMean[j])
		}
		yc.SetVec(i, y.At(i, 0)-yMean)
	}

	// A = XᵀX + αI, b = Xᵀy
	A := mat.NewDense(cols, cols, nil)
	A.Mul(Xc.T(), Xc)
	for j := 0; j < cols; j++ {
		A.Set(j, j, A.At(j, j)+r.alpha)
	}

	b := mat.NewVecDense(cols, nil)
	b.MulVec(Xc.T(), yc)

	w := mat.NewVecDense(cols, nil)
	if err := w.SolveVec(A, b); err != nil {
		return errors.NewModelError("Ridge.Fit", "singular system", errors.ErrSingularMatrix)
	}

	r.coef_ = make([]float64, cols)
	for j := 0; j < cols; j++ {
		r.coef_[j] = w.AtVec(j)
	}

	r.intercept_ = 0
	if r.fitIntercept {
		r.intercept_ = yMean
		for j := 0; j < cols; j++ {
			r.intercept_ -= r.coef_[j] * xMean[j]
		}
	}

	r.state.SetDimensions(cols, rows)
	r.state.SetFitted()
	return nil
}

// Predict returns predictions for the rows of X.
func (r *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.state.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}

	rows, cols := X.Dims()
	if cols != r.nFeatures_ {
		return nil, errors.NewDimensionError("Ridge.Predict", r.nFeatures_, cols, 1)
	}

	pred := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		v := r.intercept_
		for j := 0; j < cols; j++ {
			v += r.coef_[j] * X.At(i, j)
		}
		pred.Set(i, 0, v)
	}

	return pred, nil
}

// Score returns the coefficient of determination R² on X, y.
func (r *Ridge) Score(X, y mat.Matrix) (float64, error) {
	pred, err := r.Predict(X)
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

// Alpha returns the regularization strength.
func (r *Ridge) Alpha() float64 {
	return r.alpha
}

// Coef returns the learned coefficients.
func (r *Ridge) Coef() []float64 {
	out := make([]float64, len(r.coef_))
	copy(out, r.coef_)
	return out
}

// Intercept returns the learned intercept.
func (r *Ridge) Intercept() float64 {
	return r.intercept_
}

// Clone returns an unfitted copy with the same hyperparameters.
func (r *Ridge) Clone() model.Estimator {
	return NewRidge(WithAlpha(r.alpha), WithRidgeFitIntercept(r.fitIntercept))
}

// GetParams returns the model's hyperparameters.
func (r *Ridge) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":         r.alpha,
		"fit_intercept": r.fitIntercept,
	}
}

// SetParams sets the model's hyperparameters.
func (r *Ridge) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		switch name {
		case "alpha":
			f, ok := toFloat(value)
			if !ok {
				return errors.NewValidationError(name, "must be a number", value)
			}
			if f < 0 {
				return errors.NewValidationError(name, "must be non-negative", value)
			}
			r.alpha = f
		case "fit_intercept":
			b, ok := value.(bool)
			if !ok {
				return errors.NewValidationError(name, "must be a bool", value)
			}
			r.fitIntercept = b
		default:
			return errors.NewValidationError(name, "unknown parameter for Ridge", value)
		}
	}
	return nil
}

// toFloat widens the numeric types a parameter grid may carry.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
