package linear_model

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

func TestLinearRegressionExactFit(t *testing.T) {
	// y = 2x + 1
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	coef := lr.Coef()
	if math.Abs(coef[0]-2) > 1e-8 {
		t.Errorf("coef = %v, want 2", coef[0])
	}
	if math.Abs(lr.Intercept()-1) > 1e-8 {
		t.Errorf("intercept = %v, want 1", lr.Intercept())
	}

	score, err := lr.Score(X, y)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if math.Abs(score-1) > 1e-10 {
		t.Errorf("Score() = %v, want 1", score)
	}
}

func TestLinearRegressionNoIntercept(t *testing.T) {
	// y = 3x through the origin
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{3, 6, 9})

	lr := NewLinearRegression(WithLRFitIntercept(false))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if math.Abs(lr.Coef()[0]-3) > 1e-8 {
		t.Errorf("coef = %v, want 3", lr.Coef()[0])
	}
	if lr.Intercept() != 0 {
		t.Errorf("intercept = %v, want 0", lr.Intercept())
	}
}

func TestLinearRegressionNotFitted(t *testing.T) {
	lr := NewLinearRegression()
	_, err := lr.Predict(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("Predict() before Fit() should fail")
	}

	var nfe *errors.NotFittedError
	if !errors.As(err, &nfe) {
		t.Errorf("expected NotFittedError, got %T", err)
	}
}

func TestLinearRegressionDimensionChecks(t *testing.T) {
	lr := NewLinearRegression()

	X := mat.NewDense(3, 2, nil)
	y := mat.NewDense(4, 1, nil)
	if err := lr.Fit(X, y); err == nil {
		t.Error("Fit() with mismatched rows should fail")
	}

	y = mat.NewDense(3, 2, nil)
	if err := lr.Fit(X, y); err == nil {
		t.Error("Fit() with a two-column target should fail")
	}
}

func TestLinearRegressionClone(t *testing.T) {
	lr := NewLinearRegression(WithLRFitIntercept(false))
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{3, 6, 9})
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	clone := lr.Clone()
	if _, err := clone.Predict(X); err == nil {
		t.Error("clone must be unfitted")
	}

	params := clone.(*LinearRegression).GetParams()
	if params["fit_intercept"] != false {
		t.Errorf("clone lost hyperparameters: %v", params)
	}
}
