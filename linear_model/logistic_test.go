package linear_model

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

func TestLogisticRegressionSeparableData(t *testing.T) {
	// Linearly separable along the first axis.
	X := mat.NewDense(8, 1, []float64{-4, -3, -2, -1, 1, 2, 3, 4})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})

	clf := NewLogisticRegression(WithMaxIter(5000), WithLearningRate(0.5))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	acc, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if acc != 1.0 {
		t.Errorf("accuracy on separable data = %v, want 1.0", acc)
	}
}

func TestLogisticRegressionPredictProba(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{-2, -1, -0.5, 0.5, 1, 2})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	clf := NewLogisticRegression(WithMaxIter(2000))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}

	r, c := proba.Dims()
	if r != 6 || c != 2 {
		t.Fatalf("PredictProba() shape = %dx%d, want 6x2", r, c)
	}

	for i := 0; i < r; i++ {
		sum := proba.At(i, 0) + proba.At(i, 1)
		if sum < 0.999999 || sum > 1.000001 {
			t.Errorf("row %d probabilities sum to %v", i, sum)
		}
	}
}

func TestLogisticRegressionRejectsNonBinaryLabels(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{0, 1, 2})

	clf := NewLogisticRegression()
	if err := clf.Fit(X, y); err == nil {
		t.Error("Fit() with label 2 should fail")
	}
}

func TestLogisticRegressionConvergenceWarning(t *testing.T) {
	var warned []error
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
	defer errors.SetWarningHandler(func(w error) {})

	X := mat.NewDense(4, 1, []float64{-2, -1, 1, 2})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	// One iteration cannot converge.
	clf := NewLogisticRegression(WithMaxIter(1), WithTol(1e-12))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if len(warned) != 1 {
		t.Fatalf("expected 1 ConvergenceWarning, got %d", len(warned))
	}
	var cw *errors.ConvergenceWarning
	if !errors.As(warned[0], &cw) {
		t.Errorf("expected ConvergenceWarning, got %T", warned[0])
	}
}
