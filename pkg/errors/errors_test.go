package errors

import (
	"strings"
	"sync"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("Ridge", "Predict")

	var nfe *NotFittedError
	if !As(err, &nfe) {
		t.Fatalf("expected NotFittedError, got %T", err)
	}
	if nfe.ModelName != "Ridge" || nfe.Method != "Predict" {
		t.Errorf("unexpected fields: %+v", nfe)
	}
	if !strings.Contains(err.Error(), "not fitted yet") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestDimensionError(t *testing.T) {
	tests := []struct {
		name string
		axis int
		want string
	}{
		{name: "rows axis", axis: 0, want: "rows"},
		{name: "features axis", axis: 1, want: "features"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("CrossValidate", 10, 7, tt.axis)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("DimensionError message %q does not mention %q", err.Error(), tt.want)
			}

			var de *DimensionError
			if !As(err, &de) {
				t.Fatalf("expected DimensionError, got %T", err)
			}
			if de.Expected != 10 || de.Got != 7 {
				t.Errorf("unexpected fields: %+v", de)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("n_splits", "must be at least 2", 1)
	if !strings.Contains(err.Error(), "n_splits") {
		t.Errorf("unexpected message: %v", err)
	}

	var ve *ValidationError
	if !As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestWarnUsesHandler(t *testing.T) {
	var mu sync.Mutex
	var captured []error

	old := func(w error) {}
	SetWarningHandler(func(w error) {
		mu.Lock()
		captured = append(captured, w)
		mu.Unlock()
	})
	defer SetWarningHandler(old)

	w := NewUndefinedMetricWarning("precision", "no predicted positives", 0.0)
	Warn(w)

	mu.Lock()
	defer mu.Unlock()
	if len(captured) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(captured))
	}
	if !strings.Contains(captured[0].Error(), "ill-defined") {
		t.Errorf("unexpected warning message: %v", captured[0])
	}
}

func TestWrapPreservesType(t *testing.T) {
	base := NewNotFittedError("Pipeline", "Score")
	wrapped := Wrap(base, "scoring fold 3")

	var nfe *NotFittedError
	if !As(wrapped, &nfe) {
		t.Fatalf("wrapping lost the error type: %v", wrapped)
	}
}
