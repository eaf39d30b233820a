// Package model provides the estimator interfaces and shared state types
// that the evaluation routines in model_selection operate on.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Cloner is the interface for estimators that can produce an unfitted copy
// of themselves with identical hyperparameters. Every cross-validation
// routine clones the supplied estimator once per fold so that folds never
// share fitted state.
type Cloner interface {
	Clone() Estimator
}

// CloneableEstimator is the contract the cross-validation routines require:
// a fittable, predictable, scorable estimator that can be copied per fold.
type CloneableEstimator interface {
	Estimator
	Cloner
}

// Regressor combines the interfaces satisfied by regression estimators.
type Regressor interface {
	CloneableEstimator
}

// Classifier combines the interfaces satisfied by classification estimators.
type Classifier interface {
	CloneableEstimator

	// PredictProba returns probability estimates for each class,
	// one column per class in the order reported by Classes.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// ParameterGetter is the interface for estimators that expose their
// hyperparameters. GridSearchCV reads candidate grids against these names.
type ParameterGetter interface {
	// GetParams returns the estimator's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for estimators whose hyperparameters can
// be modified after construction. GridSearchCV requires it.
type ParameterSetter interface {
	// SetParams sets the estimator's hyperparameters.
	SetParams(params map[string]interface{}) error
}

// Tunable is what GridSearchCV needs from a candidate estimator.
type Tunable interface {
	Estimator
	Cloner
	ParameterGetter
	ParameterSetter
}
