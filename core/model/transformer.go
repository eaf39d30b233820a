package model

import "gonum.org/v1/gonum/mat"

// Transformer is the interface for data transformations.
type Transformer interface {
	// Fit learns the parameters needed for the transformation.
	Fit(X mat.Matrix) error

	// Transform applies the transformation to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits the transformer and transforms X in one call.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// SupervisedTransformer is a transformer whose fit depends on the target,
// such as univariate feature selection.
type SupervisedTransformer interface {
	// FitWithTarget learns the transformation from X and y.
	FitWithTarget(X, y mat.Matrix) error

	// Transform applies the transformation to X.
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// TransformerCloner is a transformer that can produce an unfitted copy of
// itself. Pipeline steps must satisfy it so pipelines can be cloned per fold.
type TransformerCloner interface {
	CloneTransformer() SupervisedTransformer
}
