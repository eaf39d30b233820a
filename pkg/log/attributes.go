// Package log defines standard attribute keys for model-evaluation logging.
//
// Using these keys consistently makes evaluation runs easy to filter:
// every fold, grid-search candidate, and permutation round logs through the
// same vocabulary. The keys follow a hierarchical naming convention
// (e.g. "model.name", "cv.fold") for structured log analysis.
package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of estimator.
	// Examples: "Ridge", "DummyRegressor", "Pipeline"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "transform", "split"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "model_selection", "feature_selection", "metrics"
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey is the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Evaluation context. These are the attributes specific to cross-validation
// and resampling runs.
const (
	// FoldKey is the zero-based index of the current fold.
	FoldKey = "cv.fold"

	// NumSplitsKey is the total number of splits of the active splitter.
	NumSplitsKey = "cv.n_splits"

	// SplitterKey names the splitter in use. Examples: "KFold", "LeaveOneOut"
	SplitterKey = "cv.splitter"

	// ScorerKey names the scoring function. Examples: "r2", "mse"
	ScorerKey = "cv.scorer"

	// CandidateKey is the index of the grid-search candidate being evaluated.
	CandidateKey = "search.candidate"

	// ParamsKey carries the candidate's parameter assignment.
	ParamsKey = "search.params"

	// TrainSizeKey is the number of training samples of a learning-curve step.
	TrainSizeKey = "curve.train_size"

	// PermutationKey is the index of the current label permutation.
	PermutationKey = "perm.round"
)

// Performance.
const (
	// DurationMsKey is the wall time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// ScoreKey is a computed score value.
	ScoreKey = "perf.score"
)
