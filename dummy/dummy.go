// Package dummy provides trivial baseline estimators. A model that cannot
// beat its dummy counterpart under cross-validation has learned nothing;
// every evaluation report should include one.
package dummy

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/metrics"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// RegressorStrategy selects how DummyRegressor predicts.
type RegressorStrategy string

const (
	// StrategyMean predicts the training mean.
	StrategyMean RegressorStrategy = "mean"
	// StrategyMedian predicts the training median.
	StrategyMedian RegressorStrategy = "median"
	// StrategyConstantReg predicts a user-supplied constant.
	StrategyConstantReg RegressorStrategy = "constant"
)

// DummyRegressor ignores the features entirely.
type DummyRegressor struct {
	model.BaseEstimator

	Strategy RegressorStrategy
	Constant float64

	value float64
}

// NewDummyRegressor creates a DummyRegressor with the given strategy.
func NewDummyRegressor(strategy RegressorStrategy) *DummyRegressor {
	return &DummyRegressor{Strategy: strategy}
}

// Fit learns the constant prediction from y. X is only shape-checked.
func (d *DummyRegressor) Fit(X, y mat.Matrix) error {
	rows, _ := X.Dims()
	yRows, yCols := y.Dims()

	if rows != yRows {
		return errors.NewDimensionError("DummyRegressor.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("DummyRegressor.Fit", 1, yCols, 1)
	}
	if rows == 0 {
		return errors.NewModelError("DummyRegressor.Fit", "empty data", errors.ErrEmptyData)
	}

	switch d.Strategy {
	case StrategyMean:
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += y.At(i, 0)
		}
		d.value = sum / float64(rows)
	case StrategyMedian:
		vals := make([]float64, rows)
		for i := 0; i < rows; i++ {
			vals[i] = y.At(i, 0)
		}
		sort.Float64s(vals)
		if rows%2 == 1 {
			d.value = vals[rows/2]
		} else {
			d.value = (vals[rows/2-1] + vals[rows/2]) / 2
		}
	case StrategyConstantReg:
		d.value = d.Constant
	default:
		return errors.NewValidationError("strategy", "unknown regressor strategy", string(d.Strategy))
	}

	d.SetFitted()
	return nil
}

// Predict returns the learned constant for every row of X.
func (d *DummyRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !d.IsFitted() {
		return nil, errors.NewNotFittedError("DummyRegressor", "Predict")
	}

	rows, _ := X.Dims()
	pred := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		pred.Set(i, 0, d.value)
	}
	return pred, nil
}

// Score returns R² on X, y. For the mean strategy this is at most 0 on
// held-out data, which is exactly what makes it a useful floor.
func (d *DummyRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := d.Predict(X)
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

// Clone returns an unfitted copy with the same strategy.
func (d *DummyRegressor) Clone() model.Estimator {
	c := NewDummyRegressor(d.Strategy)
	c.Constant = d.Constant
	return c
}

// GetParams returns the estimator's hyperparameters.
func (d *DummyRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"strategy": string(d.Strategy),
		"constant": d.Constant,
	}
}

// SetParams sets the estimator's hyperparameters.
func (d *DummyRegressor) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		switch name {
		case "strategy":
			s, ok := value.(string)
			if !ok {
				return errors.NewValidationError(name, "must be a string", value)
			}
			d.Strategy = RegressorStrategy(s)
		case "constant":
			f, ok := value.(float64)
			if !ok {
				return errors.NewValidationError(name, "must be a float64", value)
			}
			d.Constant = f
		default:
			return errors.NewValidationError(name, "unknown parameter for DummyRegressor", value)
		}
	}
	return nil
}

// ClassifierStrategy selects how DummyClassifier predicts.
type ClassifierStrategy string

const (
	// StrategyMostFrequent always predicts the majority class.
	StrategyMostFrequent ClassifierStrategy = "most_frequent"
	// StrategyStratified samples predictions from the training
	// class distribution.
	StrategyStratified ClassifierStrategy = "stratified"
	// StrategyUniform samples predictions uniformly over the classes.
	StrategyUniform ClassifierStrategy = "uniform"
	// StrategyConstantClf predicts a user-supplied class.
	StrategyConstantClf ClassifierStrategy = "constant"
)

// DummyClassifier ignores the features entirely.
type DummyClassifier struct {
	model.BaseEstimator

	Strategy ClassifierStrategy
	Constant float64
	Seed     uint64

	classes []float64
	priors  []float64
	mode    float64
}

// NewDummyClassifier creates a DummyClassifier with the given strategy.
// The seed drives the stratified and uniform strategies.
func NewDummyClassifier(strategy ClassifierStrategy, seed uint64) *DummyClassifier {
	return &DummyClassifier{Strategy: strategy, Seed: seed}
}

// Fit learns the class distribution from y.
func (d *DummyClassifier) Fit(X, y mat.Matrix) error {
	rows, _ := X.Dims()
	yRows, yCols := y.Dims()

	if rows != yRows {
		return errors.NewDimensionError("DummyClassifier.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("DummyClassifier.Fit", 1, yCols, 1)
	}
	if rows == 0 {
		return errors.NewModelError("DummyClassifier.Fit", "empty data", errors.ErrEmptyData)
	}

	switch d.Strategy {
	case StrategyMostFrequent, StrategyStratified, StrategyUniform, StrategyConstantClf:
	default:
		return errors.NewValidationError("strategy", "unknown classifier strategy", string(d.Strategy))
	}

	counts := map[float64]int{}
	for i := 0; i < rows; i++ {
		counts[y.At(i, 0)]++
	}

	d.classes = d.classes[:0]
	for c := range counts {
		d.classes = append(d.classes, c)
	}
	sort.Float64s(d.classes)

	d.priors = make([]float64, len(d.classes))
	best := -1
	for i, c := range d.classes {
		d.priors[i] = float64(counts[c]) / float64(rows)
		if best < 0 || counts[c] > counts[d.classes[best]] {
			best = i
		}
	}
	d.mode = d.classes[best]

	if d.Strategy == StrategyConstantClf {
		if _, ok := counts[d.Constant]; !ok {
			return errors.NewValidationError("constant", "not present in training labels", d.Constant)
		}
	}

	d.SetFitted()
	return nil
}

// Predict returns baseline labels for the rows of X.
func (d *DummyClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !d.IsFitted() {
		return nil, errors.NewNotFittedError("DummyClassifier", "Predict")
	}

	rows, _ := X.Dims()
	pred := mat.NewDense(rows, 1, nil)
	rng := rand.New(rand.NewPCG(d.Seed, d.Seed))

	for i := 0; i < rows; i++ {
		switch d.Strategy {
		case StrategyMostFrequent:
			pred.Set(i, 0, d.mode)
		case StrategyConstantClf:
			pred.Set(i, 0, d.Constant)
		case StrategyUniform:
			pred.Set(i, 0, d.classes[rng.IntN(len(d.classes))])
		case StrategyStratified:
			u := rng.Float64()
			acc := 0.0
			label := d.classes[len(d.classes)-1]
			for k, p := range d.priors {
				acc += p
				if u < acc {
					label = d.classes[k]
					break
				}
			}
			pred.Set(i, 0, label)
		}
	}

	return pred, nil
}

// Score returns accuracy on X, y.
func (d *DummyClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := d.Predict(X)
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

// ClassLabels returns the classes seen during fitting.
func (d *DummyClassifier) ClassLabels() []float64 {
	out := make([]float64, len(d.classes))
	copy(out, d.classes)
	return out
}

// Clone returns an unfitted copy with the same strategy.
func (d *DummyClassifier) Clone() model.Estimator {
	c := NewDummyClassifier(d.Strategy, d.Seed)
	c.Constant = d.Constant
	return c
}
