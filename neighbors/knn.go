// Package neighbors provides brute-force k-nearest-neighbor estimators.
// Their single hyperparameter makes them the natural subject for
// validation-curve and grid-search demonstrations.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/core/parallel"
	"github.com/YuminosukeSato/evalgo/metrics"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// parallelPredictThreshold is the query count below which prediction stays
// sequential.
const parallelPredictThreshold = 64

// knnBase holds the memorized training set shared by both estimators.
type knnBase struct {
	model.BaseEstimator

	k int

	trainX *mat.Dense
	trainY []float64
}

func (b *knnBase) fit(op string, X, y mat.Matrix) error {
	rows, _ := X.Dims()
	yRows, yCols := y.Dims()

	if rows != yRows {
		return errors.NewDimensionError(op, rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError(op, 1, yCols, 1)
	}
	if rows == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if b.k < 1 {
		return errors.NewValidationError("n_neighbors", "must be at least 1", b.k)
	}
	if b.k > rows {
		return errors.NewValidationError("n_neighbors", "must not exceed the number of training samples", b.k)
	}

	b.trainX = mat.DenseCopyOf(X)
	b.trainY = make([]float64, rows)
	for i := 0; i < rows; i++ {
		b.trainY[i] = y.At(i, 0)
	}

	b.SetFitted()
	return nil
}

// neighborIndices returns the indices of the k nearest training rows to
// query row i of X, nearest first.
func (b *knnBase) neighborIndices(X mat.Matrix, i int) []int {
	nTrain, cols := b.trainX.Dims()

	type distIdx struct {
		d   float64
		idx int
	}
	dists := make([]distIdx, nTrain)
	for t := 0; t < nTrain; t++ {
		var d float64
		for j := 0; j < cols; j++ {
			diff := X.At(i, j) - b.trainX.At(t, j)
			d += diff * diff
		}
		dists[t] = distIdx{d: d, idx: t}
	}

	sort.Slice(dists, func(a, c int) bool {
		if dists[a].d == dists[c].d {
			return dists[a].idx < dists[c].idx
		}
		return dists[a].d < dists[c].d
	})

	out := make([]int, b.k)
	for t := 0; t < b.k; t++ {
		out[t] = dists[t].idx
	}
	return out
}

func (b *knnBase) checkPredict(name string, X mat.Matrix) (int, error) {
	if !b.IsFitted() {
		return 0, errors.NewNotFittedError(name, "Predict")
	}

	rows, cols := X.Dims()
	_, trainCols := b.trainX.Dims()
	if cols != trainCols {
		return 0, errors.NewDimensionError(name+".Predict", trainCols, cols, 1)
	}
	return rows, nil
}

// KNNRegressor predicts the mean target of the k nearest training samples.
type KNNRegressor struct {
	knnBase
}

// NewKNNRegressor creates a KNNRegressor with the given neighbor count.
func NewKNNRegressor(k int) *KNNRegressor {
	r := &KNNRegressor{}
	r.k = k
	return r
}

// Fit memorizes the training set.
func (r *KNNRegressor) Fit(X, y mat.Matrix) error {
	return r.fit("KNNRegressor.Fit", X, y)
}

// Predict averages the targets of the k nearest neighbors per query row.
func (r *KNNRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	rows, err := r.checkPredict("KNNRegressor", X)
	if err != nil {
		return nil, err
	}

	pred := mat.NewDense(rows, 1, nil)
	parallel.ParallelizeWithThreshold(rows, parallelPredictThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			sum := 0.0
			for _, idx := range r.neighborIndices(X, i) {
				sum += r.trainY[idx]
			}
			pred.Set(i, 0, sum/float64(r.k))
		}
	})

	return pred, nil
}

// Score returns R² on X, y.
func (r *KNNRegressor) Score(X, y mat.Matrix) (float64, error) {
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

// K returns the neighbor count.
func (r *KNNRegressor) K() int { return r.k }

// Clone returns an unfitted copy with the same hyperparameters.
func (r *KNNRegressor) Clone() model.Estimator {
	return NewKNNRegressor(r.k)
}

// GetParams returns the estimator's hyperparameters.
func (r *KNNRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{"n_neighbors": r.k}
}

// SetParams sets the estimator's hyperparameters.
func (r *KNNRegressor) SetParams(params map[string]interface{}) error {
	return setNeighborParams(&r.knnBase, "KNNRegressor", params)
}

// KNNClassifier predicts the majority class of the k nearest training
// samples. Distance ties and vote ties both break toward the lower index
// and label, keeping predictions deterministic.
type KNNClassifier struct {
	knnBase
}

// NewKNNClassifier creates a KNNClassifier with the given neighbor count.
func NewKNNClassifier(k int) *KNNClassifier {
	c := &KNNClassifier{}
	c.k = k
	return c
}

// Fit memorizes the training set.
func (c *KNNClassifier) Fit(X, y mat.Matrix) error {
	return c.fit("KNNClassifier.Fit", X, y)
}

// Predict votes over the k nearest neighbors per query row.
func (c *KNNClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	rows, err := c.checkPredict("KNNClassifier", X)
	if err != nil {
		return nil, err
	}

	pred := mat.NewDense(rows, 1, nil)
	parallel.ParallelizeWithThreshold(rows, parallelPredictThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			votes := map[float64]int{}
			for _, idx := range c.neighborIndices(X, i) {
				votes[c.trainY[idx]]++
			}

			bestLabel := math.Inf(1)
			bestCount := -1
			for label, count := range votes {
				if count > bestCount || (count == bestCount && label < bestLabel) {
					bestLabel = label
					bestCount = count
				}
			}
			pred.Set(i, 0, bestLabel)
		}
	})

	return pred, nil
}

// Score returns accuracy on X, y.
func (c *KNNClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := c.Predict(X)
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

// K returns the neighbor count.
func (c *KNNClassifier) K() int { return c.k }

// Clone returns an unfitted copy with the same hyperparameters.
func (c *KNNClassifier) Clone() model.Estimator {
	return NewKNNClassifier(c.k)
}

// GetParams returns the estimator's hyperparameters.
func (c *KNNClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{"n_neighbors": c.k}
}

// SetParams sets the estimator's hyperparameters.
func (c *KNNClassifier) SetParams(params map[string]interface{}) error {
	return setNeighborParams(&c.knnBase, "KNNClassifier", params)
}

func setNeighborParams(b *knnBase, name string, params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "n_neighbors":
			n, ok := value.(int)
			if !ok || n < 1 {
				return errors.NewValidationError(key, "must be a positive int", value)
			}
			b.k = n
		default:
			return errors.NewValidationError(key, "unknown parameter for "+name, value)
		}
	}
	return nil
}
