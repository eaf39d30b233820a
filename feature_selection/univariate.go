// Package feature_selection provides univariate feature selection. Selecting
// features on the full dataset before cross-validation leaks target
// information into the evaluation; run selection inside a pipeline so each
// fold selects from its own training data only.
package feature_selection

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// ScoreFunc assigns a relevance score to every column of X with respect to
// y. Higher means more relevant.
type ScoreFunc func(X, y mat.Matrix) ([]float64, error)

// FRegression scores each feature with the univariate linear F-statistic
//
//	F = r² / (1 - r²) · (n - 2)
//
// where r is the Pearson correlation between the feature and the target.
func FRegression(X, y mat.Matrix) ([]float64, error) {
	rows, cols := X.Dims()
	if err := checkScoreInput("FRegression", X, y); err != nil {
		return nil, err
	}

	yCol := make([]float64, rows)
	for i := 0; i < rows; i++ {
		yCol[i] = y.At(i, 0)
	}

	scores := make([]float64, cols)
	xCol := make([]float64, rows)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			xCol[i] = X.At(i, j)
		}

		r := stat.Correlation(xCol, yCol, nil)
		r2 := r * r
		if r2 >= 1 {
			// Perfectly correlated feature: unbounded F.
			scores[j] = float64(rows - 2) / 1e-15
			continue
		}
		scores[j] = r2 / (1 - r2) * float64(rows-2)
	}

	return scores, nil
}

// FClassif scores each feature with the one-way ANOVA F-statistic across the
// classes of y.
func FClassif(X, y mat.Matrix) ([]float64, error) {
	rows, cols := X.Dims()
	if err := checkScoreInput("FClassif", X, y); err != nil {
		return nil, err
	}

	// Group sample indices by class label.
	groups := map[float64][]int{}
	for i := 0; i < rows; i++ {
		label := y.At(i, 0)
		groups[label] = append(groups[label], i)
	}
	k := len(groups)
	if k < 2 {
		return nil, errors.NewValueError("FClassif", "y must contain at least two classes")
	}
	if rows <= k {
		return nil, errors.NewValueError("FClassif", "need more samples than classes")
	}

	scores := make([]float64, cols)
	for j := 0; j < cols; j++ {
		grand := 0.0
		for i := 0; i < rows; i++ {
			grand += X.At(i, j)
		}
		grand /= float64(rows)

		ssBetween := 0.0
		ssWithin := 0.0
		for _, members := range groups {
			mean := 0.0
			for _, i := range members {
				mean += X.At(i, j)
			}
			mean /= float64(len(members))

			ssBetween += float64(len(members)) * (mean - grand) * (mean - grand)
			for _, i := range members {
				d := X.At(i, j) - mean
				ssWithin += d * d
			}
		}

		msBetween := ssBetween / float64(k-1)
		msWithin := ssWithin / float64(rows-k)
		if msWithin == 0 {
			scores[j] = msBetween / 1e-15
			continue
		}
		scores[j] = msBetween / msWithin
	}

	return scores, nil
}

func checkScoreInput(op string, X, y mat.Matrix) error {
	rows, _ := X.Dims()
	yRows, yCols := y.Dims()

	if rows != yRows {
		return errors.NewDimensionError(op, rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError(op, 1, yCols, 1)
	}
	if rows < 3 {
		return errors.NewValueError(op, "need at least 3 samples")
	}
	return nil
}
