package feature_selection

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// SelectKBest keeps the k features with the highest univariate scores.
type SelectKBest struct {
	state *model.StateManager

	scoreFunc ScoreFunc
	k         int

	scores_  []float64
	support_ []int
}

// NewSelectKBest creates a selector keeping the k highest-scoring features.
func NewSelectKBest(scoreFunc ScoreFunc, k int) *SelectKBest {
	return &SelectKBest{
		state:     model.NewStateManager(),
		scoreFunc: scoreFunc,
		k:         k,
	}
}

// FitWithTarget scores every feature of X against y and records the k best.
func (s *SelectKBest) FitWithTarget(X, y mat.Matrix) error {
	_, cols := X.Dims()

	if s.scoreFunc == nil {
		return errors.NewValueError("SelectKBest.FitWithTarget", "score function must not be nil")
	}
	if s.k < 1 || s.k > cols {
		return errors.NewValidationError("k", "must be in [1, n_features]", s.k)
	}

	scores, err := s.scoreFunc(X, y)
	if err != nil {
		return errors.Wrap(err, "SelectKBest: scoring failed")
	}
	s.scores_ = scores

	// Rank by score, break ties toward the lower column index.
	order := make([]int, cols)
	for j := range order {
		order[j] = j
	}
	sort.Slice(order, func(a, b int) bool {
		if scores[order[a]] == scores[order[b]] {
			return order[a] < order[b]
		}
		return scores[order[a]] > scores[order[b]]
	})

	s.support_ = make([]int, s.k)
	copy(s.support_, order[:s.k])
	sort.Ints(s.support_)

	rows, _ := X.Dims()
	s.state.SetDimensions(cols, rows)
	s.state.SetFitted()
	return nil
}

// Transform returns X restricted to the selected columns.
func (s *SelectKBest) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("SelectKBest", "Transform")
	}

	rows, cols := X.Dims()
	expected, _ := s.state.GetDimensions()
	if cols != expected {
		return nil, errors.NewDimensionError("SelectKBest.Transform", expected, cols, 1)
	}

	out := mat.NewDense(rows, s.k, nil)
	for i := 0; i < rows; i++ {
		for o, j := range s.support_ {
			out.Set(i, o, X.At(i, j))
		}
	}
	return out, nil
}

// Scores returns the per-feature scores computed during fit.
func (s *SelectKBest) Scores() []float64 {
	out := make([]float64, len(s.scores_))
	copy(out, s.scores_)
	return out
}

// SupportIndices returns the selected column indices in ascending order.
func (s *SelectKBest) SupportIndices() []int {
	out := make([]int, len(s.support_))
	copy(out, s.support_)
	return out
}

// K returns the number of features kept.
func (s *SelectKBest) K() int { return s.k }

// CloneTransformer returns an unfitted copy with the same configuration.
func (s *SelectKBest) CloneTransformer() model.SupervisedTransformer {
	return NewSelectKBest(s.scoreFunc, s.k)
}

// GetParams returns the selector's hyperparameters.
func (s *SelectKBest) GetParams() map[string]interface{} {
	return map[string]interface{}{"k": s.k}
}

// SetParams sets the selector's hyperparameters.
func (s *SelectKBest) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		switch name {
		case "k":
			k, ok := value.(int)
			if !ok || k < 1 {
				return errors.NewValidationError(name, "must be a positive int", value)
			}
			s.k = k
		default:
			return errors.NewValidationError(name, "unknown parameter for SelectKBest", value)
		}
	}
	return nil
}
