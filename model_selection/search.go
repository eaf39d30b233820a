package model_selection

import (
	"fmt"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/metrics"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
	evallog "github.com/YuminosukeSato/evalgo/pkg/log"
)

// ParamGrid maps parameter names to the candidate values to try.
type ParamGrid map[string][]interface{}

// CandidateResult holds the cross-validated outcome of one parameter
// assignment.
type CandidateResult struct {
	Params        map[string]interface{}
	MeanTestScore float64
	StdTestScore  float64
	FoldScores    []float64
}

// GridSearchCV exhaustively evaluates a parameter grid by cross-validation
// and refits the best candidate on the full data.
//
// GridSearchCV itself satisfies CloneableEstimator, so it can be passed to
// CrossValidate as the estimator of an outer loop. That composition is
// nested cross-validation: the inner loop selects hyperparameters, the
// outer loop estimates generalization without the selection bias.
type GridSearchCV struct {
	estimator model.Tunable
	grid      ParamGrid
	splitter  Splitter
	scorer    metrics.Scorer

	state *model.StateManager

	// BestParams holds the winning parameter assignment after Fit.
	BestParams map[string]interface{}
	// BestScore holds the winning mean cross-validated test score.
	BestScore float64
	// BestEstimator holds the refitted winner.
	BestEstimator model.Tunable
	// Results holds one entry per candidate, in deterministic grid order.
	Results []CandidateResult
}

// NewGridSearchCV creates a grid search over the given estimator.
func NewGridSearchCV(est model.Tunable, grid ParamGrid, splitter Splitter, scorer metrics.Scorer) *GridSearchCV {
	return &GridSearchCV{
		estimator: est,
		grid:      grid,
		splitter:  splitter,
		scorer:    scorer,
		state:     model.NewStateManager(),
	}
}

// expandGrid produces every parameter assignment in deterministic order:
// parameter names sorted, values in the order given.
func expandGrid(grid ParamGrid) ([]map[string]interface{}, error) {
	if len(grid) == 0 {
		return nil, errors.NewValidationError("param_grid", "must not be empty", grid)
	}

	names := make([]string, 0, len(grid))
	for name, values := range grid {
		if len(values) == 0 {
			return nil, errors.NewValidationError("param_grid",
				fmt.Sprintf("parameter %q has no candidate values", name), grid)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	candidates := []map[string]interface{}{{}}
	for _, name := range names {
		var next []map[string]interface{}
		for _, base := range candidates {
			for _, value := range grid[name] {
				assignment := make(map[string]interface{}, len(base)+1)
				for k, v := range base {
					assignment[k] = v
				}
				assignment[name] = value
				next = append(next, assignment)
			}
		}
		candidates = next
	}

	return candidates, nil
}

// Fit evaluates every candidate and refits the best one on all of X, y.
func (g *GridSearchCV) Fit(X, y mat.Matrix) error {
	candidates, err := expandGrid(g.grid)
	if err != nil {
		return err
	}

	logger := slog.Default().With(
		evallog.ComponentKey, "model_selection",
		evallog.ModelNameKey, "GridSearchCV",
		evallog.OperationKey, "fit",
		evallog.ScorerKey, g.scorer.Name(),
	)
	logger.Debug("grid search started", "candidates", len(candidates))

	g.Results = make([]CandidateResult, 0, len(candidates))

	bestIdx := -1
	for ci, params := range candidates {
		candidate, err := g.cloneWithParams(params)
		if err != nil {
			return errors.Wrapf(err, "candidate %d: invalid parameters", ci)
		}

		cvResult, err := CrossValidate(candidate, X, y, g.splitter, g.scorer)
		if err != nil {
			return errors.Wrapf(err, "candidate %d: cross-validation failed", ci)
		}

		g.Results = append(g.Results, CandidateResult{
			Params:        params,
			MeanTestScore: cvResult.MeanTestScore(),
			StdTestScore:  cvResult.StdTestScore(),
			FoldScores:    cvResult.TestScores,
		})

		logger.Debug("candidate evaluated",
			evallog.CandidateKey, ci,
			evallog.ParamsKey, fmt.Sprintf("%v", params),
			evallog.ScoreKey, cvResult.MeanTestScore(),
		)

		if bestIdx < 0 || g.scorer.Better(g.Results[ci].MeanTestScore, g.Results[bestIdx].MeanTestScore) {
			bestIdx = ci
		}
	}

	g.BestParams = g.Results[bestIdx].Params
	g.BestScore = g.Results[bestIdx].MeanTestScore

	refit, err := g.cloneWithParams(g.BestParams)
	if err != nil {
		return errors.Wrap(err, "refit: invalid best parameters")
	}
	if err := refit.Fit(X, y); err != nil {
		return errors.Wrap(err, "refit failed")
	}
	g.BestEstimator = refit

	rows, cols := X.Dims()
	g.state.SetDimensions(cols, rows)
	g.state.SetFitted()

	logger.Debug("grid search finished",
		evallog.ParamsKey, fmt.Sprintf("%v", g.BestParams),
		evallog.ScoreKey, g.BestScore,
	)
	return nil
}

// cloneWithParams clones the base estimator and applies a parameter
// assignment.
func (g *GridSearchCV) cloneWithParams(params map[string]interface{}) (model.Tunable, error) {
	clone, ok := g.estimator.Clone().(model.Tunable)
	if !ok {
		return nil, errors.NewValueError("GridSearchCV", "estimator clone does not support parameter setting")
	}
	if err := clone.SetParams(params); err != nil {
		return nil, err
	}
	return clone, nil
}

// Predict delegates to the refitted best estimator.
func (g *GridSearchCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !g.state.IsFitted() {
		return nil, errors.NewNotFittedError("GridSearchCV", "Predict")
	}
	return g.BestEstimator.Predict(X)
}

// Score scores the refitted best estimator with the search's own scorer,
// so outer-loop scores stay comparable to the inner selection criterion.
func (g *GridSearchCV) Score(X, y mat.Matrix) (float64, error) {
	if !g.state.IsFitted() {
		return 0, errors.NewNotFittedError("GridSearchCV", "Score")
	}
	return scoreEstimator(g.BestEstimator, X, y, g.scorer)
}

// Clone returns an unfitted copy of the whole search.
func (g *GridSearchCV) Clone() model.Estimator {
	base, ok := g.estimator.Clone().(model.Tunable)
	if !ok {
		// Callers reach this only through CrossValidate, which fits the
		// returned clone and surfaces this as a fit error.
		return &brokenSearch{}
	}
	return NewGridSearchCV(base, g.grid, g.splitter, g.scorer)
}

// brokenSearch reports a clone failure at the first use of the clone.
type brokenSearch struct{}

func (b *brokenSearch) Fit(_, _ mat.Matrix) error {
	return errors.NewValueError("GridSearchCV.Clone", "estimator clone does not support parameter setting")
}

func (b *brokenSearch) Predict(_ mat.Matrix) (mat.Matrix, error) {
	return nil, errors.NewValueError("GridSearchCV.Clone", "estimator clone does not support parameter setting")
}

func (b *brokenSearch) Score(_, _ mat.Matrix) (float64, error) {
	return 0, errors.NewValueError("GridSearchCV.Clone", "estimator clone does not support parameter setting")
}

func (b *brokenSearch) Clone() model.Estimator { return b }
