package model_selection

import (
	"log/slog"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/core/parallel"
	"github.com/YuminosukeSato/evalgo/metrics"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
	evallog "github.com/YuminosukeSato/evalgo/pkg/log"
)

// PermutationTestResult holds the outcome of a permutation test.
type PermutationTestResult struct {
	// Score is the cross-validated score on the true labels.
	Score float64

	// PermutationScores holds one cross-validated score per label
	// permutation.
	PermutationScores []float64

	// PValue is the empirical probability of reaching Score by chance:
	// (1 + #{permutation as good or better}) / (nPermutations + 1).
	PValue float64
}

// PermutationTestScore estimates how likely the estimator's cross-validated
// score is under the null hypothesis that features and labels are
// independent. The labels are shuffled nPermutations times; each shuffle is
// evaluated with the same splitter and scorer as the true labels.
//
// Permutations run in parallel; each draws its own deterministic stream
// from seed, so results are reproducible regardless of scheduling.
func PermutationTestScore(est model.CloneableEstimator, X, y mat.Matrix, splitter Splitter, scorer metrics.Scorer, nPermutations int, seed uint64) (*PermutationTestResult, error) {
	if nPermutations < 1 {
		return nil, errors.NewValidationError("n_permutations", "must be at least 1", nPermutations)
	}

	baseline, err := CrossValidate(est, X, y, splitter, scorer, WithSequential())
	if err != nil {
		return nil, errors.Wrap(err, "PermutationTestScore: baseline evaluation failed")
	}
	observed := baseline.MeanTestScore()

	permScores := make([]float64, nPermutations)
	permErrs := make([]error, nPermutations)

	parallel.Parallelize(nPermutations, func(start, end int) {
		for p := start; p < end; p++ {
			shuffledY := permuteRows(y, rand.New(rand.NewPCG(seed, uint64(p))))

			result, err := CrossValidate(est, X, shuffledY, splitter, scorer, WithSequential())
			if err != nil {
				permErrs[p] = errors.Wrapf(err, "permutation %d failed", p)
				continue
			}
			permScores[p] = result.MeanTestScore()
		}
	})

	for _, err := range permErrs {
		if err != nil {
			return nil, err
		}
	}

	logger := slog.Default().With(
		evallog.ComponentKey, "model_selection",
		evallog.SplitterKey, splitter.Name(),
		evallog.ScorerKey, scorer.Name(),
	)
	for p, s := range permScores {
		logger.Debug("permutation evaluated",
			evallog.PermutationKey, p,
			evallog.ScoreKey, s,
		)
	}

	asGood := 0
	for _, s := range permScores {
		if !scorer.Better(observed, s) {
			asGood++
		}
	}

	return &PermutationTestResult{
		Score:             observed,
		PermutationScores: permScores,
		PValue:            float64(1+asGood) / float64(nPermutations+1),
	}, nil
}

// permuteRows returns a copy of the n×1 matrix y with its rows shuffled.
func permuteRows(y mat.Matrix, rng *rand.Rand) *mat.Dense {
	rows, _ := y.Dims()
	out := mat.NewDense(rows, 1, nil)

	perm := rng.Perm(rows)
	for i, p := range perm {
		out.Set(i, 0, y.At(p, 0))
	}
	return out
}
