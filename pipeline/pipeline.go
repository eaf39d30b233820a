// Package pipeline chains transformers with a final estimator so that every
// data-dependent step is refitted inside each cross-validation fold. Fitting
// a transformer on the full dataset and cross-validating afterwards leaks
// test information into training; a Pipeline passed to CrossValidate cannot
// make that mistake.
package pipeline

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// EstimatorStepName addresses the final estimator in SetParams keys, as in
// "estimator__alpha".
const EstimatorStepName = "estimator"

// Step is one named transformation stage of a Pipeline.
type Step struct {
	Name        string
	Transformer model.SupervisedTransformer
}

// Pipeline applies its steps in order during fit and inference, then
// delegates to the final estimator. It satisfies CloneableEstimator, so the
// whole chain can be handed to CrossValidate or GridSearchCV as a unit.
type Pipeline struct {
	steps     []Step
	estimator model.CloneableEstimator

	state *model.StateManager
}

// NewPipeline creates a pipeline from transformation steps and a final
// estimator. Step names must be non-empty, unique, must not contain "__",
// and must not collide with EstimatorStepName.
func NewPipeline(steps []Step, estimator model.CloneableEstimator) (*Pipeline, error) {
	if estimator == nil {
		return nil, errors.NewValueError("NewPipeline", "final estimator must not be nil")
	}

	seen := map[string]bool{EstimatorStepName: true}
	for i, step := range steps {
		if step.Name == "" {
			return nil, errors.NewValidationError("steps", "step name must not be empty", i)
		}
		if strings.Contains(step.Name, "__") {
			return nil, errors.NewValidationError("steps", `step name must not contain "__"`, step.Name)
		}
		if seen[step.Name] {
			return nil, errors.NewValidationError("steps", "duplicate step name", step.Name)
		}
		if step.Transformer == nil {
			return nil, errors.NewValidationError("steps", "step transformer must not be nil", step.Name)
		}
		seen[step.Name] = true
	}

	return &Pipeline{
		steps:     steps,
		estimator: estimator,
		state:     model.NewStateManager(),
	}, nil
}

// Fit fits every step on the progressively transformed data, then fits the
// final estimator.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	current := X
	for _, step := range p.steps {
		if err := step.Transformer.FitWithTarget(current, y); err != nil {
			return errors.Wrapf(err, "pipeline: step %q: fit failed", step.Name)
		}
		next, err := step.Transformer.Transform(current)
		if err != nil {
			return errors.Wrapf(err, "pipeline: step %q: transform failed", step.Name)
		}
		current = next
	}

	if err := p.estimator.Fit(current, y); err != nil {
		return errors.Wrap(err, "pipeline: estimator fit failed")
	}

	rows, cols := X.Dims()
	p.state.SetDimensions(cols, rows)
	p.state.SetFitted()
	return nil
}

// transform pushes X through all fitted steps.
func (p *Pipeline) transform(X mat.Matrix) (mat.Matrix, error) {
	current := X
	for _, step := range p.steps {
		next, err := step.Transformer.Transform(current)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: step %q: transform failed", step.Name)
		}
		current = next
	}
	return current, nil
}

// Predict transforms X through every step and predicts with the estimator.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !p.state.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}

	transformed, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return p.estimator.Predict(transformed)
}

// Score transforms X through every step and scores with the estimator's own
// default metric.
func (p *Pipeline) Score(X, y mat.Matrix) (float64, error) {
	if !p.state.IsFitted() {
		return 0, errors.NewNotFittedError("Pipeline", "Score")
	}

	transformed, err := p.transform(X)
	if err != nil {
		return 0, err
	}
	return p.estimator.Score(transformed, y)
}

// Clone returns an unfitted copy of the whole chain. Every step must
// implement model.TransformerCloner.
func (p *Pipeline) Clone() model.Estimator {
	steps := make([]Step, len(p.steps))
	for i, step := range p.steps {
		cloner, ok := step.Transformer.(model.TransformerCloner)
		if !ok {
			// Callers reach this only through CrossValidate, which fits
			// the returned clone and surfaces this as a fit error.
			return &brokenPipeline{step: step.Name}
		}
		steps[i] = Step{Name: step.Name, Transformer: cloner.CloneTransformer()}
	}

	clone, err := NewPipeline(steps, p.estimator.Clone().(model.CloneableEstimator))
	if err != nil {
		return &brokenPipeline{step: err.Error()}
	}
	return clone
}

// GetParams returns all addressable hyperparameters, keys prefixed with
// "<step>__" for steps and "estimator__" for the final estimator.
func (p *Pipeline) GetParams() map[string]interface{} {
	out := map[string]interface{}{}
	for _, step := range p.steps {
		getter, ok := step.Transformer.(model.ParameterGetter)
		if !ok {
			continue
		}
		for name, value := range getter.GetParams() {
			out[step.Name+"__"+name] = value
		}
	}
	if getter, ok := p.estimator.(model.ParameterGetter); ok {
		for name, value := range getter.GetParams() {
			out[EstimatorStepName+"__"+name] = value
		}
	}
	return out
}

// SetParams routes each "<step>__<param>" key to the named step or to the
// final estimator.
func (p *Pipeline) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		target, param, found := strings.Cut(key, "__")
		if !found {
			return errors.NewValidationError(key, `pipeline parameters use the "<step>__<param>" form`, value)
		}

		setter, err := p.setterFor(target)
		if err != nil {
			return errors.Wrapf(err, "parameter %q", key)
		}
		if err := setter.SetParams(map[string]interface{}{param: value}); err != nil {
			return errors.Wrapf(err, "parameter %q", key)
		}
	}
	return nil
}

func (p *Pipeline) setterFor(target string) (model.ParameterSetter, error) {
	if target == EstimatorStepName {
		setter, ok := p.estimator.(model.ParameterSetter)
		if !ok {
			return nil, errors.NewValueError("Pipeline.SetParams", "final estimator does not support parameter setting")
		}
		return setter, nil
	}

	for _, step := range p.steps {
		if step.Name != target {
			continue
		}
		setter, ok := step.Transformer.(model.ParameterSetter)
		if !ok {
			return nil, errors.NewValueError("Pipeline.SetParams", "step "+target+" does not support parameter setting")
		}
		return setter, nil
	}
	return nil, errors.NewValueError("Pipeline.SetParams", "no step named "+target)
}

// Steps returns the pipeline's transformation steps.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Estimator returns the final estimator.
func (p *Pipeline) Estimator() model.CloneableEstimator {
	return p.estimator
}

// brokenPipeline reports a clone failure at the first use of the clone.
type brokenPipeline struct {
	step string
}

func (b *brokenPipeline) Fit(_, _ mat.Matrix) error {
	return errors.NewValueError("Pipeline.Clone", "step "+b.step+" cannot be cloned")
}

func (b *brokenPipeline) Predict(_ mat.Matrix) (mat.Matrix, error) {
	return nil, errors.NewValueError("Pipeline.Clone", "step "+b.step+" cannot be cloned")
}

func (b *brokenPipeline) Score(_, _ mat.Matrix) (float64, error) {
	return 0, errors.NewValueError("Pipeline.Clone", "step "+b.step+" cannot be cloned")
}

func (b *brokenPipeline) Clone() model.Estimator { return b }
