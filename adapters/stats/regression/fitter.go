// Package regression fits the linear equations of a mediation chain:
//
//	M1      ~ X + C
//	M(j+1)  ~ X + M1 + ... + Mj + C
//	Y       ~ X + M1 + ... + Mk + C
//
// where C are the covariates.
package regression

import (
	"context"

	"gomediate/domain/mediation"
)

// Fitter fits mediation chains by OLS. It implements ports.ModelFitter.
type Fitter struct {
	extractor *Extractor
}

// NewFitter creates a fitter
func NewFitter() *Fitter {
	return &Fitter{extractor: NewExtractor()}
}

// Fit estimates every equation on data and returns a structure carrying
// the data and a refitter for nonparametric resampling
func (f *Fitter) Fit(ctx context.Context, data *mediation.Dataset, vars mediation.Variables) (*mediation.Structure, error) {
	if err := vars.Validate(); err != nil {
		return nil, err
	}
	if err := data.Require(vars.Columns()...); err != nil {
		return nil, err
	}

	s, err := f.fitChain(ctx, data, vars)
	if err != nil {
		return nil, err
	}
	return s.WithData(data, &chainRefitter{fitter: f, vars: vars}), nil
}

// FitModels fits the mediator equations in chain order and the outcome equation
func (f *Fitter) FitModels(data *mediation.Dataset, vars mediation.Variables) ([]*LinearModel, *LinearModel, error) {
	predictors := append([]string{vars.Treatment}, vars.Covariates...)

	mediators := make([]*LinearModel, 0, len(vars.Mediators))
	for j, m := range vars.Mediators {
		model, err := FitOLS(data, m, predictors)
		if err != nil {
			return nil, nil, err
		}
		mediators = append(mediators, model)

		// later equations condition on every earlier mediator
		next := make([]string, 0, len(predictors)+1)
		next = append(next, vars.Treatment)
		next = append(next, vars.Mediators[:j+1]...)
		predictors = append(next, vars.Covariates...)
	}

	outcome, err := FitOLS(data, vars.Outcome, predictors)
	if err != nil {
		return nil, nil, err
	}
	return mediators, outcome, nil
}

func (f *Fitter) fitChain(ctx context.Context, data *mediation.Dataset, vars mediation.Variables) (*mediation.Structure, error) {
	mediators, outcome, err := f.FitModels(data, vars)
	if err != nil {
		return nil, err
	}
	models := make([]mediation.FittedModel, len(mediators))
	for i, m := range mediators {
		models[i] = m
	}
	return f.extractor.Extract(ctx, models, outcome, vars)
}

// chainRefitter re-runs the same equations on a resampled dataset
type chainRefitter struct {
	fitter *Fitter
	vars   mediation.Variables
}

func (r *chainRefitter) Refit(ctx context.Context, data *mediation.Dataset) (*mediation.Structure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.fitter.fitChain(ctx, data, r.vars)
}
