package ports

import (
	"context"

	"gomediate/domain/mediation"
)

// MediationExtractor turns fitted mediator and outcome models into a
// mediation structure. mediatorModels are ordered along the chain; the
// model for mediator j must have Response() == vars.Mediators[j].
//
// Missing variables are reported as core.ErrExtraction.
type MediationExtractor interface {
	Extract(ctx context.Context, mediatorModels []mediation.FittedModel, outcomeModel mediation.FittedModel, vars mediation.Variables) (*mediation.Structure, error)
}

// ModelFitter fits the mediator and outcome models of a mediation chain and
// returns a structure that can refit itself on resampled data.
type ModelFitter interface {
	Fit(ctx context.Context, data *mediation.Dataset, vars mediation.Variables) (*mediation.Structure, error)
}
