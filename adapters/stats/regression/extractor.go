package regression

import (
	"context"
	"fmt"

	"gomediate/domain/core"
	"gomediate/domain/mediation"
)

// Extractor reads path coefficients out of fitted models.
//
// Each path comes from a different equation and equations are estimated
// separately, so the covariance of the path vector is diagonal.
type Extractor struct{}

// NewExtractor creates an extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements ports.MediationExtractor
func (e *Extractor) Extract(ctx context.Context, mediatorModels []mediation.FittedModel, outcomeModel mediation.FittedModel, vars mediation.Variables) (*mediation.Structure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := vars.Validate(); err != nil {
		return nil, err
	}
	if len(mediatorModels) != len(vars.Mediators) {
		return nil, core.NewConfigurationError("mediator_models",
			fmt.Sprintf("got %d models for %d mediators", len(mediatorModels), len(vars.Mediators)))
	}
	if outcomeModel == nil {
		return nil, core.NewConfigurationError("outcome_model", "outcome model is required")
	}
	if outcomeModel.Response() != vars.Outcome {
		return nil, core.NewExtractionError(vars.Outcome, outcomeModel.Response())
	}

	k := len(vars.Mediators)
	coefs := make([]float64, 0, k+1)
	variances := make([]float64, 0, k+1)

	take := func(model mediation.FittedModel, term string) error {
		c, ok := model.Coefficient(term)
		if !ok {
			return core.NewExtractionError(term, model.Response())
		}
		v, ok := model.Covariance(term, term)
		if !ok {
			return core.NewExtractionError(term, model.Response())
		}
		coefs = append(coefs, c)
		variances = append(variances, v)
		return nil
	}

	for j, model := range mediatorModels {
		if model == nil || model.Response() != vars.Mediators[j] {
			return nil, core.NewExtractionError(vars.Mediators[j], fmt.Sprintf("mediator model %d", j+1))
		}
		// a path for the first mediator, d paths after it
		predictor := vars.Treatment
		if j > 0 {
			predictor = vars.Mediators[j-1]
		}
		if err := take(model, predictor); err != nil {
			return nil, err
		}
	}
	if err := take(outcomeModel, vars.Mediators[k-1]); err != nil {
		return nil, err
	}

	paths, err := mediation.PathsFromVector(coefs)
	if err != nil {
		return nil, err
	}
	cov := make([][]float64, len(variances))
	for i := range cov {
		cov[i] = make([]float64, len(variances))
		cov[i][i] = variances[i]
	}
	return mediation.NewStructure(vars, paths, cov)
}
