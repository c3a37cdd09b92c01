package bootstrap

import (
	"gomediate/domain/bootstrap"
	"gomediate/domain/core"
	"gomediate/domain/mediation"
)

// pluginResult computes the indirect effect from the point estimates alone.
// No randomness is involved, the distribution holds the single estimate and
// the interval is left undefined.
func pluginResult(runID core.RunID, s *mediation.Structure, cfg bootstrap.Config) *bootstrap.Result {
	estimate := s.IndirectEffect()
	return bootstrap.NewResult(bootstrap.ResultParams{
		RunID:        runID,
		Estimate:     estimate,
		Distribution: []float64{estimate},
		Config:       cfg,
	})
}
