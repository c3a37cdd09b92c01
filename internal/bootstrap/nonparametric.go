package bootstrap

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"gomediate/domain/core"
	"gomediate/domain/mediation"
)

// nonparametricEstimator resamples the original rows with replacement and
// refits the models on each resample. The resample lives only for the
// duration of one call, so memory grows with the number of workers, not
// with n_boot.
type nonparametricEstimator struct {
	data     *mediation.Dataset
	refitter mediation.Refitter
	dim      int
}

func newNonparametricEstimator(s *mediation.Structure) (*nonparametricEstimator, error) {
	if !s.HasData() {
		return nil, core.NewConfigurationError("method", "nonparametric bootstrap requires the original data and a refit operation")
	}
	return &nonparametricEstimator{data: s.Data(), refitter: s.Refitter(), dim: s.Dim()}, nil
}

func (e *nonparametricEstimator) estimate(ctx context.Context, rng *rand.Rand) (float64, error) {
	n := e.data.Len()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = rng.Intn(n)
	}

	sample, err := e.data.Resample(indices)
	if err != nil {
		return 0, err
	}

	refit, err := e.refitter.Refit(ctx, sample)
	if err != nil {
		return 0, err
	}
	if refit.Dim() != e.dim {
		return 0, fmt.Errorf("refit returned %d path coefficients, expected %d", refit.Dim(), e.dim)
	}

	effect := refit.IndirectEffect()
	if math.IsNaN(effect) || math.IsInf(effect, 0) {
		return 0, core.NewRefitError("indirect effect is not finite")
	}
	return effect, nil
}
