package bootstrap

import (
	"context"
	"math/rand"
)

// estimator produces one indirect-effect value per bootstrap iteration.
// Implementations hold only read-only state and are shared across workers;
// all randomness comes from the per-iteration generator.
type estimator interface {
	estimate(ctx context.Context, rng *rand.Rand) (float64, error)
}
