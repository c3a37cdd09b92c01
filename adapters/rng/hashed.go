package rng

import (
	"context"
	"math/rand"

	"gomediate/domain/core"
)

// HashedAdapter implements ports.RNGPort. Every iteration gets its own
// generator seeded from a hash of (stream name, base seed, iteration), so
// no generator is ever shared between goroutines.
type HashedAdapter struct{}

// NewHashedAdapter creates the RNG adapter
func NewHashedAdapter() *HashedAdapter {
	return &HashedAdapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (a *HashedAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub, err := core.DeriveSeed(seed, name, 0)
	if err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(sub)), nil
}

// Stream creates the generator for one iteration of a named operation
func (a *HashedAdapter) Stream(ctx context.Context, name string, baseSeed int64, iteration int) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub, err := core.DeriveSeed(baseSeed, name, iteration)
	if err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(sub)), nil
}
