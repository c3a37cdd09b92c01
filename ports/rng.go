package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream creates the generator for one iteration of a named operation.
	// The stream depends only on (name, baseSeed, iteration), so iterations can
	// run in any order or on any worker and still draw identical numbers.
	Stream(ctx context.Context, name string, baseSeed int64, iteration int) (*rand.Rand, error)
}
