package rng

import (
	"context"
	"testing"

	"gomediate/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draws(t *testing.T, a *HashedAdapter, name string, seed int64, iteration int) []float64 {
	t.Helper()
	r, err := a.Stream(context.Background(), name, seed, iteration)
	require.NoError(t, err)
	out := make([]float64, 5)
	for i := range out {
		out[i] = r.NormFloat64()
	}
	return out
}

func TestStreamReproducible(t *testing.T) {
	a := NewHashedAdapter()
	assert.Equal(t, draws(t, a, "parametric", 123, 4), draws(t, a, "parametric", 123, 4))
}

func TestStreamIndependentOfOrder(t *testing.T) {
	a := NewHashedAdapter()
	forward := make([][]float64, 10)
	for i := 0; i < 10; i++ {
		forward[i] = draws(t, a, "parametric", 9, i)
	}
	for i := 9; i >= 0; i-- {
		assert.Equal(t, forward[i], draws(t, a, "parametric", 9, i), "iteration %d", i)
	}
}

func TestStreamsDiffer(t *testing.T) {
	a := NewHashedAdapter()
	assert.NotEqual(t, draws(t, a, "parametric", 1, 0), draws(t, a, "parametric", 1, 1))
	assert.NotEqual(t, draws(t, a, "parametric", 1, 0), draws(t, a, "parametric", 2, 0))
	assert.NotEqual(t, draws(t, a, "parametric", 1, 0), draws(t, a, "nonparametric", 1, 0))
}

func TestStreamErrors(t *testing.T) {
	a := NewHashedAdapter()

	_, err := a.Stream(context.Background(), "parametric", 1, -1)
	require.Error(t, err)
	assert.True(t, core.IsRandomnessError(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.SeededStream(ctx, "x", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
