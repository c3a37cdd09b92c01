package bootstrap

import (
	"encoding/json"
	"math"
	"runtime"
	"testing"

	"gomediate/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"parametric", "Nonparametric", " PLUGIN "} {
		_, err := ParseMethod(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseMethod("bca")
	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
}

func TestConfigValidate(t *testing.T) {
	base := DefaultConfig()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"ci level zero", func(c *Config) { c.CILevel = 0 }, true},
		{"ci level one", func(c *Config) { c.CILevel = 1 }, true},
		{"ci level nan", func(c *Config) { c.CILevel = math.NaN() }, true},
		{"zero n_boot parametric", func(c *Config) { c.NBoot = 0 }, true},
		{"negative n_boot nonparametric", func(c *Config) { c.Method = MethodNonparametric; c.NBoot = -5 }, true},
		{"zero n_boot plugin", func(c *Config) { c.Method = MethodPlugin; c.NBoot = 0 }, false},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"exclusion rate one", func(c *Config) { c.MaxExclusionRate = 1 }, true},
		{"exclusion rate nan", func(c *Config) { c.MaxExclusionRate = math.NaN() }, true},
		{"zero exclusion rate", func(c *Config) { c.MaxExclusionRate = 0 }, false},
		{"negative exclusion rate means default", func(c *Config) { c.MaxExclusionRate = -1 }, false},
		{"unknown method", func(c *Config) { c.Method = "studentized" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsConfigurationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigNormalized(t *testing.T) {
	c := Config{Method: MethodPlugin, NBoot: 500, CILevel: 0.9, MaxExclusionRate: -1}
	n := c.Normalized()
	assert.Equal(t, 0, n.NBoot, "plugin runs always carry n_boot 0")
	assert.Equal(t, 1, n.Workers)
	assert.Equal(t, DefaultMaxExclusionRate, n.MaxExclusionRate)

	c.MaxExclusionRate = 0
	assert.Zero(t, c.Normalized().MaxExclusionRate, "zero tolerance is kept")

	c = Config{Method: MethodParametric, NBoot: 10, CILevel: 0.9, Parallel: true}
	assert.Equal(t, runtime.NumCPU(), c.Normalized().Workers)

	c.Workers = 3
	assert.Equal(t, 3, c.Normalized().Workers)

	c.Parallel = false
	assert.Equal(t, 1, c.Normalized().Workers)
}

func TestIntervalExcludesZero(t *testing.T) {
	tests := []struct {
		iv   Interval
		want bool
	}{
		{Interval{Lower: 0.01, Upper: 0.2}, true},
		{Interval{Lower: -0.2, Upper: -0.01}, true},
		{Interval{Lower: -0.1, Upper: 0.1}, false},
		{Interval{Lower: 0, Upper: 0.3}, false},
		{Interval{Lower: -0.3, Upper: 0}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.iv.ExcludesZero(), "%+v", tt.iv)
	}
}

func TestResultImmutable(t *testing.T) {
	dist := []float64{0.1, 0.2, 0.3}
	seed := int64(7)
	r := NewResult(ResultParams{
		RunID:         core.NewRunID(),
		Estimate:      0.2,
		Interval:      &Interval{Lower: 0.1, Upper: 0.3, Level: 0.95},
		Distribution:  dist,
		Config:        DefaultConfig().WithSeed(seed),
		EffectiveSeed: &seed,
	})

	dist[0] = 99
	got := r.Distribution()
	assert.Equal(t, 0.1, got[0])
	got[1] = 99
	assert.Equal(t, 0.2, r.Distribution()[1])

	cfg := r.Config()
	*cfg.Seed = 100
	s, ok := r.EffectiveSeed()
	assert.True(t, ok)
	assert.Equal(t, int64(7), s)
	assert.Equal(t, int64(7), *r.Config().Seed)
}

func TestPluginResultHasNoBounds(t *testing.T) {
	r := NewResult(ResultParams{
		Estimate:     0.06,
		Distribution: []float64{0.06},
		Config:       Config{Method: MethodPlugin, NBoot: 100, CILevel: 0.95},
	})

	_, ok := r.Interval()
	assert.False(t, ok)
	_, ok = r.CILower()
	assert.False(t, ok)
	_, ok = r.CIUpper()
	assert.False(t, ok)
	assert.False(t, r.Significant())
	assert.Equal(t, 0, r.Config().NBoot)

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["ci_lower"])
	assert.Nil(t, decoded["ci_upper"])
	assert.Equal(t, "plugin", decoded["method"])
}

func TestSignificantBoundary(t *testing.T) {
	r := NewResult(ResultParams{
		Interval: &Interval{Lower: 0, Upper: 0.5, Level: 0.95},
		Config:   DefaultConfig(),
	})
	assert.False(t, r.Significant(), "a lower bound exactly at zero is not significant")

	r = NewResult(ResultParams{
		Interval: &Interval{Lower: 1e-12, Upper: 0.5, Level: 0.95},
		Config:   DefaultConfig(),
	})
	assert.True(t, r.Significant())
}
