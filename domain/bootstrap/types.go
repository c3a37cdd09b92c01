package bootstrap

import (
	"fmt"
	"math"
	"runtime"
	"strings"

	"gomediate/domain/core"
)

// Method selects the estimation strategy
type Method string

const (
	MethodParametric    Method = "parametric"
	MethodNonparametric Method = "nonparametric"
	MethodPlugin        Method = "plugin"
)

// ParseMethod parses a method name, case-insensitively
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodParametric:
		return MethodParametric, nil
	case MethodNonparametric:
		return MethodNonparametric, nil
	case MethodPlugin:
		return MethodPlugin, nil
	}
	return "", core.NewConfigurationError("method", fmt.Sprintf("unknown method %q (parametric, nonparametric, plugin)", s))
}

func (m Method) String() string { return string(m) }

// Resamples reports whether the method draws a bootstrap distribution
func (m Method) Resamples() bool {
	return m == MethodParametric || m == MethodNonparametric
}

// DefaultMaxExclusionRate is the share of nonparametric resamples that may
// fail to converge before the whole run is rejected.
const DefaultMaxExclusionRate = 0.10

// Config controls one bootstrap invocation
type Config struct {
	Method   Method  `json:"method" mapstructure:"method"`
	NBoot    int     `json:"n_boot" mapstructure:"n_boot"`
	CILevel  float64 `json:"ci_level" mapstructure:"ci_level"`
	Seed     *int64  `json:"seed" mapstructure:"seed"`
	Parallel bool    `json:"parallel" mapstructure:"parallel"`
	Workers  int     `json:"workers" mapstructure:"workers"`

	// MaxExclusionRate bounds excluded/n_boot for nonparametric runs.
	// Zero tolerates no failed refit; a negative value means DefaultMaxExclusionRate.
	MaxExclusionRate float64 `json:"max_exclusion_rate" mapstructure:"max_exclusion_rate"`
}

// DefaultConfig returns the settings used when nothing is specified
func DefaultConfig() Config {
	return Config{
		Method:           MethodParametric,
		NBoot:            1000,
		CILevel:          0.95,
		MaxExclusionRate: DefaultMaxExclusionRate,
	}
}

// WithSeed returns a copy of c with the given seed
func (c Config) WithSeed(seed int64) Config {
	c.Seed = &seed
	return c
}

// Validate checks the settings that do not depend on the structure
func (c Config) Validate() error {
	if _, err := ParseMethod(string(c.Method)); err != nil {
		return err
	}
	if math.IsNaN(c.CILevel) || c.CILevel <= 0 || c.CILevel >= 1 {
		return core.NewConfigurationError("ci_level", fmt.Sprintf("must be in (0,1), got %v", c.CILevel))
	}
	if c.Method.Resamples() && c.NBoot <= 0 {
		return core.NewConfigurationError("n_boot", fmt.Sprintf("must be positive for %s bootstrap, got %d", c.Method, c.NBoot))
	}
	if c.Workers < 0 {
		return core.NewConfigurationError("workers", fmt.Sprintf("must not be negative, got %d", c.Workers))
	}
	if math.IsNaN(c.MaxExclusionRate) || c.MaxExclusionRate >= 1 {
		return core.NewConfigurationError("max_exclusion_rate", fmt.Sprintf("must be below 1, got %v", c.MaxExclusionRate))
	}
	return nil
}

// Normalized returns the configuration as it is actually applied:
// the method name is canonical, plugin runs carry n_boot 0, serial runs one worker, parallel runs with no
// explicit worker count use every CPU, and a negative exclusion rate takes the default.
func (c Config) Normalized() Config {
	out := c
	if c.Seed != nil {
		seed := *c.Seed
		out.Seed = &seed
	}
	if m, err := ParseMethod(string(out.Method)); err == nil {
		out.Method = m
	}
	if out.Method == MethodPlugin {
		out.NBoot = 0
	}
	switch {
	case !out.Parallel:
		out.Workers = 1
	case out.Workers <= 0:
		out.Workers = runtime.NumCPU()
	}
	if out.MaxExclusionRate < 0 {
		out.MaxExclusionRate = DefaultMaxExclusionRate
	}
	return out
}

// Interval is a two-sided percentile confidence interval
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"`
}

// Width returns Upper - Lower
func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

// ExcludesZero is the significance rule: the interval lies strictly on one
// side of zero. A bound exactly at zero is not significant.
func (i Interval) ExcludesZero() bool {
	return i.Lower > 0 || i.Upper < 0
}

// Contains reports whether v lies within the closed interval
func (i Interval) Contains(v float64) bool {
	return v >= i.Lower && v <= i.Upper
}
