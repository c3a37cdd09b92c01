package bootstrap

import (
	"encoding/json"

	"gomediate/domain/core"
)

// Summary describes the shape of a bootstrap distribution
type Summary struct {
	Mean     float64 `json:"mean"`
	StdError float64 `json:"std_error"`
	Median   float64 `json:"median"`
}

// ResultParams carries everything needed to build a Result
type ResultParams struct {
	RunID         core.RunID
	Estimate      float64
	Interval      *Interval
	Distribution  []float64
	Excluded      int
	Config        Config
	EffectiveSeed *int64
	Summary       *Summary
}

// Result is the immutable outcome of one bootstrap invocation: the point
// estimate, the percentile interval (absent for plugin runs), the ordered
// bootstrap distribution and the exact configuration that produced them.
type Result struct {
	runID         core.RunID
	estimate      float64
	interval      *Interval
	distribution  []float64
	excluded      int
	config        Config
	effectiveSeed *int64
	summary       *Summary
}

// NewResult copies params into a new Result
func NewResult(p ResultParams) *Result {
	r := &Result{
		runID:        p.RunID,
		estimate:     p.Estimate,
		distribution: append([]float64(nil), p.Distribution...),
		excluded:     p.Excluded,
		config:       p.Config.Normalized(),
	}
	if p.Interval != nil {
		iv := *p.Interval
		r.interval = &iv
	}
	if p.EffectiveSeed != nil {
		seed := *p.EffectiveSeed
		r.effectiveSeed = &seed
	}
	if p.Summary != nil {
		s := *p.Summary
		r.summary = &s
	}
	return r
}

func (r *Result) RunID() core.RunID { return r.runID }

// Estimate is the original-data plugin estimate of the indirect effect
func (r *Result) Estimate() float64 { return r.estimate }

// Interval returns the percentile interval. ok is false for plugin runs,
// whose bounds are undefined and must not be used.
func (r *Result) Interval() (iv Interval, ok bool) {
	if r.interval == nil {
		return Interval{}, false
	}
	return *r.interval, true
}

// CILower returns the lower bound, if defined
func (r *Result) CILower() (float64, bool) {
	if r.interval == nil {
		return 0, false
	}
	return r.interval.Lower, true
}

// CIUpper returns the upper bound, if defined
func (r *Result) CIUpper() (float64, bool) {
	if r.interval == nil {
		return 0, false
	}
	return r.interval.Upper, true
}

// Distribution returns a copy of the bootstrap values in iteration order
func (r *Result) Distribution() []float64 {
	return append([]float64(nil), r.distribution...)
}

// Len is the number of retained bootstrap values
func (r *Result) Len() int { return len(r.distribution) }

// Excluded is the number of nonparametric resamples dropped for non-convergence
func (r *Result) Excluded() int { return r.excluded }

// Config is the normalized configuration the run used
func (r *Result) Config() Config {
	c := r.config
	if c.Seed != nil {
		seed := *c.Seed
		c.Seed = &seed
	}
	return c
}

// Method is shorthand for Config().Method
func (r *Result) Method() Method { return r.config.Method }

// EffectiveSeed is the seed the random streams were derived from. It equals
// Config().Seed when one was supplied and is drawn from the OS otherwise.
// Plugin runs use no randomness and report ok=false.
func (r *Result) EffectiveSeed() (int64, bool) {
	if r.effectiveSeed == nil {
		return 0, false
	}
	return *r.effectiveSeed, true
}

// Summary describes the bootstrap distribution; absent for plugin runs
func (r *Result) Summary() (Summary, bool) {
	if r.summary == nil {
		return Summary{}, false
	}
	return *r.summary, true
}

// Significant reports whether the interval excludes zero.
// Plugin runs have no interval and are never significant.
func (r *Result) Significant() bool {
	return r.interval != nil && r.interval.ExcludesZero()
}

type resultJSON struct {
	RunID         string    `json:"run_id"`
	Method        Method    `json:"method"`
	Estimate      float64   `json:"estimate"`
	CILower       *float64  `json:"ci_lower"`
	CIUpper       *float64  `json:"ci_upper"`
	Significant   bool      `json:"significant"`
	Distribution  []float64 `json:"distribution"`
	Excluded      int       `json:"excluded"`
	Config        Config    `json:"config"`
	EffectiveSeed *int64    `json:"effective_seed"`
	Summary       *Summary  `json:"summary,omitempty"`
}

// MarshalJSON emits null bounds for plugin runs
func (r *Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		RunID:         r.runID.String(),
		Method:        r.config.Method,
		Estimate:      r.estimate,
		Significant:   r.Significant(),
		Distribution:  r.distribution,
		Excluded:      r.excluded,
		Config:        r.config,
		EffectiveSeed: r.effectiveSeed,
		Summary:       r.summary,
	}
	if r.interval != nil {
		lo, hi := r.interval.Lower, r.interval.Upper
		out.CILower = &lo
		out.CIUpper = &hi
	}
	if out.Distribution == nil {
		out.Distribution = []float64{}
	}
	return json.Marshal(out)
}
