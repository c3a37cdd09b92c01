package testkit

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"gomediate/domain/core"
	"gomediate/domain/mediation"
)

// SlopeRefitter re-estimates each path as a simple-regression slope of the
// next variable on the previous one. It ignores the direct effect, which
// is enough to exercise the resampling machinery.
type SlopeRefitter struct {
	Vars  mediation.Variables
	calls atomic.Int64
}

// NewSlopeRefitter creates a refitter for vars
func NewSlopeRefitter(vars mediation.Variables) *SlopeRefitter {
	return &SlopeRefitter{Vars: vars}
}

// Calls is the number of Refit invocations so far
func (r *SlopeRefitter) Calls() int64 {
	return r.calls.Load()
}

// Refit implements mediation.Refitter
func (r *SlopeRefitter) Refit(ctx context.Context, data *mediation.Dataset) (*mediation.Structure, error) {
	r.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chain := append(append([]string{r.Vars.Treatment}, r.Vars.Mediators...), r.Vars.Outcome)
	coefs := make([]float64, 0, len(chain)-1)
	for i := 0; i+1 < len(chain); i++ {
		x, ok := data.Column(chain[i])
		if !ok {
			return nil, core.NewExtractionError(chain[i], "dataset")
		}
		y, ok := data.Column(chain[i+1])
		if !ok {
			return nil, core.NewExtractionError(chain[i+1], "dataset")
		}
		slope, err := Slope(x, y)
		if err != nil {
			return nil, err
		}
		coefs = append(coefs, slope)
	}

	paths, err := mediation.PathsFromVector(coefs)
	if err != nil {
		return nil, err
	}
	return mediation.NewStructure(r.Vars, paths, ZeroCovariance(len(coefs)))
}

// Slope is the least-squares slope of y on x. A constant x cannot be fitted
// and is reported as a failed refit.
func Slope(x, y []float64) (float64, error) {
	n := float64(len(x))
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= n
	my /= n

	var sxx, sxy float64
	for i := range x {
		sxx += (x[i] - mx) * (x[i] - mx)
		sxy += (x[i] - mx) * (y[i] - my)
	}
	if sxx < 1e-12 {
		return 0, core.NewRefitError("predictor has no variance")
	}
	return sxy / sxx, nil
}

// FlakyRefitter wraps another refitter and fails a deterministic share of
// resamples. Whether a resample fails depends only on its contents, so runs
// with the same seed exclude the same iterations.
type FlakyRefitter struct {
	Inner       mediation.Refitter
	Column      string
	FailPercent int
}

// Refit implements mediation.Refitter
func (r *FlakyRefitter) Refit(ctx context.Context, data *mediation.Dataset) (*mediation.Structure, error) {
	col, ok := data.Column(r.Column)
	if !ok {
		return nil, core.NewExtractionError(r.Column, "dataset")
	}
	if fingerprint(col)%100 < uint64(r.FailPercent) {
		return nil, core.NewRefitError("simulated non-convergence")
	}
	return r.Inner.Refit(ctx, data)
}

// BrokenRefitter fails with a non-recoverable error once After calls have
// succeeded through Inner.
type BrokenRefitter struct {
	Inner mediation.Refitter
	After int64
	calls atomic.Int64
}

// Calls is the number of Refit invocations so far
func (r *BrokenRefitter) Calls() int64 {
	return r.calls.Load()
}

// Refit implements mediation.Refitter
func (r *BrokenRefitter) Refit(ctx context.Context, data *mediation.Dataset) (*mediation.Structure, error) {
	if r.calls.Add(1) > r.After {
		return nil, fmt.Errorf("malformed resample")
	}
	return r.Inner.Refit(ctx, data)
}

// ZeroCovariance returns a k×k zero matrix
func ZeroCovariance(k int) [][]float64 {
	out := make([][]float64, k)
	for i := range out {
		out[i] = make([]float64, k)
	}
	return out
}

// DiagonalCovariance returns a diagonal matrix with the given variances
func DiagonalCovariance(variances ...float64) [][]float64 {
	out := ZeroCovariance(len(variances))
	for i, v := range variances {
		out[i][i] = v
	}
	return out
}

func fingerprint(col []float64) uint64 {
	var h uint64 = 5381
	for _, v := range col {
		h = ((h << 5) + h) + math.Float64bits(v)
	}
	return h
}
