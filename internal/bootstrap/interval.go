package bootstrap

import (
	"fmt"
	"math"
	"sort"

	"gomediate/domain/bootstrap"
	"gomediate/domain/core"

	"github.com/montanaflynn/stats"
)

// Quantile returns the p-quantile of an ascending sample, interpolating
// linearly between neighbouring order statistics (Hyndman-Fan type 7).
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return math.NaN()
	case n == 1 || p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}

	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// PercentileInterval computes the two-sided percentile interval at level:
// the (1-level)/2 and 1-(1-level)/2 quantiles of the distribution.
func PercentileInterval(distribution []float64, level float64) (bootstrap.Interval, error) {
	if len(distribution) == 0 {
		return bootstrap.Interval{}, fmt.Errorf("%w: empty bootstrap distribution", core.ErrInsufficientData)
	}
	if math.IsNaN(level) || level <= 0 || level >= 1 {
		return bootstrap.Interval{}, core.NewConfigurationError("ci_level", fmt.Sprintf("must be in (0,1), got %v", level))
	}

	sorted := append([]float64(nil), distribution...)
	sort.Float64s(sorted)

	tail := (1 - level) / 2
	return bootstrap.Interval{
		Lower: Quantile(sorted, tail),
		Upper: Quantile(sorted, 1-tail),
		Level: level,
	}, nil
}

// Summarize describes the centre and spread of a bootstrap distribution.
// The standard error is the sample standard deviation of the distribution.
func Summarize(distribution []float64) (bootstrap.Summary, error) {
	if len(distribution) == 0 {
		return bootstrap.Summary{}, fmt.Errorf("%w: empty bootstrap distribution", core.ErrInsufficientData)
	}
	data := stats.Float64Data(distribution)

	mean, err := stats.Mean(data)
	if err != nil {
		return bootstrap.Summary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return bootstrap.Summary{}, err
	}

	se := 0.0
	if len(distribution) > 1 {
		se, err = stats.StandardDeviationSample(data)
		if err != nil {
			return bootstrap.Summary{}, err
		}
	}

	return bootstrap.Summary{Mean: mean, StdError: se, Median: median}, nil
}
