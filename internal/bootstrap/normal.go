package bootstrap

import (
	"fmt"
	"math"

	"gomediate/domain/bootstrap"
	"gomediate/domain/core"
	"gomediate/domain/mediation"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalTheory is the first-order delta-method (Sobel) approximation for
// the indirect effect, reported next to the bootstrap interval for comparison.
type NormalTheory struct {
	Estimate float64            `json:"estimate"`
	StdError float64            `json:"std_error"`
	Z        float64            `json:"z"`
	PValue   float64            `json:"p_value"`
	Interval bootstrap.Interval `json:"interval"`
}

// DeltaMethod computes the normal-theory standard error gᵀΣg where g is the
// gradient of the coefficient product, and the two-sided Wald interval.
func DeltaMethod(s *mediation.Structure, level float64) (NormalTheory, error) {
	if s == nil {
		return NormalTheory{}, core.NewConfigurationError("structure", "mediation structure is required")
	}
	if math.IsNaN(level) || level <= 0 || level >= 1 {
		return NormalTheory{}, core.NewConfigurationError("ci_level", fmt.Sprintf("must be in (0,1), got %v", level))
	}

	coefs := s.Coefficients()
	cov := s.Covariance()

	grad := make([]float64, len(coefs))
	for i := range coefs {
		g := 1.0
		for j, c := range coefs {
			if j != i {
				g *= c
			}
		}
		grad[i] = g
	}

	variance := 0.0
	for i := range grad {
		for j := range grad {
			variance += grad[i] * cov[i][j] * grad[j]
		}
	}

	estimate := s.IndirectEffect()
	se := math.Sqrt(math.Max(variance, 0))
	crit := distuv.UnitNormal.Quantile(1 - (1-level)/2)

	out := NormalTheory{
		Estimate: estimate,
		StdError: se,
		Interval: bootstrap.Interval{Lower: estimate - crit*se, Upper: estimate + crit*se, Level: level},
		PValue:   1,
	}
	if se > 0 {
		out.Z = estimate / se
		out.PValue = 2 * distuv.UnitNormal.Survival(math.Abs(out.Z))
	}
	return out, nil
}
