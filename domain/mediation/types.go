package mediation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gomediate/domain/core"
)

// Variables names the roles of a (possibly serial) mediation model.
// Mediators are ordered along the chain: X -> M1 -> ... -> Mk -> Y.
type Variables struct {
	Treatment  string   `json:"treatment" mapstructure:"treatment"`
	Mediators  []string `json:"mediators" mapstructure:"mediators"`
	Outcome    string   `json:"outcome" mapstructure:"outcome"`
	Covariates []string `json:"covariates,omitempty" mapstructure:"covariates"`
}

// Validate checks that every role is named and no name is reused
func (v Variables) Validate() error {
	if strings.TrimSpace(v.Treatment) == "" {
		return core.NewConfigurationError("treatment", "name is required")
	}
	if strings.TrimSpace(v.Outcome) == "" {
		return core.NewConfigurationError("outcome", "name is required")
	}
	if len(v.Mediators) == 0 {
		return core.NewConfigurationError("mediators", "at least one mediator is required")
	}

	seen := map[string]bool{v.Treatment: true}
	for _, name := range append(append([]string{}, v.Mediators...), v.Outcome) {
		if strings.TrimSpace(name) == "" {
			return core.NewConfigurationError("mediators", "empty mediator name")
		}
		if seen[name] {
			return core.NewConfigurationError("variables", fmt.Sprintf("%q used for more than one role", name))
		}
		seen[name] = true
	}
	for _, name := range v.Covariates {
		if seen[name] {
			return core.NewConfigurationError("covariates", fmt.Sprintf("%q is already a model variable", name))
		}
	}
	return nil
}

// Serial reports whether the chain has more than one mediator
func (v Variables) Serial() bool {
	return len(v.Mediators) > 1
}

// Columns returns every column a model over these variables reads
func (v Variables) Columns() []string {
	cols := make([]string, 0, 2+len(v.Mediators)+len(v.Covariates))
	cols = append(cols, v.Treatment)
	cols = append(cols, v.Mediators...)
	cols = append(cols, v.Outcome)
	cols = append(cols, v.Covariates...)
	return cols
}

// Paths holds the point estimates along the chain.
// A is treatment -> first mediator, D[j] is mediator j -> mediator j+1,
// B is last mediator -> outcome.
type Paths struct {
	A float64   `json:"a"`
	D []float64 `json:"d,omitempty"`
	B float64   `json:"b"`
}

// Vector flattens the paths into chain order [a, d1..dk-1, b]
func (p Paths) Vector() []float64 {
	out := make([]float64, 0, 2+len(p.D))
	out = append(out, p.A)
	out = append(out, p.D...)
	return append(out, p.B)
}

// PathsFromVector is the inverse of Vector
func PathsFromVector(v []float64) (Paths, error) {
	if len(v) < 2 {
		return Paths{}, core.NewConfigurationError("paths", fmt.Sprintf("need at least 2 coefficients, got %d", len(v)))
	}
	d := append([]float64(nil), v[1:len(v)-1]...)
	if len(d) == 0 {
		d = nil
	}
	return Paths{A: v[0], D: d, B: v[len(v)-1]}, nil
}

// IndirectEffect is the product of all path coefficients along the chain
func IndirectEffect(coefficients []float64) float64 {
	effect := 1.0
	for _, c := range coefficients {
		effect *= c
	}
	return effect
}

// FittedModel is the view of a fitted regression the extractor needs.
// Implementations come from the modelling layer.
type FittedModel interface {
	Response() string
	Coefficient(term string) (float64, bool)
	Covariance(term1, term2 string) (float64, bool)
}

// Refitter re-estimates a structure on a resampled dataset.
// A non-converging fit must return an error wrapping core.ErrRefitFailed.
type Refitter interface {
	Refit(ctx context.Context, data *Dataset) (*Structure, error)
}

// Structure is an extracted mediation model: path coefficients, their
// covariance and, optionally, the data and refit operation needed for
// nonparametric resampling. Immutable once built.
type Structure struct {
	vars         Variables
	coefficients []float64
	covariance   [][]float64
	data         *Dataset
	refitter     Refitter
}

// NewStructure validates and builds an immutable structure.
// covariance is over the chain-ordered coefficient vector (see Paths.Vector).
func NewStructure(vars Variables, paths Paths, covariance [][]float64) (*Structure, error) {
	if err := vars.Validate(); err != nil {
		return nil, err
	}
	if len(paths.D) != len(vars.Mediators)-1 {
		return nil, core.NewConfigurationError("paths",
			fmt.Sprintf("%d mediators need %d d-paths, got %d", len(vars.Mediators), len(vars.Mediators)-1, len(paths.D)))
	}

	coefs := paths.Vector()
	for i, c := range coefs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, core.NewConfigurationError("paths", fmt.Sprintf("coefficient %d is not finite", i))
		}
	}

	cov, err := copyCovariance(covariance, len(coefs))
	if err != nil {
		return nil, err
	}

	return &Structure{
		vars:         copyVariables(vars),
		coefficients: coefs,
		covariance:   cov,
	}, nil
}

// WithData returns a copy of the structure carrying the original dataset
// and the refit operation used by the nonparametric strategy.
func (s *Structure) WithData(data *Dataset, refitter Refitter) *Structure {
	clone := *s
	clone.data = data
	clone.refitter = refitter
	return &clone
}

// Variables returns the variable roles
func (s *Structure) Variables() Variables { return copyVariables(s.vars) }

// Paths returns the path point estimates
func (s *Structure) Paths() Paths {
	p, _ := PathsFromVector(s.coefficients)
	return p
}

// Coefficients returns a copy of the chain-ordered coefficient vector
func (s *Structure) Coefficients() []float64 {
	return append([]float64(nil), s.coefficients...)
}

// Covariance returns a copy of the coefficient covariance matrix
func (s *Structure) Covariance() [][]float64 {
	out := make([][]float64, len(s.covariance))
	for i, row := range s.covariance {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Dim is the number of path coefficients
func (s *Structure) Dim() int { return len(s.coefficients) }

// Data returns the original dataset, or nil when none was attached
func (s *Structure) Data() *Dataset { return s.data }

// Refitter returns the refit operation, or nil when none was attached
func (s *Structure) Refitter() Refitter { return s.refitter }

// HasData reports whether nonparametric resampling is possible
func (s *Structure) HasData() bool {
	return s.data != nil && s.data.Len() > 0 && s.refitter != nil
}

// IndirectEffect is the plugin estimate: the product of the point estimates
func (s *Structure) IndirectEffect() float64 {
	return IndirectEffect(s.coefficients)
}

func copyCovariance(cov [][]float64, k int) ([][]float64, error) {
	if len(cov) != k {
		return nil, core.NewConfigurationError("covariance", fmt.Sprintf("expected %dx%d matrix, got %d rows", k, k, len(cov)))
	}
	out := make([][]float64, k)
	for i := range cov {
		if len(cov[i]) != k {
			return nil, core.NewConfigurationError("covariance", fmt.Sprintf("row %d has %d columns, expected %d", i, len(cov[i]), k))
		}
		out[i] = append([]float64(nil), cov[i]...)
	}
	for i := range out {
		for j, v := range out[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, core.NewConfigurationError("covariance", fmt.Sprintf("entry (%d,%d) is not finite", i, j))
			}
		}
	}
	const tol = 1e-10
	for i := 0; i < k; i++ {
		if out[i][i] < 0 {
			return nil, core.NewConfigurationError("covariance", fmt.Sprintf("variance %d must be non-negative", i))
		}
		for j := 0; j < i; j++ {
			scale := math.Max(1, math.Max(math.Abs(out[i][j]), math.Abs(out[j][i])))
			if math.Abs(out[i][j]-out[j][i]) > tol*scale {
				return nil, core.NewConfigurationError("covariance", fmt.Sprintf("matrix is not symmetric at (%d,%d)", i, j))
			}
		}
	}
	return out, nil
}

func copyVariables(v Variables) Variables {
	v.Mediators = append([]string(nil), v.Mediators...)
	if v.Covariates != nil {
		v.Covariates = append([]string(nil), v.Covariates...)
	}
	return v
}
