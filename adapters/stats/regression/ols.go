package regression

import (
	"fmt"
	"math"

	"gomediate/domain/core"
	"gomediate/domain/mediation"

	"gonum.org/v1/gonum/mat"
)

// Intercept is the term name of the constant column
const Intercept = "(Intercept)"

// maxCondition bounds the condition number of XᵀX before a design is
// treated as singular
const maxCondition = 1e12

// LinearModel is an ordinary least squares fit of one response on a set of
// predictors plus an intercept. It implements mediation.FittedModel.
type LinearModel struct {
	response string
	terms    []string
	index    map[string]int
	coef     []float64
	cov      *mat.SymDense
	n        int
	sigma2   float64
}

// FitOLS regresses response on predictors using the columns of data.
// A design that cannot be inverted, or one with no residual degrees of
// freedom, is reported with core.ErrRefitFailed so a resample hitting it
// can be excluded rather than aborting a bootstrap.
func FitOLS(data *mediation.Dataset, response string, predictors []string) (*LinearModel, error) {
	if err := data.Require(append([]string{response}, predictors...)...); err != nil {
		return nil, err
	}

	n := data.Len()
	p := len(predictors) + 1
	if n <= p {
		return nil, core.NewRefitError(fmt.Sprintf("%s: %d observations for %d terms", response, n, p))
	}

	terms := append([]string{Intercept}, predictors...)
	design := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
	}
	for j, name := range predictors {
		col, _ := data.Column(name)
		for i, v := range col {
			design.Set(i, j+1, v)
		}
	}
	y, _ := data.Column(response)
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	var xtx mat.SymDense
	xtx.SymOuterK(1, design.T())

	var chol mat.Cholesky
	if !chol.Factorize(&xtx) || chol.Cond() > maxCondition {
		return nil, core.NewRefitError(fmt.Sprintf("%s: singular design matrix", response))
	}

	var xty, beta mat.VecDense
	xty.MulVec(design.T(), yv)
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, core.NewRefitError(fmt.Sprintf("%s: %v", response, err))
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := yv.AtVec(i) - fitted.AtVec(i)
		rss += r * r
	}
	sigma2 := rss / float64(n-p)

	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, core.NewRefitError(fmt.Sprintf("%s: %v", response, err))
	}
	inv.ScaleSym(sigma2, &inv)

	coef := make([]float64, p)
	index := make(map[string]int, p)
	for j, name := range terms {
		coef[j] = beta.AtVec(j)
		index[name] = j
		if math.IsNaN(coef[j]) || math.IsInf(coef[j], 0) {
			return nil, core.NewRefitError(fmt.Sprintf("%s: non-finite coefficient for %s", response, name))
		}
	}

	return &LinearModel{
		response: response,
		terms:    terms,
		index:    index,
		coef:     coef,
		cov:      &inv,
		n:        n,
		sigma2:   sigma2,
	}, nil
}

// Response returns the name of the dependent variable
func (m *LinearModel) Response() string { return m.response }

// Terms returns the term names, intercept first
func (m *LinearModel) Terms() []string { return append([]string(nil), m.terms...) }

// Coefficient returns the estimate for term
func (m *LinearModel) Coefficient(term string) (float64, bool) {
	j, ok := m.index[term]
	if !ok {
		return 0, false
	}
	return m.coef[j], true
}

// Covariance returns the estimated covariance of two coefficients
func (m *LinearModel) Covariance(term1, term2 string) (float64, bool) {
	i, ok1 := m.index[term1]
	j, ok2 := m.index[term2]
	if !ok1 || !ok2 {
		return 0, false
	}
	return m.cov.At(i, j), true
}

// StdError returns the standard error of term
func (m *LinearModel) StdError(term string) (float64, bool) {
	v, ok := m.Covariance(term, term)
	if !ok {
		return 0, false
	}
	return math.Sqrt(v), true
}

// N is the number of observations used in the fit
func (m *LinearModel) N() int { return m.n }

// ResidualVariance is the unbiased estimate of the error variance
func (m *LinearModel) ResidualVariance() float64 { return m.sigma2 }
