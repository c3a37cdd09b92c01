package bootstrap

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"gomediate/domain/core"
	"gomediate/domain/mediation"

	"gonum.org/v1/gonum/mat"
)

// parametricEstimator draws θ* ~ N(θ̂, Σ̂) and returns the product of θ*.
// Σ̂ is factored once as F Fᵀ so each draw is θ̂ + F z with z ~ N(0, I).
type parametricEstimator struct {
	mean   []float64
	factor [][]float64
}

func newParametricEstimator(s *mediation.Structure) (*parametricEstimator, error) {
	k := s.Dim()
	flat := make([]float64, 0, k*k)
	for _, row := range s.Covariance() {
		flat = append(flat, row...)
	}

	factor, err := covarianceFactor(mat.NewSymDense(k, flat))
	if err != nil {
		return nil, err
	}
	return &parametricEstimator{mean: s.Coefficients(), factor: factor}, nil
}

func (p *parametricEstimator) estimate(_ context.Context, rng *rand.Rand) (float64, error) {
	k := len(p.mean)
	z := make([]float64, k)
	for i := range z {
		z[i] = rng.NormFloat64()
	}

	effect := 1.0
	for i := 0; i < k; i++ {
		theta := p.mean[i]
		for j, f := range p.factor[i] {
			theta += f * z[j]
		}
		effect *= theta
	}
	return effect, nil
}

// covarianceFactor returns F with Σ = F Fᵀ. Positive definite matrices use
// the Cholesky factor; semi-definite ones (a path with zero variance, say)
// fall back to the eigendecomposition V sqrt(Λ), clipping eigenvalues that
// are negative only through rounding.
func covarianceFactor(sigma *mat.SymDense) ([][]float64, error) {
	k := sigma.SymmetricDim()
	out := make([][]float64, k)
	for i := range out {
		out[i] = make([]float64, k)
	}

	var chol mat.Cholesky
	if chol.Factorize(sigma) {
		var l mat.TriDense
		chol.LTo(&l)
		for i := 0; i < k; i++ {
			for j := 0; j <= i; j++ {
				out[i][j] = l.At(i, j)
			}
		}
		return out, nil
	}

	var eig mat.EigenSym
	if !eig.Factorize(sigma, true) {
		return nil, core.NewConfigurationError("covariance", "eigendecomposition did not converge")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	largest := 0.0
	for _, v := range values {
		largest = math.Max(largest, math.Abs(v))
	}
	const tol = 1e-6
	for j, v := range values {
		if v < -tol*largest {
			return nil, core.NewConfigurationError("covariance", fmt.Sprintf("matrix is not positive semi-definite (eigenvalue %g)", v))
		}
		if v < 0 {
			values[j] = 0
		}
	}

	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			out[i][j] = vectors.At(i, j) * math.Sqrt(values[j])
		}
	}
	return out, nil
}
