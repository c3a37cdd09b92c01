package regression

import (
	"context"
	"testing"

	"gomediate/domain/core"
	"gomediate/domain/mediation"
	"gomediate/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitOLSExact(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	z := []float64{1, 0, 1, 0, 2, 1}
	y := make([]float64, len(x))
	for i := range x {
		y[i] = 1 + 2*x[i] - 3*z[i]
	}
	data, err := mediation.NewDataset(map[string][]float64{"x": x, "z": z, "y": y})
	require.NoError(t, err)

	m, err := FitOLS(data, "y", []string{"x", "z"})
	require.NoError(t, err)

	assert.Equal(t, "y", m.Response())
	assert.Equal(t, []string{Intercept, "x", "z"}, m.Terms())
	for term, want := range map[string]float64{Intercept: 1, "x": 2, "z": -3} {
		got, ok := m.Coefficient(term)
		require.True(t, ok)
		assert.InDelta(t, want, got, 1e-9, term)
	}
	assert.InDelta(t, 0, m.ResidualVariance(), 1e-18)
	assert.Equal(t, 6, m.N())

	_, ok := m.Coefficient("w")
	assert.False(t, ok)
	_, ok = m.Covariance("x", "w")
	assert.False(t, ok)
}

func TestFitOLSCovarianceSymmetric(t *testing.T) {
	gen := testkit.NewMediationDataGenerator(testkit.DefaultMediationConfig())
	data, err := gen.Generate()
	require.NoError(t, err)

	m, err := FitOLS(data, "y", []string{"x", "m1"})
	require.NoError(t, err)

	cxy, _ := m.Covariance("x", "m1")
	cyx, _ := m.Covariance("m1", "x")
	assert.Equal(t, cxy, cyx)

	se, ok := m.StdError("m1")
	require.True(t, ok)
	assert.Greater(t, se, 0.0)
	assert.Less(t, se, 0.2)
}

func TestFitOLSSingularDesignIsRecoverable(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	data, err := mediation.NewDataset(map[string][]float64{
		"x":    x,
		"copy": x,
		"y":    {2, 1, 4, 3, 6},
	})
	require.NoError(t, err)

	_, err = FitOLS(data, "y", []string{"x", "copy"})
	require.Error(t, err)
	assert.True(t, core.IsRecoverable(err))

	_, err = FitOLS(data, "y", []string{"x", "copy", "copy", "x"})
	require.Error(t, err)
	assert.True(t, core.IsRecoverable(err), "too few observations")
}

func TestFitOLSMissingColumn(t *testing.T) {
	data, err := mediation.NewDataset(map[string][]float64{"x": {1, 2, 3}, "y": {1, 2, 3}})
	require.NoError(t, err)

	_, err = FitOLS(data, "y", []string{"nope"})
	assert.True(t, core.IsExtractionError(err))
}

func TestFitterRecoversPaths(t *testing.T) {
	cfg := testkit.SerialMediationConfig()
	cfg.Rows = 5000
	gen := testkit.NewMediationDataGenerator(cfg)
	data, err := gen.Generate()
	require.NoError(t, err)

	s, err := NewFitter().Fit(context.Background(), data, gen.Variables())
	require.NoError(t, err)

	paths := s.Paths()
	assert.InDelta(t, 0.5, paths.A, 0.05)
	require.Len(t, paths.D, 1)
	assert.InDelta(t, 0.3, paths.D[0], 0.05)
	assert.InDelta(t, 0.4, paths.B, 0.05)
	assert.InDelta(t, gen.TrueIndirectEffect(), s.IndirectEffect(), 0.02)

	cov := s.Covariance()
	for i := range cov {
		for j := range cov {
			if i == j {
				assert.Greater(t, cov[i][j], 0.0)
			} else {
				assert.Equal(t, 0.0, cov[i][j])
			}
		}
	}

	require.True(t, s.HasData())
	refit, err := s.Refitter().Refit(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, s.Coefficients(), refit.Coefficients())
	assert.False(t, refit.HasData())
}

func TestFitterWithCovariates(t *testing.T) {
	gen := testkit.NewMediationDataGenerator(testkit.DefaultMediationConfig())
	data, err := gen.Generate()
	require.NoError(t, err)

	x, _ := data.Column("x")
	m, _ := data.Column("m1")
	y, _ := data.Column("y")
	age := make([]float64, len(x))
	for i := range age {
		age[i] = float64(i % 7)
	}
	withAge, err := mediation.NewDataset(map[string][]float64{"x": x, "m1": m, "y": y, "age": age})
	require.NoError(t, err)

	vars := gen.Variables()
	vars.Covariates = []string{"age"}
	mediators, outcome, err := NewFitter().FitModels(withAge, vars)
	require.NoError(t, err)
	require.Len(t, mediators, 1)
	assert.Equal(t, []string{Intercept, "x", "age"}, mediators[0].Terms())
	assert.Equal(t, []string{Intercept, "x", "m1", "age"}, outcome.Terms())
}

func TestFitterRejectsMissingColumns(t *testing.T) {
	data, err := mediation.NewDataset(map[string][]float64{"x": {1, 2, 3}, "y": {1, 2, 3}})
	require.NoError(t, err)

	vars := mediation.Variables{Treatment: "x", Mediators: []string{"m"}, Outcome: "y"}
	_, err = NewFitter().Fit(context.Background(), data, vars)
	assert.True(t, core.IsExtractionError(err))
}

type stubModel struct {
	response string
	coefs    map[string]float64
}

func (m stubModel) Response() string { return m.response }

func (m stubModel) Coefficient(term string) (float64, bool) {
	v, ok := m.coefs[term]
	return v, ok
}

func (m stubModel) Covariance(t1, t2 string) (float64, bool) {
	_, ok1 := m.coefs[t1]
	_, ok2 := m.coefs[t2]
	if !ok1 || !ok2 {
		return 0, false
	}
	if t1 == t2 {
		return 0.01, true
	}
	return 0.005, true
}

func TestExtractSerialChain(t *testing.T) {
	vars := mediation.Variables{Treatment: "x", Mediators: []string{"m1", "m2"}, Outcome: "y"}
	models := []mediation.FittedModel{
		stubModel{"m1", map[string]float64{"x": 0.5}},
		stubModel{"m2", map[string]float64{"x": 0.1, "m1": 0.3}},
	}
	outcome := stubModel{"y", map[string]float64{"x": 0.2, "m1": 0.05, "m2": 0.4}}

	s, err := NewExtractor().Extract(context.Background(), models, outcome, vars)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.3, 0.4}, s.Coefficients())
	assert.Equal(t, 0.0, s.Covariance()[0][1])
	assert.Equal(t, 0.01, s.Covariance()[2][2])
}

func TestExtractMissingTerm(t *testing.T) {
	vars := mediation.Variables{Treatment: "x", Mediators: []string{"m"}, Outcome: "y"}

	tests := []struct {
		name    string
		models  []mediation.FittedModel
		outcome mediation.FittedModel
	}{
		{"treatment absent from mediator model", []mediation.FittedModel{stubModel{"m", map[string]float64{"z": 1}}}, stubModel{"y", map[string]float64{"m": 1}}},
		{"mediator absent from outcome model", []mediation.FittedModel{stubModel{"m", map[string]float64{"x": 1}}}, stubModel{"y", map[string]float64{"x": 1}}},
		{"wrong outcome response", []mediation.FittedModel{stubModel{"m", map[string]float64{"x": 1}}}, stubModel{"z", map[string]float64{"m": 1}}},
		{"wrong mediator response", []mediation.FittedModel{stubModel{"q", map[string]float64{"x": 1}}}, stubModel{"y", map[string]float64{"m": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor().Extract(context.Background(), tt.models, tt.outcome, vars)
			require.Error(t, err)
			assert.True(t, core.IsExtractionError(err), "got %v", err)
		})
	}

	_, err := NewExtractor().Extract(context.Background(), nil, stubModel{"y", nil}, vars)
	assert.True(t, core.IsConfigurationError(err))
}
