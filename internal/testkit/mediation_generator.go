package testkit

import (
	"fmt"
	"math/rand"

	"gomediate/domain/mediation"
)

// MediationGeneratorConfig configures synthetic mediation data.
// The data follow the linear chain
//
//	M1 = A*X + e1
//	M(j+1) = D[j]*Mj + e(j+1)
//	Y  = B*Mk + Direct*X + eY
//
// with X ~ N(0,1) and all noise terms ~ N(0, NoiseSD²).
type MediationGeneratorConfig struct {
	Rows    int       `json:"rows"`
	A       float64   `json:"a"`
	D       []float64 `json:"d"`
	B       float64   `json:"b"`
	Direct  float64   `json:"direct"`
	NoiseSD float64   `json:"noise_sd"`
	Seed    int64     `json:"seed"`
}

// DefaultMediationConfig returns a simple mediation with a clear indirect effect
func DefaultMediationConfig() MediationGeneratorConfig {
	return MediationGeneratorConfig{
		Rows:    200,
		A:       0.5,
		B:       0.4,
		Direct:  0.2,
		NoiseSD: 1.0,
		Seed:    42,
	}
}

// SerialMediationConfig returns a two-mediator chain with a=0.5, d=0.3, b=0.4
func SerialMediationConfig() MediationGeneratorConfig {
	cfg := DefaultMediationConfig()
	cfg.D = []float64{0.3}
	return cfg
}

// MediationDataGenerator generates datasets with known path coefficients
type MediationDataGenerator struct {
	config MediationGeneratorConfig
	rng    *rand.Rand
}

// NewMediationDataGenerator creates a new generator
func NewMediationDataGenerator(config MediationGeneratorConfig) *MediationDataGenerator {
	return &MediationDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Variables names the generated columns: x, m1..mk, y
func (g *MediationDataGenerator) Variables() mediation.Variables {
	mediators := make([]string, len(g.config.D)+1)
	for i := range mediators {
		mediators[i] = fmt.Sprintf("m%d", i+1)
	}
	return mediation.Variables{Treatment: "x", Mediators: mediators, Outcome: "y"}
}

// TrueIndirectEffect is the product of the configured paths
func (g *MediationDataGenerator) TrueIndirectEffect() float64 {
	effect := g.config.A * g.config.B
	for _, d := range g.config.D {
		effect *= d
	}
	return effect
}

// Generate draws one dataset
func (g *MediationDataGenerator) Generate() (*mediation.Dataset, error) {
	n := g.config.Rows
	vars := g.Variables()

	x := make([]float64, n)
	for i := range x {
		x[i] = g.rng.NormFloat64()
	}

	columns := map[string][]float64{vars.Treatment: x}
	prev := x
	coef := g.config.A
	for j, name := range vars.Mediators {
		m := make([]float64, n)
		for i := range m {
			m[i] = coef*prev[i] + g.noise()
		}
		columns[name] = m
		prev = m
		if j < len(g.config.D) {
			coef = g.config.D[j]
		}
	}

	y := make([]float64, n)
	for i := range y {
		y[i] = g.config.B*prev[i] + g.config.Direct*x[i] + g.noise()
	}
	columns[vars.Outcome] = y

	return mediation.NewDataset(columns)
}

func (g *MediationDataGenerator) noise() float64 {
	return g.rng.NormFloat64() * g.config.NoiseSD
}
