// Package testkit provides fixtures for mediation bootstrap tests.
package testkit

import (
	"context"
	"fmt"

	"gomediate/adapters/rng"
	"gomediate/domain/mediation"
	"gomediate/ports"
)

// RNGAdapter returns the production RNG adapter
func RNGAdapter() ports.RNGPort {
	return rng.NewHashedAdapter()
}

// SimpleStructure builds X -> M -> Y with independent path estimates
func SimpleStructure(a, b, varA, varB float64) (*mediation.Structure, error) {
	vars := mediation.Variables{Treatment: "x", Mediators: []string{"m1"}, Outcome: "y"}
	return mediation.NewStructure(vars, mediation.Paths{A: a, B: b}, DiagonalCovariance(varA, varB))
}

// SerialStructure builds X -> M1 -> ... -> Mk -> Y with paths a, d..., b
// and a shared variance for every coefficient
func SerialStructure(variance float64, a float64, d []float64, b float64) (*mediation.Structure, error) {
	mediators := make([]string, len(d)+1)
	for i := range mediators {
		mediators[i] = fmt.Sprintf("m%d", i+1)
	}
	vars := mediation.Variables{Treatment: "x", Mediators: mediators, Outcome: "y"}

	variances := make([]float64, len(d)+2)
	for i := range variances {
		variances[i] = variance
	}
	return mediation.NewStructure(vars, mediation.Paths{A: a, D: d, B: b}, DiagonalCovariance(variances...))
}

// StructureWithData generates a dataset from cfg and attaches it, with a
// slope refitter, to a structure fitted on the full sample. A non-nil wrap
// replaces the refitter, e.g. with a FlakyRefitter around the slope refitter.
func StructureWithData(cfg MediationGeneratorConfig, wrap func(mediation.Refitter) mediation.Refitter) (*mediation.Structure, *SlopeRefitter, error) {
	gen := NewMediationDataGenerator(cfg)
	data, err := gen.Generate()
	if err != nil {
		return nil, nil, err
	}

	slopes := NewSlopeRefitter(gen.Variables())
	var refitter mediation.Refitter = slopes
	if wrap != nil {
		refitter = wrap(slopes)
	}

	fitted, err := NewSlopeRefitter(gen.Variables()).Refit(context.Background(), data)
	if err != nil {
		return nil, nil, err
	}
	return fitted.WithData(data, refitter), slopes, nil
}
