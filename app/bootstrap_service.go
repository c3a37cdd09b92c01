package app

import (
	"context"
	"time"

	"gomediate/domain/bootstrap"
	"gomediate/domain/core"
	"gomediate/domain/mediation"
	engine "gomediate/internal/bootstrap"
	"gomediate/internal/logger"
	"gomediate/ports"
)

// BootstrapService fits (when needed) and bootstraps mediation models
type BootstrapService struct {
	engine *engine.Engine
	fitter ports.ModelFitter
	log    *logger.Logger
}

// BootstrapRequest defines the inputs of one bootstrap.
// Either Structure is set, or Data and Variables are, in which case the
// structure is fitted first.
type BootstrapRequest struct {
	Structure *mediation.Structure
	Data      *mediation.Dataset
	Variables mediation.Variables
	Config    bootstrap.Config
}

// BootstrapReport is the bootstrap result with the context it ran in
type BootstrapReport struct {
	Result       *bootstrap.Result    `json:"result"`
	Variables    mediation.Variables  `json:"variables"`
	Paths        mediation.Paths      `json:"paths"`
	NormalTheory *engine.NormalTheory `json:"normal_theory,omitempty"`
	RuntimeMs    int64                `json:"runtime_ms"`
}

// NewBootstrapService creates a bootstrap service. fitter may be nil when
// every request carries its own structure.
func NewBootstrapService(eng *engine.Engine, fitter ports.ModelFitter, log *logger.Logger) *BootstrapService {
	if eng == nil {
		eng = engine.NewEngine(nil, log, nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &BootstrapService{engine: eng, fitter: fitter, log: log}
}

// Run executes the bootstrap described by req
func (s *BootstrapService) Run(ctx context.Context, req BootstrapRequest) (*BootstrapReport, error) {
	start := time.Now()

	structure, err := s.structure(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Run(ctx, structure, req.Config)
	if err != nil {
		return nil, err
	}

	report := &BootstrapReport{
		Result:    result,
		Variables: structure.Variables(),
		Paths:     structure.Paths(),
	}

	// the normal-theory comparison needs a proper CI level; plugin runs
	// may carry any value there
	if nt, err := engine.DeltaMethod(structure, result.Config().CILevel); err == nil {
		report.NormalTheory = &nt
	} else {
		s.log.Debugw("normal-theory comparison skipped", "error", err)
	}

	report.RuntimeMs = time.Since(start).Milliseconds()
	return report, nil
}

// RunFromSource loads the model's columns from src and bootstraps a fitted structure
func (s *BootstrapService) RunFromSource(ctx context.Context, src ports.DatasetSource, vars mediation.Variables, cfg bootstrap.Config) (*BootstrapReport, error) {
	if err := vars.Validate(); err != nil {
		return nil, err
	}
	data, err := src.Load(ctx, vars.Columns())
	if err != nil {
		return nil, err
	}
	s.log.Infow("dataset loaded", "rows", data.Len(), "columns", len(data.Names()))
	return s.Run(ctx, BootstrapRequest{Data: data, Variables: vars, Config: cfg})
}

func (s *BootstrapService) structure(ctx context.Context, req BootstrapRequest) (*mediation.Structure, error) {
	if req.Structure != nil {
		return req.Structure, nil
	}
	if req.Data == nil {
		return nil, core.NewConfigurationError("structure", "either a mediation structure or a dataset is required")
	}
	if s.fitter == nil {
		return nil, core.NewConfigurationError("fitter", "no model fitter configured for dataset requests")
	}

	structure, err := s.fitter.Fit(ctx, req.Data, req.Variables)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("mediation models fitted", "paths", structure.Coefficients(), "rows", req.Data.Len())
	return structure, nil
}
