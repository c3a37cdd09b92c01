// Package bootstrap runs percentile-bootstrap inference for indirect effects.
//
// Every iteration draws from its own generator, derived from the run seed
// and the iteration index, and results are stored by index. A run therefore
// produces the same distribution whether it executes on one worker or many.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"gomediate/adapters/rng"
	"gomediate/domain/bootstrap"
	"gomediate/domain/core"
	"gomediate/domain/mediation"
	apperrors "gomediate/internal/errors"
	"gomediate/internal/logger"
	"gomediate/internal/observability"
	"gomediate/ports"
)

// Engine orchestrates bootstrap runs
type Engine struct {
	rng     ports.RNGPort
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewEngine creates an engine. A nil rngPort uses the hashed sub-stream
// adapter, a nil logger discards output and nil metrics are not recorded.
func NewEngine(rngPort ports.RNGPort, log *logger.Logger, metrics *observability.Metrics) *Engine {
	if rngPort == nil {
		rngPort = rng.NewHashedAdapter()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{rng: rngPort, log: log, metrics: metrics}
}

var defaultEngine = NewEngine(nil, nil, nil)

// Run executes a bootstrap with the default engine
func Run(ctx context.Context, s *mediation.Structure, cfg bootstrap.Config) (*bootstrap.Result, error) {
	return defaultEngine.Run(ctx, s, cfg)
}

// Validate checks cfg against the structure it will run on
func Validate(s *mediation.Structure, cfg bootstrap.Config) error {
	if s == nil {
		return core.NewConfigurationError("structure", "mediation structure is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Normalized().Method == bootstrap.MethodNonparametric && !s.HasData() {
		return core.NewConfigurationError("method", "nonparametric bootstrap requires the original data and a refit operation")
	}
	return nil
}

// Run validates cfg, executes the selected strategy and returns the
// immutable result. On any failure it returns a nil result.
//
// The point estimate is always the plugin estimate from the original
// structure; the bootstrap distribution only determines the interval.
// Without cfg.Seed the run is seeded from the operating system and is not
// reproducible; the seed used is still reported by Result.EffectiveSeed.
func (e *Engine) Run(ctx context.Context, s *mediation.Structure, cfg bootstrap.Config) (*bootstrap.Result, error) {
	start := time.Now()
	method := methodLabel(cfg.Method)

	result, err := e.run(ctx, s, cfg)
	if err != nil {
		e.metrics.RunFailed(method, apperrors.Category(err), time.Since(start))
		return nil, err
	}

	e.metrics.RunSucceeded(method, result.Len(), result.Excluded(), time.Since(start))
	return result, nil
}

// methodLabel keeps the metrics label set closed to the known methods
func methodLabel(m bootstrap.Method) string {
	parsed, err := bootstrap.ParseMethod(string(m))
	if err != nil {
		return "invalid"
	}
	return parsed.String()
}

func (e *Engine) run(ctx context.Context, s *mediation.Structure, cfg bootstrap.Config) (*bootstrap.Result, error) {
	if err := Validate(s, cfg); err != nil {
		return nil, err
	}
	cfg = cfg.Normalized()
	runID := core.NewRunID()
	log := e.log.WithRun(runID.String()).WithMethod(string(cfg.Method))

	if cfg.Method == bootstrap.MethodPlugin {
		log.Debugw("computing plugin estimate")
		return pluginResult(runID, s, cfg), nil
	}

	seed, err := resolveSeed(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Seed == nil {
		log.Infow("no seed supplied, run is not reproducible", "effective_seed", seed)
	}

	est, err := newEstimator(s, cfg.Method)
	if err != nil {
		return nil, err
	}

	log.Infow("bootstrap started", "n_boot", cfg.NBoot, "workers", cfg.Workers, "ci_level", cfg.CILevel)
	started := time.Now()

	stream := string(cfg.Method)
	outcomes, err := runIterations(ctx, cfg.NBoot, cfg.Workers, func(ctx context.Context, i int) (float64, error) {
		r, err := e.rng.Stream(ctx, stream, seed, i)
		if err != nil {
			if ctx.Err() != nil || core.IsRandomnessError(err) {
				return 0, err
			}
			return 0, core.NewRandomnessError(err)
		}
		return est.estimate(ctx, r)
	})
	if err != nil {
		log.Errorw("bootstrap aborted", "error", err)
		return nil, err
	}

	distribution, excluded := collect(outcomes)
	if excluded > 0 {
		log.Warnw("resamples excluded after failed refits", "excluded", excluded, "n_boot", cfg.NBoot)
	}
	if len(distribution) == 0 || float64(excluded)/float64(cfg.NBoot) > cfg.MaxExclusionRate {
		return nil, core.NewConvergenceError(excluded, cfg.NBoot, cfg.MaxExclusionRate)
	}

	interval, err := PercentileInterval(distribution, cfg.CILevel)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(distribution)
	if err != nil {
		return nil, err
	}

	log.Infow("bootstrap finished",
		"retained", len(distribution),
		"excluded", excluded,
		"ci_lower", interval.Lower,
		"ci_upper", interval.Upper,
		"elapsed", time.Since(started))

	return bootstrap.NewResult(bootstrap.ResultParams{
		RunID:         runID,
		Estimate:      s.IndirectEffect(),
		Interval:      &interval,
		Distribution:  distribution,
		Excluded:      excluded,
		Config:        cfg,
		EffectiveSeed: &seed,
		Summary:       &summary,
	}), nil
}

func resolveSeed(cfg bootstrap.Config) (int64, error) {
	if cfg.Seed != nil {
		return *cfg.Seed, nil
	}
	return core.RandomSeed()
}

func newEstimator(s *mediation.Structure, method bootstrap.Method) (estimator, error) {
	switch method {
	case bootstrap.MethodParametric:
		return newParametricEstimator(s)
	case bootstrap.MethodNonparametric:
		return newNonparametricEstimator(s)
	}
	return nil, core.NewConfigurationError("method", fmt.Sprintf("%s does not resample", method))
}
