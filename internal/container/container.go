// Package container wires the application's dependencies from configuration.
package container

import (
	"context"
	"fmt"

	"gomediate/adapters/excel"
	"gomediate/adapters/postgres"
	"gomediate/adapters/stats/regression"
	"gomediate/app"
	engine "gomediate/internal/bootstrap"
	"gomediate/internal/config"
	apperrors "gomediate/internal/errors"
	"gomediate/internal/logger"
	"gomediate/internal/observability"
	"gomediate/ports"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Log    *logger.Logger

	// Observability
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	// Bootstrap components
	Engine  *engine.Engine
	Fitter  *regression.Fitter
	Service *app.BootstrapService

	// Infrastructure, opened on demand
	DB *sqlx.DB
}

// New creates a container from a validated configuration
func New(cfg *config.Config) *Container {
	log := logger.New(cfg.Logging.Options())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	eng := engine.NewEngine(nil, log, metrics)
	fitter := regression.NewFitter()

	return &Container{
		Config:   cfg,
		Log:      log,
		Registry: reg,
		Metrics:  metrics,
		Engine:   eng,
		Fitter:   fitter,
		Service:  app.NewBootstrapService(eng, fitter, log),
	}
}

// FileSource returns a dataset source for a spreadsheet
func (c *Container) FileSource(path string) ports.DatasetSource {
	return excel.NewFileSource(excel.Config{FilePath: path, Sheet: c.Config.Data.Sheet}, c.Log)
}

// TableSource connects to PostgreSQL if needed and returns a dataset source
// for table. An empty table falls back to data.table.
func (c *Container) TableSource(ctx context.Context, table string) (ports.DatasetSource, error) {
	if table == "" {
		table = c.Config.Data.Table
	}
	if c.Config.Data.PostgresURL == "" {
		return nil, apperrors.ConfigInvalid(fmt.Sprintf("reading table %q needs data.postgres_url (or MEDIATE_DATA_POSTGRES_URL)", table))
	}
	if c.DB == nil {
		db, err := postgres.Connect(ctx, c.Config.Data.PostgresURL)
		if err != nil {
			return nil, apperrors.ExternalServiceError("postgres", err)
		}
		c.DB = db
		c.Log.Infow("connected to postgres")
	}
	return postgres.NewDatasetRepository(c.DB, postgres.TableConfig{Table: table, OrderBy: c.Config.Data.OrderBy}), nil
}

// Close releases every open resource
func (c *Container) Close() error {
	var err error
	if c.DB != nil {
		err = c.DB.Close()
		c.DB = nil
	}
	_ = c.Log.Sync()
	return err
}
