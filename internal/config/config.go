package config

import (
	"gomediate/domain/bootstrap"
	"gomediate/internal/logger"
)

// Config represents the complete application configuration
type Config struct {
	Bootstrap bootstrap.Config `mapstructure:"bootstrap"`
	Logging   LoggingConfig    `mapstructure:"logging"`
	Server    ServerConfig     `mapstructure:"server"`
	Data      DataConfig       `mapstructure:"data"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Options converts the section into logger options
func (l LoggingConfig) Options() logger.Options {
	return logger.Options{Level: l.Level, Format: l.Format, Output: l.Output}
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	GinMode string `mapstructure:"gin_mode"`
	// MaxBootstrapIterations caps n_boot accepted over HTTP
	MaxBootstrapIterations int `mapstructure:"max_bootstrap_iterations"`
}

// DataConfig holds dataset source settings
type DataConfig struct {
	PostgresURL string `mapstructure:"postgres_url"`
	Table       string `mapstructure:"table"`
	OrderBy     string `mapstructure:"order_by"`
	Sheet       string `mapstructure:"sheet"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		Bootstrap: bootstrap.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Server: ServerConfig{
			Addr:                   ":8080",
			GinMode:                "release",
			MaxBootstrapIterations: 100000,
		},
		Data: DataConfig{
			Sheet: "Sheet1",
		},
	}
}

// ApplyOverrides applies CLI flag overrides.
// Only non-zero/non-empty values are applied; seed, parallel and the
// exclusion rate are pointers so an explicit false or zero can still be
// distinguished.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Method != "" {
		c.Bootstrap.Method = bootstrap.Method(o.Method)
	}
	if o.NBoot > 0 {
		c.Bootstrap.NBoot = o.NBoot
	}
	if o.CILevel > 0 {
		c.Bootstrap.CILevel = o.CILevel
	}
	if o.Seed != nil {
		seed := *o.Seed
		c.Bootstrap.Seed = &seed
	}
	if o.Parallel != nil {
		c.Bootstrap.Parallel = *o.Parallel
	}
	if o.Workers > 0 {
		c.Bootstrap.Workers = o.Workers
	}
	if o.MaxExclusionRate != nil {
		c.Bootstrap.MaxExclusionRate = *o.MaxExclusionRate
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.Addr != "" {
		c.Server.Addr = o.Addr
	}
}

// Overrides are values supplied on the command line
type Overrides struct {
	Method           string
	NBoot            int
	CILevel          float64
	Seed             *int64
	Parallel         *bool
	Workers          int
	MaxExclusionRate *float64
	LogLevel         string
	LogFormat        string
	Addr             string
}
