package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MEDIATE_BOOTSTRAP_N_BOOT
const EnvPrefix = "MEDIATE"

// Load reads configuration from the optional YAML file at configPath,
// then applies MEDIATE_* environment overrides on top of the defaults.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about
	d := DefaultConfig()
	v.SetDefault("bootstrap.method", string(d.Bootstrap.Method))
	v.SetDefault("bootstrap.n_boot", d.Bootstrap.NBoot)
	v.SetDefault("bootstrap.ci_level", d.Bootstrap.CILevel)
	v.SetDefault("bootstrap.parallel", d.Bootstrap.Parallel)
	v.SetDefault("bootstrap.workers", d.Bootstrap.Workers)
	v.SetDefault("bootstrap.max_exclusion_rate", d.Bootstrap.MaxExclusionRate)
	_ = v.BindEnv("bootstrap.seed")

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.gin_mode", d.Server.GinMode)
	v.SetDefault("server.max_bootstrap_iterations", d.Server.MaxBootstrapIterations)

	v.SetDefault("data.postgres_url", d.Data.PostgresURL)
	v.SetDefault("data.table", d.Data.Table)
	v.SetDefault("data.order_by", d.Data.OrderBy)
	v.SetDefault("data.sheet", d.Data.Sheet)
	return v
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars expands ${VAR} references in values that commonly hold secrets or paths
func substituteEnvVars(cfg *Config) {
	cfg.Data.PostgresURL = expandEnvVar(cfg.Data.PostgresURL)
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
// Unknown variables are left as written.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}
