package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gomediate/internal/config"
	"gomediate/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// flags shared by every command
type globalFlags struct {
	configFile string
	logLevel   string
	logFormat  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "mediate",
		Short: "Percentile-bootstrap confidence intervals for indirect effects",
		Long: `Estimate indirect (mediated) effects and their percentile-bootstrap
confidence intervals for simple and serial mediation chains.

Methods:
  parametric     resample path coefficients from their estimated sampling distribution
  nonparametric  resample observations and refit the models each iteration
  plugin         point estimate only, no interval`,
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globals.configFile, "config", "c", "",
		"Path to YAML configuration file (optional)")
	rootCmd.PersistentFlags().StringVar(&globals.logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&globals.logFormat, "log-format", "",
		"Override log format (json, text)")

	rootCmd.AddCommand(
		newRunCmd(globals),
		newServeCmd(globals),
		newVersionCmd(),
	)
	return rootCmd
}

// loadContainer reads .env, the config file and environment, applies
// overrides and wires the application
func loadContainer(globals *globalFlags, overrides config.Overrides) (*container.Container, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	cfg, err := config.Load(globals.configFile)
	if err != nil {
		return nil, err
	}
	overrides.LogLevel = globals.logLevel
	overrides.LogFormat = globals.logFormat
	cfg.ApplyOverrides(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return container.New(cfg), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mediate %s (commit %s)\n", Version, Commit)
		},
	}
}
