package main

import (
	"encoding/json"

	"gomediate/domain/mediation"
	"gomediate/internal/config"
	"gomediate/ports"

	"github.com/spf13/cobra"
)

type runFlags struct {
	dataFile   string
	table      string
	treatment  string
	mediators  []string
	outcome    string
	covariates []string

	method           string
	nBoot            int
	ciLevel          float64
	seed             int64
	parallel         bool
	workers          int
	maxExclusionRate float64
	jsonOutput       bool
}

func newRunCmd(globals *globalFlags) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bootstrap the indirect effect of a dataset",
		Long: `Fit the mediation chain on a dataset and bootstrap its indirect effect.

Data comes from a spreadsheet (--data file.xlsx|file.csv) or a PostgreSQL
table (--table, with data.postgres_url or MEDIATE_DATA_POSTGRES_URL set).
Repeat --mediator for serial mediation, in chain order.

Example: mediate run --data study.csv --treatment x --mediator m1 --mediator m2 --outcome y --method nonparametric --n-boot 2000 --seed 123`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := config.Overrides{
				Method:  f.method,
				NBoot:   f.nBoot,
				CILevel: f.ciLevel,
				Workers: f.workers,
			}
			if cmd.Flags().Changed("seed") {
				overrides.Seed = &f.seed
			}
			if cmd.Flags().Changed("parallel") {
				overrides.Parallel = &f.parallel
			}
			if cmd.Flags().Changed("max-exclusion-rate") {
				overrides.MaxExclusionRate = &f.maxExclusionRate
			}
			return runBootstrap(cmd, globals, f, overrides)
		},
	}

	cmd.Flags().StringVar(&f.dataFile, "data", "", "Spreadsheet with one column per variable (.xlsx or .csv)")
	cmd.Flags().StringVar(&f.table, "table", "", "PostgreSQL table with one column per variable")
	cmd.Flags().StringVar(&f.treatment, "treatment", "", "Treatment (X) column")
	cmd.Flags().StringArrayVar(&f.mediators, "mediator", nil, "Mediator column; repeat in chain order")
	cmd.Flags().StringVar(&f.outcome, "outcome", "", "Outcome (Y) column")
	cmd.Flags().StringArrayVar(&f.covariates, "covariate", nil, "Covariate column; may be repeated")

	cmd.Flags().StringVar(&f.method, "method", "", "Bootstrap method: parametric, nonparametric or plugin")
	cmd.Flags().IntVar(&f.nBoot, "n-boot", 0, "Number of bootstrap iterations")
	cmd.Flags().Float64Var(&f.ciLevel, "ci-level", 0, "Confidence level in (0,1)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed; omit for a non-reproducible run")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "Run iterations on several workers")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Worker count when parallel (default: number of CPUs)")
	cmd.Flags().Float64Var(&f.maxExclusionRate, "max-exclusion-rate", 0, "Largest share of failed nonparametric refits tolerated; 0 tolerates none")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Print the full report as JSON")

	_ = cmd.MarkFlagRequired("treatment")
	_ = cmd.MarkFlagRequired("mediator")
	_ = cmd.MarkFlagRequired("outcome")
	cmd.MarkFlagsMutuallyExclusive("data", "table")
	cmd.MarkFlagsOneRequired("data", "table")

	return cmd
}

func runBootstrap(cmd *cobra.Command, globals *globalFlags, f *runFlags, overrides config.Overrides) error {
	ctx := cmd.Context()
	c, err := loadContainer(globals, overrides)
	if err != nil {
		return err
	}
	defer c.Close()

	var source ports.DatasetSource
	if f.dataFile != "" {
		source = c.FileSource(f.dataFile)
	} else {
		source, err = c.TableSource(ctx, f.table)
		if err != nil {
			return err
		}
	}

	vars := mediation.Variables{
		Treatment:  f.treatment,
		Mediators:  f.mediators,
		Outcome:    f.outcome,
		Covariates: f.covariates,
	}
	report, err := c.Service.RunFromSource(ctx, source, vars, c.Config.Bootstrap)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return printSummary(out, report)
}
