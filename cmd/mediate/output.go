package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gomediate/app"
	"gomediate/domain/bootstrap"
)

// printSummary writes a human-readable report
func printSummary(w io.Writer, report *app.BootstrapReport) error {
	res := report.Result
	cfg := res.Config()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	chain := append(append([]string{report.Variables.Treatment}, report.Variables.Mediators...), report.Variables.Outcome)
	kind := "simple"
	if report.Variables.Serial() {
		kind = "serial"
	}
	fmt.Fprintf(tw, "Model\t%s mediation, %s\n", kind, strings.Join(chain, " -> "))
	fmt.Fprintf(tw, "Method\t%s\n", cfg.Method)

	paths := report.Paths
	fmt.Fprintf(tw, "a\t%.6f\n", paths.A)
	for i, d := range paths.D {
		fmt.Fprintf(tw, "d%d\t%.6f\n", i+1, d)
	}
	fmt.Fprintf(tw, "b\t%.6f\n", paths.B)
	fmt.Fprintf(tw, "Indirect effect\t%.6f\n", res.Estimate())

	if iv, ok := res.Interval(); ok {
		fmt.Fprintf(tw, "%g%% percentile CI\t[%.6f, %.6f]\n", iv.Level*100, iv.Lower, iv.Upper)
		fmt.Fprintf(tw, "Excludes zero\t%t\n", res.Significant())
	}
	if s, ok := res.Summary(); ok {
		fmt.Fprintf(tw, "Bootstrap SE\t%.6f\n", s.StdError)
	}
	if report.NormalTheory != nil && report.NormalTheory.StdError > 0 {
		nt := report.NormalTheory
		fmt.Fprintf(tw, "Normal-theory CI\t[%.6f, %.6f] (p = %.4g)\n", nt.Interval.Lower, nt.Interval.Upper, nt.PValue)
	}
	if cfg.Method != bootstrap.MethodPlugin {
		fmt.Fprintf(tw, "Iterations\t%d retained, %d excluded\n", res.Len(), res.Excluded())
		if seed, ok := res.EffectiveSeed(); ok {
			note := ""
			if cfg.Seed == nil {
				note = " (generated)"
			}
			fmt.Fprintf(tw, "Seed\t%d%s\n", seed, note)
		}
	}
	fmt.Fprintf(tw, "Run\t%s\n", res.RunID())
	return tw.Flush()
}
