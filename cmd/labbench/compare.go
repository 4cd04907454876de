package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/labbench/internal/optimization"
	"github.com/copyleftdev/labbench/internal/optimization/runner"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		iterations int
		trials     int
		startSeed  int64
		bounds     string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare GP-LCB against random search over several seeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if trials <= 0 {
				return optimization.InvalidInputf("trials must be positive, got %d", trials)
			}
			b, err := parseBounds(bounds)
			if err != nil {
				return err
			}

			r := runner.New(optimization.OptimizerConfig{}, a.logger)
			report, err := r.Compare(cmd.Context(), runner.CompareRequest{
				Iterations: iterations,
				Seeds:      runner.SeedRange(startSeed, trials),
				Bounds:     b,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "seed\trandom\tgp_lcb\twinner\t")
			for _, t := range report.Trials {
				winner := "random"
				if t.GuidedWon() {
					winner = "gp_lcb"
				}
				fmt.Fprintf(tw, "%d\t%.6f\t%.6f\t%s\t\n", t.Seed, t.RandomBest.Value, t.GuidedBest.Value, winner)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nT=%d, %s\n", report.Iterations, report.Bounds)
			fmt.Fprintf(out, "gp_lcb wins %d/%d\n", report.GuidedWins, len(report.Trials))
			fmt.Fprintf(out, "random mean best %.6f (sd %.6f)\n", report.MeanRandom, report.StdDevRandom)
			fmt.Fprintf(out, "gp_lcb mean best %.6f (sd %.6f)\n", report.MeanGuided, report.StdDevGuided)
			return nil
		},
	}

	cmd.Flags().IntVar(&iterations, "iterations", a.defaults.Iterations, "Objective evaluations per run (T)")
	cmd.Flags().IntVar(&trials, "trials", a.defaults.CompareTrials, "Number of seeds")
	cmd.Flags().Int64Var(&startSeed, "start-seed", 0, "First seed")
	cmd.Flags().StringVar(&bounds, "bounds", "", "Sampling rectangle as xmin,xmax,ymin,ymax")
	return cmd
}
