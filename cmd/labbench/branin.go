package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/labbench/internal/optimization"
	"github.com/copyleftdev/labbench/internal/optimization/objective"
)

func newBraninCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branin X Y",
		Short: "Evaluate the Branin function at a point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return optimization.InvalidInputf("invalid x %q", args[0])
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return optimization.InvalidInputf("invalid y %q", args[1])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.10g\n", objective.Branin(x, y))
			return nil
		},
	}
}
