package cmd

import (
	"github.com/spf13/cobra"

	"github.com/guimove/linkfit/internal/solver"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Solve the Poisson intensity λ for a target probability",
	Long: `Runs the λ search directly. Variants:

  direct        k(λ) = aggregation
  ratio         k(λ) = aggregation / λ
  scaled-ratio  k(λ) = ceiling * aggregation / λ

The ceiling defaults to the peak link utilization (peak rate / capacity).`,
	RunE: runLambda,
}

func init() {
	f := lambdaCmd.Flags()
	f.String("variant", solver.Ratio.String(), "search variant: direct, ratio, scaled-ratio")
	f.Float64("ceiling", 0, "utilization ceiling for scaled-ratio (default: peak rate / capacity)")

	rootCmd.AddCommand(lambdaCmd)
}

func runLambda(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("variant")
	variant, err := solver.ParseVariant(name)
	if err != nil {
		return err
	}

	ceiling, _ := cmd.Flags().GetFloat64("ceiling")
	if !cmd.Flags().Changed("ceiling") {
		ceiling = cfg.Traffic.PeakRate / cfg.Link.CapacityL1
	}

	problem := solver.Problem{
		Variant:     variant,
		Probability: cfg.Target.Probability,
		Aggregation: cfg.Target.Aggregation,
	}
	if variant == solver.ScaledRatio {
		problem.UtilizationCeiling = ceiling
	}

	_, err = newOrchestrator().Lambda(cmd.Context(), problem)
	return err
}
