package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whatifCmd = &cobra.Command{
	Use:   "what-if",
	Short: "Compare link capacities and target probabilities side by side",
	Long: `Plans the configured link over every combination of the given layer-1
capacities and target probabilities, in the order given. Scenarios that
cannot be planned are listed separately; the command fails only when none
of them can.`,
	Example: `  linkfit what-if --capacities 622e6,2.488e9,9.953e9
  linkfit what-if --probabilities 0.5,0.9,0.99 -o markdown`,
	RunE: runWhatIf,
}

func init() {
	f := whatifCmd.Flags()
	f.Float64Slice("capacities", nil, "layer-1 capacities to compare in bit/s")
	f.Float64Slice("probabilities", nil, "target probabilities to compare")

	rootCmd.AddCommand(whatifCmd)
}

func runWhatIf(cmd *cobra.Command, args []string) error {
	capacities, _ := cmd.Flags().GetFloat64Slice("capacities")
	probabilities, _ := cmd.Flags().GetFloat64Slice("probabilities")
	if len(capacities) == 0 && len(probabilities) == 0 {
		return fmt.Errorf("at least one of --capacities or --probabilities is required")
	}

	_, err := newOrchestrator().WhatIf(cmd.Context(), capacities, probabilities)
	return err
}
