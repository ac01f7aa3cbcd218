package cmd

import (
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute every capacity metric for the configured link",
	Long: `Computes utilization, RSA, NTP, performance decrease and minimum
bottleneck sizing for one link, traffic profile and service target.`,
	Example: `  linkfit plan --capacity 2.488e9 --peak-rate 1e9 --average-rate 5e8 -p 0.9 --aggregation 256
  linkfit plan -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := newOrchestrator().Plan(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
