package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guimove/linkfit/internal/config"
	"github.com/guimove/linkfit/internal/metrics"
	"github.com/guimove/linkfit/internal/orchestrator"
)

var (
	cfg         config.Config
	verbose     bool
	dumpMetrics bool
	logger      = slog.Default()
	recorder    = metrics.NewRecorder()
)

var rootCmd = &cobra.Command{
	Use:   "linkfit",
	Short: "Capacity planner for shared packet links",
	Long: `Linkfit sizes a shared link for a population of flows. It solves the
Poisson intensity λ that meets a target service probability and derives
real speed achieved per flow (RSA), net termination points (NTP),
performance decrease and minimum bottleneck bandwidth and capacity.

Every flag can also be set through a LINKFIT_ environment variable,
e.g. LINKFIT_TARGET_PROBABILITY=0.95.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return loadConfig()
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if dumpMetrics {
		if werr := recorder.WriteText(os.Stderr); werr != nil {
			logger.Error("Writing metrics", "error", werr)
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	d := config.Default()
	f := rootCmd.PersistentFlags()

	f.BoolVar(&verbose, "verbose", false, "enable debug logging")
	f.BoolVar(&dumpMetrics, "metrics", false, "write run metrics in Prometheus text format to stderr")

	f.Float64("capacity", d.Link.CapacityL1, "layer-1 link capacity in bit/s")
	f.Float64("mtu", d.Link.MTU, "maximum transmission unit in bytes")
	f.Float64("ip-header", d.Link.IPHeader, "IP header overhead in bytes")
	f.Float64("peak-rate", d.Traffic.PeakRate, "peak offered rate in bit/s")
	f.Float64("average-rate", d.Traffic.AverageRate, "average offered rate in bit/s")
	f.Float64P("probability", "p", d.Target.Probability, "target service probability, within (0, 1)")
	f.Float64("aggregation", d.Target.Aggregation, "number of flows sharing the link")
	f.Float64("required-rate", d.Target.RequiredRate, "required per-flow rate in bit/s")
	f.Int("max-coarse-steps", d.Solver.MaxCoarseSteps, "step budget of the coarsest λ search level")
	f.StringP("output", "o", d.Output.Format, "output format: table, json, markdown")
	f.String("locale", d.Output.Locale, "locale for number formatting in table and markdown output")

	bindings := map[string]string{
		"link.capacity":           "capacity",
		"link.mtu":                "mtu",
		"link.ip_header":          "ip-header",
		"traffic.peak_rate":       "peak-rate",
		"traffic.average_rate":    "average-rate",
		"target.probability":      "probability",
		"target.aggregation":      "aggregation",
		"target.required_rate":    "required-rate",
		"solver.max_coarse_steps": "max-coarse-steps",
		"output.format":           "output",
		"output.locale":           "locale",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)
}

func loadConfig() error {
	// Start with defaults
	cfg = config.Default()

	// Environment variable overrides: link.mtu <- LINKFIT_LINK_MTU
	viper.SetEnvPrefix("LINKFIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return cfg.Validate()
}

func newOrchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(cfg, recorder, logger)
}
