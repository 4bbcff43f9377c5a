package simulate

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/netrixframework/kbandit/config"
	"github.com/netrixframework/kbandit/log"
	"github.com/netrixframework/kbandit/random"
	"github.com/netrixframework/kbandit/report"
	"github.com/netrixframework/kbandit/simulation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddFlags registers the experiment flags shared by the commands
func AddFlags(flags *pflag.FlagSet, o *config.Overrides) {
	flags.Float64SliceVarP(&o.Epsilons, "epsilon", "e", nil, "Exploration probability, repeat for several configurations")
	flags.IntVarP(&o.Arms, "arms", "k", 0, "Number of arms")
	flags.IntVarP(&o.Runs, "runs", "r", 0, "Independent runs per configuration")
	flags.IntVarP(&o.Timesteps, "steps", "t", 0, "Timesteps per run")
	flags.Uint64Var(&o.Seed, "seed", 0, "Seed of the experiment")
	flags.IntVarP(&o.Workers, "workers", "w", 0, "Goroutines the runs are spread over")
	flags.StringVar(&o.LogLevel, "log-level", "", "Log level")
}

// Prepare loads the config, applies the overrides, initializes logging and
// returns a validated driver
func Prepare(o *config.Overrides) (*config.Config, *simulation.Driver, error) {
	conf, err := config.LoadConfig(config.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}
	o.Apply(conf)
	log.Init(conf.LogConfig)

	simConfig, err := simulation.NewConfig(conf)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	driver, err := simulation.NewDriver(simConfig, log.DefaultLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return conf, driver, nil
}

// SignalContext is cancelled on an interrupt
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// PrintSummary writes one line per configuration
func PrintSummary(w io.Writer, result *simulation.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "epsilon\tavg reward\tfinal reward\tavg optimal\tfinal optimal\n")
	for _, s := range result.Summaries() {
		fmt.Fprintf(
			tw,
			"%g\t%.4f\t%.4f\t%.2f%%\t%.2f%%\n",
			s.Epsilon,
			s.AverageReward,
			s.FinalMeanReward,
			s.AverageOptimal*100,
			s.FinalOptimal*100,
		)
	}
	return tw.Flush()
}

// SimulateCmd returns the command running the experiment and writing its charts
func SimulateCmd() *cobra.Command {
	o := &config.Overrides{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the experiment and write charts of the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, driver, err := Prepare(o)
			if err != nil {
				return err
			}
			defer log.Destroy()

			ctx, cancel := SignalContext()
			defer cancel()

			result, err := driver.Run(ctx)
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}
			if err := PrintSummary(cmd.OutOrStdout(), result); err != nil {
				return err
			}

			src := random.NewSource(random.Derive(result.Seed, uint64(len(result.Configs))))
			paths, err := report.WriteAll(conf.OutputDir, result, src)
			if err != nil {
				return fmt.Errorf("failed to write charts: %w", err)
			}
			log.With(log.LogParams{
				"dir":   conf.OutputDir,
				"files": paths,
				"seed":  result.Seed,
			}).Info("Charts written")
			return nil
		},
	}
	AddFlags(cmd.Flags(), o)
	cmd.Flags().StringVarP(&o.OutputDir, "out", "o", "", "Directory the charts are written to")
	return cmd
}
