// Command simulate plays many concurrent viewing sessions against a collector.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/okian/playpulse/internal/config"
	"github.com/okian/playpulse/internal/simulator"
	"github.com/okian/playpulse/pkg/logger"
)

const (
	defaultLocalCollector = "http://localhost:9080"
	defaultRunTimeout     = 10 * time.Minute
	defaultLiveRatio      = 0.3
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		collectorURL string
		sessions     int
		workers      int
		step         time.Duration
		interval     time.Duration
		timeout      time.Duration
		runTimeout   time.Duration
		liveRatio    float64
		verbose      bool
	)

	// The public collector is the client default; simulations target a local one.
	defaultURL := cfg.CollectorURL
	if defaultURL == config.DefaultCollectorURL {
		defaultURL = defaultLocalCollector
	}

	cmd := &cobra.Command{
		Use:           "simulate",
		Short:         "Play simulated viewing sessions against a playback collector",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				_ = logger.SetLevelString("debug")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			runner, err := simulator.NewRunner(simulator.Config{
				CollectorURL:    collectorURL,
				Sessions:        sessions,
				Workers:         workers,
				Step:            step,
				PingInterval:    interval,
				Timeout:         timeout,
				BreakerFailures: uint32(max(cfg.BreakerFailures, 0)),
				BreakerCooldown: cfg.BreakerCooldown(),
				LiveRatio:       liveRatio,
			})
			if err != nil {
				return err
			}

			stats, err := runner.Run(ctx)
			fmt.Fprintf(cmd.OutOrStdout(),
				"sessions: %d started, %d completed, %d assigned (collector: %d)\npings: %d sent, %d failed (%.1f%% ok)\nevents: %d in %s\n",
				stats.SessionsStarted, stats.SessionsCompleted, stats.SessionsAssigned, stats.CollectorSessions,
				stats.PingsSent, stats.PingsFailed, stats.SuccessRate(),
				stats.EventsRecorded, stats.Duration.Round(time.Millisecond),
			)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&collectorURL, "url", "u", defaultURL, "Base URL of the collector")
	flags.IntVarP(&sessions, "sessions", "n", cfg.SimSessions, "Number of viewing sessions to simulate")
	flags.IntVarP(&workers, "workers", "w", cfg.SimWorkers, "Number of concurrent players")
	flags.DurationVar(&step, "step", cfg.SimStep(), "Pause between player actions")
	flags.DurationVar(&interval, "ping-interval", cfg.PingInterval(), "Reporting interval while playing")
	flags.DurationVar(&timeout, "timeout", cfg.HTTPTimeout(), "HTTP request timeout")
	flags.DurationVar(&runTimeout, "run-timeout", defaultRunTimeout, "Abort the simulation after this long")
	flags.Float64Var(&liveRatio, "live-ratio", defaultLiveRatio, "Share of sessions watching a live stream")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	lo.Must0(cmd.RegisterFlagCompletionFunc("live-ratio", cobra.NoFileCompletions))

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.InitWith(os.Stderr, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
