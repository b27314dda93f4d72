// Command asyncrtd is a thin driver over the asyncrt runtime: it loads
// a YAML config, starts a Runtime with the configured worker count,
// optionally serves Prometheus metrics, and (for demonstration) spawns
// a batch of computations that each sleep and complete.
//
// A Cobra root command with a persistent --config flag and a run
// subcommand that loads config, starts the runtime, and waits for
// SIGINT/SIGTERM to shut down gracefully.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChuLiYu/asyncrt"
	"github.com/ChuLiYu/asyncrt/internal/config"
	"github.com/ChuLiYu/asyncrt/internal/metrics"
	"github.com/ChuLiYu/asyncrt/internal/rtlog"
	"github.com/ChuLiYu/asyncrt/pkg/join"
	"github.com/ChuLiYu/asyncrt/pkg/sleep"
	"github.com/ChuLiYu/asyncrt/pkg/task"
)

var configFile string

func main() {
	if err := buildRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "asyncrtd",
		Short:   "asyncrtd runs an asyncrt worker pool",
		Version: "1.0.0",
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file path (optional)")

	root.AddCommand(buildRunCommand())
	return root
}

func buildRunCommand() *cobra.Command {
	var workers int
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the asyncrt runtime and block until signaled",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuntime(workers, metricsAddr)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "worker count (overrides config; 0 means use config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (overrides config)")

	return cmd
}

func runRuntime(workersFlag int, metricsAddrFlag string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("asyncrtd: %w", err)
	}

	workers := cfg.Runtime.Workers
	if workersFlag > 0 {
		workers = workersFlag
	}

	logger := slog.Default()
	rtlog.SetDefault(logger)

	collector := metrics.NewCollector()

	rt := asyncrt.New(
		asyncrt.WithMetrics(collector),
		asyncrt.WithLogger(logger),
	)

	metricsAddr := cfg.Metrics.Addr
	if metricsAddrFlag != "" {
		metricsAddr = metricsAddrFlag
	}
	if cfg.Metrics.Enabled || metricsAddrFlag != "" {
		go func() {
			if err := collector.StartServer(metricsAddr); err != nil {
				logger.Error("metrics server exited", "error", err)
			}
		}()
		logger.Info("metrics server listening", "addr", metricsAddr)
	}

	handle := rt.Run(workers)
	logger.Info("runtime started", "workers", workers)

	spawnDemoJobs(rt, cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping workers")
	rt.Shutdown()
	handle.Wait()
	logger.Info("runtime stopped")

	return nil
}

// spawnDemoJobs submits cfg.Demo.SleepJobs computations that each
// sleep for cfg.Demo.JobDuration, and logs each one's completion from a
// watcher goroutine, exercising the timer reactor end-to-end from the
// CLI.
func spawnDemoJobs(rt *asyncrt.Runtime, cfg config.Config) {
	if cfg.Demo.SleepJobs <= 0 {
		return
	}

	sp := rt.Spawner()
	for i := 0; i < cfg.Demo.SleepJobs; i++ {
		i := i
		sleepComp := sleep.Sleep(cfg.Demo.JobDuration)
		computation := func(cx *task.Cx) task.Outcome[int] {
			outcome := sleepComp(cx)
			if !outcome.Done {
				return task.Pending[int]()
			}
			return task.Ready(i)
		}

		handle, err := asyncrt.Spawn(sp, computation)
		if err != nil {
			rtlog.Default().Warn("demo job rejected", "index", i, "error", err)
			continue
		}
		go logWhenFinished(handle, i)
	}
}

// logWhenFinished polls a Handle from a plain goroutine until it
// finishes. This is not part of the scheduling core: it is a
// convenience for the CLI driver, which has no computation of its own
// to run the Handle's Await from.
func logWhenFinished(handle *join.Handle[int], index int) {
	for !handle.IsFinished() {
		time.Sleep(5 * time.Millisecond)
	}
	rtlog.Default().Info("demo job finished", "index", index)
}
