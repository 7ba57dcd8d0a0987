// Package serve implements the serve command: the HTTP API plus the
// cron-driven feed sweep.
package serve

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/openlingua/ingestor/cmd/common"
	"github.com/openlingua/ingestor/internal/api"
	"github.com/openlingua/ingestor/internal/logger"
)

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 10 * time.Second

// Command returns the serve cobra command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ingestor HTTP API and the scheduled feed sweep",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return run(configPath)
		},
	}
}

func run(configPath string) error {
	deps, err := common.Build(configPath)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := api.SetupRouter(deps.Log, deps.Pipeline, deps.Transcripts, deps.Contents)
	server := api.NewServer(deps.Config.Server, router, deps.Log)

	sweeper := startSweep(ctx, deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		deps.Log.Info("shutdown signal received")
	case serveErr := <-errCh:
		if serveErr != nil {
			return serveErr
		}
	}

	if sweeper != nil {
		sweepCtx := sweeper.Stop()
		<-sweepCtx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Stop(shutdownCtx)
}

// startSweep schedules the periodic feed sweep when enabled. Returns nil
// when the sweep is disabled.
func startSweep(ctx context.Context, deps *common.Deps) *cron.Cron {
	if !deps.Config.Ingest.SweepEnabled {
		deps.Log.Info("scheduled feed sweep disabled")
		return nil
	}

	c := cron.New()

	_, err := c.AddFunc(deps.Config.Ingest.SweepSchedule, func() {
		deps.Log.Info("scheduled feed sweep starting")

		if _, sweepErr := deps.Pipeline.IngestFeeds(ctx); sweepErr != nil {
			deps.Log.Error("scheduled feed sweep failed", logger.Error(sweepErr))
		}
	})
	if err != nil {
		deps.Log.Error("invalid sweep schedule",
			logger.String("schedule", deps.Config.Ingest.SweepSchedule),
			logger.Error(err),
		)
		return nil
	}

	c.Start()
	deps.Log.Info(fmt.Sprintf("scheduled feed sweep every %q", deps.Config.Ingest.SweepSchedule))

	return c
}
