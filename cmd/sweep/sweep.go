// Package sweep implements the sweep command: a one-shot feed sweep.
package sweep

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openlingua/ingestor/cmd/common"
)

// Command returns the sweep cobra command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one feed sweep across the configured feeds now",
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

	items, sweepErr := deps.Pipeline.IngestFeeds(ctx)
	if sweepErr != nil {
		return fmt.Errorf("feed sweep: %w", sweepErr)
	}

	fmt.Printf("ingested %d item(s)\n", len(items))
	for _, item := range items {
		fmt.Printf("  %s  %s\n", item.ID, item.CanonicalURL)
	}

	return nil
}
