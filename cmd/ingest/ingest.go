// Package ingest implements the ingest command for single-URL ingestion.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openlingua/ingestor/cmd/common"
)

// Command returns the ingest cobra command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <youtube-url>",
		Short: "Ingest a single YouTube video now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return run(configPath, args[0])
		},
	}
}

func run(configPath, videoURL string) error {
	deps, err := common.Build(configPath)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	item, ingestErr := deps.Pipeline.IngestYouTube(ctx, videoURL)
	if ingestErr != nil {
		return fmt.Errorf("ingest %s: %w", videoURL, ingestErr)
	}

	encoded, encodeErr := json.MarshalIndent(item, "", "  ")
	if encodeErr != nil {
		return fmt.Errorf("encode result: %w", encodeErr)
	}

	fmt.Println(string(encoded))

	return nil
}
