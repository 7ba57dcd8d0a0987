package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openlingua/ingestor/cmd/ingest"
	"github.com/openlingua/ingestor/cmd/serve"
	"github.com/openlingua/ingestor/cmd/sweep"
)

func main() {
	root := &cobra.Command{
		Use:   "ingestor",
		Short: "Learning-content ingestion service",
		Long: "ingestor pulls web articles and YouTube transcripts, enriches them " +
			"with learning metadata, and stores the results.",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "config.yml", "path to the configuration file")

	root.AddCommand(serve.Command())
	root.AddCommand(ingest.Command())
	root.AddCommand(sweep.Command())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
