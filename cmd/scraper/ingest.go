package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vladimir/product-scraper/internal/config"
	"github.com/vladimir/product-scraper/internal/db"
	"github.com/vladimir/product-scraper/internal/ingest"
	"github.com/vladimir/product-scraper/internal/observability"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Discover input files and record them as pending artifacts",
	Long:  "Scans the input directory for HTML snapshots and CSV URL lists. HTML files become one artifact each; CSV files become one artifact per unique, previously unseen URL.",
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	database, err := db.New(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	discovery := ingest.NewDiscovery(database, cfg.InputDir, cfg.Verbose)
	summary, err := discovery.Run(cmd.Context())
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintDiscoverySummary(summary)
	return nil
}
