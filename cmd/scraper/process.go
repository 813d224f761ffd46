package main

import (
	"github.com/spf13/cobra"

	"github.com/vladimir/product-scraper/internal/config"
	"github.com/vladimir/product-scraper/internal/db"
	"github.com/vladimir/product-scraper/internal/extract"
	"github.com/vladimir/product-scraper/internal/fetch"
	"github.com/vladimir/product-scraper/internal/pipeline"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process all pending artifacts once",
	Long:  "Drives every pending artifact through fetch, extraction and persistence, updating status and progress counters per artifact.",
	RunE:  runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	database, err := db.New(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	fetcher := fetch.NewClient(&fetch.Options{
		SettleDelay: cfg.SettleDelay(),
		Timeout:     cfg.Timeout(),
		UseBrowser:  cfg.UseBrowser,
		Verbose:     cfg.Verbose,
	})

	registry := extract.NewRegistry(
		extract.NewMercadoLibre(cfg.ImageBaseURL),
	)

	runner := pipeline.NewRunner(database, database, fetcher, registry, cfg.Site, cfg.Verbose)
	return runner.RunOnce(cmd.Context())
}
