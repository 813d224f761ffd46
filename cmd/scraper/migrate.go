package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladimir/product-scraper/internal/config"
	"github.com/vladimir/product-scraper/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create database tables and indexes",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	database, err := db.New(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("Database tables created successfully")
	return nil
}
