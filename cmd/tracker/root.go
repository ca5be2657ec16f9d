package main

import (
	"github.com/spf13/cobra"

	"github.com/tair/inventory-tracker/internal/config"
	"github.com/tair/inventory-tracker/pkg/logger"
)

var envFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Inventory tracker with a server-rendered page and a JSON API",
	Long: `Inventory tracker keeps named items with a quantity and an optional ` +
		`image in a document store and serves a page to manage them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// loadConfig reads the dotenv file, the environment, and sets up logging
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	return cfg, nil
}
