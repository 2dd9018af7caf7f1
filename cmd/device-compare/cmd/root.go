// Package cmd implements the CLI commands for device-compare.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/device-compare/internal/config"
	"github.com/donaldgifford/device-compare/pkg/logger"
)

const serviceName = "device-compare"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Product comparison storefront API",
	Long: "An API-first service that adapts an upstream device catalog into storefront\n" +
		"products, answers search and comparison queries, meters anonymous searches,\n" +
		"and keeps a stored copy of the catalog for when upstream is down.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(serveCmd, migrateCmd, refreshCmd, versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and builds the service logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	log := logger.ForService(logger.New(cfg.Logging.Level, cfg.Logging.Format), serviceName, Version)
	return cfg, log, nil
}
