//-------------------------------------------------------------------------
//
// SalesMart Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for salesmart.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/rapiddx/salesmart/internal/config"
	"github.com/rapiddx/salesmart/internal/logging"
	"github.com/rapiddx/salesmart/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "salesmart",
		Short: "Sales warehouse ETL for diagnostic-kit transaction data",
		Long: `salesmart ingests raw, imperfect sales transaction records and loads
them into a PostgreSQL star schema ready for analytical querying.

A run cleans each batch (canonical product casing, group-mean price
imputation, return handling, derived sale amounts), synthesizes a gap-free
calendar dimension over the observed date range, deduplicates the product,
customer and salesperson dimensions, and loads dimensions then facts in
dependency order. Loads are idempotent: re-running a batch never creates
duplicate rows or double-counts facts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./salesmart.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
