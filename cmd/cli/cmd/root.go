// Package cmd provides the CLI commands for gutter-api.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gutter-api/internal/config"
	"gutter-api/internal/logging"
)

var (
	cfgFile string
	verbose bool

	// cfg is the effective configuration, loaded before any command runs
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gutter",
	Short: "Price gutter installations from aerial measurement reports",
	Long: `gutter prices gutter installations from aerial measurement reports.

It works against saved provider results, so an estimate can be reproduced
offline without touching the measurement API.

Examples:
  gutter estimate results.json
  gutter estimate --format json results.json
  gutter pricing show`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "HCL config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(pricingCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gutter version 1.0.0")
	},
}
