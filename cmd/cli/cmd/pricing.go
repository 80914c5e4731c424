// Package cmd - pricing command
package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

// pricingCmd groups pricing subcommands
var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Inspect pricing configuration",
}

// pricingShowCmd prints the effective rates after config and env overlays
var pricingShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective pricing rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg.Pricing)
	},
}

func init() {
	pricingCmd.AddCommand(pricingShowCmd)
}
