// Package cmd - estimate command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gutter-api/core/estimate"
)

var outputFormat string

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate [results.json]",
	Short: "Price a saved provider result",
	Long: `Read a saved measurement result and produce an itemized estimate.

The input is the JSON body of the provider's order-results endpoint, saved
to a file. Pricing rates come from the config file (see --config) or the
built-in defaults.

Examples:
  gutter estimate results.json
  gutter estimate --format json results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading results file: %w", err)
	}

	result, err := estimate.Compute(raw, cfg.Pricing)
	if err != nil {
		return err
	}

	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "text":
		printEstimate(result)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", outputFormat)
	}
}

func printEstimate(result estimate.Estimate) {
	fmt.Printf("Eave length: %.1f ft, downspouts: %d, miters: %d inside / %d outside\n\n",
		result.Inputs.EaveLinearFt,
		result.Inputs.Downspouts,
		result.Inputs.MitersInside,
		result.Inputs.MitersOutside)

	for _, item := range result.LineItems {
		if item.Qty != nil && item.UnitPrice != nil {
			fmt.Printf("  %-18s %7.1f %-3s @ %8.2f  %10.2f\n",
				item.Label, *item.Qty, item.UOM, *item.UnitPrice, item.Amount)
		} else {
			fmt.Printf("  %-18s %24s %10.2f\n", item.Label, "", item.Amount)
		}
	}

	fmt.Printf("\n  %-18s %24s %10.2f\n", "Subtotal", "", result.Totals.Subtotal)
	fmt.Printf("  %-18s %24s %10.2f\n", "Total", "", result.Totals.Total)

	if result.Inputs.PdfURL != "" {
		fmt.Printf("\nReport: %s\n", result.Inputs.PdfURL)
	}
}
