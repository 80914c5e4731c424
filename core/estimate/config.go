// Package estimate - Gutter pricing engine
// The engine is pure arithmetic: any non-negative inputs produce an estimate,
// there are no error paths past config validation.
package estimate

import (
	"gutter-api/internal/errors"
)

// Config enumerates every recognized pricing rate.
// All rates are non-negative; Validate enforces this at load time.
type Config struct {
	// PricePerFt is the materials price per linear foot of eave
	PricePerFt float64 `json:"price_per_ft"`

	// LaborPerFt is the labor price per linear foot of eave
	LaborPerFt float64 `json:"labor_per_ft"`

	// DownspoutEach is the unit price per downspout
	DownspoutEach float64 `json:"downspout_each"`

	// MiterEach is the unit price per corner joint, inside or outside
	MiterEach float64 `json:"miter_each"`

	// PitchMultiplier adjusts labor for roof steepness
	PitchMultiplier float64 `json:"pitch_multiplier"`

	// StoryMultiplier is the base labor multiplier; the engine raises it
	// to 1.10 when any building face has two or more stories
	StoryMultiplier float64 `json:"story_multiplier"`

	// OverheadPct is applied to the subtotal
	OverheadPct float64 `json:"overhead_pct"`

	// ProfitPct is applied after overhead
	ProfitPct float64 `json:"profit_pct"`

	// SalesTaxPct is applied to materials and accessories; labor is not taxed
	SalesTaxPct float64 `json:"sales_tax_pct"`
}

// DefaultConfig returns the stock residential pricing rates.
func DefaultConfig() Config {
	return Config{
		PricePerFt:      8.50,
		LaborPerFt:      5.00,
		DownspoutEach:   85.00,
		MiterEach:       12.00,
		PitchMultiplier: 1.10,
		StoryMultiplier: 1.00,
		OverheadPct:     0.12,
		ProfitPct:       0.10,
		SalesTaxPct:     0.00,
	}
}

// Validate rejects configurations with negative rates.
func (c Config) Validate() error {
	rates := map[string]float64{
		"price_per_ft":     c.PricePerFt,
		"labor_per_ft":     c.LaborPerFt,
		"downspout_each":   c.DownspoutEach,
		"miter_each":       c.MiterEach,
		"pitch_multiplier": c.PitchMultiplier,
		"story_multiplier": c.StoryMultiplier,
		"overhead_pct":     c.OverheadPct,
		"profit_pct":       c.ProfitPct,
		"sales_tax_pct":    c.SalesTaxPct,
	}
	for name, rate := range rates {
		if rate < 0 {
			return errors.Newf(errors.TypeConfig, "pricing rate %s must not be negative, got %v", name, rate)
		}
	}
	return nil
}
