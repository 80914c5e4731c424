package estimate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"gutter-api/core/measure"
)

// LineItem is one row of an itemized estimate. Qty, UOM and UnitPrice are
// omitted on computed rows (overhead, profit, tax).
type LineItem struct {
	Label     string   `json:"label"`
	Qty       *float64 `json:"qty,omitempty"`
	UOM       string   `json:"uom,omitempty"`
	UnitPrice *float64 `json:"unit_price,omitempty"`
	Amount    float64  `json:"amount"`
}

// Totals is the estimate roll-up.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total"`
}

// Estimate is the full priced output for one measurement record.
type Estimate struct {
	Inputs    measure.Record `json:"inputs"`
	LineItems []LineItem     `json:"line_items"`
	Totals    Totals         `json:"totals"`
}

// multiStoryLaborMultiplier replaces the configured story multiplier when any
// building face has two or more stories.
var multiStoryLaborMultiplier = decimal.NewFromFloat(1.10)

// Price applies the pricing pipeline to a measurement record.
//
// Arithmetic runs unrounded on decimals; amounts are rounded to cents (and
// quantities to a tenth of a foot) only when the line items are emitted.
// Line order is fixed: materials, labor, downspouts, miters, overhead,
// profit, sales tax. Zero-amount lines are still emitted.
func Price(rec measure.Record, cfg Config) Estimate {
	eave := decimal.NewFromFloat(rec.EaveLinearFt)
	miters := rec.MitersInside + rec.MitersOutside

	storyMult := decimal.NewFromFloat(cfg.StoryMultiplier)
	if multiStory(rec.StoriesByDirection) {
		storyMult = multiStoryLaborMultiplier
	}

	materials := eave.Mul(decimal.NewFromFloat(cfg.PricePerFt))
	labor := eave.
		Mul(decimal.NewFromFloat(cfg.LaborPerFt)).
		Mul(decimal.NewFromFloat(cfg.PitchMultiplier)).
		Mul(storyMult)

	downspoutsAmt := decimal.NewFromInt(int64(rec.Downspouts)).Mul(decimal.NewFromFloat(cfg.DownspoutEach))
	mitersAmt := decimal.NewFromInt(int64(miters)).Mul(decimal.NewFromFloat(cfg.MiterEach))
	accessories := downspoutsAmt.Add(mitersAmt)

	subtotal := materials.Add(labor).Add(accessories)
	overhead := subtotal.Mul(decimal.NewFromFloat(cfg.OverheadPct))
	preProfit := subtotal.Add(overhead)
	profit := preProfit.Mul(decimal.NewFromFloat(cfg.ProfitPct))

	// Labor is excluded from the tax base.
	salesTax := materials.Add(accessories).Mul(decimal.NewFromFloat(cfg.SalesTaxPct))

	total := preProfit.Add(profit).Add(salesTax)

	eaveQty := qty1(eave)
	return Estimate{
		Inputs: rec,
		LineItems: []LineItem{
			{Label: "Gutter materials", Qty: ptr(eaveQty), UOM: "ft", UnitPrice: ptr(cfg.PricePerFt), Amount: money(materials)},
			{Label: "Labor", Qty: ptr(eaveQty), UOM: "ft", UnitPrice: ptr(cfg.LaborPerFt), Amount: money(labor)},
			{Label: fmt.Sprintf("Downspouts (%d)", rec.Downspouts), Qty: ptr(float64(rec.Downspouts)), UOM: "ea", UnitPrice: ptr(cfg.DownspoutEach), Amount: money(downspoutsAmt)},
			{Label: fmt.Sprintf("Miters (%d)", miters), Qty: ptr(float64(miters)), UOM: "ea", UnitPrice: ptr(cfg.MiterEach), Amount: money(mitersAmt)},
			{Label: "Overhead", Amount: money(overhead)},
			{Label: "Profit", Amount: money(profit)},
			{Label: "Sales tax", Amount: money(salesTax)},
		},
		Totals: Totals{
			Subtotal: money(subtotal),
			Total:    money(total),
		},
	}
}

// Compute extracts a measurement record from a raw provider result and
// prices it. This is the single operation the order-results endpoint needs.
func Compute(raw []byte, cfg Config) (Estimate, error) {
	rec, err := measure.Extract(raw)
	if err != nil {
		return Estimate{}, err
	}
	return Price(rec, cfg), nil
}

// multiStory reports whether any face has two or more stories. An absent or
// zero count means a single story.
func multiStory(stories map[string]int) bool {
	for _, n := range stories {
		if n >= 2 {
			return true
		}
	}
	return false
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func qty1(d decimal.Decimal) float64 {
	return d.Round(1).InexactFloat64()
}

func ptr(v float64) *float64 {
	return &v
}
