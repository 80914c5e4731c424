// Package measure - Measurement extraction from provider results
// Extraction is total: any syntactically valid JSON object yields a Record,
// missing and null fields collapse to zero values.
package measure

import (
	"encoding/json"

	"gutter-api/internal/errors"
)

// Record is a normalized gutter measurement extracted from a provider result.
type Record struct {
	// EaveLinearFt is the total eave length in linear feet
	EaveLinearFt float64 `json:"eave_linear_ft"`

	// Downspouts is the estimated downspout count
	Downspouts int `json:"downspouts"`

	// MitersInside is the count of inside (concave) 90-degree corners
	MitersInside int `json:"miters_inside"`

	// MitersOutside is the count of outside (convex) 90-degree corners
	MitersOutside int `json:"miters_outside"`

	// StoriesByDirection maps a facing direction (e.g. "N") to its story count
	StoriesByDirection map[string]int `json:"stories_by_direction"`

	// PdfURL is the provider's report asset, when one was published
	PdfURL string `json:"pdf_url,omitempty"`
}

// Extract decodes a raw provider result and normalizes its gutter report.
// It fails only on malformed JSON, never on absent or null fields.
func Extract(raw []byte) (Record, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Record{}, errors.Wrap(errors.TypeInput, "malformed provider result", err)
	}
	return ExtractMap(doc), nil
}

// ExtractMap normalizes an already-decoded provider result.
// Pure function of its input; safe for concurrent use.
func ExtractMap(doc map[string]any) Record {
	report := objectOf(doc, "gutterReport")
	miters := objectOf(report, "miterCount")
	assets := objectOf(report, "assets")

	return Record{
		EaveLinearFt:       floatOf(report, "totalEaveLengthFt"),
		Downspouts:         intOf(report, "estimatedDownspouts"),
		MitersInside:       intOf(miters, "inside90"),
		MitersOutside:      intOf(miters, "outside90"),
		StoriesByDirection: storiesOf(report, "storiesByDirection"),
		PdfURL:             stringOf(assets, "pdfUrl"),
	}
}

// The helpers below treat JSON null exactly like a missing key. The provider
// emits explicit nulls for unmeasured sections, so a type assertion on the
// raw value alone is not enough.

func objectOf(doc map[string]any, key string) map[string]any {
	if doc == nil {
		return nil
	}
	obj, _ := doc[key].(map[string]any)
	return obj
}

func floatOf(doc map[string]any, key string) float64 {
	if doc == nil {
		return 0
	}
	f, _ := doc[key].(float64)
	return f
}

func intOf(doc map[string]any, key string) int {
	return int(floatOf(doc, key))
}

func stringOf(doc map[string]any, key string) string {
	if doc == nil {
		return ""
	}
	s, _ := doc[key].(string)
	return s
}

func storiesOf(doc map[string]any, key string) map[string]int {
	stories := make(map[string]int)
	for dir, v := range objectOf(doc, key) {
		if f, ok := v.(float64); ok {
			stories[dir] = int(f)
		}
		// null or non-numeric story counts stay absent; pricing
		// treats an absent direction as single-story anyway
	}
	return stories
}
