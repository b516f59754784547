package detect

import (
	"encoding/json"
	"fmt"
	"io"
)

// ============================================================================
// HIGHLIGHT SET — the detector's output, consumed by the planner/renderer
// ============================================================================

// AnomalyRecord is one merged highlight on one row.
type AnomalyRecord struct {
	// RowIndex is the row in the canonical table the record anchors to.
	// Nil means the anchor was lost during plan re-mapping.
	RowIndex      *int     `json:"row_index"`
	Value         float64  `json:"value"`
	Methods       []Method `json:"methods"`
	CombinedScore float64  `json:"combined_score"` // 0..1
	Severity      Severity `json:"severity"`
	Style         Style    `json:"style"`
	Label         string   `json:"label,omitempty"`
}

// SkippedMethod records a method that did not run and why.
type SkippedMethod struct {
	Method Method `json:"method"`
	Reason string `json:"reason"`
}

// Meta describes how a highlight set was produced.
type Meta struct {
	Column     string             `json:"column"`
	MethodsRun []Method           `json:"methods_run"`
	Skipped    []SkippedMethod    `json:"skipped,omitempty"`
	Thresholds map[string]float64 `json:"thresholds"`
}

// HighlightSet is the complete detection result for one column.
type HighlightSet struct {
	Records []AnomalyRecord `json:"records"`
	Meta    Meta            `json:"meta"`
}

// Encode writes the set as indented JSON.
func (h *HighlightSet) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(h)
}

// Decode reads a highlight set from JSON, rejecting records with unknown
// methods or styles so downstream stages can trust the set.
func Decode(r io.Reader) (*HighlightSet, error) {
	var h HighlightSet
	if err := json.NewDecoder(r).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode highlight set: %w", err)
	}
	for i, rec := range h.Records {
		for _, m := range rec.Methods {
			if !m.Valid() {
				return nil, fmt.Errorf("decode highlight set: record %d has unknown method %q", i, m)
			}
		}
		switch rec.Style {
		case StyleHaloRing, StyleColorShift, StyleGlow, StyleSizeBoost,
			StyleAnnotationArrow, StyleBandShade, StyleCombo:
		default:
			return nil, fmt.Errorf("decode highlight set: record %d has unknown style %q", i, rec.Style)
		}
	}
	return &h, nil
}
