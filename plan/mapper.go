package plan

import (
	"log/slog"

	"github.com/vizforge-org/vizforge/detect"
)

// ============================================================================
// HIGHLIGHT MAPPER — Highlight Set (table indices) → Render Instruction
// ============================================================================
// Plans carry origin indices on every row, so the mapper never guesses
// group membership:
//   - no reduction: identity mapping on row index
//   - filtered rows: highlights on removed rows are dropped (expected
//     degradation, reported as a count, never an error)
//   - aggregated rows: highlights re-anchor to the plan row whose origin
//     set contains their index, including the synthetic "Other" bucket
// The mapper never fabricates a placement that has no source record.
// ============================================================================

// Placement anchors one highlight to one plan row.
type Placement struct {
	PlanRow  int             `json:"plan_row"` // index into ChartPlan.Rows
	Style    detect.Style    `json:"style"`
	Severity detect.Severity `json:"severity"`
	Score    float64         `json:"score"` // 0..1
	Label    string          `json:"label,omitempty"`
}

// RenderInstruction is everything the renderer needs beyond the plan itself.
type RenderInstruction struct {
	Placements []Placement `json:"placements"`
	// Dropped counts highlights that could not be anchored to any plan row.
	Dropped int `json:"dropped"`
}

// MapHighlights reconciles a highlight set with a plan's row set.
func MapHighlights(p *ChartPlan, set *detect.HighlightSet, logger *slog.Logger) RenderInstruction {
	if logger == nil {
		logger = slog.Default()
	}
	var ri RenderInstruction
	if set == nil || len(set.Records) == 0 {
		return ri
	}

	anchor := make(map[int]int) // canonical row index → plan row position
	for pos, row := range p.Rows {
		for _, origin := range row.OriginIndices {
			anchor[origin] = pos
		}
	}

	for _, rec := range set.Records {
		if rec.RowIndex == nil {
			ri.Dropped++
			continue
		}
		pos, ok := anchor[*rec.RowIndex]
		if !ok {
			ri.Dropped++
			continue
		}
		ri.Placements = append(ri.Placements, Placement{
			PlanRow:  pos,
			Style:    rec.Style,
			Severity: rec.Severity,
			Score:    rec.CombinedScore,
			Label:    rec.Label,
		})
	}

	if ri.Dropped > 0 {
		logger.Info("highlights dropped during mapping",
			"dropped", ri.Dropped,
			"placed", len(ri.Placements),
			"column", set.Meta.Column)
	}
	return ri
}
