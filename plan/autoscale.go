package plan

import "fmt"

// ============================================================================
// AUTO-SCALING — figure geometry and label treatment from row count
// ============================================================================
// Heuristics apply only past their knees; small datasets keep the config
// defaults. All functions are monotone in the row count so growing data
// never shrinks the figure or re-shows hidden markers.
// ============================================================================

func (p *Planner) autoGeometry(req Request, rows []PlanRow) Geometry {
	t := p.cfg.Planner
	n := len(rows)

	g := Geometry{
		FigureWidth:     p.cfg.Chart.FigWidth,
		FigureHeight:    p.cfg.Chart.FigHeight,
		DPI:             p.cfg.Chart.DPI,
		MarkerVisible:   true,
		ScatterAlpha:    p.cfg.TypeDefaults(string(req.ChartType)).Alpha,
		TickTruncateLen: t.TickTruncateLen,
	}

	// Width grows with category count past the knee; rank-style horizontal
	// layouts grow height instead.
	if req.ChartType == TypeHBar {
		if n > t.HeightKnee {
			h := float64(n) * t.HeightPerItem
			if h > t.HeightCap {
				h = t.HeightCap
			}
			if h > g.FigureHeight {
				g.FigureHeight = h
			}
		}
	} else if n > t.WidthKnee {
		w := float64(n) * t.WidthPerCategory
		if w > t.WidthCap {
			w = t.WidthCap
		}
		if w > g.FigureWidth {
			g.FigureWidth = w
		}
	}

	// Dense line series drop their point markers.
	if (req.ChartType == TypeLine || req.ChartType == TypeTimeseries) && n > t.MarkerCutoff {
		g.MarkerVisible = false
	}

	// Scatter opacity steps down as overplotting risk grows.
	if req.ChartType == TypeScatter || req.ChartType == TypeBubble {
		switch {
		case n > t.AlphaFloorKnee:
			g.ScatterAlpha = 0.4
		case n > t.AlphaKnee:
			g.ScatterAlpha = 0.5
		}
	}

	g.TickRotationDeg = tickRotation(rows, t.TickRotateSlight, t.TickRotateSteep, t.TickRotateFull, t.TickTruncateLen)

	// Explicit overrides win over every heuristic.
	if req.Geometry.Width > 0 {
		g.FigureWidth = req.Geometry.Width
	}
	if req.Geometry.Height > 0 {
		g.FigureHeight = req.Geometry.Height
	}
	if req.Geometry.DPI > 0 {
		g.DPI = req.Geometry.DPI
	}
	return g
}

// tickRotation picks the x label rotation from the category count, with a
// bump to steep rotation when any label is long enough to collide upright.
func tickRotation(rows []PlanRow, slight, steep, full, truncateLen int) int {
	n := len(rows)
	longest := 0
	for _, r := range rows {
		if len(r.Label) > longest {
			longest = len(r.Label)
		}
	}
	switch {
	case n > full:
		return 90
	case n > steep || longest > truncateLen/2:
		return 45
	case n > slight:
		return 30
	}
	return 0
}

// autoLegend moves the legend outside past the inline knee and truncates it
// past the item cap, summarizing the remainder in the overflow label.
func (p *Planner) autoLegend(rows []PlanRow) Legend {
	t := p.cfg.Planner
	n := len(rows)

	leg := Legend{MaxItems: n}
	if n > t.LegendInlineMax {
		leg.Outside = true
	}
	if n > t.LegendItemsMax {
		leg.MaxItems = t.LegendItemsMax
		leg.OverflowLabel = fmt.Sprintf("Showing %d of %d", t.LegendItemsMax, n)
	}
	return leg
}
