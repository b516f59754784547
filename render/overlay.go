package render

import (
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/vizforge-org/vizforge/config"
	"github.com/vizforge-org/vizforge/detect"
	"github.com/vizforge-org/vizforge/plan"
)

// ============================================================================
// HIGHLIGHT OVERLAYS — Render Instruction placements → extra series/styles
// ============================================================================
// Positional charts get overlay series drawn on top of the data; mark-based
// charts (bar, pie) get their mark restyled in place. Placements always
// reference plan rows, so no index arithmetic happens here.
// ============================================================================

// xyOverlays builds one overlay series per placement for positional charts.
func (r *Renderer) xyOverlays(p *plan.ChartPlan, ri plan.RenderInstruction) []chart.Series {
	if len(ri.Placements) == 0 {
		return nil
	}
	yMin, yMax := p.Rows[0].Value, p.Rows[0].Value
	for _, row := range p.Rows {
		if row.Value < yMin {
			yMin = row.Value
		}
		if row.Value > yMax {
			yMax = row.Value
		}
	}

	hs := r.cfg.Highlights
	var out []chart.Series
	for _, pl := range ri.Placements {
		if pl.PlanRow < 0 || pl.PlanRow >= len(p.Rows) {
			continue
		}
		x := float64(pl.PlanRow)
		y := p.Rows[pl.PlanRow].Value

		switch pl.Style {
		case detect.StyleBandShade:
			out = append(out, bandSeries(x, yMin, yMax, hs.BandShade))
		case detect.StyleAnnotationArrow:
			out = append(out, annotationSeries(x, y, pl.Label, hs.AnnotationArrow))
		case detect.StyleHaloRing:
			out = append(out, pointSeries(x, y, hs.HaloRing, 4))
		case detect.StyleColorShift:
			out = append(out, pointSeries(x, y, hs.ColorShift, 4))
		case detect.StyleGlow:
			out = append(out, pointSeries(x, y, hs.Glow, 4))
		case detect.StyleSizeBoost:
			out = append(out, pointSeries(x, y, hs.SizeBoost, 4))
		case detect.StyleCombo:
			out = append(out, pointSeries(x, y, hs.HaloRing, 4))
			if pl.Label != "" {
				out = append(out, annotationSeries(x, y, pl.Label, hs.AnnotationArrow))
			}
		}
	}
	return out
}

// pointSeries is a single emphasized point.
func pointSeries(x, y float64, sp config.StyleParams, baseDot float64) chart.Series {
	mult := sp.SizeMultiplier
	if mult <= 0 {
		mult = 1
	}
	return chart.ContinuousSeries{
		XValues: []float64{x},
		YValues: []float64{y},
		Style: chart.Style{
			StrokeWidth: 0,
			DotWidth:    baseDot * mult,
			DotColor:    withAlpha(hexColor(sp.Color), sp.Alpha),
		},
	}
}

// annotationSeries is a labeled callout at the point.
func annotationSeries(x, y float64, label string, sp config.StyleParams) chart.Series {
	return chart.AnnotationSeries{
		Annotations: []chart.Value2{{XValue: x, YValue: y, Label: label}},
		Style: chart.Style{
			StrokeColor: hexColor(sp.Color),
			FontSize:    sp.FontSize,
		},
	}
}

// bandSeries shades a vertical band at the boundary by drawing one very
// wide translucent stroke from the bottom to the top of the value range.
func bandSeries(x, yMin, yMax float64, sp config.StyleParams) chart.Series {
	width := sp.BandWidth * 24 // category units → stroke pixels
	if width <= 0 {
		width = 12
	}
	return chart.ContinuousSeries{
		XValues: []float64{x, x},
		YValues: []float64{yMin, yMax},
		Style: chart.Style{
			StrokeWidth: width,
			StrokeColor: withAlpha(hexColor(sp.Color), sp.Alpha),
		},
	}
}

// barOverlays maps plan row positions to replacement mark styles for bar
// and pie charts, where emphasis means restyling the mark itself.
func barOverlays(r *Renderer, p *plan.ChartPlan, ri plan.RenderInstruction) map[int]chart.Style {
	if len(ri.Placements) == 0 {
		return nil
	}
	hs := r.cfg.Highlights
	out := make(map[int]chart.Style, len(ri.Placements))
	for _, pl := range ri.Placements {
		var sp config.StyleParams
		switch pl.Style {
		case detect.StyleHaloRing, detect.StyleCombo:
			sp = hs.HaloRing
		case detect.StyleGlow:
			sp = hs.Glow
		case detect.StyleSizeBoost:
			sp = hs.SizeBoost
		case detect.StyleBandShade:
			sp = hs.BandShade
		default:
			sp = hs.ColorShift
		}
		st := chart.Style{FillColor: hexColor(sp.Color)}
		if sp.Alpha > 0 && sp.Alpha < 1 {
			st.FillColor = withAlpha(hexColor(sp.Color), sp.Alpha)
		}
		out[pl.PlanRow] = st
	}
	return out
}
