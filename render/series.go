package render

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/vizforge-org/vizforge/plan"
)

// ============================================================================
// SERIES BUILDERS — one per chart family
// ============================================================================

// renderXY draws line, timeseries, area, scatter, and bubble plans. The x
// axis is positional: plan row order, with category labels as ticks.
func (r *Renderer) renderXY(p *plan.ChartPlan, ri plan.RenderInstruction, w io.Writer, provider chart.RendererProvider) error {
	width, height := pixelSize(p.Geometry)
	defaults := r.cfg.TypeDefaults(string(p.ChartType))

	xs := make([]float64, len(p.Rows))
	ys := make([]float64, len(p.Rows))
	for i, row := range p.Rows {
		xs[i] = float64(i)
		ys[i] = row.Value
	}

	base := r.paletteColor(p, 0)
	style := chart.Style{StrokeColor: base}

	switch p.ChartType {
	case plan.TypeLine, plan.TypeTimeseries:
		style.StrokeWidth = defaults.LineWidth
		if p.Geometry.MarkerVisible && defaults.MarkerSize > 0 {
			style.DotWidth = float64(defaults.MarkerSize)
			style.DotColor = base
		}
	case plan.TypeArea:
		style.StrokeWidth = defaults.LineWidth
		style.FillColor = withAlpha(base, defaults.Alpha)
	case plan.TypeScatter, plan.TypeBubble:
		style.StrokeWidth = 0
		style.DotColor = withAlpha(base, p.Geometry.ScatterAlpha)
		style.DotWidth = dotWidth(defaults.PointSize)
	}

	series := []chart.Series{}
	if p.ChartType == plan.TypeBubble {
		series = append(series, bubbleSeries(p, style)...)
	} else {
		series = append(series, chart.ContinuousSeries{Name: p.YColumn, XValues: xs, YValues: ys, Style: style})
	}

	if p.TrendLine {
		if trend, ok := trendSeries(xs, ys, r.paletteColor(p, 1)); ok {
			series = append(series, trend)
		}
	}
	series = append(series, r.xyOverlays(p, ri)...)

	ch := chart.Chart{
		Title:  p.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: hexColor(r.cfg.Chart.Background),
		},
		XAxis: chart.XAxis{
			Ticks: categoryTicks(p),
			Range: paddedRange(xs),
			TickStyle: chart.Style{
				TextRotationDegrees: float64(p.Geometry.TickRotationDeg),
			},
		},
		YAxis:  chart.YAxis{Name: p.YColumn, Range: paddedRange(ys)},
		Series: series,
	}
	if p.TrendLine || len(p.Rows) <= r.cfg.Planner.LegendInlineMax {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(provider, w)
}

// bubbleSeries splits points into size quartiles, one series per quartile,
// since the backend draws a fixed dot width per series.
func bubbleSeries(p *plan.ChartPlan, base chart.Style) []chart.Series {
	minS, maxS := math.Inf(1), math.Inf(-1)
	for _, row := range p.Rows {
		if row.Size < minS {
			minS = row.Size
		}
		if row.Size > maxS {
			maxS = row.Size
		}
	}
	span := maxS - minS

	const buckets = 4
	xsB := make([][]float64, buckets)
	ysB := make([][]float64, buckets)
	for i, row := range p.Rows {
		b := 0
		if span > 0 {
			b = int((row.Size - minS) / span * buckets)
			if b >= buckets {
				b = buckets - 1
			}
		}
		xsB[b] = append(xsB[b], float64(i))
		ysB[b] = append(ysB[b], row.Value)
	}

	var out []chart.Series
	for b := 0; b < buckets; b++ {
		if len(xsB[b]) == 0 {
			continue
		}
		st := base
		st.DotWidth = base.DotWidth * (0.5 + 0.5*float64(b+1)/buckets*2)
		out = append(out, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s %d", p.YColumn, b+1),
			XValues: xsB[b],
			YValues: ysB[b],
			Style:   st,
		})
	}
	return out
}

// renderBars draws bar, hbar, and histogram plans. The backend draws bars
// vertically; hbar plans keep their rank-style ordering and geometry but
// share the vertical mark.
func (r *Renderer) renderBars(p *plan.ChartPlan, ri plan.RenderInstruction, w io.Writer, provider chart.RendererProvider) error {
	width, height := pixelSize(p.Geometry)
	defaults := r.cfg.TypeDefaults(string(p.ChartType))

	rows := p.Rows
	if p.ChartType == plan.TypeHistogram {
		rows = histogramBins(rows, defaults.Bins)
	}

	restyle := barOverlays(r, p, ri)
	bars := make([]chart.Value, len(rows))
	for i, row := range rows {
		st := chart.Style{FillColor: withAlpha(r.paletteColor(p, i), defaults.Alpha)}
		if over, ok := restyle[i]; ok && p.ChartType != plan.TypeHistogram {
			st = over
		}
		bars[i] = chart.Value{
			Value: row.Value,
			Label: truncateLabel(row.Label, p.Geometry.TickTruncateLen),
			Style: st,
		}
	}

	barWidth := width / (len(bars) + 2)
	if barWidth < 2 {
		barWidth = 2
	}
	ch := chart.BarChart{
		Title:  p.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: hexColor(r.cfg.Chart.Background),
		},
		BarWidth: barWidth,
		XAxis: chart.Style{
			TextRotationDegrees: float64(p.Geometry.TickRotationDeg),
		},
		Bars: bars,
	}
	values := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = b.Value
	}
	if rng := paddedRange(values); rng != nil {
		// All bars equal: anchor the range at the baseline so the backend
		// never sees a zero value span.
		cr := rng.(*chart.ContinuousRange)
		if cr.Min > 0 {
			cr.Min = 0
		}
		ch.YAxis.Range = cr
	}
	return ch.Render(provider, w)
}

// histogramBins folds raw value rows into equal-width count bins.
func histogramBins(rows []plan.PlanRow, bins int) []plan.PlanRow {
	if bins <= 0 {
		bins = 30
	}
	if len(rows) == 0 {
		return rows
	}
	lo, hi := rows[0].Value, rows[0].Value
	for _, row := range rows {
		if row.Value < lo {
			lo = row.Value
		}
		if row.Value > hi {
			hi = row.Value
		}
	}
	if hi == lo {
		return []plan.PlanRow{{Label: fmt.Sprintf("%.2g", lo), Value: float64(len(rows))}}
	}
	if bins > len(rows) {
		bins = len(rows)
	}

	binWidth := (hi - lo) / float64(bins)
	out := make([]plan.PlanRow, bins)
	for b := range out {
		out[b].Label = fmt.Sprintf("%.2g", lo+float64(b)*binWidth)
	}
	for _, row := range rows {
		b := int((row.Value - lo) / binWidth)
		if b >= bins {
			b = bins - 1
		}
		out[b].Value++
		out[b].OriginIndices = append(out[b].OriginIndices, row.OriginIndices...)
	}
	return out
}

// renderPie draws pie and donut plans.
func (r *Renderer) renderPie(p *plan.ChartPlan, ri plan.RenderInstruction, w io.Writer, provider chart.RendererProvider) error {
	width, height := pixelSize(p.Geometry)

	for _, row := range p.Rows {
		if row.Value < 0 {
			return fmt.Errorf("slice %q has negative value %v", row.Label, row.Value)
		}
	}

	restyle := barOverlays(r, p, ri)
	values := make([]chart.Value, len(p.Rows))
	for i, row := range p.Rows {
		st := chart.Style{FillColor: r.paletteColor(p, i)}
		if over, ok := restyle[i]; ok {
			st = over
		}
		values[i] = chart.Value{
			Value: row.Value,
			Label: truncateLabel(row.Label, p.Geometry.TickTruncateLen),
			Style: st,
		}
	}

	if p.ChartType == plan.TypeDonut {
		ch := chart.DonutChart{Title: p.Title, Width: width, Height: height, Values: values}
		return ch.Render(provider, w)
	}
	ch := chart.PieChart{Title: p.Title, Width: width, Height: height, Values: values}
	return ch.Render(provider, w)
}

// categoryTicks builds one tick per plan row, truncated and thinned so axis
// text never dominates the figure.
func categoryTicks(p *plan.ChartPlan) []chart.Tick {
	n := len(p.Rows)
	step := 1
	if n > 60 {
		step = (n + 59) / 60
	}
	ticks := make([]chart.Tick, 0, n/step+1)
	for i := 0; i < n; i += step {
		ticks = append(ticks, chart.Tick{
			Value: float64(i),
			Label: truncateLabel(p.Rows[i].Label, p.Geometry.TickTruncateLen),
		})
	}
	return ticks
}

func truncateLabel(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	// Cut on rune boundaries; byte slicing would split multibyte labels.
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return string(r[:1])
	}
	return string(r[:max-1]) + "…"
}

// paddedRange returns an explicit axis range only when the values span
// nothing, which the backend rejects as a zero data range. A degenerate
// span gets one unit of padding on each side.
func paddedRange(values []float64) chart.Range {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi > lo {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

func dotWidth(pointSize int) float64 {
	// Point sizes are configured in area units; the backend wants a width.
	if pointSize <= 0 {
		return 4
	}
	return math.Sqrt(float64(pointSize))
}
