package render

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/vizforge-org/vizforge/config"
	"github.com/vizforge-org/vizforge/detect"
	"github.com/vizforge-org/vizforge/plan"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testPlan(t plan.ChartType, values []float64) *plan.ChartPlan {
	rows := make([]plan.PlanRow, len(values))
	for i, v := range values {
		rows[i] = plan.PlanRow{
			Label:         strings.Repeat("c", 3) + string(rune('a'+i%26)),
			Value:         v,
			Size:          v,
			OriginIndices: []int{i},
		}
	}
	return &plan.ChartPlan{
		ChartType: t,
		YColumn:   "value",
		Palette:   "colorblind",
		Rows:      rows,
		Geometry: plan.Geometry{
			FigureWidth:     8,
			FigureHeight:    5,
			DPI:             96,
			MarkerVisible:   true,
			ScatterAlpha:    0.7,
			TickTruncateLen: 20,
		},
	}
}

func TestChartRendersEveryType(t *testing.T) {
	r := New(config.Default())
	values := []float64{4, 8, 2, 9, 5, 7, 3, 6}

	for _, ct := range plan.AllChartTypes {
		t.Run(string(ct), func(t *testing.T) {
			var buf bytes.Buffer
			err := r.Chart(testPlan(ct, values), plan.RenderInstruction{}, &buf, FormatPNG)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "output is a PNG")
		})
	}
}

func TestChartRendersFlatValues(t *testing.T) {
	// Uniform histogram counts and constant series collapse the value range
	// to a single point; rendering must still succeed.
	r := New(config.Default())
	flat := []float64{5, 5, 5, 5, 5, 5}

	for _, ct := range []plan.ChartType{plan.TypeHistogram, plan.TypeBar, plan.TypeLine, plan.TypeScatter} {
		t.Run(string(ct), func(t *testing.T) {
			var buf bytes.Buffer
			err := r.Chart(testPlan(ct, flat), plan.RenderInstruction{}, &buf, FormatPNG)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestChartRendersSinglePoint(t *testing.T) {
	r := New(config.Default())

	var buf bytes.Buffer
	err := r.Chart(testPlan(plan.TypeLine, []float64{7}), plan.RenderInstruction{}, &buf, FormatPNG)
	require.NoError(t, err)
}

func TestChartRendersSVG(t *testing.T) {
	r := New(config.Default())

	var buf bytes.Buffer
	err := r.Chart(testPlan(plan.TypeLine, []float64{1, 3, 2, 5}), plan.RenderInstruction{}, &buf, FormatSVG)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
}

func TestChartWithHighlightOverlays(t *testing.T) {
	r := New(config.Default())
	p := testPlan(plan.TypeLine, []float64{1, 1, 1, 9, 1, 1})
	ri := plan.RenderInstruction{Placements: []plan.Placement{
		{PlanRow: 3, Style: detect.StyleHaloRing, Severity: detect.SeverityHigh, Score: 0.9},
		{PlanRow: 0, Style: detect.StyleAnnotationArrow, Label: "Min: 1.0"},
		{PlanRow: 4, Style: detect.StyleBandShade, Severity: detect.SeverityMedium},
	}}

	var buf bytes.Buffer
	require.NoError(t, r.Chart(p, ri, &buf, FormatPNG))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestChartHighlightedBarRestyled(t *testing.T) {
	r := New(config.Default())
	p := testPlan(plan.TypeBar, []float64{3, 7, 2})
	ri := plan.RenderInstruction{Placements: []plan.Placement{
		{PlanRow: 1, Style: detect.StyleColorShift, Severity: detect.SeverityMedium},
	}}

	var buf bytes.Buffer
	require.NoError(t, r.Chart(p, ri, &buf, FormatPNG))
}

func TestChartTrendLine(t *testing.T) {
	r := New(config.Default())
	p := testPlan(plan.TypeScatter, []float64{1, 2, 2, 4, 5, 5, 7, 8})
	p.TrendLine = true

	var buf bytes.Buffer
	require.NoError(t, r.Chart(p, ri0(), &buf, FormatPNG))
}

func ri0() plan.RenderInstruction { return plan.RenderInstruction{} }

func TestChartEmptyPlanFails(t *testing.T) {
	r := New(config.Default())
	p := &plan.ChartPlan{ChartType: plan.TypeLine, Palette: "colorblind"}

	var buf bytes.Buffer
	err := r.Chart(p, plan.RenderInstruction{}, &buf, FormatPNG)
	require.Error(t, err)
	var re *Error
	assert.ErrorAs(t, err, &re)
}

func TestChartNegativePieSliceFails(t *testing.T) {
	r := New(config.Default())
	p := testPlan(plan.TypePie, []float64{5, -2, 3})

	var buf bytes.Buffer
	err := r.Chart(p, plan.RenderInstruction{}, &buf, FormatPNG)
	require.Error(t, err)
	var re *Error
	assert.ErrorAs(t, err, &re)
}

func TestDetectOutputFormat(t *testing.T) {
	f, err := DetectOutputFormat("out/chart.png")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = DetectOutputFormat("chart.SVG")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)

	_, err = DetectOutputFormat("chart.bmp")
	assert.Error(t, err)
}

func TestTrendSeriesFit(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 3, 5, 7} // y = 2x + 1, perfect fit

	s, ok := trendSeries(xs, ys, hexColor("#000000"))
	require.True(t, ok)
	cs := s.(chart.ContinuousSeries)
	assert.Equal(t, "Trend (R²=1.00)", cs.Name)
	assert.InDelta(t, 1.0, cs.YValues[0], 1e-9)
	assert.InDelta(t, 7.0, cs.YValues[3], 1e-9)
}

func TestTrendSeriesDegenerate(t *testing.T) {
	_, ok := trendSeries([]float64{1}, []float64{1}, hexColor("#000000"))
	assert.False(t, ok)
	_, ok = trendSeries([]float64{2, 2, 2}, []float64{1, 2, 3}, hexColor("#000000"))
	assert.False(t, ok, "zero x variance cannot be fitted")
}

func TestHistogramBins(t *testing.T) {
	rows := make([]plan.PlanRow, 100)
	for i := range rows {
		rows[i] = plan.PlanRow{Value: float64(i % 10), OriginIndices: []int{i}}
	}
	binned := histogramBins(rows, 10)

	require.Len(t, binned, 10)
	total := 0.0
	for _, b := range binned {
		total += b.Value
	}
	assert.Equal(t, 100.0, total, "every input lands in exactly one bin")
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", truncateLabel("short", 20))
	assert.Equal(t, "a_very_long_categor…", truncateLabel("a_very_long_category_name", 20))
}

func TestTruncateLabelMultibyte(t *testing.T) {
	// Labels are cut on rune boundaries, never inside a UTF-8 sequence.
	got := truncateLabel("東京都千代田区丸の内一丁目", 8)
	assert.Equal(t, "東京都千代田区…", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "東京", truncateLabel("東京", 8), "short multibyte label untouched")
	assert.Equal(t, "東", truncateLabel("東京都", 1))
}
