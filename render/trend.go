package render

import (
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// trendSeries fits a least-squares line through the points and returns it as
// a dashed series whose legend entry carries the fit quality. Degenerate
// inputs (fewer than two points, zero x variance) produce no series.
func trendSeries(xs, ys []float64, color drawing.Color) (chart.Series, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return nil, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, sxy, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return nil, false
	}
	slope := sxy / sxx
	intercept := meanY - slope*meanX

	r2 := 0.0
	if syy > 0 {
		r2 = (sxy * sxy) / (sxx * syy)
	}

	fit := make([]float64, n)
	for i := 0; i < n; i++ {
		fit[i] = slope*xs[i] + intercept
	}
	return chart.ContinuousSeries{
		Name:    fmt.Sprintf("Trend (R²=%.2f)", r2),
		XValues: xs,
		YValues: fit,
		Style: chart.Style{
			StrokeColor:     color,
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5, 5},
		},
	}, true
}
