package render

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vizforge-org/vizforge/config"
	"github.com/vizforge-org/vizforge/plan"
)

// ============================================================================
// RENDERER — Chart Plan + Render Instruction → PNG or SVG
// ============================================================================
// The renderer is the last stage and the only one that produces pixels. It
// never second-guesses the plan: geometry, row set, and highlight anchors
// arrive fully decided. Failures here are a distinct error category from
// planning and detection failures and are never retried.
// ============================================================================

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// DetectOutputFormat maps an output path's extension to a Format.
func DetectOutputFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".svg":
		return FormatSVG, nil
	}
	return "", &Error{Op: "detect format", Err: fmt.Errorf("unsupported output extension %q (use .png or .svg)", filepath.Ext(path))}
}

// Error marks a rendering-stage failure.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("render %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Renderer draws chart plans.
type Renderer struct {
	cfg    config.Config
	logger *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// New builds a Renderer from configuration.
func New(cfg config.Config, opts ...Option) *Renderer {
	r := &Renderer{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Chart renders a plan with its highlight placements to w.
func (r *Renderer) Chart(p *plan.ChartPlan, ri plan.RenderInstruction, w io.Writer, format Format) error {
	if len(p.Rows) == 0 {
		return &Error{Op: string(p.ChartType), Err: fmt.Errorf("plan has no rows")}
	}
	provider, err := rendererProvider(format)
	if err != nil {
		return err
	}

	var renderErr error
	switch p.ChartType {
	case plan.TypeLine, plan.TypeTimeseries, plan.TypeArea, plan.TypeScatter, plan.TypeBubble:
		renderErr = r.renderXY(p, ri, w, provider)
	case plan.TypeBar, plan.TypeHBar, plan.TypeHistogram:
		renderErr = r.renderBars(p, ri, w, provider)
	case plan.TypePie, plan.TypeDonut:
		renderErr = r.renderPie(p, ri, w, provider)
	default:
		renderErr = fmt.Errorf("unsupported chart type %q", p.ChartType)
	}
	if renderErr != nil {
		return &Error{Op: string(p.ChartType), Err: renderErr}
	}

	r.logger.Debug("chart rendered",
		"chart_type", string(p.ChartType),
		"format", string(format),
		"rows", len(p.Rows),
		"highlights", len(ri.Placements))
	return nil
}

func rendererProvider(format Format) (chart.RendererProvider, error) {
	switch format {
	case FormatPNG:
		return chart.PNG, nil
	case FormatSVG:
		return chart.SVG, nil
	}
	return nil, &Error{Op: "select format", Err: fmt.Errorf("unknown format %q", format)}
}

// pixelSize converts the plan's inch-based geometry to pixels.
func pixelSize(g plan.Geometry) (int, int) {
	dpi := g.DPI
	if dpi <= 0 {
		dpi = 96
	}
	return int(g.FigureWidth * float64(dpi)), int(g.FigureHeight * float64(dpi))
}

// paletteColor resolves the i-th color of the plan's palette, cycling.
func (r *Renderer) paletteColor(p *plan.ChartPlan, i int) drawing.Color {
	palette := r.cfg.Palette(p.Palette)
	if len(palette) == 0 {
		return chart.ColorBlue
	}
	return hexColor(palette[i%len(palette)])
}

// hexColor parses "#rrggbb", tolerating a missing hash.
func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

// withAlpha scales a color's opacity by a 0..1 factor.
func withAlpha(c drawing.Color, alpha float64) drawing.Color {
	if alpha <= 0 || alpha > 1 {
		return c
	}
	return c.WithAlpha(uint8(alpha * 255))
}
