package plan

import "fmt"

// ============================================================================
// PLAN TYPES — requests in, chart plans out
// ============================================================================

// ChartType is the closed set of supported chart types. Adding one means a
// new constant plus a branch at each dispatch point, not a plugin mechanism.
type ChartType string

const (
	TypeLine       ChartType = "line"
	TypeBar        ChartType = "bar"
	TypeHBar       ChartType = "hbar"
	TypeScatter    ChartType = "scatter"
	TypeHistogram  ChartType = "histogram"
	TypePie        ChartType = "pie"
	TypeDonut      ChartType = "donut"
	TypeArea       ChartType = "area"
	TypeBubble     ChartType = "bubble"
	TypeTimeseries ChartType = "timeseries"
)

// AllChartTypes lists every supported type, for validation messages.
var AllChartTypes = []ChartType{
	TypeLine, TypeBar, TypeHBar, TypeScatter, TypeHistogram,
	TypePie, TypeDonut, TypeArea, TypeBubble, TypeTimeseries,
}

// Valid reports whether t is a known chart type.
func (t ChartType) Valid() bool {
	for _, known := range AllChartTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Categorical reports whether the type draws one mark per category, which
// decides how the density ceiling is enforced (capping vs thinning).
func (t ChartType) Categorical() bool {
	switch t {
	case TypeBar, TypeHBar, TypePie, TypeDonut:
		return true
	}
	return false
}

// Directives are the caller's reduction instructions, applied in a fixed
// order: group-by+aggregate, then sort, then top/bottom-N, then the
// max-category cap.
type Directives struct {
	GroupBy       string `json:"group_by,omitempty"`
	Agg           string `json:"agg,omitempty"` // sum, mean, median, count, min, max
	SortBy        string `json:"sort_by,omitempty"`
	SortDesc      bool   `json:"sort_desc,omitempty"`
	TopN          int    `json:"top_n,omitempty"`
	BottomN       int    `json:"bottom_n,omitempty"`
	MaxCategories int    `json:"max_categories,omitempty"`
}

// GeometryOverrides are explicit figure dimensions; zero means auto.
type GeometryOverrides struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	DPI    int     `json:"dpi,omitempty"`
}

// StyleOverrides tweak the visual treatment without touching geometry.
type StyleOverrides struct {
	Palette   string `json:"palette,omitempty"`
	TrendLine bool   `json:"trend_line,omitempty"`
	Title     string `json:"title,omitempty"`
}

// Request is one chart-generation request against a canonical table.
type Request struct {
	ChartType ChartType         `json:"chart_type"`
	X         string            `json:"x,omitempty"` // empty means row order
	Y         string            `json:"y"`
	Size      string            `json:"size,omitempty"` // bubble only
	Reduction Directives        `json:"reduction,omitempty"`
	Geometry  GeometryOverrides `json:"geometry,omitempty"`
	Style     StyleOverrides    `json:"style,omitempty"`
}

// PlanRow is one renderable row. OriginIndices carries the canonical rows
// that produced it so the highlight mapper never guesses group membership.
type PlanRow struct {
	Label         string  `json:"label"`
	Value         float64 `json:"value"`
	Size          float64 `json:"size,omitempty"` // bubble radius value
	OriginIndices []int   `json:"origin_indices"`
	Synthetic     bool    `json:"synthetic,omitempty"` // overflow "Other" bucket
}

// Geometry is the resolved figure shape and mark treatment.
type Geometry struct {
	FigureWidth     float64 `json:"figure_width"`  // inches
	FigureHeight    float64 `json:"figure_height"` // inches
	DPI             int     `json:"dpi"`
	MarkerVisible   bool    `json:"marker_visible"`
	ScatterAlpha    float64 `json:"scatter_alpha"`
	TickRotationDeg int     `json:"tick_rotation_deg"`
	TickTruncateLen int     `json:"tick_truncate_len"`
}

// Legend is the resolved legend treatment.
type Legend struct {
	Outside       bool   `json:"outside"`
	MaxItems      int    `json:"max_items"`
	OverflowLabel string `json:"overflow_label,omitempty"`
}

// Reduction describes what actually happened to the row set, in application
// order, so a plan is self-explanatory and the mapper can reason about it.
type Reduction struct {
	GroupBy       string   `json:"group_by,omitempty"`
	Agg           string   `json:"agg,omitempty"`
	TopN          int      `json:"top_n,omitempty"`
	BottomN       int      `json:"bottom_n,omitempty"`
	MaxCategories int      `json:"max_categories,omitempty"`
	Steps         []string `json:"steps,omitempty"`
	ThinStride    int      `json:"thin_stride,omitempty"` // >0 when auto-thinned
}

// ChartPlan is the planner's complete, renderer-ready output.
type ChartPlan struct {
	ChartType ChartType      `json:"chart_type"`
	XColumn   string         `json:"x_column,omitempty"`
	YColumn   string         `json:"y_column"`
	Title     string         `json:"title,omitempty"`
	Palette   string         `json:"palette"`
	TrendLine bool           `json:"trend_line,omitempty"`
	Rows      []PlanRow      `json:"rows"`
	Geometry  Geometry       `json:"geometry"`
	Legend    Legend         `json:"legend"`
	Reduction Reduction      `json:"reduction"`
}

// DirectiveError reports a structurally invalid request or reduction
// directive. Planning fails fast; nothing is rendered.
type DirectiveError struct {
	Directive string
	Detail    string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("invalid directive %s: %s", e.Directive, e.Detail)
}

func directiveErrorf(directive, format string, args ...interface{}) error {
	return &DirectiveError{Directive: directive, Detail: fmt.Sprintf(format, args...)}
}
