package config

// ============================================================================
// CONFIG — Immutable style and threshold configuration
// ============================================================================
// Palettes, per-chart-type defaults, highlight styles, and planner/detector
// thresholds. Built once (Default or Load) and passed by value into the
// planner, detector, and renderer — never ambient global state, so tests can
// inject fixtures without interference.
// ============================================================================

// Config is the complete visual and threshold configuration.
type Config struct {
	Chart      ChartConfig                  `koanf:"chart"`
	Palettes   map[string][]string          `koanf:"palettes"`
	ChartTypes map[string]ChartTypeDefaults `koanf:"chart_types"`
	Highlights HighlightStyles              `koanf:"highlights"`
	Planner    PlannerThresholds            `koanf:"planner"`
	Detector   DetectorDefaults             `koanf:"detector"`
}

// ChartConfig holds figure-level defaults.
type ChartConfig struct {
	FigWidth   float64 `koanf:"fig_width"`  // inches
	FigHeight  float64 `koanf:"fig_height"` // inches
	DPI        int     `koanf:"dpi"`
	Background string  `koanf:"background"`
}

// ChartTypeDefaults holds per-chart-type rendering defaults.
type ChartTypeDefaults struct {
	LineWidth  float64 `koanf:"line_width"`
	MarkerSize int     `koanf:"marker_size"`
	Alpha      float64 `koanf:"alpha"`
	BarWidth   float64 `koanf:"bar_width"`
	PointSize  int     `koanf:"point_size"`
	Bins       int     `koanf:"bins"`
	MaxSlices  int     `koanf:"max_slices"`
}

// HighlightStyles holds the visual parameters for each overlay style.
type HighlightStyles struct {
	HaloRing        StyleParams `koanf:"halo_ring"`
	ColorShift      StyleParams `koanf:"color_shift"`
	Glow            StyleParams `koanf:"glow"`
	SizeBoost       StyleParams `koanf:"size_boost"`
	AnnotationArrow StyleParams `koanf:"annotation_arrow"`
	BandShade       StyleParams `koanf:"band_shade"`
}

// StyleParams are the knobs shared by overlay styles. Unused fields are
// ignored by styles that don't need them.
type StyleParams struct {
	Color          string  `koanf:"color"`
	Alpha          float64 `koanf:"alpha"`
	SizeMultiplier float64 `koanf:"size_multiplier"`
	LineWidth      float64 `koanf:"line_width"`
	FontSize       float64 `koanf:"font_size"`
	BandWidth      float64 `koanf:"band_width"` // in category units
}

// PlannerThresholds are the knees and caps of the auto-scaling heuristics.
// All counts are row/category counts after reduction.
type PlannerThresholds struct {
	DensityCeiling   int     `koanf:"density_ceiling"`
	WidthKnee        int     `koanf:"width_knee"`         // categories before width grows
	WidthPerCategory float64 `koanf:"width_per_category"` // inches per category past the knee
	WidthCap         float64 `koanf:"width_cap"`
	HeightKnee       int     `koanf:"height_knee"` // hbar items before height grows
	HeightPerItem    float64 `koanf:"height_per_item"`
	HeightCap        float64 `koanf:"height_cap"`
	MarkerCutoff     int     `koanf:"marker_cutoff"`      // line points before markers hide
	AlphaKnee        int     `koanf:"alpha_knee"`         // scatter points before alpha drops
	AlphaFloorKnee   int     `koanf:"alpha_floor_knee"`   // scatter points before alpha bottoms out
	LegendInlineMax  int     `koanf:"legend_inline_max"`  // series before legend moves outside
	LegendItemsMax   int     `koanf:"legend_items_max"`   // series before legend truncates
	TickTruncateLen  int     `koanf:"tick_truncate_len"`  // label chars before ellipsis
	TickRotateSlight int     `koanf:"tick_rotate_slight"` // categories before 30 deg rotation
	TickRotateSteep  int     `koanf:"tick_rotate_steep"`  // categories before 45 deg rotation
	TickRotateFull   int     `koanf:"tick_rotate_full"`   // categories before 90 deg rotation
}

// DetectorDefaults are the statistical thresholds for each detection method.
type DetectorDefaults struct {
	ZScoreThreshold      float64 `koanf:"zscore_threshold"`
	IQRMultiplier        float64 `koanf:"iqr_multiplier"`
	ChangepointWindow    int     `koanf:"changepoint_window"`
	ChangepointThreshold float64 `koanf:"changepoint_threshold"`
}

// Palette returns the named palette, falling back to "colorblind".
func (c Config) Palette(name string) []string {
	if p, ok := c.Palettes[name]; ok && len(p) > 0 {
		return p
	}
	return c.Palettes["colorblind"]
}

// TypeDefaults returns the defaults for a chart type key, or a zero value
// when the type has no dedicated block.
func (c Config) TypeDefaults(chartType string) ChartTypeDefaults {
	return c.ChartTypes[chartType]
}
