package plan

import (
	"log/slog"

	"github.com/vizforge-org/vizforge/config"
	"github.com/vizforge-org/vizforge/table"
)

// ============================================================================
// PLANNER — table + request → Chart Plan
// ============================================================================
// The planner is a pure function of (table, request, config): no randomness,
// no clock, no ambient state. Identical inputs always produce identical
// plans, which is what makes chart fixtures reproducible.
// ============================================================================

// Planner turns chart requests into render-ready plans.
type Planner struct {
	cfg    config.Config
	logger *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) { p.logger = logger }
}

// New builds a Planner from configuration.
func New(cfg config.Config, opts ...Option) *Planner {
	p := &Planner{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan validates the request, reduces the row set, and shapes the figure.
func (p *Planner) Plan(tbl *table.Table, req Request) (*ChartPlan, error) {
	if err := p.validate(tbl, req); err != nil {
		return nil, err
	}
	fn, aggName, err := aggFunc(req.Reduction.Agg)
	if err != nil {
		return nil, err
	}

	rows := baseRows(tbl, req.X, req.Y)
	if len(rows) == 0 {
		return nil, directiveErrorf("y", "column %q has no numeric values to plot", req.Y)
	}
	if req.Size != "" {
		bindSizes(tbl, rows, req.Size)
	}

	red := Reduction{
		GroupBy:       req.Reduction.GroupBy,
		TopN:          req.Reduction.TopN,
		BottomN:       req.Reduction.BottomN,
		MaxCategories: req.Reduction.MaxCategories,
	}

	// Fixed order: group, sort, top/bottom, cap. Skipped stages leave no
	// trace in the descriptor.
	if req.Reduction.GroupBy != "" {
		rows = groupRows(tbl, rows, req.Reduction.GroupBy, fn)
		red.Agg = aggName
		red.Steps = append(red.Steps, "groupby")
	}
	if req.Reduction.SortBy != "" {
		if err := sortRows(rows, req.Reduction.SortBy, req.Reduction.SortDesc); err != nil {
			return nil, err
		}
		red.Steps = append(red.Steps, "sort")
	}
	if req.Reduction.TopN > 0 {
		rows = topN(rows, req.Reduction.TopN, false)
		red.Steps = append(red.Steps, "top")
	} else if req.Reduction.BottomN > 0 {
		rows = topN(rows, req.Reduction.BottomN, true)
		red.Steps = append(red.Steps, "bottom")
	}
	if req.Reduction.MaxCategories > 0 {
		rows = capCategories(rows, req.Reduction.MaxCategories, fn)
		red.Steps = append(red.Steps, "maxcat")
	}

	// Composition charts bucket overflow slices even without a directive.
	if req.ChartType == TypePie || req.ChartType == TypeDonut {
		maxSlices := p.cfg.TypeDefaults(string(req.ChartType)).MaxSlices
		if maxSlices > 0 && len(rows) > maxSlices {
			rows = capCategories(rows, maxSlices-1, fn)
			red.Steps = append(red.Steps, "slices")
		}
	}

	rows, red = p.enforceCeiling(req.ChartType, rows, red, fn)

	palette := req.Style.Palette
	if palette == "" {
		palette = "colorblind"
	}

	plan := &ChartPlan{
		ChartType: req.ChartType,
		XColumn:   req.X,
		YColumn:   req.Y,
		Title:     req.Style.Title,
		Palette:   palette,
		TrendLine: req.Style.TrendLine,
		Rows:      rows,
		Geometry:  p.autoGeometry(req, rows),
		Legend:    p.autoLegend(rows),
		Reduction: red,
	}

	p.logger.Debug("chart planned",
		"chart_type", string(req.ChartType),
		"rows", len(rows),
		"reduction_steps", red.Steps)
	return plan, nil
}

func (p *Planner) validate(tbl *table.Table, req Request) error {
	if !req.ChartType.Valid() {
		return directiveErrorf("chart_type", "unknown chart type %q", req.ChartType)
	}
	if req.Y == "" {
		return directiveErrorf("y", "a y column is required")
	}
	if !tbl.HasColumn(req.Y) {
		return directiveErrorf("y", "column %q not found (available: %v)", req.Y, tbl.ColumnNames())
	}
	if req.X != "" && !tbl.HasColumn(req.X) {
		return directiveErrorf("x", "column %q not found (available: %v)", req.X, tbl.ColumnNames())
	}
	if req.Size != "" && !tbl.HasColumn(req.Size) {
		return directiveErrorf("size", "column %q not found (available: %v)", req.Size, tbl.ColumnNames())
	}
	if g := req.Reduction.GroupBy; g != "" && !tbl.HasColumn(g) {
		return directiveErrorf("group_by", "column %q not found (available: %v)", g, tbl.ColumnNames())
	}
	if req.Reduction.TopN > 0 && req.Reduction.BottomN > 0 {
		return directiveErrorf("top_n", "top_n and bottom_n are mutually exclusive")
	}
	if req.Reduction.TopN < 0 || req.Reduction.BottomN < 0 || req.Reduction.MaxCategories < 0 {
		return directiveErrorf("reduction", "counts must be non-negative")
	}
	return nil
}

// bindSizes attaches the size column's values to bubble rows. Rows without
// a numeric size keep zero and render at the minimum radius.
func bindSizes(tbl *table.Table, rows []PlanRow, sizeCol string) {
	for i := range rows {
		c := tbl.Cell(rows[i].OriginIndices[0], sizeCol)
		if c.Kind == table.KindNumber {
			rows[i].Size = c.Num
		}
	}
}

// enforceCeiling guarantees len(rows) stays under the density ceiling.
// Categorical charts fold overflow into an "Other" bucket; positional
// charts thin at a fixed stride, keeping the first and last rows.
func (p *Planner) enforceCeiling(t ChartType, rows []PlanRow, red Reduction, fn func([]float64) float64) ([]PlanRow, Reduction) {
	ceiling := p.cfg.Planner.DensityCeiling
	if ceiling <= 0 || len(rows) <= ceiling {
		return rows, red
	}
	before := len(rows)
	if t.Categorical() {
		rows = capCategories(rows, ceiling-1, fn)
		red.Steps = append(red.Steps, "ceiling_cap")
	} else {
		var stride int
		rows, stride = thinRows(rows, ceiling)
		red.ThinStride = stride
		red.Steps = append(red.Steps, "ceiling_thin")
	}
	p.logger.Info("density ceiling enforced",
		"chart_type", string(t), "before", before, "after", len(rows))
	return rows, red
}
