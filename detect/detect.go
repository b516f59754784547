package detect

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vizforge-org/vizforge/config"
	"github.com/vizforge-org/vizforge/table"
)

// ============================================================================
// DETECTOR — runs the method set over one column and resolves the results
// ============================================================================

// Option configures detector behavior via functional options.
type Option func(*detectorConfig)

type detectorConfig struct {
	methods []Method
	logger  *slog.Logger
}

// WithMethods restricts the detector to the given methods instead of the
// full set. Unknown methods are rejected at Run time.
func WithMethods(methods ...Method) Option {
	return func(c *detectorConfig) {
		c.methods = methods
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *detectorConfig) {
		c.logger = logger
	}
}

// Detector evaluates anomaly detection methods against a table column.
// Zero value is not usable; construct with New.
type Detector struct {
	thresholds config.DetectorDefaults
	methods    []Method
	logger     *slog.Logger
}

// New builds a Detector from configuration thresholds and options.
func New(cfg config.Config, opts ...Option) *Detector {
	dc := &detectorConfig{
		methods: AllMethods,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(dc)
	}
	return &Detector{
		thresholds: cfg.Detector,
		methods:    dc.methods,
		logger:     dc.logger,
	}
}

// minimum sample counts per method. Columns shorter than a method's minimum
// skip that method with a recorded reason instead of failing the run.
func (d *Detector) minSamples(m Method) int {
	switch m {
	case MethodZScore:
		return 2
	case MethodIQR:
		return 4
	case MethodMinMax:
		return 2
	case MethodChangepoint:
		w := d.thresholds.ChangepointWindow
		if 2*w > 4 {
			return 2 * w
		}
		return 4
	}
	return 0
}

// Run evaluates the configured methods over the named numeric column and
// returns the merged highlight set. Methods run concurrently; the merge is
// deterministic regardless of completion order.
func (d *Detector) Run(ctx context.Context, tbl *table.Table, column string) (*HighlightSet, error) {
	samples, err := tbl.NumericColumn(column)
	if err != nil {
		return nil, fmt.Errorf("detect on column %q: %w", column, err)
	}
	for _, m := range d.methods {
		if !m.Valid() {
			return nil, fmt.Errorf("detect on column %q: unknown method %q", column, m)
		}
	}

	meta := Meta{
		Column: column,
		Thresholds: map[string]float64{
			"zscore_threshold":      d.thresholds.ZScoreThreshold,
			"iqr_multiplier":        d.thresholds.IQRMultiplier,
			"changepoint_window":    float64(d.thresholds.ChangepointWindow),
			"changepoint_threshold": d.thresholds.ChangepointThreshold,
		},
	}

	// Results land in a per-method slot so concurrent completion order
	// cannot change the merge input.
	results := make([][]candidate, len(d.methods))
	g, ctx := errgroup.WithContext(ctx)

	for i, m := range d.methods {
		if min := d.minSamples(m); len(samples) < min {
			reason := fmt.Sprintf("needs at least %d values, column has %d", min, len(samples))
			meta.Skipped = append(meta.Skipped, SkippedMethod{Method: m, Reason: reason})
			d.logger.Debug("skipping detection method",
				"method", string(m), "column", column, "reason", reason)
			continue
		}
		meta.MethodsRun = append(meta.MethodsRun, m)

		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch m {
			case MethodZScore:
				results[i] = detectZScore(samples, d.thresholds.ZScoreThreshold)
			case MethodIQR:
				results[i] = detectIQR(samples, d.thresholds.IQRMultiplier)
			case MethodMinMax:
				results[i] = detectMinMax(samples)
			case MethodChangepoint:
				results[i] = detectChangepoint(samples,
					d.thresholds.ChangepointWindow, d.thresholds.ChangepointThreshold)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []candidate
	for _, r := range results {
		all = append(all, r...)
	}
	records := resolve(all)

	d.logger.Info("detection complete",
		"column", column,
		"methods_run", len(meta.MethodsRun),
		"methods_skipped", len(meta.Skipped),
		"highlights", len(records))

	return &HighlightSet{Records: records, Meta: meta}, nil
}
