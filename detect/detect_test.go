package detect

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizforge-org/vizforge/config"
	"github.com/vizforge-org/vizforge/table"
)

// ----------------------------------------------------------------------------
// Test fixtures

func numericTable(t *testing.T, name string, vals []float64) *table.Table {
	t.Helper()
	cells := make([]table.Cell, len(vals))
	for i, v := range vals {
		cells[i] = table.Cell{Kind: table.KindNumber, Num: v}
	}
	tbl, err := table.New([]table.Column{{Name: name, Kind: table.KindNumber, Cells: cells}})
	require.NoError(t, err)
	return tbl
}

func samplesOf(vals []float64) []table.Sample {
	out := make([]table.Sample, len(vals))
	for i, v := range vals {
		out[i] = table.Sample{Index: i, Value: v}
	}
	return out
}

// ----------------------------------------------------------------------------
// Z-score

func TestZScoreFlagsSingleSpike(t *testing.T) {
	vals := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 50}
	cands := detectZScore(samplesOf(vals), 2.5)

	require.Len(t, cands, 1)
	assert.Equal(t, 9, cands[0].row)
	assert.Equal(t, 50.0, cands[0].value)
	assert.Equal(t, MethodZScore, cands[0].method)
	assert.InDelta(t, 2.85, cands[0].score, 0.01)
	assert.Equal(t, SeverityMedium, cands[0].severity)
}

func TestZScoreConstantColumn(t *testing.T) {
	cands := detectZScore(samplesOf([]float64{7, 7, 7, 7, 7}), 2.5)
	assert.Empty(t, cands)
}

func TestZScoreMonotoneInThreshold(t *testing.T) {
	vals := []float64{10, 12, 11, 13, 10, 12, 11, 95, 13, 10, 12, 60}
	loose := detectZScore(samplesOf(vals), 1.0)
	strict := detectZScore(samplesOf(vals), 2.0)

	looseRows := make(map[int]bool)
	for _, c := range loose {
		looseRows[c.row] = true
	}
	for _, c := range strict {
		assert.True(t, looseRows[c.row],
			"row %d flagged at threshold 2.0 but not at 1.0", c.row)
	}
	assert.LessOrEqual(t, len(strict), len(loose))
}

// ----------------------------------------------------------------------------
// IQR

func TestIQRFlagsOutlier(t *testing.T) {
	vals := []float64{5, 7, 6, 8, 5, 7, 6, 100}
	cands := detectIQR(samplesOf(vals), 1.5)

	require.Len(t, cands, 1)
	assert.Equal(t, 7, cands[0].row)
	assert.Equal(t, 100.0, cands[0].value)
	// Q1=5.75, Q3=7.25 with interpolated quartiles, so IQR=1.5 and the
	// spike sits far past the extreme fence.
	assert.Equal(t, SeverityHigh, cands[0].severity)
	assert.Equal(t, 1.0, cands[0].norm)
}

func TestIQRZeroSpread(t *testing.T) {
	cands := detectIQR(samplesOf([]float64{4, 4, 4, 4, 4, 4, 4, 99}), 1.5)
	assert.Empty(t, cands, "degenerate IQR must not divide by zero")
}

// ----------------------------------------------------------------------------
// Min/Max

func TestMinMaxExactlyOneEach(t *testing.T) {
	vals := []float64{3, 9, 1, 9, 1, 5}
	cands := detectMinMax(samplesOf(vals))

	require.Len(t, cands, 2)
	assert.Equal(t, 1, cands[0].row, "max: first occurrence of 9")
	assert.Equal(t, "Max: 9.0", cands[0].label)
	assert.Equal(t, 2, cands[1].row, "min: first occurrence of 1")
	assert.Equal(t, "Min: 1.0", cands[1].label)
	for _, c := range cands {
		assert.Equal(t, SeverityMedium, c.severity)
	}
}

func TestMinMaxSuppressedWhenUninformative(t *testing.T) {
	assert.Empty(t, detectMinMax(samplesOf([]float64{2, 2, 2})))
	assert.Empty(t, detectMinMax(nil))
}

// ----------------------------------------------------------------------------
// Changepoint

func TestChangepointStepFunction(t *testing.T) {
	vals := []float64{1, 1, 1, 1, 1, 9, 9, 9, 9, 9}
	cands := detectChangepoint(samplesOf(vals), 5, 1.5)

	require.Len(t, cands, 1)
	assert.Equal(t, 4, cands[0].row, "boundary is the last row of the trailing window")
	assert.Equal(t, "Shift: increase", cands[0].label)
	assert.InDelta(t, 1.90, cands[0].score, 0.01)
}

func TestChangepointCollapsesConsecutiveBoundaries(t *testing.T) {
	// A ramp inside a long shift flags several adjacent boundaries; only
	// the strongest survives.
	vals := []float64{1, 1, 1, 1, 1, 1, 5, 20, 20, 20, 20, 20, 20, 20}
	cands := detectChangepoint(samplesOf(vals), 3, 1.0)

	require.Len(t, cands, 1)
}

func TestChangepointTooShort(t *testing.T) {
	assert.Empty(t, detectChangepoint(samplesOf([]float64{1, 1, 9, 9}), 5, 1.5))
}

// ----------------------------------------------------------------------------
// Resolver

func TestResolveMergesMethodsPerRow(t *testing.T) {
	cands := []candidate{
		{row: 7, value: 100, method: MethodIQR, score: 61.8, norm: 1, severity: SeverityHigh, label: "100.0"},
		{row: 7, value: 100, method: MethodZScore, score: 2.6, norm: 0.52, severity: SeverityMedium, label: "z=2.6"},
		{row: 7, value: 100, method: MethodMinMax, score: 100, norm: 0.25, severity: SeverityMedium, label: "Max: 100.0"},
		{row: 2, value: 1, method: MethodMinMax, score: 1, norm: 0.25, severity: SeverityMedium, label: "Min: 1.0"},
	}
	recs := resolve(cands)

	require.Len(t, recs, 2)
	assert.Equal(t, 2, *recs[0].RowIndex, "records sorted by row index")
	assert.Equal(t, 7, *recs[1].RowIndex)

	merged := recs[1]
	assert.Equal(t, []Method{MethodZScore, MethodIQR, MethodMinMax}, merged.Methods,
		"methods listed in priority order")
	assert.Equal(t, SeverityHigh, merged.Severity)
	assert.Equal(t, 1.0, merged.CombinedScore)
	assert.Equal(t, StyleCombo, merged.Style)
}

func TestResolveStylePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		cands []candidate
		want  Style
	}{
		{
			"changepoint wins over everything",
			[]candidate{
				{row: 4, method: MethodChangepoint, norm: 0.6, severity: SeverityMedium},
				{row: 4, method: MethodZScore, norm: 0.9, severity: SeverityHigh},
			},
			StyleBandShade,
		},
		{
			"lone minmax is an annotation",
			[]candidate{{row: 0, method: MethodMinMax, norm: 0.25, severity: SeverityMedium}},
			StyleAnnotationArrow,
		},
		{
			"lone high severity gets a halo",
			[]candidate{{row: 3, method: MethodZScore, norm: 0.9, severity: SeverityHigh}},
			StyleHaloRing,
		},
		{
			"lone medium severity shifts color",
			[]candidate{{row: 3, method: MethodIQR, norm: 0.6, severity: SeverityMedium}},
			StyleColorShift,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := resolve(tt.cands)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0].Style)
		})
	}
}

func TestResolveDeterministicAcrossInputOrder(t *testing.T) {
	a := []candidate{
		{row: 7, value: 100, method: MethodIQR, norm: 1, severity: SeverityHigh},
		{row: 7, value: 100, method: MethodZScore, norm: 0.52, severity: SeverityMedium},
	}
	b := []candidate{a[1], a[0]}
	assert.Equal(t, resolve(a), resolve(b))
}

// ----------------------------------------------------------------------------
// Detector

func TestDetectorRunMergedOutput(t *testing.T) {
	tbl := numericTable(t, "revenue", []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 50})
	d := New(config.Default())

	set, err := d.Run(context.Background(), tbl, "revenue")
	require.NoError(t, err)

	// Row 9 merges z-score and max; row 0 is the lone min annotation.
	require.Len(t, set.Records, 2)
	assert.Equal(t, 0, *set.Records[0].RowIndex)
	assert.Equal(t, StyleAnnotationArrow, set.Records[0].Style)
	assert.Equal(t, 9, *set.Records[1].RowIndex)
	assert.Equal(t, []Method{MethodZScore, MethodMinMax}, set.Records[1].Methods)
	assert.Equal(t, StyleCombo, set.Records[1].Style)

	assert.Equal(t, "revenue", set.Meta.Column)
	assert.Contains(t, set.Meta.Thresholds, "zscore_threshold")
}

func TestDetectorRunWithMethodSubset(t *testing.T) {
	tbl := numericTable(t, "v", []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 50})
	d := New(config.Default(), WithMethods(MethodZScore))

	set, err := d.Run(context.Background(), tbl, "v")
	require.NoError(t, err)
	require.Len(t, set.Records, 1)
	assert.Equal(t, 9, *set.Records[0].RowIndex)
	assert.Equal(t, []Method{MethodZScore}, set.Records[0].Methods)
}

func TestDetectorRunConstantColumn(t *testing.T) {
	tbl := numericTable(t, "flat", []float64{3, 3, 3, 3, 3, 3, 3, 3, 3, 3})
	d := New(config.Default())

	set, err := d.Run(context.Background(), tbl, "flat")
	require.NoError(t, err)
	assert.Empty(t, set.Records, "a constant column has no anomalies")
}

func TestDetectorSkipsShortColumns(t *testing.T) {
	tbl := numericTable(t, "tiny", []float64{1, 2, 3})
	d := New(config.Default())

	set, err := d.Run(context.Background(), tbl, "tiny")
	require.NoError(t, err)

	skipped := make(map[Method]bool)
	for _, s := range set.Meta.Skipped {
		skipped[s.Method] = true
		assert.NotEmpty(t, s.Reason)
	}
	assert.True(t, skipped[MethodIQR], "IQR needs 4 values")
	assert.True(t, skipped[MethodChangepoint], "changepoint needs two full windows")
	assert.False(t, skipped[MethodZScore])
}

func TestDetectorRejectsNonNumericColumn(t *testing.T) {
	tbl, err := table.New([]table.Column{{
		Name: "name", Kind: table.KindText,
		Cells: []table.Cell{{Kind: table.KindText, Str: "a"}, {Kind: table.KindText, Str: "b"}},
	}})
	require.NoError(t, err)

	d := New(config.Default())
	_, err = d.Run(context.Background(), tbl, "name")
	assert.Error(t, err)

	_, err = d.Run(context.Background(), tbl, "missing")
	assert.Error(t, err)
}

func TestDetectorRejectsUnknownMethod(t *testing.T) {
	tbl := numericTable(t, "v", []float64{1, 2, 3, 4, 5})
	d := New(config.Default(), WithMethods(Method("dbscan")))

	_, err := d.Run(context.Background(), tbl, "v")
	assert.Error(t, err)
}

// ----------------------------------------------------------------------------
// JSON round trip

func TestHighlightSetRoundTrip(t *testing.T) {
	tbl := numericTable(t, "revenue", []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 50})
	d := New(config.Default())

	set, err := d.Run(context.Background(), tbl, "revenue")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, set.Encode(&buf))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, set.Records, got.Records)
	assert.Equal(t, set.Meta.Column, got.Meta.Column)
}

func TestDecodeRejectsUnknownStyle(t *testing.T) {
	raw := `{"records":[{"row_index":0,"value":1,"methods":["zscore"],"combined_score":0.5,"severity":"high","style":"sparkle"}],"meta":{"column":"v"}}`
	_, err := Decode(bytes.NewReader([]byte(raw)))
	assert.Error(t, err)
}
