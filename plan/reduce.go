package plan

import (
	"sort"
	"strconv"

	"github.com/vizforge-org/vizforge/table"
)

// ============================================================================
// REDUCTION — group-by+aggregate, sort, top/bottom-N, max-category capping
// ============================================================================
// Stages apply in that fixed order. Every stage preserves OriginIndices so
// the highlight mapper can re-anchor records after any amount of reduction.
// ============================================================================

// aggregators are the known aggregation functions. Inputs are never empty.
var aggregators = map[string]func([]float64) float64{
	"sum": func(vs []float64) float64 {
		var s float64
		for _, v := range vs {
			s += v
		}
		return s
	},
	"mean": func(vs []float64) float64 {
		var s float64
		for _, v := range vs {
			s += v
		}
		return s / float64(len(vs))
	},
	"median": func(vs []float64) float64 {
		sorted := append([]float64(nil), vs...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 1 {
			return sorted[mid]
		}
		return (sorted[mid-1] + sorted[mid]) / 2
	},
	"count": func(vs []float64) float64 {
		return float64(len(vs))
	},
	"min": func(vs []float64) float64 {
		m := vs[0]
		for _, v := range vs[1:] {
			if v < m {
				m = v
			}
		}
		return m
	},
	"max": func(vs []float64) float64 {
		m := vs[0]
		for _, v := range vs[1:] {
			if v > m {
				m = v
			}
		}
		return m
	},
}

// aggFunc resolves an aggregation name, defaulting to sum.
func aggFunc(name string) (func([]float64) float64, string, error) {
	if name == "" {
		name = "sum"
	}
	fn, ok := aggregators[name]
	if !ok {
		return nil, "", directiveErrorf("agg", "unknown aggregate function %q", name)
	}
	return fn, name, nil
}

// baseRows materializes one PlanRow per table row with a numeric y value.
// The label comes from the x column, or the row index when no x is bound.
func baseRows(tbl *table.Table, xCol, yCol string) []PlanRow {
	n := tbl.Len()
	rows := make([]PlanRow, 0, n)
	for i := 0; i < n; i++ {
		c := tbl.Cell(i, yCol)
		if c.Kind != table.KindNumber {
			continue
		}
		label := strconv.Itoa(i)
		if xCol != "" {
			label = tbl.Label(i, xCol)
		}
		rows = append(rows, PlanRow{
			Label:         label,
			Value:         c.Num,
			OriginIndices: []int{i},
		})
	}
	return rows
}

// groupRows merges rows sharing a group key, aggregating values with fn.
// Group order is first appearance; origin indices stay sorted ascending.
func groupRows(tbl *table.Table, rows []PlanRow, groupCol string, fn func([]float64) float64) []PlanRow {
	type bucket struct {
		values  []float64
		sizes   []float64
		origins []int
	}
	order := make([]string, 0)
	buckets := make(map[string]*bucket)

	for _, r := range rows {
		// Single-origin rows at this stage; grouping happens before any
		// other reduction.
		key := tbl.Label(r.OriginIndices[0], groupCol)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.values = append(b.values, r.Value)
		b.sizes = append(b.sizes, r.Size)
		b.origins = append(b.origins, r.OriginIndices...)
	}

	out := make([]PlanRow, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		sort.Ints(b.origins)
		out = append(out, PlanRow{
			Label:         key,
			Value:         fn(b.values),
			Size:          fn(b.sizes),
			OriginIndices: b.origins,
		})
	}
	return out
}

// sortRows orders rows by value or label. Stable so equal keys keep their
// incoming order and plans stay reproducible.
func sortRows(rows []PlanRow, by string, desc bool) error {
	var less func(i, j int) bool
	switch by {
	case "value":
		less = func(i, j int) bool { return rows[i].Value < rows[j].Value }
	case "label":
		less = func(i, j int) bool { return rows[i].Label < rows[j].Label }
	default:
		return directiveErrorf("sort_by", "unknown sort key %q (use value or label)", by)
	}
	if desc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(rows, less)
	return nil
}

// topN keeps the n largest rows by value, preserving their current order.
// bottom flips the selection to the n smallest.
func topN(rows []PlanRow, n int, bottom bool) []PlanRow {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	// Rank positions by value without disturbing row order.
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if bottom {
			return rows[idx[a]].Value < rows[idx[b]].Value
		}
		return rows[idx[a]].Value > rows[idx[b]].Value
	})
	keep := make(map[int]bool, n)
	for _, i := range idx[:n] {
		keep[i] = true
	}
	out := make([]PlanRow, 0, n)
	for i, r := range rows {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}

// capCategories keeps the max largest rows by value and folds the rest into
// one synthetic "Other" row, aggregated with the same function as the
// group-by stage so the overflow bucket is consistent with its siblings.
func capCategories(rows []PlanRow, max int, fn func([]float64) float64) []PlanRow {
	if max <= 0 || len(rows) <= max {
		return rows
	}
	kept := topN(rows, max, false)

	inKept := make(map[int]bool)
	for _, r := range kept {
		for _, o := range r.OriginIndices {
			inKept[o] = true
		}
	}
	var excluded []float64
	var origins []int
	for _, r := range rows {
		if len(r.OriginIndices) > 0 && inKept[r.OriginIndices[0]] {
			continue
		}
		excluded = append(excluded, r.Value)
		origins = append(origins, r.OriginIndices...)
	}
	sort.Ints(origins)

	out := append(append([]PlanRow(nil), kept...), PlanRow{
		Label:         "Other",
		Value:         fn(excluded),
		OriginIndices: origins,
		Synthetic:     true,
	})
	return out
}

// thinRows drops rows at a fixed stride so positional charts stay under the
// density ceiling. The first and last rows always survive, and the kept set
// never exceeds the ceiling: when forcing the last row would overflow, it
// replaces the final sample instead of joining it.
func thinRows(rows []PlanRow, ceiling int) ([]PlanRow, int) {
	n := len(rows)
	if ceiling <= 0 || n <= ceiling {
		return rows, 0
	}
	stride := (n + ceiling - 1) / ceiling
	out := make([]PlanRow, 0, ceiling)
	for i := 0; i < n; i += stride {
		out = append(out, rows[i])
	}
	if last := rows[n-1]; out[len(out)-1].OriginIndices[0] != last.OriginIndices[0] {
		if len(out) >= ceiling {
			out[len(out)-1] = last
		} else {
			out = append(out, last)
		}
	}
	return out, stride
}
