package detect

import "sort"

// ============================================================================
// RESOLVER — merges per-method candidates into one record per row
// ============================================================================
// When several methods flag the same row, the merged record carries the
// union of methods, the strongest severity, and the highest normalized
// score. The visual style follows a fixed precedence so the same input
// always renders the same way:
//
//   1. changepoint present          -> band_shade
//   2. minmax alone                 -> annotation_arrow
//   3. two or more methods          -> combo
//   4. otherwise, by severity       -> high: halo_ring
//                                      medium: color_shift
//                                      low: glow
// ============================================================================

func resolve(candidates []candidate) []AnomalyRecord {
	if len(candidates) == 0 {
		return nil
	}

	byRow := make(map[int][]candidate)
	for _, c := range candidates {
		byRow[c.row] = append(byRow[c.row], c)
	}

	rows := make([]int, 0, len(byRow))
	for r := range byRow {
		rows = append(rows, r)
	}
	sort.Ints(rows)

	out := make([]AnomalyRecord, 0, len(rows))
	for _, row := range rows {
		group := byRow[row]
		sort.Slice(group, func(i, j int) bool {
			return methodPriority[group[i].method] < methodPriority[group[j].method]
		})

		rec := AnomalyRecord{
			RowIndex: intPtr(row),
			Value:    group[0].value,
			Severity: group[0].severity,
			Label:    group[0].label,
		}
		for _, c := range group {
			rec.Methods = append(rec.Methods, c.method)
			if c.norm > rec.CombinedScore {
				rec.CombinedScore = c.norm
			}
			if c.severity > rec.Severity {
				rec.Severity = c.severity
				rec.Label = c.label
			}
		}
		rec.Style = pickStyle(rec)
		out = append(out, rec)
	}
	return out
}

func pickStyle(rec AnomalyRecord) Style {
	if rec.hasMethod(MethodChangepoint) {
		return StyleBandShade
	}
	if len(rec.Methods) == 1 && rec.Methods[0] == MethodMinMax {
		return StyleAnnotationArrow
	}
	if len(rec.Methods) >= 2 {
		return StyleCombo
	}
	switch rec.Severity {
	case SeverityHigh:
		return StyleHaloRing
	case SeverityMedium:
		return StyleColorShift
	default:
		return StyleGlow
	}
}

func (r AnomalyRecord) hasMethod(m Method) bool {
	for _, have := range r.Methods {
		if have == m {
			return true
		}
	}
	return false
}

func intPtr(v int) *int { return &v }
