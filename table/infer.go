package table

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// TYPE INFERENCE — raw string grid → typed columns
// ============================================================================
// Majority vote per column: if more than half of the non-null cells parse as
// numeric the column is numeric, then dates, then booleans; otherwise text.
// Cells that fail the column's type become null rather than failing the
// parse — bad rows degrade, they don't abort.
// ============================================================================

var nonWord = regexp.MustCompile(`[^\w]+`)

// normalizeName cleans a header: "Unit Price ($)" → "unit_price".
func normalizeName(s string) string {
	s = strings.TrimSpace(s)
	s = nonWord.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	return strings.ToLower(s)
}

// nullTokens are raw strings treated as missing values.
var nullTokens = map[string]bool{
	"": true, "null": true, "NULL": true, "None": true,
	"nan": true, "NaN": true, "N/A": true, "n/a": true, "-": true,
}

// dateLayouts are tried in order when parsing date cells.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"Jan-2006",
	"Jan 2006",
	"2006-01",
}

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	return false, false
}

// inferColumns converts a raw header+rows grid into typed columns.
// Fully-empty columns are dropped; fully-empty rows are dropped before the
// call (indices must be assigned against the cleaned row set).
func inferColumns(headers []string, rows [][]string) []Column {
	cols := make([]Column, 0, len(headers))
	seen := make(map[string]int)

	for ci, h := range headers {
		name := normalizeName(h)
		if name == "" {
			name = "column_" + strconv.Itoa(ci)
		}
		// Disambiguate duplicate headers: revenue, revenue_2, ...
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		} else {
			seen[name] = 1
		}

		raw := make([]string, len(rows))
		nonNull := 0
		for ri, row := range rows {
			v := ""
			if ci < len(row) {
				v = strings.TrimSpace(row[ci])
			}
			raw[ri] = v
			if !nullTokens[v] {
				nonNull++
			}
		}
		if nonNull == 0 {
			continue // fully empty column
		}

		kind := voteKind(raw, nonNull)
		cells := make([]Cell, len(raw))
		for ri, v := range raw {
			cells[ri] = typeCell(v, kind)
		}
		cols = append(cols, Column{Name: name, Kind: kind, Cells: cells})
	}
	return cols
}

// voteKind picks the column kind by majority over non-null cells.
func voteKind(raw []string, nonNull int) Kind {
	var nums, dates, bools int
	for _, v := range raw {
		if nullTokens[v] {
			continue
		}
		if _, ok := parseNumber(v); ok {
			nums++
			continue
		}
		if _, ok := parseDate(v); ok {
			dates++
			continue
		}
		if _, ok := parseBool(v); ok {
			bools++
		}
	}
	half := nonNull / 2
	switch {
	case nums > half:
		return KindNumber
	case dates > half:
		return KindDate
	case bools == nonNull:
		return KindBool
	default:
		return KindText
	}
}

func typeCell(v string, kind Kind) Cell {
	if nullTokens[v] {
		return Cell{}
	}
	switch kind {
	case KindNumber:
		if f, ok := parseNumber(v); ok {
			return Cell{Kind: KindNumber, Num: f}
		}
		return Cell{}
	case KindDate:
		if t, ok := parseDate(v); ok {
			return Cell{Kind: KindDate, Time: t}
		}
		return Cell{}
	case KindBool:
		if b, ok := parseBool(v); ok {
			return Cell{Kind: KindBool, Bool: b}
		}
		return Cell{}
	default:
		return Cell{Kind: KindText, Str: v}
	}
}

// dropEmptyRows removes rows whose cells are all null tokens, so row indices
// are assigned against data that actually exists.
func dropEmptyRows(rows [][]string) [][]string {
	kept := rows[:0]
	for _, row := range rows {
		empty := true
		for _, v := range row {
			if !nullTokens[strings.TrimSpace(v)] {
				empty = false
				break
			}
		}
		if !empty {
			kept = append(kept, row)
		}
	}
	return kept
}
