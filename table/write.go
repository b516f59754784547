package table

import (
	"encoding/csv"
	"encoding/json"
	"io"
)

// ============================================================================
// WRITERS — Canonical Table → normalized CSV or JSON
// ============================================================================

// WriteCSV writes the table as CSV with normalized headers.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	n := t.Len()
	for row := 0; row < n; row++ {
		record := make([]string, len(t.cols))
		for i, col := range t.cols {
			record[i] = col.Cells[row].Label()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the table as an array of records, preserving cell types
// (numbers as numbers, nulls as null).
func (t *Table) WriteJSON(w io.Writer) error {
	records := make([]map[string]interface{}, t.Len())
	for row := range records {
		rec := make(map[string]interface{}, len(t.cols))
		for _, col := range t.cols {
			c := col.Cells[row]
			switch c.Kind {
			case KindNumber:
				rec[col.Name] = c.Num
			case KindText:
				rec[col.Name] = c.Str
			case KindDate:
				rec[col.Name] = c.Time.Format("2006-01-02")
			case KindBool:
				rec[col.Name] = c.Bool
			default:
				rec[col.Name] = nil
			}
		}
		records[row] = rec
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
