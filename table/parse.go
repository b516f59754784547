package table

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// PARSERS — structured input formats → Canonical Table
// ============================================================================
// Supported: CSV, TSV, JSON (array-of-objects or {columns, data}), YAML
// (list of maps or {data: [...]}), Markdown (first pipe table).
// Every parser produces the same raw string grid and shares inference, so a
// dataset types identically regardless of the container format.
// ============================================================================

// Format identifies an input container format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatTSV      Format = "tsv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseError wraps a parse failure with the offending source and format.
type ParseError struct {
	Source string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("parse %s as %s: %v", e.Source, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported file extension %q (supported: .csv .tsv .json .yaml .yml .md)", filepath.Ext(path))
}

// ParseFile reads and parses a file, detecting the format from its extension.
func ParseFile(path string) (*Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data, format)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Source = path
		}
		return nil, err
	}
	return t, nil
}

// Parse parses raw bytes in the given format.
func Parse(data []byte, format Format) (*Table, error) {
	var (
		headers []string
		rows    [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		headers, rows, err = parseDelimited(data, ',')
	case FormatTSV:
		headers, rows, err = parseDelimited(data, '\t')
	case FormatJSON:
		headers, rows, err = parseJSON(data)
	case FormatYAML:
		headers, rows, err = parseYAML(data)
	case FormatMarkdown:
		headers, rows, err = parseMarkdown(data)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}

	rows = dropEmptyRows(rows)
	if len(rows) == 0 {
		return nil, &ParseError{Format: format, Err: fmt.Errorf("no data rows")}
	}
	cols := inferColumns(headers, rows)
	if len(cols) == 0 {
		return nil, &ParseError{Format: format, Err: fmt.Errorf("no usable columns")}
	}
	return New(cols)
}

// ----------------------------------------------------------------------------
// CSV / TSV

func parseDelimited(data []byte, delim rune) ([]string, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1 // ragged rows become nulls during inference
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) < 1 {
		return nil, nil, fmt.Errorf("empty input")
	}
	return all[0], all[1:], nil
}

// ----------------------------------------------------------------------------
// JSON

func parseJSON(data []byte) ([]string, [][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, nil, err
	}

	switch v := root.(type) {
	case []interface{}:
		return gridFromMaps(v)
	case map[string]interface{}:
		// {columns: [...], data: [[...], ...]}
		if colsRaw, ok := v["columns"].([]interface{}); ok {
			if dataRaw, ok := v["data"].([]interface{}); ok {
				return gridFromColumnsData(colsRaw, dataRaw)
			}
		}
		// {data: [{...}, ...]}
		if dataRaw, ok := v["data"].([]interface{}); ok {
			return gridFromMaps(dataRaw)
		}
		// A single object becomes a one-row table.
		return gridFromMaps([]interface{}{v})
	}
	return nil, nil, fmt.Errorf("JSON structure is not tabular")
}

func gridFromColumnsData(colsRaw, dataRaw []interface{}) ([]string, [][]string, error) {
	headers := make([]string, len(colsRaw))
	for i, c := range colsRaw {
		headers[i] = scalarString(c)
	}
	rows := make([][]string, 0, len(dataRaw))
	for _, rowRaw := range dataRaw {
		cells, ok := rowRaw.([]interface{})
		if !ok {
			return nil, nil, fmt.Errorf("data entry is not an array")
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = scalarString(c)
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// gridFromMaps flattens a list of objects; column order is first-seen order.
func gridFromMaps(items []interface{}) ([]string, [][]string, error) {
	var headers []string
	pos := make(map[string]int)
	maps := make([]map[string]interface{}, 0, len(items))

	for _, item := range items {
		m, ok := toStringMap(item)
		if !ok {
			return nil, nil, fmt.Errorf("entry is not an object")
		}
		maps = append(maps, m)
	}
	// First-seen column order, scanning rows in order.
	for _, m := range maps {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, seen := pos[k]; !seen {
				pos[k] = len(headers)
				headers = append(headers, k)
			}
		}
	}

	rows := make([][]string, len(maps))
	for ri, m := range maps {
		row := make([]string, len(headers))
		for k, v := range m {
			row[pos[k]] = scalarString(v)
		}
		rows[ri] = row
	}
	return headers, rows, nil
}

func toStringMap(item interface{}) (map[string]interface{}, bool) {
	switch m := item.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}: // yaml.v2 legacy shape; defensive
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[scalarString(k)] = v
		}
		return out, true
	}
	return nil, false
}

func scalarString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ----------------------------------------------------------------------------
// YAML

func parseYAML(data []byte) ([]string, [][]string, error) {
	var root interface{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, err
	}
	switch v := root.(type) {
	case []interface{}:
		return gridFromMaps(v)
	case map[string]interface{}:
		if dataRaw, ok := v["data"].([]interface{}); ok {
			return gridFromMaps(dataRaw)
		}
	}
	return nil, nil, fmt.Errorf("YAML structure is not tabular")
}

// ----------------------------------------------------------------------------
// Markdown — extract the first pipe table

var mdSeparator = regexp.MustCompile(`^[\s|:\-]+$`)

func parseMarkdown(data []byte) ([]string, [][]string, error) {
	var tableLines []string
	inTable := false
	for _, line := range strings.Split(string(data), "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "|") {
			inTable = true
			tableLines = append(tableLines, stripped)
		} else if inTable {
			break
		}
	}
	if len(tableLines) < 2 {
		return nil, nil, fmt.Errorf("no Markdown table found")
	}

	splitRow := func(row string) []string {
		row = strings.Trim(strings.TrimSpace(row), "|")
		cells := strings.Split(row, "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		return cells
	}

	headers := splitRow(tableLines[0])
	dataStart := 1
	if mdSeparator.MatchString(tableLines[1]) {
		dataStart = 2
	}
	rows := make([][]string, 0, len(tableLines)-dataStart)
	for _, line := range tableLines[dataStart:] {
		rows = append(rows, splitRow(line))
	}
	return headers, rows, nil
}
