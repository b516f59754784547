package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	vtable "github.com/vizforge-org/vizforge/table"
)

func newParseCmd() *cobra.Command {
	var (
		out     string
		format  string
		preview int
	)

	cmd := &cobra.Command{
		Use:   "parse <input-file>",
		Short: "Parse an input file into a canonical table",
		Long: `Parse a CSV, TSV, JSON, YAML, or Markdown file into the canonical
table: normalized snake_case headers, inferred column types, empty rows
and columns dropped.`,
		Example: `  # Preview the parsed table
  vizforge parse sales.csv

  # Write the normalized table as JSON
  vizforge parse sales.csv --out table.json

  # Re-export messy Markdown as clean CSV
  vizforge parse report.md --out clean.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := vtable.ParseFile(args[0])
			if err != nil {
				return err
			}
			logger.Debug("table parsed", "rows", tbl.Len(), "columns", len(tbl.ColumnNames()))

			if out == "" {
				printPreview(tbl, preview)
				return nil
			}
			return writeTable(tbl, out, format)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the table to a file instead of previewing")
	cmd.Flags().StringVar(&format, "format", "", "Output format: csv or json (default: from --out extension)")
	cmd.Flags().IntVar(&preview, "rows", 20, "Preview row limit")
	return cmd
}

// printPreview renders the head of the table to stdout.
func printPreview(tbl *vtable.Table, limit int) {
	names := tbl.ColumnNames()

	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(names)+1)
	header = append(header, "#")
	for _, n := range names {
		col, _ := tbl.Column(n)
		header = append(header, fmt.Sprintf("%s (%s)", n, col.Kind))
	}
	w.AppendHeader(header)

	n := tbl.Len()
	shown := n
	if limit > 0 && shown > limit {
		shown = limit
	}
	for i := 0; i < shown; i++ {
		row := make(table.Row, 0, len(names)+1)
		row = append(row, i)
		for _, name := range names {
			row = append(row, tbl.Label(i, name))
		}
		w.AppendRow(row)
	}
	w.Render()
	if shown < n {
		fmt.Printf("… %d more rows\n", n-shown)
	}
}

// writeTable writes the table to path as CSV or JSON.
func writeTable(tbl *vtable.Table, path, format string) error {
	if format == "" {
		switch {
		case strings.HasSuffix(path, ".json"):
			format = "json"
		default:
			format = "csv"
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "csv":
		return tbl.WriteCSV(f)
	case "json":
		return tbl.WriteJSON(f)
	}
	return fmt.Errorf("unknown output format %q (use csv or json)", format)
}
