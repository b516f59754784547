package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vizforge-org/vizforge/detect"
	vtable "github.com/vizforge-org/vizforge/table"
)

func newDetectCmd() *cobra.Command {
	var (
		column  string
		methods []string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "detect <input-file>",
		Short: "Detect anomalies in a numeric column",
		Long: `Run the detection methods (z-score, IQR, min/max, changepoint) over a
numeric column and emit the merged highlight set.

The highlight set is a portable JSON artifact: feed it to "vizforge
chart --highlights" to render the findings, possibly many times with
different chart types.`,
		Example: `  # Show findings for the revenue column
  vizforge detect sales.csv --column revenue

  # Persist the highlight set for later chart runs
  vizforge detect sales.csv --column revenue --out highlights.json

  # Only statistical outlier methods
  vizforge detect sales.csv --column revenue --methods zscore,iqr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if column == "" {
				return fmt.Errorf("--column is required")
			}
			tbl, err := vtable.ParseFile(args[0])
			if err != nil {
				return err
			}

			opts := []detect.Option{detect.WithLogger(logger)}
			if len(methods) > 0 {
				ms := make([]detect.Method, len(methods))
				for i, m := range methods {
					ms[i] = detect.Method(strings.TrimSpace(m))
				}
				opts = append(opts, detect.WithMethods(ms...))
			}

			set, err := detect.New(cfg, opts...).Run(cmd.Context(), tbl, column)
			if err != nil {
				return err
			}

			if out == "" {
				printHighlights(set)
				return nil
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			return set.Encode(f)
		},
	}

	cmd.Flags().StringVarP(&column, "column", "c", "", "Numeric column to analyze (required)")
	cmd.Flags().StringSliceVar(&methods, "methods", nil, "Methods to run (default: all)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the highlight set JSON to a file")
	return cmd
}

func printHighlights(set *detect.HighlightSet) {
	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"row", "value", "methods", "score", "severity", "style", "label"})

	for _, rec := range set.Records {
		row := "-"
		if rec.RowIndex != nil {
			row = fmt.Sprintf("%d", *rec.RowIndex)
		}
		names := make([]string, len(rec.Methods))
		for i, m := range rec.Methods {
			names[i] = string(m)
		}
		w.AppendRow(table.Row{
			row, rec.Value, strings.Join(names, ","),
			fmt.Sprintf("%.2f", rec.CombinedScore),
			rec.Severity.String(), string(rec.Style), rec.Label,
		})
	}
	w.Render()

	for _, s := range set.Meta.Skipped {
		fmt.Printf("skipped %s: %s\n", s.Method, s.Reason)
	}
}
