package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vizforge-org/vizforge/detect"
	"github.com/vizforge-org/vizforge/plan"
	"github.com/vizforge-org/vizforge/render"
	vtable "github.com/vizforge-org/vizforge/table"
)

func newChartCmd() *cobra.Command {
	var (
		req            plan.Request
		chartType      string
		highlightsPath string
		detectColumn   string
		out            string
	)

	cmd := &cobra.Command{
		Use:   "chart <input-file>",
		Short: "Plan and render a chart",
		Long: `Build a chart from a table: apply reduction directives, auto-scale the
figure to the data shape, and render PNG or SVG.

Highlights come from a previously saved highlight set (--highlights) or
from an inline detection run (--detect); detected rows that survive the
reduction are overlaid in the output.`,
		Example: `  # Bar chart of revenue by region, top 10
  vizforge chart sales.csv --type bar -x region -y revenue --groupby region --agg sum --top 10 -o chart.png

  # Line chart with inline anomaly detection
  vizforge chart metrics.csv --type line -x day -y latency --detect latency -o latency.png

  # Reuse a saved highlight set
  vizforge chart metrics.csv --type scatter -y latency --highlights highlights.json -o out.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			format, err := render.DetectOutputFormat(out)
			if err != nil {
				return err
			}
			req.ChartType = plan.ChartType(chartType)

			tbl, err := vtable.ParseFile(args[0])
			if err != nil {
				return err
			}

			var set *detect.HighlightSet
			switch {
			case highlightsPath != "" && detectColumn != "":
				return fmt.Errorf("--highlights and --detect are mutually exclusive")
			case highlightsPath != "":
				f, err := os.Open(highlightsPath)
				if err != nil {
					return err
				}
				set, err = detect.Decode(f)
				f.Close()
				if err != nil {
					return err
				}
			case detectColumn != "":
				set, err = detect.New(cfg, detect.WithLogger(logger)).Run(cmd.Context(), tbl, detectColumn)
				if err != nil {
					return err
				}
			}

			p, err := plan.New(cfg, plan.WithLogger(logger)).Plan(tbl, req)
			if err != nil {
				return err
			}
			ri := plan.MapHighlights(p, set, logger)

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := render.New(cfg, render.WithLogger(logger)).Chart(p, ri, f, format); err != nil {
				return err
			}
			logger.Info("chart written", "path", out, "highlights", len(ri.Placements), "dropped", ri.Dropped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&chartType, "type", "t", "bar", "Chart type: line, bar, hbar, scatter, histogram, pie, donut, area, bubble, timeseries")
	cmd.Flags().StringVarP(&req.X, "x", "x", "", "X/category column (default: row order)")
	cmd.Flags().StringVarP(&req.Y, "y", "y", "", "Y/value column (required)")
	cmd.Flags().StringVar(&req.Size, "size", "", "Size column for bubble charts")

	cmd.Flags().StringVar(&req.Reduction.GroupBy, "groupby", "", "Group rows by this column before plotting")
	cmd.Flags().StringVar(&req.Reduction.Agg, "agg", "", "Aggregate function for --groupby: sum, mean, median, count, min, max")
	cmd.Flags().StringVar(&req.Reduction.SortBy, "sort", "", "Sort rows by value or label")
	cmd.Flags().BoolVar(&req.Reduction.SortDesc, "desc", false, "Sort descending")
	cmd.Flags().IntVar(&req.Reduction.TopN, "top", 0, "Keep only the N largest rows")
	cmd.Flags().IntVar(&req.Reduction.BottomN, "bottom", 0, "Keep only the N smallest rows")
	cmd.Flags().IntVar(&req.Reduction.MaxCategories, "max-categories", 0, "Fold categories beyond N into an Other bucket")

	cmd.Flags().Float64Var(&req.Geometry.Width, "width", 0, "Figure width in inches (default: auto)")
	cmd.Flags().Float64Var(&req.Geometry.Height, "height", 0, "Figure height in inches (default: auto)")
	cmd.Flags().IntVar(&req.Geometry.DPI, "dpi", 0, "Output DPI (default: from config)")

	cmd.Flags().StringVar(&req.Style.Palette, "palette", "", "Palette name: colorblind, sequential, diverging, categorical, monochrome")
	cmd.Flags().BoolVar(&req.Style.TrendLine, "trend", false, "Overlay a linear trend line")
	cmd.Flags().StringVar(&req.Style.Title, "title", "", "Chart title")

	cmd.Flags().StringVar(&highlightsPath, "highlights", "", "Highlight set JSON produced by vizforge detect")
	cmd.Flags().StringVar(&detectColumn, "detect", "", "Run anomaly detection on this column before rendering")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output image path, .png or .svg (required)")
	return cmd
}
