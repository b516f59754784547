package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vizforge-org/vizforge/grid"
)

func newGridCmd() *cobra.Command {
	var (
		out       string
		cols      int
		cellWidth int
		padding   int
		labels    bool
	)

	cmd := &cobra.Command{
		Use:   "grid <image>...",
		Short: "Composite chart images into a preview grid",
		Long: `Arrange finished chart images into one grid image for review. Cells are
uniform, so charts of different sizes line up; each cell can carry its
file name as a caption.`,
		Example: `  # 2x2 review sheet with captions
  vizforge grid revenue.png latency.png errors.png users.png --cols 2 -o review.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			img, err := grid.ComposeFiles(args, grid.Options{
				Columns:   cols,
				CellWidth: cellWidth,
				Padding:   padding,
				Labels:    labels,
			})
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := grid.WritePNG(f, img); err != nil {
				return err
			}
			logger.Info("grid written", "path", out, "images", len(args))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output PNG path (required)")
	cmd.Flags().IntVar(&cols, "cols", 3, "Cells per row")
	cmd.Flags().IntVar(&cellWidth, "cell-width", 480, "Cell width in pixels")
	cmd.Flags().IntVar(&padding, "padding", 20, "Padding between cells in pixels")
	cmd.Flags().BoolVar(&labels, "labels", true, "Caption each cell with its file name")
	return cmd
}
