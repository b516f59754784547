package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vizforge-org/vizforge/config"
)

// ============================================================================
// VIZFORGE CLI — charts with automatic anomaly highlighting
// ============================================================================

var version = "0.3.0"

var (
	cfgPath string
	verbose bool

	cfg    config.Config
	logger *slog.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vizforge",
		Short: "Vizforge - chart generation with anomaly highlighting",
		Long: `Vizforge turns tabular data into rendered charts, optionally annotated
with automatically detected anomalies.

A typical flow: parse an input file into a canonical table, detect
anomalies on a numeric column, then render a chart with the findings
highlighted. Each step is also available on its own.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			if cfgPath != "" {
				var err error
				cfg, err = config.Load(cfgPath)
				if err != nil {
					return err
				}
				logger.Debug("config loaded", "path", cfgPath)
			} else {
				cfg = config.Default()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to a YAML config overlaying the built-in defaults")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newParseCmd())
	root.AddCommand(newDetectCmd())
	root.AddCommand(newChartCmd())
	root.AddCommand(newGridCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Println("vizforge", version)
		},
	})
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
