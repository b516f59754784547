package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ============================================================================
// LOADER — Built-in defaults, optionally overlaid from a YAML file
// ============================================================================

// defaults is the built-in configuration, loaded first so a user file only
// needs to override what it changes.
var defaults = map[string]interface{}{
	"chart": map[string]interface{}{
		"fig_width":  10.0,
		"fig_height": 6.0,
		"dpi":        150,
		"background": "#ffffff",
	},
	"palettes": map[string]interface{}{
		// Okabe-Ito colorblind-safe palette.
		"colorblind": []string{
			"#0072B2", "#E69F00", "#009E73", "#D55E00",
			"#CC79A7", "#56B4E9", "#F0E442", "#000000",
		},
		"sequential": []string{
			"#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
			"#4292c6", "#2171b5", "#08519c", "#08306b",
		},
		"diverging": []string{
			"#b2182b", "#d6604d", "#f4a582", "#fddbc7",
			"#d1e5f0", "#92c5de", "#4393c3", "#2166ac",
		},
		"categorical": []string{
			"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
			"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
		},
		"monochrome": []string{
			"#111111", "#333333", "#555555", "#777777",
			"#999999", "#bbbbbb", "#dddddd",
		},
	},
	"chart_types": map[string]interface{}{
		"line":       map[string]interface{}{"line_width": 2.0, "marker_size": 4, "alpha": 1.0},
		"timeseries": map[string]interface{}{"line_width": 2.0, "marker_size": 0, "alpha": 1.0},
		"area":       map[string]interface{}{"line_width": 1.5, "alpha": 0.4},
		"bar":        map[string]interface{}{"bar_width": 0.7, "alpha": 0.9},
		"hbar":       map[string]interface{}{"bar_width": 0.7, "alpha": 0.9},
		"scatter":    map[string]interface{}{"point_size": 40, "alpha": 0.7},
		"bubble":     map[string]interface{}{"point_size": 80, "alpha": 0.6},
		"histogram":  map[string]interface{}{"bins": 30, "alpha": 0.8},
		"pie":        map[string]interface{}{"max_slices": 10},
		"donut":      map[string]interface{}{"max_slices": 10},
	},
	"highlights": map[string]interface{}{
		"halo_ring":        map[string]interface{}{"color": "#D55E00", "alpha": 0.4, "size_multiplier": 3.0, "line_width": 2.0},
		"color_shift":      map[string]interface{}{"color": "#D55E00", "alpha": 1.0, "size_multiplier": 1.0},
		"glow":             map[string]interface{}{"color": "#F0E442", "alpha": 0.3, "size_multiplier": 5.0},
		"size_boost":       map[string]interface{}{"color": "#D55E00", "alpha": 0.8, "size_multiplier": 2.5},
		"annotation_arrow": map[string]interface{}{"color": "#333333", "font_size": 9.0},
		"band_shade":       map[string]interface{}{"color": "#D55E00", "alpha": 0.1, "band_width": 0.5},
	},
	"planner": map[string]interface{}{
		"density_ceiling":    300,
		"width_knee":         15,
		"width_per_category": 0.45,
		"width_cap":          30.0,
		"height_knee":        12,
		"height_per_item":    0.4,
		"height_cap":         24.0,
		"marker_cutoff":      50,
		"alpha_knee":         200,
		"alpha_floor_knee":   500,
		"legend_inline_max":  6,
		"legend_items_max":   15,
		"tick_truncate_len":  20,
		"tick_rotate_slight": 8,
		"tick_rotate_steep":  15,
		"tick_rotate_full":   30,
	},
	"detector": map[string]interface{}{
		"zscore_threshold":      2.5,
		"iqr_multiplier":        1.5,
		"changepoint_window":    5,
		"changepoint_threshold": 1.5,
	},
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := load("")
	if err != nil {
		// The built-in confmap always unmarshals; reaching this is a bug.
		panic(fmt.Sprintf("config: built-in defaults invalid: %v", err))
	}
	return cfg
}

// Load returns the built-in configuration overlaid with a YAML file.
// A missing path is an error; use Default when no file is involved.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(path)
}

func load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
