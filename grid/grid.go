package grid

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ============================================================================
// PREVIEW GRID — composite finished charts into one reviewable image
// ============================================================================
// Every chart is scaled into a uniform cell so mixed figure sizes line up,
// laid out row-major with fixed padding, with an optional caption under
// each cell.
// ============================================================================

// Options shape the composite.
type Options struct {
	Columns    int  // cells per row; default 3
	CellWidth  int  // pixel width of each cell; default 480
	Padding    int  // pixels between cells and around the edge; negative means the 20px default
	Labels     bool // draw a caption strip under each cell
	Background color.Color
}

func (o Options) withDefaults() Options {
	if o.Columns <= 0 {
		o.Columns = 3
	}
	if o.CellWidth <= 0 {
		o.CellWidth = 480
	}
	if o.Padding < 0 {
		o.Padding = 20
	}
	if o.Background == nil {
		o.Background = color.White
	}
	return o
}

const labelStripHeight = 18

// Compose lays the images out into one grid image. Labels are optional;
// when present they must match the image count.
func Compose(images []image.Image, labels []string, opts Options) (*image.RGBA, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("grid: no images to compose")
	}
	if len(labels) > 0 && len(labels) != len(images) {
		return nil, fmt.Errorf("grid: %d labels for %d images", len(labels), len(images))
	}
	opts = opts.withDefaults()

	// Uniform cell height from the widest aspect ratio so nothing crops.
	cellW := opts.CellWidth
	cellH := 0
	for _, img := range images {
		b := img.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			return nil, fmt.Errorf("grid: empty source image")
		}
		h := b.Dy() * cellW / b.Dx()
		if h > cellH {
			cellH = h
		}
	}
	stripH := 0
	if opts.Labels && len(labels) > 0 {
		stripH = labelStripHeight
	}

	cols := opts.Columns
	if cols > len(images) {
		cols = len(images)
	}
	rows := (len(images) + cols - 1) / cols
	pad := opts.Padding

	totalW := pad + cols*(cellW+pad)
	totalH := pad + rows*(cellH+stripH+pad)
	canvas := image.NewRGBA(image.Rect(0, 0, totalW, totalH))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Background), image.Point{}, xdraw.Src)

	for i, img := range images {
		col := i % cols
		row := i / cols
		x0 := pad + col*(cellW+pad)
		y0 := pad + row*(cellH+stripH+pad)

		// Scale into the cell preserving aspect ratio, centered vertically.
		b := img.Bounds()
		h := b.Dy() * cellW / b.Dx()
		dst := image.Rect(x0, y0+(cellH-h)/2, x0+cellW, y0+(cellH-h)/2+h)
		xdraw.ApproxBiLinear.Scale(canvas, dst, img, b, xdraw.Over, nil)

		if stripH > 0 {
			drawLabel(canvas, labels[i], x0, y0+cellH+stripH-4, cellW)
		}
	}
	return canvas, nil
}

// drawLabel draws a caption with the fixed 7x13 face, clipped to the cell.
func drawLabel(dst *image.RGBA, text string, x, baselineY, maxWidth int) {
	face := basicfont.Face7x13
	text = clipLabel(text, maxWidth/7)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, baselineY),
	}
	d.DrawString(text)
}

// clipLabel cuts a caption to maxChars runes, never inside a UTF-8 sequence.
func clipLabel(text string, maxChars int) string {
	r := []rune(text)
	if len(r) > maxChars && maxChars > 1 {
		return string(r[:maxChars-1]) + "…"
	}
	return text
}

// ComposeFiles loads PNG images from paths and composes them, captioned
// with their base names when labeling is on.
func ComposeFiles(paths []string, opts Options) (*image.RGBA, error) {
	images := make([]image.Image, 0, len(paths))
	labels := make([]string, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("grid: %w", err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("grid: decode %s: %w", path, err)
		}
		images = append(images, img)
		labels = append(labels, baseName(path))
	}
	return Compose(images, labels, opts)
}

// WritePNG encodes the composite.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
