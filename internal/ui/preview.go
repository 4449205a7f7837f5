package ui

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"

	"github.com/five82/pivot/internal/upload"
)

// halfBlock paints the top pixel as foreground and the bottom pixel as
// background, so each cell carries two image rows.
const halfBlock = "▀"

type renderedPreview struct {
	text   string
	bounds image.Rectangle
	size   int64
	err    error
}

// previewCache holds the last rendered preview. Decoding and resampling on
// every frame would stall the spinner.
type previewCache struct {
	ref        upload.Ref
	cols, rows int
	out        renderedPreview
	valid      bool
}

// render returns the preview for ref, calling load only on a cache miss.
// It reports false when load cannot resolve ref.
func (c *previewCache) render(ref upload.Ref, cols, rows int, load func(upload.Ref) ([]byte, bool)) (renderedPreview, bool) {
	if c.valid && c.ref == ref && c.cols == cols && c.rows == rows {
		return c.out, true
	}
	data, ok := load(ref)
	if !ok {
		return renderedPreview{}, false
	}
	text, bounds, err := renderImage(data, cols, rows)
	c.ref, c.cols, c.rows = ref, cols, rows
	c.out = renderedPreview{text: text, bounds: bounds, size: int64(len(data)), err: err}
	c.valid = true
	return c.out, true
}

// renderImage decodes data and draws it into at most cols x rows terminal
// cells. It returns the source image bounds alongside the text.
func renderImage(data []byte, cols, rows int) (string, image.Rectangle, error) {
	if len(data) == 0 {
		return "", image.Rectangle{}, errors.New("empty image")
	}
	if cols <= 0 || rows <= 0 {
		return "", image.Rectangle{}, errors.New("no room to draw")
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", image.Rectangle{}, fmt.Errorf("decode image: %w", err)
	}

	fitted := imaging.Fit(src, cols, rows*2, imaging.Lanczos)
	b := fitted.Bounds()

	var out strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			out.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			cell := lipgloss.NewStyle().Foreground(hexColor(fitted.NRGBAAt(x, y)))
			if y+1 < b.Max.Y {
				cell = cell.Background(hexColor(fitted.NRGBAAt(x, y+1)))
			}
			out.WriteString(cell.Render(halfBlock))
		}
	}
	return out.String(), src.Bounds(), nil
}

// hexColor flattens c onto black and formats it for lipgloss.
func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
