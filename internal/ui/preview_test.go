package ui

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"

	"github.com/five82/pivot/internal/upload"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func TestRenderImage_FitsCells(t *testing.T) {
	data := encodePNG(t, 200, 100)

	text, bounds, err := renderImage(data, 40, 10)
	if err != nil {
		t.Fatalf("renderImage returned error: %v", err)
	}
	if bounds.Dx() != 200 || bounds.Dy() != 100 {
		t.Fatalf("bounds = %v, want source size 200x100", bounds)
	}

	lines := strings.Split(text, "\n")
	// 200x100 fitted into 40x20 pixels gives 40x20, so 10 rows of cells.
	if len(lines) != 10 {
		t.Fatalf("rendered %d lines, want 10", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 40 {
			t.Fatalf("line %d width = %d, want 40", i, w)
		}
		if !strings.Contains(line, halfBlock) {
			t.Fatalf("line %d has no half blocks: %q", i, line)
		}
	}
}

func TestRenderImage_OddHeightKeepsLastRow(t *testing.T) {
	text, _, err := renderImage(encodePNG(t, 3, 3), 10, 10)
	if err != nil {
		t.Fatalf("renderImage returned error: %v", err)
	}
	if got := len(strings.Split(text, "\n")); got != 2 {
		t.Fatalf("rendered %d lines for 3 pixel rows, want 2", got)
	}
}

func TestRenderImage_Errors(t *testing.T) {
	if _, _, err := renderImage(nil, 10, 10); err == nil {
		t.Fatalf("renderImage(nil) returned nil error")
	}
	if _, _, err := renderImage(encodePNG(t, 2, 2), 0, 10); err == nil {
		t.Fatalf("renderImage with no columns returned nil error")
	}
	_, _, err := renderImage([]byte("not an image"), 10, 10)
	if err == nil || !strings.Contains(err.Error(), "decode image") {
		t.Fatalf("renderImage(garbage) error = %v, want decode error", err)
	}
}

func TestPreviewCache_LoadsOnlyOnMiss(t *testing.T) {
	c := &previewCache{}
	data := encodePNG(t, 4, 4)

	loads := 0
	load := func(ref upload.Ref) ([]byte, bool) {
		loads++
		if ref == "blob:gone" {
			return nil, false
		}
		return data, true
	}

	first, ok := c.render("blob:a", 10, 10, load)
	if !ok || first.err != nil {
		t.Fatalf("render = %v, %v; want a preview", ok, first.err)
	}
	if first.size != int64(len(data)) {
		t.Fatalf("size = %d, want %d", first.size, len(data))
	}

	for i := 0; i < 5; i++ {
		again, ok := c.render("blob:a", 10, 10, load)
		if !ok || again.text != first.text {
			t.Fatalf("cache miss for identical key")
		}
	}
	if loads != 1 {
		t.Fatalf("load called %d times, want 1", loads)
	}

	if _, ok := c.render("blob:a", 12, 10, load); !ok || loads != 2 {
		t.Fatalf("resize did not re-render (loads = %d)", loads)
	}
	if _, ok := c.render("blob:gone", 12, 10, load); ok {
		t.Fatalf("render of unresolvable ref reported ok")
	}
}
