package detection

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/parkvision-mcp/internal/imaging"
)

// newGray returns a w x h intensity frame filled with bg.
func newGray(w, h int, bg uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = bg
	}
	return g
}

// fillGray paints r (clipped) with intensity v.
func fillGray(g *image.Gray, r image.Rectangle, v uint8) {
	r = r.Intersect(g.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

// testFrame pairs an all-black color view with g.
func testFrame(t *testing.T, g *image.Gray) *imaging.Frame {
	t.Helper()
	f, err := imaging.NewFrameFromViews(image.NewNRGBA(g.Rect), g)
	require.NoError(t, err)
	return f
}

// paint sets one color-view pixel of f.
func paint(f *imaging.Frame, x, y int, c imaging.RGB) {
	f.Color.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
}

// rectPixels lists every pixel of r in row-major order.
func rectPixels(r image.Rectangle) []image.Point {
	var out []image.Point
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			out = append(out, image.Pt(x, y))
		}
	}
	return out
}

// accumulate feeds pixels to a fresh accumulator in the given order.
func accumulate(pixels []image.Point) Accumulator {
	var acc Accumulator
	for _, p := range pixels {
		acc.Add(p.X, p.Y)
	}
	return acc
}
