package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
)

// Overlay describes the annotations drawn for one grown region: its centroid
// and, when the orientation is defined, a segment along its principal axis.
type Overlay struct {
	Center  image.Point
	From    image.Point
	To      image.Point
	HasLine bool
}

// RenderResult contains a rendered diagnostic frame encoded as base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

var overlayColor = color.RGBA{0, 255, 0, 255}

const centroidRadius = 2

// RenderMarked turns the region expander's marked frame into a displayable
// PNG. Region pixels stay white on black; each overlay adds a green centroid
// disc and, if present, a green orientation segment.
//
// A scale other than 1 (and greater than 0) resizes the result with
// nearest-neighbor sampling so single-pixel regions stay crisp.
func RenderMarked(marked *image.Gray, overlays []Overlay, scale float64) (*RenderResult, error) {
	if marked == nil || marked.Bounds().Empty() {
		return nil, fmt.Errorf("nothing to render: empty marked frame")
	}

	bounds := marked.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, marked, bounds.Min, draw.Src)

	for _, o := range overlays {
		if o.HasLine {
			drawLine(canvas, o.From, o.To, overlayColor)
		}
		drawDisc(canvas, o.Center, centroidRadius, overlayColor)
	}

	var out image.Image = canvas
	if scale != 1.0 && scale > 0 {
		w := int(float64(bounds.Dx()) * scale)
		h := int(float64(bounds.Dy()) * scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %.3f collapses a %dx%d frame", scale, bounds.Dx(), bounds.Dy())
		}
		out = imaging.Resize(canvas, w, h, imaging.NearestNeighbor)
	}

	encoded, err := encodePNG(out)
	if err != nil {
		return nil, err
	}

	return &RenderResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// drawDisc fills a disc of the given radius, clipped to the canvas.
func drawDisc(img *image.RGBA, center image.Point, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			p := image.Point{X: center.X + dx, Y: center.Y + dy}
			if p.In(img.Rect) {
				img.SetRGBA(p.X, p.Y, c)
			}
		}
	}
}

// drawLine rasterizes a segment with Bresenham's algorithm, clipped to the
// canvas.
func drawLine(img *image.RGBA, from, to image.Point, c color.RGBA) {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	e := dx + dy
	x, y := from.X, from.Y
	for {
		if (image.Point{X: x, Y: y}).In(img.Rect) {
			img.SetRGBA(x, y, c)
		}
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
