package imaging

import (
	"fmt"
	"image"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGB struct {
	R uint8 `json:"r" yaml:"r"` // Red component (0-255)
	G uint8 `json:"g" yaml:"g"` // Green component (0-255)
	B uint8 `json:"b" yaml:"b"` // Blue component (0-255)
}

// ParseRGB parses a "#RRGGBB" hex string (the leading '#' is required).
func ParseRGB(hex string) (RGB, error) {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Hex returns the color in "#RRGGBB" form.
func (c RGB) Hex() string {
	return strings.ToUpper(c.colorful().Hex())
}

// HSL returns the color in HSL space: hue in degrees (0-360), saturation and
// lightness as percentages (0-100).
func (c RGB) HSL() HSLColor {
	h, s, l := c.colorful().Hsl()
	return HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)}
}

// Within reports whether every channel of c is within tol of target
// (inclusive on both sides).
func (c RGB) Within(target RGB, tol int) bool {
	return absDiff(c.R, target.R) <= tol &&
		absDiff(c.G, target.G) <= tol &&
		absDiff(c.B, target.B) <= tol
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a sampled pixel color in several representations.
//
// The RGB triple is what marker calibration stores; Hex is the same value in
// configuration notation and HSL is informational.
type ColorResult struct {
	X   int      `json:"x"`
	Y   int      `json:"y"`
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGB      `json:"rgb"`
	HSL HSLColor `json:"hsl"`

	// Intensity is the luminance at the same pixel, as seen by region growing.
	Intensity uint8 `json:"intensity"`
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// The intensity is computed with the same luminance weights as the intensity
// view of a Frame, so the value can be compared against region thresholds.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := rgbAt(img, x, y)
	return &ColorResult{
		X:         x,
		Y:         y,
		Hex:       c.Hex(),
		RGB:       c,
		HSL:       c.HSL(),
		Intensity: luminance(c),
	}, nil
}

// rgbAt reads the pixel at (x, y) as 8-bit RGB. Alpha is ignored.
func rgbAt(img image.Image, x, y int) RGB {
	if nrgba, ok := img.(*image.NRGBA); ok {
		i := nrgba.PixOffset(x, y)
		return RGB{R: nrgba.Pix[i], G: nrgba.Pix[i+1], B: nrgba.Pix[i+2]}
	}
	r, g, b, _ := img.At(x, y).RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// luminance mirrors the per-pixel weights of bild's effect.Grayscale, whose
// channel NewFrame keeps as the intensity view.
func luminance(c RGB) uint8 {
	return uint8(0.3*float64(c.R) + 0.6*float64(c.G) + 0.1*float64(c.B) + 0.5)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
