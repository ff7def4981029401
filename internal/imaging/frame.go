package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// ErrFrameMismatch is returned when the color and intensity views of a frame
// do not describe the same pixel grid.
var ErrFrameMismatch = errors.New("color and intensity views do not share dimensions")

// Frame is one camera capture in the two representations the vision pipeline
// reads: a 3-channel color view and a single-channel intensity view.
//
// Both views have identical bounds anchored at (0,0), so (x, y) addresses the
// same physical pixel in each. A Frame is read-only after construction.
type Frame struct {
	// Color is the view used for marker-color matching.
	Color *image.NRGBA

	// Gray is the luminance view used for region growing.
	Gray *image.Gray
}

// NewFrame builds a Frame from any decoded image.
//
// The color view is a re-based NRGBA copy of img and the intensity view is
// derived from it with effect.Grayscale. Empty images are rejected.
func NewFrame(img image.Image) (*Frame, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot build frame from an empty image")
	}
	colorView := imaging.Clone(img)
	return &Frame{
		Color: colorView,
		Gray:  intensityView(colorView),
	}, nil
}

// intensityView keeps one channel of bild's grayscale output, which writes
// the same luminance to R, G and B.
func intensityView(colorView *image.NRGBA) *image.Gray {
	rgba := effect.Grayscale(colorView)
	gray := image.NewGray(rgba.Rect)
	for y := 0; y < rgba.Rect.Dy(); y++ {
		src := rgba.Pix[y*rgba.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := range dst[:rgba.Rect.Dx()] {
			dst[x] = src[4*x]
		}
	}
	return gray
}

// NewFrameFromViews pairs caller-supplied color and intensity views.
//
// Use this when the caller performs its own luminance conversion. The views
// must be non-empty, share the same bounds, and start at (0,0); anything else
// is a contract violation reported as ErrFrameMismatch.
func NewFrameFromViews(colorView *image.NRGBA, gray *image.Gray) (*Frame, error) {
	if colorView == nil || gray == nil {
		return nil, fmt.Errorf("%w: both views are required", ErrFrameMismatch)
	}
	cb, gb := colorView.Bounds(), gray.Bounds()
	if cb.Empty() {
		return nil, fmt.Errorf("cannot build frame from an empty image")
	}
	if cb != gb {
		return nil, fmt.Errorf("%w: color %v, intensity %v", ErrFrameMismatch, cb, gb)
	}
	if cb.Min != (image.Point{}) {
		return nil, fmt.Errorf("%w: views must start at (0,0), got %v", ErrFrameMismatch, cb.Min)
	}
	return &Frame{Color: colorView, Gray: gray}, nil
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.Color.Rect.Dx() }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.Color.Rect.Dy() }

// RGBAt returns the color view's pixel at (x, y). Coordinates are not checked.
func (f *Frame) RGBAt(x, y int) RGB {
	i := f.Color.PixOffset(x, y)
	return RGB{R: f.Color.Pix[i], G: f.Color.Pix[i+1], B: f.Color.Pix[i+2]}
}

// IntensityAt returns the intensity view's pixel at (x, y). Coordinates are
// not checked.
func (f *Frame) IntensityAt(x, y int) uint8 {
	return f.Gray.Pix[f.Gray.PixOffset(x, y)]
}

// Check reports a frame whose views were paired without NewFrame or
// NewFrameFromViews and do not cover the same pixel grid.
func (f *Frame) Check() error {
	if f == nil || f.Color == nil || f.Gray == nil {
		return fmt.Errorf("%w: both views are required", ErrFrameMismatch)
	}
	if f.Color.Rect != f.Gray.Rect {
		return fmt.Errorf("%w: color %v, intensity %v", ErrFrameMismatch, f.Color.Rect, f.Gray.Rect)
	}
	return nil
}

// In reports whether (x, y) lies inside the frame.
func (f *Frame) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width() && y < f.Height()
}
