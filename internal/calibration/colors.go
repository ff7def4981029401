// Package calibration produces the inputs the vision pipeline treats as
// configuration: the two marker colors and the per-shape trained statistics.
//
// Both procedures run offline, before live classification. Marker colors are
// averaged from user-picked points on a sample frame. Shape statistics are
// computed from regions grown on labeled sample frames through the same
// region expander the live pipeline uses, so trained and live descriptors
// agree by construction.
package calibration

import (
	"errors"
	"image"
	"math"

	"github.com/ironsheep/parkvision-mcp/internal/imaging"
)

// ErrNoSamples is returned when none of the picked points fall inside the frame.
var ErrNoSamples = errors.New("no color samples inside the frame")

// neighborhood is the 3x3 window sampled around each picked point.
var neighborhood = [9]image.Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// CalibrateColor averages the 3x3 neighborhood around every picked point,
// per channel, and rounds to the nearest integer. Neighbors outside the frame
// are skipped.
func CalibrateColor(f *imaging.Frame, picks []image.Point) (imaging.RGB, error) {
	var sumR, sumG, sumB, n int
	for _, p := range picks {
		for _, d := range neighborhood {
			q := p.Add(d)
			if !f.In(q.X, q.Y) {
				continue
			}
			c := f.RGBAt(q.X, q.Y)
			sumR += int(c.R)
			sumG += int(c.G)
			sumB += int(c.B)
			n++
		}
	}
	if n == 0 {
		return imaging.RGB{}, ErrNoSamples
	}
	return imaging.RGB{
		R: roundMean(sumR, n),
		G: roundMean(sumG, n),
		B: roundMean(sumB, n),
	}, nil
}

func roundMean(sum, n int) uint8 {
	return uint8(math.Round(float64(sum) / float64(n)))
}
