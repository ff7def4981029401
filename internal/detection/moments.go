package detection

import (
	"image"
	"math"
)

// Characteristics are the geometric descriptors of one grown region.
//
// Phi1 and Phi2 are rotation- and scale-invariant combinations of the
// normalized second-order moments; they are the two features the Classifier
// works on. Theta is the principal-axis orientation in radians.
type Characteristics struct {
	XCenter int     `json:"x_center"`
	YCenter int     `json:"y_center"`
	Theta   float64 `json:"theta"`
	Phi1    float64 `json:"phi_1"`
	Phi2    float64 `json:"phi_2"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
}

// ComputeCharacteristics converts a finished accumulator into descriptors.
//
// The centroid is truncated to integers and the central moments are taken
// about that integer centroid. Trained class statistics assume the same
// convention. atan2(0, 0) is defined as 0 for an isotropic region.
//
// acc.Count must be > 0.
func ComputeCharacteristics(acc Accumulator) Characteristics {
	n := acc.Count
	xc := acc.SumX / n
	yc := acc.SumY / n

	mu11 := acc.SumXY - yc*acc.SumX
	mu20 := acc.SumXX - xc*acc.SumX
	mu02 := acc.SumYY - yc*acc.SumY

	theta := 0.0
	if mu11 != 0 || mu20 != mu02 {
		theta = math.Atan2(2*float64(mu11), float64(mu20-mu02)) / 2
	}

	n2 := float64(n) * float64(n)
	nu11 := float64(mu11) / n2
	nu20 := float64(mu20) / n2
	nu02 := float64(mu02) / n2

	d := nu20 - nu02
	return Characteristics{
		XCenter: int(xc),
		YCenter: int(yc),
		Theta:   theta,
		Phi1:    nu20 + nu02,
		Phi2:    d*d + 4*nu11*nu11,
		Width:   acc.MaxX - acc.MinX,
		Height:  acc.MaxY - acc.MinY,
	}
}

// Center returns the integer centroid.
func (c Characteristics) Center() image.Point {
	return image.Point{X: c.XCenter, Y: c.YCenter}
}

// OrientationSegment returns the ends of a segment through the centroid along
// Theta, long enough to span the larger bounding-box extent. ok is false when
// the region has no extent to draw.
func OrientationSegment(c Characteristics) (from, to image.Point, ok bool) {
	half := float64(max(c.Width, c.Height)) / 2
	if half < 1 {
		return c.Center(), c.Center(), false
	}
	dx := half * math.Cos(c.Theta)
	dy := half * math.Sin(c.Theta)
	from = image.Point{
		X: c.XCenter - int(math.Round(dx)),
		Y: c.YCenter - int(math.Round(dy)),
	}
	to = image.Point{
		X: c.XCenter + int(math.Round(dx)),
		Y: c.YCenter + int(math.Round(dy)),
	}
	return from, to, true
}
