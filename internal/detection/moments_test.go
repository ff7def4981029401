package detection

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// directMoments computes the descriptors from the pixel list itself, about
// the floored centroid, without going through raw sums.
func directMoments(pixels []image.Point) (theta, phi1, phi2 float64) {
	var sx, sy int
	for _, p := range pixels {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pixels))
	xc := float64(sx / len(pixels))
	yc := float64(sy / len(pixels))

	var mu11, mu20, mu02 float64
	for _, p := range pixels {
		dx, dy := float64(p.X)-xc, float64(p.Y)-yc
		mu11 += float64(p.X) * dy
		mu20 += dx * float64(p.X)
		mu02 += dy * float64(p.Y)
	}
	if mu11 != 0 || mu20 != mu02 {
		theta = math.Atan2(2*mu11, mu20-mu02) / 2
	}
	nu11, nu20, nu02 := mu11/(n*n), mu20/(n*n), mu02/(n*n)
	return theta, nu20 + nu02, (nu20-nu02)*(nu20-nu02) + 4*nu11*nu11
}

func TestComputeCharacteristics_MatchesDirectComputation(t *testing.T) {
	shapes := map[string][]image.Point{
		"odd rectangle":  rectPixels(image.Rect(4, 9, 17, 14)),
		"even rectangle": rectPixels(image.Rect(10, 20, 22, 24)),
		"l shape": append(
			rectPixels(image.Rect(0, 0, 3, 12)),
			rectPixels(image.Rect(3, 9, 11, 12))...),
		"offset square": rectPixels(image.Rect(101, 57, 111, 67)),
	}

	for name, pixels := range shapes {
		t.Run(name, func(t *testing.T) {
			c := ComputeCharacteristics(accumulate(pixels))
			theta, phi1, phi2 := directMoments(pixels)
			assert.InDelta(t, theta, c.Theta, 1e-9)
			assert.InDelta(t, phi1, c.Phi1, 1e-12)
			assert.InDelta(t, phi2, c.Phi2, 1e-12)
		})
	}
}

func TestComputeCharacteristics_OrientationSymmetry(t *testing.T) {
	tests := []struct {
		name  string
		rect  image.Rectangle
		theta float64
	}{
		{"wide, symmetric about vertical axis", image.Rect(20, 30, 33, 35), 0},
		{"tall, symmetric about horizontal axis", image.Rect(20, 30, 25, 43), math.Pi / 2},
		{"isotropic square", image.Rect(0, 0, 7, 7), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ComputeCharacteristics(accumulate(rectPixels(tt.rect)))
			assert.InDelta(t, tt.theta, math.Abs(c.Theta), 1e-9)
		})
	}
}

func TestComputeCharacteristics_RotationInvariants(t *testing.T) {
	wide := ComputeCharacteristics(accumulate(rectPixels(image.Rect(0, 0, 13, 5))))
	tall := ComputeCharacteristics(accumulate(rectPixels(image.Rect(40, 40, 45, 53))))

	assert.InDelta(t, wide.Phi1, tall.Phi1, 1e-12)
	assert.InDelta(t, wide.Phi2, tall.Phi2, 1e-12)
	assert.Equal(t, wide.Width, tall.Height)
	assert.Equal(t, wide.Height, tall.Width)
}

func TestComputeCharacteristics_Diagonal(t *testing.T) {
	var pixels []image.Point
	for i := 0; i <= 10; i++ {
		pixels = append(pixels, image.Pt(i, i))
	}
	c := ComputeCharacteristics(accumulate(pixels))
	assert.InDelta(t, math.Pi/4, c.Theta, 1e-9)
	assert.Equal(t, image.Pt(5, 5), c.Center())
}

func TestComputeCharacteristics_SinglePixel(t *testing.T) {
	c := ComputeCharacteristics(accumulate([]image.Point{{8, 3}}))

	assert.Equal(t, Characteristics{XCenter: 8, YCenter: 3}, c)
}

func TestOrientationSegment(t *testing.T) {
	c := ComputeCharacteristics(accumulate(rectPixels(image.Rect(20, 30, 33, 35))))

	from, to, ok := OrientationSegment(c)
	require.True(t, ok)
	assert.Equal(t, image.Pt(20, 32), from)
	assert.Equal(t, image.Pt(32, 32), to)

	tall := ComputeCharacteristics(accumulate(rectPixels(image.Rect(20, 30, 25, 43))))
	from, to, ok = OrientationSegment(tall)
	require.True(t, ok)
	assert.ElementsMatch(t, []image.Point{{22, 30}, {22, 42}}, []image.Point{from, to})
}

func TestOrientationSegment_NoExtent(t *testing.T) {
	c := ComputeCharacteristics(accumulate([]image.Point{{8, 3}}))
	from, to, ok := OrientationSegment(c)
	assert.False(t, ok)
	assert.Equal(t, c.Center(), from)
	assert.Equal(t, c.Center(), to)
}
