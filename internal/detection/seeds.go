package detection

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/parkvision-mcp/internal/imaging"
)

// ErrMissingTargetColors is returned when the two marker colors have not been
// calibrated.
var ErrMissingTargetColors = errors.New("marker colors not configured: calibrate color_1 and color_2 first")

const (
	// DefaultColorTolerance is the per-channel window used to match a marker color.
	DefaultColorTolerance = 20

	// DefaultBisectionBudget bounds the row scans made in each half of the frame.
	DefaultBisectionBudget = 10
)

// Seed is a pixel known to lie on a marker, plus its intensity in the
// frame's intensity view.
type Seed struct {
	X         int   `json:"x"`
	Y         int   `json:"y"`
	Intensity uint8 `json:"intensity"`
}

// Point returns the seed's coordinate.
func (s Seed) Point() image.Point { return image.Point{X: s.X, Y: s.Y} }

// TargetColors are the two calibrated marker colors and their shared
// per-channel tolerance. A nil color means "not configured".
type TargetColors struct {
	First     *imaging.RGB
	Second    *imaging.RGB
	Tolerance int
}

// SeedLocator finds one seed per marker color using a bounded bisection over
// rows.
//
// The middle row is scanned first. The lower span [0, mid) and the upper span
// [mid, height) are then each bisected depth-first: the midpoint row of a span
// is scanned and the two sub-spans it creates are queued, the first before the
// second. Each half has its own budget of row scans. A seed that only exists
// on rows the search never reaches is missed; that is the price of scanning
// O(log height) rows instead of all of them.
type SeedLocator struct {
	first, second imaging.RGB
	tolerance     int
	budget        int
}

// NewSeedLocator validates the marker configuration. A budget <= 0 selects
// DefaultBisectionBudget.
func NewSeedLocator(colors TargetColors, budget int) (*SeedLocator, error) {
	if colors.First == nil || colors.Second == nil {
		return nil, ErrMissingTargetColors
	}
	if colors.Tolerance < 0 {
		return nil, fmt.Errorf("color tolerance must be >= 0, got %d", colors.Tolerance)
	}
	if budget <= 0 {
		budget = DefaultBisectionBudget
	}
	return &SeedLocator{
		first:     *colors.First,
		second:    *colors.Second,
		tolerance: colors.Tolerance,
		budget:    budget,
	}, nil
}

// span is a half-open row range [lo, hi).
type span struct{ lo, hi int }

// seedSearch is the state shared by both halves of one Locate call.
type seedSearch struct {
	frame         *imaging.Frame
	loc           *SeedLocator
	first, second *image.Point
}

func (s *seedSearch) done() bool { return s.first != nil && s.second != nil }

// scanRow records, for each color not yet found, the first pixel on row y
// that matches it.
func (s *seedSearch) scanRow(y int) {
	for x := 0; x < s.frame.Width(); x++ {
		px := s.frame.RGBAt(x, y)
		if s.first == nil && px.Within(s.loc.first, s.loc.tolerance) {
			s.first = &image.Point{X: x, Y: y}
		}
		if s.second == nil && px.Within(s.loc.second, s.loc.tolerance) {
			s.second = &image.Point{X: x, Y: y}
		}
		if s.done() {
			return
		}
	}
}

// bisect searches one half of the frame with an explicit stack, visiting spans
// in the same order as a depth-first recursion would.
func (s *seedSearch) bisect(root span) {
	stack := []span{root}
	scans := 0
	for len(stack) > 0 {
		if s.done() || scans >= s.loc.budget {
			return
		}
		sp := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		mid := sp.lo + (sp.hi-sp.lo)/2
		s.scanRow(mid)
		scans++

		// Pushed in reverse so the lower sub-span is explored first.
		stack = append(stack, span{mid, sp.hi}, span{sp.lo, mid})
	}
}

// Locate returns up to two seed coordinates: the first marker color's seed
// (if found) followed by the second's. The frame is not modified.
func (l *SeedLocator) Locate(f *imaging.Frame) []image.Point {
	if f.Width() == 0 || f.Height() == 0 {
		return nil
	}
	s := &seedSearch{frame: f, loc: l}

	mid := f.Height() / 2
	s.scanRow(mid)
	s.bisect(span{0, mid})
	s.bisect(span{mid, f.Height()})

	seeds := make([]image.Point, 0, 2)
	if s.first != nil {
		seeds = append(seeds, *s.first)
	}
	if s.second != nil {
		seeds = append(seeds, *s.second)
	}
	return seeds
}

// LocateSeeds is Locate with each coordinate paired with its intensity. The
// frame's views must agree (see imaging.Frame.Check); Pipeline.Run checks this.
func (l *SeedLocator) LocateSeeds(f *imaging.Frame) []Seed {
	points := l.Locate(f)
	seeds := make([]Seed, len(points))
	for i, p := range points {
		seeds[i] = Seed{X: p.X, Y: p.Y, Intensity: f.IntensityAt(p.X, p.Y)}
	}
	return seeds
}
