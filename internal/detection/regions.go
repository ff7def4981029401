package detection

import (
	"errors"
	"fmt"
	"image"
)

// ErrSeedOutOfBounds is returned when a seed coordinate does not lie inside
// the intensity frame. Seeds must come from SeedLocator (or a caller that
// checks bounds itself), so this is a programming error, not a frame condition.
var ErrSeedOutOfBounds = errors.New("seed outside frame bounds")

// DefaultNoiseFloor is the minimum pixel count for a grown region to survive.
const DefaultNoiseFloor = 100

// Accumulator holds the running raw moments and bounding extrema of one
// growing region. Sums are exact integers, so the totals do not depend on the
// order in which pixels are admitted.
type Accumulator struct {
	Count int64 `json:"count"`
	SumX  int64 `json:"sum_x"`
	SumY  int64 `json:"sum_y"`
	SumXY int64 `json:"sum_xy"`
	SumXX int64 `json:"sum_xx"`
	SumYY int64 `json:"sum_yy"`

	MinX int `json:"min_x"`
	MaxX int `json:"max_x"`
	MinY int `json:"min_y"`
	MaxY int `json:"max_y"`
}

// Add admits one pixel.
func (a *Accumulator) Add(x, y int) {
	if a.Count == 0 {
		a.MinX, a.MaxX, a.MinY, a.MaxY = x, x, y, y
	} else {
		a.MinX = min(a.MinX, x)
		a.MaxX = max(a.MaxX, x)
		a.MinY = min(a.MinY, y)
		a.MaxY = max(a.MaxY, y)
	}
	x64, y64 := int64(x), int64(y)
	a.Count++
	a.SumX += x64
	a.SumY += y64
	a.SumXY += x64 * y64
	a.SumXX += x64 * x64
	a.SumYY += y64 * y64
}

// Region is one grown region that survived the noise floor.
type Region struct {
	Seed            image.Point     `json:"seed"`
	Moments         Accumulator     `json:"moments"`
	Characteristics Characteristics `json:"characteristics"`
}

// RegionExpander grows regions from seeds over an intensity frame.
type RegionExpander struct {
	threshold  int
	noiseFloor int
}

// NewRegionExpander configures region growing. threshold is the largest
// admitted |intensity - seed intensity|; a noiseFloor <= 0 selects
// DefaultNoiseFloor.
func NewRegionExpander(threshold, noiseFloor int) (*RegionExpander, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("intensity threshold must be >= 0, got %d", threshold)
	}
	if noiseFloor <= 0 {
		noiseFloor = DefaultNoiseFloor
	}
	return &RegionExpander{threshold: threshold, noiseFloor: noiseFloor}, nil
}

// Threshold returns the configured intensity threshold.
func (e *RegionExpander) Threshold() int { return e.threshold }

// NoiseFloor returns the configured minimum region size.
func (e *RegionExpander) NoiseFloor() int { return e.noiseFloor }

// Expand grows one region per seed, in seed order.
//
// Each seed starts a breadth-first fill over 4-connected neighbors. A
// neighbor joins when no region of this call has visited it yet and its
// intensity is within the threshold of the seed's own intensity. Joining marks
// the pixel visited, so regions never overlap; a rejected pixel stays
// available to a later seed whose intensity it does match.
//
// Regions smaller than the noise floor are discarded. Every pixel of every
// surviving region is painted 255 on the returned marked frame, which has the
// same bounds as gray and is otherwise 0. The input frame is not modified.
//
// All seeds are validated before any growing starts; an out-of-bounds seed
// returns ErrSeedOutOfBounds and no partial result.
func (e *RegionExpander) Expand(gray *image.Gray, seeds []image.Point) (*image.Gray, []Region, error) {
	bounds := gray.Bounds()
	for _, s := range seeds {
		if !s.In(bounds) {
			return nil, nil, fmt.Errorf("%w: (%d,%d) not in %v", ErrSeedOutOfBounds, s.X, s.Y, bounds)
		}
	}

	g := newGrower(gray, e.threshold)
	marked := image.NewGray(bounds)
	regions := make([]Region, 0, len(seeds))

	for _, seed := range seeds {
		acc, pixels := g.grow(seed)
		if acc.Count < int64(e.noiseFloor) {
			Logf("detection: region at (%d,%d) dropped: %d px below noise floor %d",
				seed.X, seed.Y, acc.Count, e.noiseFloor)
			continue
		}
		for _, p := range pixels {
			marked.Pix[marked.PixOffset(p.X, p.Y)] = 255
		}
		regions = append(regions, Region{
			Seed:            seed,
			Moments:         acc,
			Characteristics: ComputeCharacteristics(acc),
		})
	}

	return marked, regions, nil
}

// grower carries the per-call visited marker shared by every seed of one
// Expand call.
type grower struct {
	gray      *image.Gray
	threshold int
	visited   []bool
	width     int
}

func newGrower(gray *image.Gray, threshold int) *grower {
	b := gray.Bounds()
	return &grower{
		gray:      gray,
		threshold: threshold,
		visited:   make([]bool, b.Dx()*b.Dy()),
		width:     b.Dx(),
	}
}

func (g *grower) index(p image.Point) int {
	o := g.gray.Rect.Min
	return (p.Y-o.Y)*g.width + (p.X - o.X)
}

func (g *grower) intensity(p image.Point) int {
	return int(g.gray.Pix[g.gray.PixOffset(p.X, p.Y)])
}

var fourNeighbors = [4]image.Point{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}

// grow runs one breadth-first fill from seed and returns its moments and the
// admitted pixels in admission order. A seed already claimed by an earlier
// region yields an empty accumulator.
func (g *grower) grow(seed image.Point) (Accumulator, []image.Point) {
	var acc Accumulator
	if g.visited[g.index(seed)] {
		return acc, nil
	}
	seedIntensity := g.intensity(seed)
	bounds := g.gray.Rect

	queue := []image.Point{seed}
	g.visited[g.index(seed)] = true

	for head := 0; head < len(queue); head++ {
		p := queue[head]
		acc.Add(p.X, p.Y)

		for _, d := range fourNeighbors {
			n := p.Add(d)
			if !n.In(bounds) {
				continue
			}
			i := g.index(n)
			if g.visited[i] || abs(g.intensity(n)-seedIntensity) > g.threshold {
				continue
			}
			g.visited[i] = true
			queue = append(queue, n)
		}
	}

	return acc, queue
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
