package detection

import (
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/parkvision-mcp/internal/imaging"
)

// Logf is the package diagnostic logger. It is a no-op by default; the server
// points it at log.Printf when debug logging is enabled.
var Logf func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil restores the no-op.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// PipelineConfig gathers everything a Pipeline needs. Zero numeric values
// select the package defaults, except Threshold where 0 is a valid choice.
type PipelineConfig struct {
	Colors          TargetColors
	BisectionBudget int
	Threshold       int
	NoiseFloor      int
	Gate            float64
	Classes         []TrainedClass
}

// Pipeline runs seed location, region growing, characteristics and
// classification on one frame at a time. It holds only read-only
// configuration, so one Pipeline may serve concurrent Run calls on different
// frames.
type Pipeline struct {
	locator    *SeedLocator
	expander   *RegionExpander
	classifier *Classifier
}

// NewPipeline validates the whole configuration before any frame is seen.
// Missing marker colors or trained classes are reported here as
// ErrMissingTargetColors and ErrNoTrainedClasses.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	locator, err := NewSeedLocator(cfg.Colors, cfg.BisectionBudget)
	if err != nil {
		return nil, fmt.Errorf("seed locator: %w", err)
	}
	expander, err := NewRegionExpander(cfg.Threshold, cfg.NoiseFloor)
	if err != nil {
		return nil, fmt.Errorf("region expander: %w", err)
	}
	classifier, err := NewClassifier(cfg.Classes, cfg.Gate)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	return &Pipeline{locator: locator, expander: expander, classifier: classifier}, nil
}

// Locator returns the pipeline's seed locator.
func (p *Pipeline) Locator() *SeedLocator { return p.locator }

// Expander returns the pipeline's region expander.
func (p *Pipeline) Expander() *RegionExpander { return p.expander }

// Classifier returns the pipeline's classifier.
func (p *Pipeline) Classifier() *Classifier { return p.classifier }

// FrameResult is everything one pipeline pass produced.
type FrameResult struct {
	FrameID         uuid.UUID        `json:"frame_id"`
	Seeds           []Seed           `json:"seeds"`
	Regions         []Region         `json:"regions"`
	Classifications []Classification `json:"classifications"`

	// Marked is the diagnostic frame: surviving region pixels are 255.
	Marked *image.Gray `json:"-"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Labels returns the classification labels in region order.
func (r *FrameResult) Labels() []Label {
	labels := make([]Label, len(r.Classifications))
	for i, c := range r.Classifications {
		labels[i] = c.Label
	}
	return labels
}

// Run processes one frame. Finding no seeds, dropping every region, or
// classifying everything as LabelUnknown are ordinary outcomes, not errors.
// A frame whose views disagree fails with imaging.ErrFrameMismatch.
func (p *Pipeline) Run(f *imaging.Frame) (*FrameResult, error) {
	if err := f.Check(); err != nil {
		return nil, err
	}
	start := time.Now()
	id := uuid.New()

	seeds := p.locator.LocateSeeds(f)
	points := make([]image.Point, len(seeds))
	for i, s := range seeds {
		points[i] = s.Point()
	}

	marked, regions, err := p.expander.Expand(f.Gray, points)
	if err != nil {
		return nil, fmt.Errorf("frame %s: %w", id, err)
	}

	chars := make([]Characteristics, len(regions))
	for i, r := range regions {
		chars[i] = r.Characteristics
	}
	classifications := p.classifier.Classify(chars)

	result := &FrameResult{
		FrameID:         id,
		Seeds:           seeds,
		Regions:         regions,
		Classifications: classifications,
		Marked:          marked,
		Elapsed:         time.Since(start),
	}
	Logf("detection: frame %s: %d seeds, %d regions, labels %v in %s",
		id, len(seeds), len(regions), result.Labels(), result.Elapsed)
	return result, nil
}

// RegionOverlays builds the diagnostic annotations (centroid and orientation
// segment) for a set of regions.
func RegionOverlays(regions []Region) []imaging.Overlay {
	overlays := make([]imaging.Overlay, len(regions))
	for i, r := range regions {
		from, to, ok := OrientationSegment(r.Characteristics)
		overlays[i] = imaging.Overlay{
			Center:  r.Characteristics.Center(),
			From:    from,
			To:      to,
			HasLine: ok,
		}
	}
	return overlays
}
