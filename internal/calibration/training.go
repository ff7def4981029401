package calibration

import (
	"errors"
	"fmt"
	"image"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/parkvision-mcp/internal/detection"
	"github.com/ironsheep/parkvision-mcp/internal/imaging"
)

var (
	// ErrNoRegion is returned when a training seed grows a region below the
	// noise floor.
	ErrNoRegion = errors.New("seed did not grow a region above the noise floor")

	// ErrInsufficientSamples is returned when a label has fewer than two samples,
	// which leaves its standard deviation undefined.
	ErrInsufficientSamples = errors.New("need at least two samples per label")
)

// Sample is one labeled observation of a marker shape.
type Sample struct {
	Label           detection.Label           `json:"label"`
	Characteristics detection.Characteristics `json:"characteristics"`
}

// CollectSample grows a single region from seed on f and labels it.
func CollectSample(e *detection.RegionExpander, f *imaging.Frame, seed image.Point, label detection.Label) (Sample, error) {
	if label == detection.LabelUnknown {
		return Sample{}, fmt.Errorf("cannot train label %s", label)
	}
	_, regions, err := e.Expand(f.Gray, []image.Point{seed})
	if err != nil {
		return Sample{}, err
	}
	if len(regions) == 0 {
		return Sample{}, fmt.Errorf("%s sample at (%d,%d): %w", label, seed.X, seed.Y, ErrNoRegion)
	}
	return Sample{Label: label, Characteristics: regions[0].Characteristics}, nil
}

// TrainClasses computes per-label mean and sample standard deviation of
// phi_1 and phi_2. Classes come back in canonical label order (LONG_1,
// LONG_2, COMPACT_1, COMPACT_2), skipping labels with no samples.
func TrainClasses(samples []Sample) ([]detection.TrainedClass, error) {
	phi1 := make(map[detection.Label][]float64)
	phi2 := make(map[detection.Label][]float64)
	for i, s := range samples {
		if s.Label == detection.LabelUnknown {
			return nil, fmt.Errorf("sample %d: label %s cannot be trained", i, s.Label)
		}
		phi1[s.Label] = append(phi1[s.Label], s.Characteristics.Phi1)
		phi2[s.Label] = append(phi2[s.Label], s.Characteristics.Phi2)
	}

	classes := make([]detection.TrainedClass, 0, len(detection.Labels))
	for _, label := range detection.Labels {
		xs, ys := phi1[label], phi2[label]
		if len(xs) == 0 {
			continue
		}
		if len(xs) < 2 {
			return nil, fmt.Errorf("%s has %d sample: %w", label, len(xs), ErrInsufficientSamples)
		}
		mean1, sigma1 := stat.MeanStdDev(xs, nil)
		mean2, sigma2 := stat.MeanStdDev(ys, nil)
		classes = append(classes, detection.TrainedClass{
			Label:     label,
			MeanPhi1:  mean1,
			MeanPhi2:  mean2,
			SigmaPhi1: sigma1,
			SigmaPhi2: sigma2,
		})
	}
	if len(classes) == 0 {
		return nil, detection.ErrNoTrainedClasses
	}
	return classes, nil
}
