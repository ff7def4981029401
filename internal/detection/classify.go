package detection

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoTrainedClasses is returned when a classifier is built without any
// trained class statistics.
var ErrNoTrainedClasses = errors.New("no trained classes configured: train the shape classes first")

// DefaultGate is the absolute half-width of the admissibility window, on each
// descriptor axis, around a class's mean.
const DefaultGate = 0.7

// Label identifies a known marker shape. The zero value is LabelUnknown.
type Label int

const (
	LabelUnknown Label = iota
	LabelLong1
	LabelLong2
	LabelCompact1
	LabelCompact2
)

// Labels lists every trainable label in canonical order.
var Labels = []Label{LabelLong1, LabelLong2, LabelCompact1, LabelCompact2}

var labelNames = map[Label]string{
	LabelUnknown:  "UNKNOWN",
	LabelLong1:    "LONG_1",
	LabelLong2:    "LONG_2",
	LabelCompact1: "COMPACT_1",
	LabelCompact2: "COMPACT_2",
}

func (l Label) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// IsLong reports whether l is one of the elongated shapes, which carry an
// orientation angle.
func (l Label) IsLong() bool { return l == LabelLong1 || l == LabelLong2 }

// ParseLabel converts a name such as "LONG_1" back into a Label.
func ParseLabel(name string) (Label, error) {
	for l, n := range labelNames {
		if n == name {
			return l, nil
		}
	}
	return LabelUnknown, fmt.Errorf("unknown shape label %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if _, ok := labelNames[l]; !ok {
		return nil, fmt.Errorf("invalid label %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// TrainedClass is the calibrated statistics of one shape label.
type TrainedClass struct {
	Label     Label   `json:"label" yaml:"label"`
	MeanPhi1  float64 `json:"mean_phi_1" yaml:"mean_phi_1"`
	MeanPhi2  float64 `json:"mean_phi_2" yaml:"mean_phi_2"`
	SigmaPhi1 float64 `json:"sigma_phi_1" yaml:"sigma_phi_1"`
	SigmaPhi2 float64 `json:"sigma_phi_2" yaml:"sigma_phi_2"`
}

// Classification is the verdict for one region. Angle is nil unless Label is
// a long shape, in which case it is the region's Theta.
type Classification struct {
	Label Label    `json:"label"`
	Angle *float64 `json:"angle,omitempty"`
}

// Classifier assigns regions to trained classes.
//
// Membership is decided by a hard rectangular gate: a region is eligible for a
// class only if both |phi_1 - mean_phi_1| and |phi_2 - mean_phi_2| are at most
// the gate. The gate is the same for every class and ignores the class's
// sigmas. Among eligible classes the one with the smallest sigma-normalized
// squared distance wins; an exact tie keeps the class listed first.
type Classifier struct {
	classes []TrainedClass
	gate    float64
}

// NewClassifier copies classes (their order is the tie-break order). A gate
// <= 0 selects DefaultGate.
func NewClassifier(classes []TrainedClass, gate float64) (*Classifier, error) {
	if len(classes) == 0 {
		return nil, ErrNoTrainedClasses
	}
	for i, c := range classes {
		if c.Label == LabelUnknown {
			return nil, fmt.Errorf("trained class %d: label UNKNOWN cannot be trained", i)
		}
		if c.SigmaPhi1 < 0 || c.SigmaPhi2 < 0 {
			return nil, fmt.Errorf("trained class %d (%s): negative sigma", i, c.Label)
		}
	}
	if gate <= 0 {
		gate = DefaultGate
	}
	return &Classifier{
		classes: append([]TrainedClass(nil), classes...),
		gate:    gate,
	}, nil
}

// Classes returns a copy of the classifier's classes.
func (c *Classifier) Classes() []TrainedClass {
	return append([]TrainedClass(nil), c.classes...)
}

// Gate returns the admissibility half-width.
func (c *Classifier) Gate() float64 { return c.gate }

// Classify returns one Classification per region, in region order.
func (c *Classifier) Classify(regions []Characteristics) []Classification {
	out := make([]Classification, len(regions))
	for i, r := range regions {
		out[i] = c.classifyOne(r)
	}
	return out
}

func (c *Classifier) classifyOne(r Characteristics) Classification {
	best := math.Inf(1)
	result := Classification{Label: LabelUnknown}

	for _, class := range c.classes {
		if !c.admits(class, r) {
			continue
		}
		d := normalizedDistance(class, r)
		if d < best {
			best = d
			result = Classification{Label: class.Label}
			if class.Label.IsLong() {
				theta := r.Theta
				result.Angle = &theta
			}
		}
	}
	return result
}

func (c *Classifier) admits(class TrainedClass, r Characteristics) bool {
	return math.Abs(r.Phi1-class.MeanPhi1) <= c.gate &&
		math.Abs(r.Phi2-class.MeanPhi2) <= c.gate
}

// normalizedDistance is the squared distance in units of each axis's sigma.
// A zero sigma makes any deviation on that axis infinitely far, while an exact
// match on it contributes nothing.
func normalizedDistance(class TrainedClass, r Characteristics) float64 {
	return axisTerm(r.Phi1-class.MeanPhi1, class.SigmaPhi1) +
		axisTerm(r.Phi2-class.MeanPhi2, class.SigmaPhi2)
}

func axisTerm(delta, sigma float64) float64 {
	if sigma == 0 {
		if delta == 0 {
			return 0
		}
		return math.Inf(1)
	}
	z := delta / sigma
	return z * z
}
