package detect

import (
	"encoding/json"
	"fmt"
)

// ============================================================================
// DETECTION TYPES — methods, severities, styles, candidates
// ============================================================================

// Method names a detection method.
type Method string

const (
	MethodZScore      Method = "zscore"
	MethodIQR         Method = "iqr"
	MethodMinMax      Method = "minmax"
	MethodChangepoint Method = "changepoint"
)

// AllMethods is the default method set, in priority order.
var AllMethods = []Method{MethodZScore, MethodIQR, MethodMinMax, MethodChangepoint}

// methodPriority fixes the merge order so concurrent evaluation cannot
// introduce nondeterminism.
var methodPriority = map[Method]int{
	MethodZScore:      0,
	MethodIQR:         1,
	MethodMinMax:      2,
	MethodChangepoint: 3,
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	_, ok := methodPriority[m]
	return ok
}

// Severity is the ordinal strength of an anomaly.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalJSON encodes the severity as its lowercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a lowercase severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "low":
		*s = SeverityLow
	case "medium":
		*s = SeverityMedium
	case "high":
		*s = SeverityHigh
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Style names a highlight overlay style understood by the renderer.
type Style string

const (
	StyleHaloRing        Style = "halo_ring"
	StyleColorShift      Style = "color_shift"
	StyleGlow            Style = "glow"
	StyleSizeBoost       Style = "size_boost"
	StyleAnnotationArrow Style = "annotation_arrow"
	StyleBandShade       Style = "band_shade"
	StyleCombo           Style = "combo"
)

// candidate is a single method's raw flag on a row, before merging.
type candidate struct {
	row      int     // canonical row index
	value    float64 // column value at the row
	method   Method
	score    float64 // method-native score (|z|, IQR distance, mean shift)
	norm     float64 // score rescaled to 0..1 against the method's threshold
	severity Severity
	label    string
}

// normalize rescales a method-native score so that a score exactly at the
// method's threshold maps to 0.5 and twice the threshold saturates at 1.
// This makes heterogeneous methods comparable when merging.
func normalize(score, threshold float64) float64 {
	if threshold <= 0 {
		return 1
	}
	n := 0.5 * score / threshold
	if n > 1 {
		return 1
	}
	if n < 0 {
		return 0
	}
	return n
}
