// Package daylight computes circadian lighting targets: a correlated
// color temperature and a normalized intensity tracking the natural
// daylight cycle at a location, plus full-day schedules of such
// targets.
package daylight

import "math"

// Built-in defaults applied when the caller supplies no bounds
const (
	DefaultCCTMinK         = 1700
	DefaultCCTMaxK         = 5500
	DefaultIntensityMinPct = 5.0
	DefaultIntensityMaxPct = 100.0
)

// Bounds constrains the calculator's output range. Min and max need
// not be ordered by the caller; they are normalized before use.
type Bounds struct {
	CCTMinK         int
	CCTMaxK         int
	IntensityMinPct float64
	IntensityMaxPct float64
}

// DefaultBounds returns the built-in output range
func DefaultBounds() Bounds {
	return Bounds{
		CCTMinK:         DefaultCCTMinK,
		CCTMaxK:         DefaultCCTMaxK,
		IntensityMinPct: DefaultIntensityMinPct,
		IntensityMaxPct: DefaultIntensityMaxPct,
	}
}

// normalizedBounds is the internal working form: ordered Kelvin range
// and intensity converted to tenths of a percent for integer output.
type normalizedBounds struct {
	minK      int
	maxK      int
	minTenths int
	maxTenths int
}

// normalize orders min/max and converts percentages to tenths of a
// percent. Degenerate bounds are repaired by swapping, never rejected.
func (b Bounds) normalize() normalizedBounds {
	minK, maxK := b.CCTMinK, b.CCTMaxK
	if minK > maxK {
		minK, maxK = maxK, minK
	}

	minPct, maxPct := b.IntensityMinPct, b.IntensityMaxPct
	if math.IsNaN(minPct) {
		minPct = DefaultIntensityMinPct
	}
	if math.IsNaN(maxPct) {
		maxPct = DefaultIntensityMaxPct
	}
	if minPct > maxPct {
		minPct, maxPct = maxPct, minPct
	}

	return normalizedBounds{
		minK:      minK,
		maxK:      maxK,
		minTenths: int(math.Round(minPct * 10)),
		maxTenths: int(math.Round(maxPct * 10)),
	}
}

// Result is one computed lighting target. Intensity is expressed in
// tenths of a percent (0-1000) to keep one decimal of precision in
// integer form. LightOutput is an absolute lux figure, present only
// for physics-capable curves (zero otherwise).
type Result struct {
	CCT         int     `json:"cct"`
	Intensity   int     `json:"intensity"`
	LightOutput float64 `json:"light_output,omitempty"`
}
