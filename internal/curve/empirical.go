package curve

import "math"

// Plateau boundaries for the wider-middle presets. The curve holds at
// exactly 1.0 between start and end of the plateau.
const (
	PlateauSmallStart  = 0.35
	PlateauSmallEnd    = 0.65
	PlateauMediumStart = 0.20
	PlateauMediumEnd   = 0.80
	PlateauLargeStart  = 0.10
	PlateauLargeEnd    = 0.90
)

// HannWindow evaluates the Hann window at day fraction x in [0,1].
// The value is 0 at both ends of the day and 1 at solar noon.
func HannWindow(x float64) float64 {
	x = clamp01(x)
	return 0.5 * (1 - math.Cos(2*math.Pi*x))
}

// WiderMiddle evaluates a plateau curve at day fraction x. Below the
// plateau the curve rises with a quarter sine, above it falls with a
// quarter cosine, and inside it returns exactly 1.
func WiderMiddle(x, plateauStart, plateauEnd float64) float64 {
	x = clamp01(x)
	switch {
	case x < plateauStart:
		return math.Sin((x / plateauStart) * (math.Pi / 2))
	case x > plateauEnd:
		return math.Cos(((x - plateauEnd) / (1 - plateauEnd)) * (math.Pi / 2))
	default:
		return 1
	}
}

// EvaluateEmpirical evaluates an empirical curve kind at day fraction x
// and returns the single factor applied to both CCT and intensity.
// Non-empirical kinds return 0.
func EvaluateEmpirical(kind Kind, x float64) float64 {
	switch kind {
	case Hann:
		return HannWindow(x)
	case WiderMiddleSmall:
		return WiderMiddle(x, PlateauSmallStart, PlateauSmallEnd)
	case WiderMiddleMedium:
		return WiderMiddle(x, PlateauMediumStart, PlateauMediumEnd)
	case WiderMiddleLarge:
		return WiderMiddle(x, PlateauLargeStart, PlateauLargeEnd)
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
