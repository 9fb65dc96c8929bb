package curve

import "math"

// Factors holds the normalized outputs of a physical curve evaluation.
// Raw is the unnormalized intensity at the evaluated altitude and is
// only meaningful for physics-capable curves, where it feeds the
// weather modifier and absolute light output.
type Factors struct {
	CCT       float64
	Intensity float64
	Raw       float64
}

const (
	// CivilTwilightDeg is the altitude below which every model reports
	// zero color temperature contribution
	CivilTwilightDeg = -6.0

	// Exponential decay constants for the Beer-Lambert family
	decayPhysics   = 0.05
	decayBlackbody = 0.08
	decayHazy      = 0.03

	// Atmospheric transmittance per model
	tauPhysics   = 0.75
	tauBlackbody = 0.70
	tauHazy      = 0.50

	// Altitudes at or below this raw ceiling are treated as polar
	// night: the day never brightens enough to normalize against
	rawEpsilon = 1e-6
)

// segment is one piece of a piecewise altitude function. It applies
// while the altitude in degrees is strictly below UpToDeg.
type segment struct {
	UpToDeg float64
	Eval    func(altDeg float64) float64
}

// piecewise is an ordered list of segments; the final segment must use
// +Inf so every altitude maps to a value.
type piecewise []segment

func (p piecewise) at(altDeg float64) float64 {
	for _, s := range p {
		if altDeg < s.UpToDeg {
			return clamp01(s.Eval(altDeg))
		}
	}
	return 0
}

// Knots returns the interior breakpoints of the piecewise function so
// tests can enumerate them directly.
func (p piecewise) Knots() []float64 {
	knots := make([]float64, 0, len(p))
	for _, s := range p {
		if !math.IsInf(s.UpToDeg, 1) {
			knots = append(knots, s.UpToDeg)
		}
	}
	return knots
}

// sunAltitudeCCT rises linearly through civil twilight, then follows a
// quarter sine up to 40 degrees where it saturates.
var sunAltitudeCCT = piecewise{
	{CivilTwilightDeg, func(float64) float64 { return 0 }},
	{0, func(a float64) float64 { return 0.30 * (a + 6) / 6 }},
	{40, func(a float64) float64 { return 0.30 + 0.70*math.Sin((a/40)*(math.Pi/2)) }},
	{math.Inf(1), func(float64) float64 { return 1 }},
}

// cieDaylightCCT approximates the CIE daylight locus with two linear
// ramps above the horizon.
var cieDaylightCCT = piecewise{
	{CivilTwilightDeg, func(float64) float64 { return 0 }},
	{0, func(a float64) float64 { return 0.25 * (a + 6) / 6 }},
	{30, func(a float64) float64 { return 0.25 + 0.65*(a/30) }},
	{60, func(a float64) float64 { return 0.90 + 0.10*((a-30)/30) }},
	{math.Inf(1), func(float64) float64 { return 1 }},
}

// perezDaylightCCT uses sinusoidal ramps through twilight and the low
// sky, saturating at 50 degrees.
var perezDaylightCCT = piecewise{
	{CivilTwilightDeg, func(float64) float64 { return 0 }},
	{0, func(a float64) float64 { return 0.20 * math.Sin(((a + 6) / 6) * (math.Pi / 2)) }},
	{50, func(a float64) float64 { return 0.20 + 0.80*math.Sin((a/50)*(math.Pi/2)) }},
	{math.Inf(1), func(float64) float64 { return 1 }},
}

func exponentialCCT(k float64) piecewise {
	return piecewise{
		{CivilTwilightDeg, func(float64) float64 { return 0 }},
		{math.Inf(1), func(a float64) float64 { return 1 - math.Exp(-k*(a+6)) }},
	}
}

var (
	physicsCCT   = exponentialCCT(decayPhysics)
	blackbodyCCT = exponentialCCT(decayBlackbody)
	hazyCCT      = exponentialCCT(decayHazy)
)

// cctModel returns the piecewise CCT function for a physical kind
func cctModel(kind Kind) piecewise {
	switch kind {
	case SunAltitude:
		return sunAltitudeCCT
	case CIEDaylight:
		return cieDaylightCCT
	case PerezDaylight:
		return perezDaylightCCT
	case Physics:
		return physicsCCT
	case Blackbody:
		return blackbodyCCT
	case Hazy:
		return hazyCCT
	}
	return nil
}

// CCTKnots exposes the altitude breakpoints of a physical model
func CCTKnots(kind Kind) []float64 {
	p := cctModel(kind)
	if p == nil {
		return nil
	}
	return p.Knots()
}

// Airmass approximates the relative optical path length of direct
// sunlight through the atmosphere using the Kasten-Young formula. The
// altitude is clamped at -0.5 degrees to keep the expression defined
// near and below the horizon.
func Airmass(altDeg float64) float64 {
	gamma := math.Max(-0.5, altDeg)
	return 1 / (math.Sin(degToRad(gamma)) + 0.50572*math.Pow(gamma+6.07995, -1.6364))
}

// twilightGlow models the ambient sky component: quadratic decay
// through civil twilight and a gentle linear gain above the horizon.
func twilightGlow(altDeg float64) float64 {
	if altDeg <= CivilTwilightDeg {
		return 0
	}
	if altDeg < 0 {
		t := (altDeg + 6) / 6
		return 0.20 * t * t
	}
	return 0.20 + 0.002*altDeg
}

// rawBeerLambert computes the unnormalized intensity for the
// Beer-Lambert family: a direct component attenuated along the airmass
// path plus the ambient twilight glow.
func rawBeerLambert(tau, altDeg float64) float64 {
	direct := 0.0
	if altDeg > CivilTwilightDeg {
		direct = math.Pow(tau, Airmass(altDeg))
	}
	return direct + twilightGlow(altDeg)
}

// rawIntensity evaluates the model-specific raw intensity at an
// altitude. The hand-tuned models reuse their CCT shape; the
// Beer-Lambert family uses transmittance and airmass.
func rawIntensity(kind Kind, altDeg float64) float64 {
	switch kind {
	case Physics:
		return rawBeerLambert(tauPhysics, altDeg)
	case Blackbody:
		return rawBeerLambert(tauBlackbody, altDeg)
	case Hazy:
		return rawBeerLambert(tauHazy, altDeg)
	default:
		p := cctModel(kind)
		if p == nil {
			return 0
		}
		return p.at(altDeg)
	}
}

// EvaluatePhysical evaluates a physical curve at the given sun altitude
// and the day's maximum altitude, both in radians. The intensity factor
// is normalized against the maximum altitude so it reaches exactly 1.0
// at solar noon; if the day never brightens (polar night) the factor
// is 0.
func EvaluatePhysical(kind Kind, altitudeRad, maxAltitudeRad float64) Factors {
	if math.IsNaN(altitudeRad) || math.IsNaN(maxAltitudeRad) {
		return Factors{}
	}

	altDeg := radToDeg(altitudeRad)
	maxDeg := radToDeg(maxAltitudeRad)

	p := cctModel(kind)
	if p == nil {
		return Factors{}
	}

	raw := rawIntensity(kind, altDeg)
	rawMax := rawIntensity(kind, maxDeg)

	intensity := 0.0
	if rawMax > rawEpsilon {
		intensity = clamp01(raw / rawMax)
	}

	return Factors{
		CCT:       p.at(altDeg),
		Intensity: intensity,
		Raw:       raw,
	}
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

func radToDeg(rad float64) float64 {
	return rad * (180.0 / math.Pi)
}
