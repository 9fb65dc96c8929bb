package daylight

import (
	"math"
	"time"

	"github.com/saaga0h/lumen-platform/internal/curve"
	"github.com/saaga0h/lumen-platform/internal/ephemeris"
)

// Source provides daylight instants and sun altitude. The production
// implementation is ephemeris.Provider; tests substitute fixtures.
type Source interface {
	Instants(t time.Time, lat, lon float64) ephemeris.Instants
	Altitude(t time.Time, lat, lon float64) float64
}

// polarDarkMargin substitutes for the astronomical night boundaries at
// latitudes where suncalc cannot produce them
const polarDarkMargin = 30 * time.Minute

// maxDaylightLux is the theoretical clear-sky illuminance with the sun
// at zenith, used to express raw intensity as absolute light output
const maxDaylightLux = 120000.0

// Calculate computes the lighting target for one location and instant.
// The result always lies inside the normalized bounds; astronomical
// edge cases (polar day, polar night, NaN instants) resolve to the
// darkest safe output rather than an error.
func Calculate(src Source, lat, lon float64, t time.Time, bounds Bounds, kind curve.Kind, weather *Weather) Result {
	nb := bounds.normalize()
	dark := Result{CCT: nb.minK, Intensity: nb.minTenths}

	if t.IsZero() {
		return dark
	}

	instants := src.Instants(t, lat, lon)

	if kind.IsEmpirical() {
		return calculateEmpirical(src, lat, lon, t, nb, kind, instants, dark)
	}
	return calculatePhysical(src, lat, lon, t, nb, kind, weather, instants, dark)
}

// darkBoundaries resolves the instants delimiting full darkness. When
// the astronomical night boundaries are unavailable the sunrise and
// sunset shifted by a fixed margin stand in; if those are unavailable
// too there is no boundary to apply.
func darkBoundaries(in ephemeris.Instants) (nightEnd, night time.Time, ok bool) {
	if ephemeris.Valid(in.NightEnd) && ephemeris.Valid(in.Night) {
		return in.NightEnd, in.Night, true
	}
	if ephemeris.Valid(in.Sunrise) && ephemeris.Valid(in.Sunset) {
		return in.Sunrise.Add(-polarDarkMargin), in.Sunset.Add(polarDarkMargin), true
	}
	return time.Time{}, time.Time{}, false
}

// isDark applies the inclusive dark-boundary rule: the nightEnd and
// night instants themselves count as dark.
func isDark(t, nightEnd, night time.Time) bool {
	return !t.After(nightEnd) || !t.Before(night)
}

func calculatePhysical(src Source, lat, lon float64, t time.Time, nb normalizedBounds, kind curve.Kind, weather *Weather, instants ephemeris.Instants, dark Result) Result {
	if nightEnd, night, ok := darkBoundaries(instants); ok && isDark(t, nightEnd, night) {
		return dark
	}

	altitude := src.Altitude(t, lat, lon)

	noon := instants.SolarNoon
	if !ephemeris.Valid(noon) {
		// Approximate solar noon with local clock noon
		noon = time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
	}
	maxAltitude := src.Altitude(noon, lat, lon)

	factors := curve.EvaluatePhysical(kind, altitude, maxAltitude)
	if kind.PhysicsCapable() && weather != nil {
		factors = weather.Apply(factors)
	}

	result := mapFactors(factors.CCT, factors.Intensity, nb, dark)
	if kind.PhysicsCapable() && !math.IsNaN(factors.Raw) {
		result.LightOutput = factors.Raw * maxDaylightLux
	}
	return result
}

func calculateEmpirical(src Source, lat, lon float64, t time.Time, nb normalizedBounds, kind curve.Kind, instants ephemeris.Instants, dark Result) Result {
	haveAnchors := ephemeris.Valid(instants.Sunrise) &&
		ephemeris.Valid(instants.Sunset) &&
		ephemeris.Valid(instants.SolarNoon) &&
		ephemeris.Valid(instants.NightEnd) &&
		ephemeris.Valid(instants.Night)

	if !haveAnchors {
		// Polar edge case: fall back to a clamped sine of altitude
		f := math.Sin(src.Altitude(t, lat, lon))
		if f < 0 || math.IsNaN(f) {
			f = 0
		}
		return mapFactors(f, f, nb, dark)
	}

	if isDark(t, instants.NightEnd, instants.Night) {
		return dark
	}

	// Morning half maps [nightEnd, solarNoon] to [0, 0.5], afternoon
	// half maps [solarNoon, night] to [0.5, 1]
	var x float64
	if !t.After(instants.SolarNoon) {
		span := instants.SolarNoon.Sub(instants.NightEnd)
		if span <= 0 {
			return dark
		}
		x = 0.5 * float64(t.Sub(instants.NightEnd)) / float64(span)
	} else {
		span := instants.Night.Sub(instants.SolarNoon)
		if span <= 0 {
			return dark
		}
		x = 0.5 + 0.5*float64(t.Sub(instants.SolarNoon))/float64(span)
	}

	f := curve.EvaluateEmpirical(kind, x)
	return mapFactors(f, f, nb, dark)
}

// mapFactors maps normalized factors linearly into the output bounds,
// rounding to integers. NaN factors resolve to the dark result.
func mapFactors(cctFactor, intensityFactor float64, nb normalizedBounds, dark Result) Result {
	if math.IsNaN(cctFactor) || math.IsNaN(intensityFactor) {
		return dark
	}

	cct := nb.minK + int(math.Round(clampFactor(cctFactor)*float64(nb.maxK-nb.minK)))
	intensity := nb.minTenths + int(math.Round(clampFactor(intensityFactor)*float64(nb.maxTenths-nb.minTenths)))
	return Result{CCT: cct, Intensity: intensity}
}

func clampFactor(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
