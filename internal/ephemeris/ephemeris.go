// Package ephemeris wraps the suncalc solar calculations behind a
// small provider with per-date caching. For high-latitude locations
// suncalc produces unusable instants for events that never occur
// (polar day and polar night); this package normalizes those to zero
// times so callers have a single way to test availability.
package ephemeris

import (
	"fmt"
	"sync"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Instants holds the named daylight instants for one date at one
// location. Any instant may be the zero time when the event does not
// occur; use Valid before relying on a value.
type Instants struct {
	NightEnd      time.Time `json:"nightEnd"`
	NauticalDawn  time.Time `json:"nauticalDawn"`
	Dawn          time.Time `json:"dawn"`
	Sunrise       time.Time `json:"sunrise"`
	SunriseEnd    time.Time `json:"sunriseEnd"`
	GoldenHourEnd time.Time `json:"goldenHourEnd"`
	SolarNoon     time.Time `json:"solarNoon"`
	GoldenHour    time.Time `json:"goldenHour"`
	SunsetStart   time.Time `json:"sunsetStart"`
	Sunset        time.Time `json:"sunset"`
	NauticalDusk  time.Time `json:"nauticalDusk"`
	Dusk          time.Time `json:"dusk"`
	Night         time.Time `json:"night"`
	Nadir         time.Time `json:"nadir"`
}

// Named returns the instants that actually occur, as (name, time)
// pairs in chronological field order.
func (in Instants) Named() []NamedInstant {
	all := []NamedInstant{
		{"nightEnd", in.NightEnd},
		{"nauticalDawn", in.NauticalDawn},
		{"dawn", in.Dawn},
		{"sunrise", in.Sunrise},
		{"sunriseEnd", in.SunriseEnd},
		{"goldenHourEnd", in.GoldenHourEnd},
		{"solarNoon", in.SolarNoon},
		{"goldenHour", in.GoldenHour},
		{"sunsetStart", in.SunsetStart},
		{"sunset", in.Sunset},
		{"nauticalDusk", in.NauticalDusk},
		{"dusk", in.Dusk},
		{"night", in.Night},
		{"nadir", in.Nadir},
	}

	named := make([]NamedInstant, 0, len(all))
	for _, ni := range all {
		if Valid(ni.Time) {
			named = append(named, ni)
		}
	}
	return named
}

// NamedInstant pairs a daylight event name with its time
type NamedInstant struct {
	Name string
	Time time.Time
}

// Valid reports whether a daylight instant is usable. This is the
// single availability predicate shared by the calculator and the
// schedule generator.
func Valid(t time.Time) bool {
	return !t.IsZero()
}

// cacheEntry holds the instants computed for one date at one location
type cacheEntry struct {
	instants Instants
}

// Provider computes daylight instants and sun altitude, caching the
// per-date instants the way the platform's other sun consumers do.
type Provider struct {
	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewProvider creates an ephemeris provider with an empty cache
func NewProvider() *Provider {
	return &Provider{cache: make(map[string]cacheEntry)}
}

// Instants returns the daylight instants for the date of t at the
// given coordinates. Results are cached per (date, lat, lon).
func (p *Provider) Instants(t time.Time, lat, lon float64) Instants {
	key := fmt.Sprintf("%s|%.4f|%.4f", t.Format(time.DateOnly), lat, lon)

	p.mu.RLock()
	entry, ok := p.cache[key]
	p.mu.RUnlock()
	if ok {
		return entry.instants
	}

	times := suncalc.GetTimes(t, lat, lon)
	instants := Instants{
		NightEnd:      sanitize(times[suncalc.NightEnd].Value, t),
		NauticalDawn:  sanitize(times[suncalc.NauticalDawn].Value, t),
		Dawn:          sanitize(times[suncalc.Dawn].Value, t),
		Sunrise:       sanitize(times[suncalc.Sunrise].Value, t),
		SunriseEnd:    sanitize(times[suncalc.SunriseEnd].Value, t),
		GoldenHourEnd: sanitize(times[suncalc.GoldenHourEnd].Value, t),
		SolarNoon:     sanitize(times[suncalc.SolarNoon].Value, t),
		GoldenHour:    sanitize(times[suncalc.GoldenHour].Value, t),
		SunsetStart:   sanitize(times[suncalc.SunsetStart].Value, t),
		Sunset:        sanitize(times[suncalc.Sunset].Value, t),
		NauticalDusk:  sanitize(times[suncalc.NauticalDusk].Value, t),
		Dusk:          sanitize(times[suncalc.Dusk].Value, t),
		Night:         sanitize(times[suncalc.Night].Value, t),
		Nadir:         sanitize(times[suncalc.Nadir].Value, t),
	}

	p.mu.Lock()
	p.cache[key] = cacheEntry{instants: instants}
	p.mu.Unlock()

	return instants
}

// Altitude returns the sun's altitude angle in radians at time t for
// the given coordinates.
func (p *Provider) Altitude(t time.Time, lat, lon float64) float64 {
	return suncalc.GetPosition(t, lat, lon).Altitude
}

// sanitize rejects instants that suncalc produced from undefined
// intermediate values. A usable instant must land within two days of
// the reference time; polar-case NaN arithmetic lands centuries away.
func sanitize(instant, ref time.Time) time.Time {
	if instant.IsZero() {
		return time.Time{}
	}
	diff := instant.Sub(ref)
	if diff < -48*time.Hour || diff > 48*time.Hour {
		return time.Time{}
	}
	return instant
}
