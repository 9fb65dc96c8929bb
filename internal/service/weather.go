package service

import (
	"sync"
	"time"

	"github.com/saaga0h/lumen-platform/internal/daylight"
)

// weatherState tracks the last weather context heard for a location
type weatherState struct {
	weather  daylight.Weather
	received time.Time
}

// WeatherTracker keeps per-location weather context from MQTT and
// expires it after a staleness window so the engine falls back to
// clear-sky behavior when the weather bridge goes quiet.
type WeatherTracker struct {
	mu       sync.RWMutex
	states   map[string]weatherState
	staleTTL time.Duration
}

// NewWeatherTracker creates a tracker with the given staleness window
func NewWeatherTracker(staleTTL time.Duration) *WeatherTracker {
	return &WeatherTracker{
		states:   make(map[string]weatherState),
		staleTTL: staleTTL,
	}
}

// Update records a weather observation for a location
func (t *WeatherTracker) Update(location string, weather daylight.Weather, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[location] = weatherState{weather: weather, received: at}
}

// Current returns the weather for a location, or nil (clear sky) when
// nothing fresh is known.
func (t *WeatherTracker) Current(location string, now time.Time) *daylight.Weather {
	t.mu.RLock()
	defer t.mu.RUnlock()

	state, ok := t.states[location]
	if !ok || now.Sub(state.received) > t.staleTTL {
		return nil
	}
	w := state.weather
	return &w
}

// Locations returns every location with a tracked weather state
func (t *WeatherTracker) Locations() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	locations := make([]string, 0, len(t.states))
	for location := range t.states {
		locations = append(locations, location)
	}
	return locations
}
