package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaga0h/lumen-platform/internal/daylight"
)

func TestWeatherTracker_FreshAndStale(t *testing.T) {
	tracker := NewWeatherTracker(60 * time.Minute)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tracker.Update("home", daylight.Weather{CloudCover: 0.6, Precipitation: daylight.PrecipitationRain}, now)

	// Fresh observation is returned
	w := tracker.Current("home", now.Add(30*time.Minute))
	require.NotNil(t, w)
	assert.Equal(t, 0.6, w.CloudCover)
	assert.Equal(t, daylight.PrecipitationRain, w.Precipitation)

	// Stale observation falls back to clear sky
	assert.Nil(t, tracker.Current("home", now.Add(61*time.Minute)))

	// Unknown location is clear sky
	assert.Nil(t, tracker.Current("cabin", now))
}

func TestWeatherTracker_UpdateReplacesState(t *testing.T) {
	tracker := NewWeatherTracker(60 * time.Minute)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tracker.Update("home", daylight.Weather{CloudCover: 0.9}, now)
	tracker.Update("home", daylight.Weather{CloudCover: 0.1}, now.Add(10*time.Minute))

	w := tracker.Current("home", now.Add(15*time.Minute))
	require.NotNil(t, w)
	assert.Equal(t, 0.1, w.CloudCover)

	// A newer update also refreshes the staleness clock
	assert.NotNil(t, tracker.Current("home", now.Add(69*time.Minute)))
}

func TestWeatherTracker_Locations(t *testing.T) {
	tracker := NewWeatherTracker(time.Hour)
	now := time.Now()

	assert.Empty(t, tracker.Locations())

	tracker.Update("home", daylight.Weather{}, now)
	tracker.Update("office", daylight.Weather{}, now)

	assert.ElementsMatch(t, []string{"home", "office"}, tracker.Locations())
}

func TestWeatherTracker_CurrentReturnsCopy(t *testing.T) {
	tracker := NewWeatherTracker(time.Hour)
	now := time.Now()
	tracker.Update("home", daylight.Weather{CloudCover: 0.5}, now)

	w := tracker.Current("home", now)
	require.NotNil(t, w)
	w.CloudCover = 0.99

	again := tracker.Current("home", now)
	require.NotNil(t, again)
	assert.Equal(t, 0.5, again.CloudCover, "Caller mutation must not leak into tracker state")
}
