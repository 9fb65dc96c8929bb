package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saaga0h/lumen-platform/internal/curve"
	"github.com/saaga0h/lumen-platform/internal/daylight"
	"github.com/saaga0h/lumen-platform/internal/ephemeris"
	"github.com/saaga0h/lumen-platform/pkg/config"
	"github.com/saaga0h/lumen-platform/pkg/mqtt"
	"github.com/saaga0h/lumen-platform/pkg/redis"
)

// defaultLocation is used when no weather bridge has announced any
// location yet; targets are still published so fixtures can follow
// the clear-sky curve.
const defaultLocation = "home"

// Agent is the circadian lighting agent
type Agent struct {
	mqtt      mqtt.Client
	cfg       *config.Config
	logger    *slog.Logger
	storage   *Storage
	history   *History
	ephemeris *ephemeris.Provider
	weather   *WeatherTracker

	kind     curve.Kind
	bounds   daylight.Bounds
	luxTable daylight.LuxTable

	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewAgent creates a new circadian agent. The history argument may be
// nil when target recording is disabled.
func NewAgent(mqttClient mqtt.Client, redisClient redis.Client, history *History, cfg *config.Config, logger *slog.Logger) (*Agent, error) {
	kind, err := curve.ParseKind(cfg.Curve)
	if err != nil {
		return nil, err
	}

	return &Agent{
		mqtt:      mqttClient,
		cfg:       cfg,
		logger:    logger,
		storage:   NewStorage(redisClient, cfg, logger),
		history:   history,
		ephemeris: ephemeris.NewProvider(),
		weather:   NewWeatherTracker(time.Duration(cfg.WeatherStaleMinutes) * time.Minute),
		kind:      kind,
		bounds: daylight.Bounds{
			CCTMinK:         cfg.CCTMinK,
			CCTMaxK:         cfg.CCTMaxK,
			IntensityMinPct: cfg.IntensityMinPct,
			IntensityMaxPct: cfg.IntensityMaxPct,
		},
		luxTable: daylight.ParseLuxTable(cfg.LuxCalibration),
		stopChan: make(chan struct{}),
	}, nil
}

// Start starts the circadian agent and begins publishing targets
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting circadian agent",
		"service_name", a.cfg.ServiceName,
		"curve", a.kind.String(),
		"latitude", a.cfg.Latitude,
		"longitude", a.cfg.Longitude,
		"update_interval_sec", a.cfg.UpdateIntervalSec)

	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	if err := a.mqtt.Subscribe(mqtt.TopicWeatherContext, 0, a.handleWeatherMessage); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", mqtt.TopicWeatherContext, err)
	}

	// Cache today's schedule so dashboards can show the day's plan
	if err := a.cacheTodaySchedule(ctx); err != nil {
		a.logger.Warn("Failed to cache today's schedule", "error", err)
	}

	a.startUpdateLoop()

	a.logger.Info("Circadian agent started and ready")

	<-ctx.Done()
	a.logger.Info("Circadian agent stopping")
	return nil
}

// Stop gracefully stops the circadian agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping circadian agent")

	if a.ticker != nil {
		a.ticker.Stop()
	}
	close(a.stopChan)

	a.mqtt.Disconnect()

	a.logger.Info("Circadian agent stopped")
	return nil
}

// startUpdateLoop starts the periodic target publication loop
func (a *Agent) startUpdateLoop() {
	interval := time.Duration(a.cfg.UpdateIntervalSec) * time.Second
	a.ticker = time.NewTicker(interval)

	go func() {
		a.logger.Info("Starting target update loop", "interval_sec", a.cfg.UpdateIntervalSec)

		// Publish immediately rather than waiting a full interval
		a.publishTargets(time.Now())

		for {
			select {
			case <-a.ticker.C:
				a.publishTargets(time.Now())
			case <-a.stopChan:
				return
			}
		}
	}()
}

// publishTargets computes and publishes the current target for every
// tracked location
func (a *Agent) publishTargets(now time.Time) {
	ctx := context.Background()

	locations := a.weather.Locations()
	if len(locations) == 0 {
		locations = []string{defaultLocation}
	}

	for _, location := range locations {
		weather := a.weather.Current(location, now)
		result := daylight.Calculate(a.ephemeris, a.cfg.Latitude, a.cfg.Longitude, now, a.bounds, a.kind, weather)

		record := TargetRecord{
			Timestamp:   now,
			Curve:       a.kind.String(),
			CCT:         result.CCT,
			Intensity:   result.Intensity,
			LightOutput: result.LightOutput,
		}
		if weather != nil {
			record.CloudCover = weather.CloudCover
		}

		if err := a.publishTarget(location, result, weather); err != nil {
			a.logger.Error("Failed to publish target", "location", location, "error", err)
			continue
		}

		if err := a.storage.StoreTarget(ctx, location, record); err != nil {
			a.logger.Error("Failed to store target", "location", location, "error", err)
		}

		if a.history != nil {
			if err := a.history.Record(ctx, location, record); err != nil {
				a.logger.Warn("Failed to record target history", "location", location, "error", err)
			}
		}

		a.logger.Debug("Published circadian target",
			"location", location,
			"cct", result.CCT,
			"intensity", result.Intensity,
			"light_output", result.LightOutput)
	}
}

// publishTarget publishes both command and context messages for one
// location
func (a *Agent) publishTarget(location string, result daylight.Result, weather *daylight.Weather) error {
	timestamp := time.Now().Format(time.RFC3339)

	// Scale intensity by the fixture's calibrated output at this CCT
	// so warm settings do not under-light the room
	effectiveIntensity := result.Intensity
	if maxLux := a.luxTable.Interpolate(result.CCT); maxLux > 0 && len(a.luxTable) > 1 {
		peak := a.luxTable[len(a.luxTable)-1].MaxLux
		if peak > 0 {
			scaled := float64(result.Intensity) * (peak / maxLux)
			if scaled > 1000 {
				scaled = 1000
			}
			effectiveIntensity = int(scaled)
		}
	}

	commandMsg := map[string]interface{}{
		"id":         uuid.New().String(),
		"action":     "set",
		"color_temp": result.CCT,
		"brightness": float64(effectiveIntensity) / 10.0,
		"timestamp":  timestamp,
	}

	commandPayload, err := json.Marshal(commandMsg)
	if err != nil {
		return fmt.Errorf("failed to marshal command message: %w", err)
	}
	commandTopic := mqtt.LightCommandTopic(location)
	if err := a.mqtt.Publish(commandTopic, 0, false, commandPayload); err != nil {
		return fmt.Errorf("failed to publish command to %s: %w", commandTopic, err)
	}

	contextMsg := map[string]interface{}{
		"id":        uuid.New().String(),
		"source":    a.cfg.ServiceName,
		"type":      "circadian",
		"location":  location,
		"curve":     a.kind.String(),
		"cct":       result.CCT,
		"intensity": result.Intensity,
		"timestamp": timestamp,
	}
	if result.LightOutput > 0 {
		contextMsg["light_output"] = result.LightOutput
	}
	if weather != nil {
		contextMsg["cloud_cover"] = weather.CloudCover
	}

	contextPayload, err := json.Marshal(contextMsg)
	if err != nil {
		return fmt.Errorf("failed to marshal context message: %w", err)
	}
	contextTopic := mqtt.CircadianContextTopic(location)
	if err := a.mqtt.Publish(contextTopic, 0, false, contextPayload); err != nil {
		return fmt.Errorf("failed to publish context to %s: %w", contextTopic, err)
	}

	return nil
}

// handleWeatherMessage handles incoming weather context messages
func (a *Agent) handleWeatherMessage(msg mqtt.Message) {
	topic := msg.Topic()

	// Extract location from topic: automation/context/weather/{location}
	parts := strings.Split(topic, "/")
	if len(parts) != 4 {
		a.logger.Warn("Invalid weather topic format", "topic", topic)
		return
	}
	location := parts[3]

	var weatherMsg struct {
		CloudCover    float64 `json:"cloud_cover"`
		Precipitation string  `json:"precipitation"`
		Timestamp     string  `json:"timestamp"`
	}
	if err := json.Unmarshal(msg.Payload(), &weatherMsg); err != nil {
		a.logger.Error("Failed to parse weather message", "location", location, "error", err)
		return
	}

	a.logger.Debug("Received weather context",
		"location", location,
		"cloud_cover", weatherMsg.CloudCover,
		"precipitation", weatherMsg.Precipitation)

	a.weather.Update(location, daylight.Weather{
		CloudCover:    weatherMsg.CloudCover,
		Precipitation: weatherMsg.Precipitation,
	}, time.Now())
}

// cacheTodaySchedule generates and caches the full-day schedule for
// the configured location
func (a *Agent) cacheTodaySchedule(ctx context.Context) error {
	schedule, err := daylight.GenerateSchedule(a.ephemeris, daylight.ScheduleRequest{
		Latitude:        a.cfg.Latitude,
		Longitude:       a.cfg.Longitude,
		Date:            time.Now(),
		Curves:          a.kind.String(),
		IntervalMinutes: a.cfg.ScheduleIntervalMin,
		IncludeInstants: true,
		Bounds:          a.bounds,
	})
	if err != nil {
		return err
	}

	return a.storage.CacheSchedule(ctx, defaultLocation, schedule)
}
