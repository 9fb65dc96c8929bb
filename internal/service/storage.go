// Package service runs the circadian agent: it periodically evaluates
// the daylight engine for the configured location, publishes lighting
// targets over MQTT, caches state in Redis, and optionally records
// history in Postgres.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/saaga0h/lumen-platform/internal/daylight"
	"github.com/saaga0h/lumen-platform/pkg/config"
	"github.com/saaga0h/lumen-platform/pkg/redis"
)

// TargetRecord is the stored form of one published lighting target
type TargetRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Curve       string    `json:"curve"`
	CCT         int       `json:"cct"`
	Intensity   int       `json:"intensity"`
	LightOutput float64   `json:"light_output,omitempty"`
	CloudCover  float64   `json:"cloud_cover,omitempty"`
}

// Storage handles Redis persistence of circadian state
type Storage struct {
	redis  redis.Client
	cfg    *config.Config
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(redisClient redis.Client, cfg *config.Config, logger *slog.Logger) *Storage {
	return &Storage{
		redis:  redisClient,
		cfg:    cfg,
		logger: logger,
	}
}

// StoreTarget stores the latest target and appends it to the location's
// timeline. Timeline entries older than a day are pruned.
func (s *Storage) StoreTarget(ctx context.Context, location string, record TargetRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal target record: %w", err)
	}

	currentKey := redis.CurrentTargetKey(location)
	if err := s.redis.Set(ctx, currentKey, payload, 24*time.Hour); err != nil {
		return err
	}

	timelineKey := redis.TargetTimelineKey(location)
	score := float64(record.Timestamp.UnixMilli())
	if err := s.redis.ZAdd(ctx, timelineKey, score, payload); err != nil {
		return err
	}

	cutoff := record.Timestamp.Add(-24 * time.Hour).UnixMilli()
	if err := s.redis.ZRemRangeByScore(ctx, timelineKey, "0", fmt.Sprintf("%d", cutoff)); err != nil {
		s.logger.Warn("Failed to prune target timeline", "location", location, "error", err)
	}
	if err := s.redis.Expire(ctx, timelineKey, 48*time.Hour); err != nil {
		s.logger.Warn("Failed to set timeline TTL", "location", location, "error", err)
	}

	return nil
}

// GetCurrentTarget retrieves the latest stored target for a location
func (s *Storage) GetCurrentTarget(ctx context.Context, location string) (*TargetRecord, error) {
	raw, err := s.redis.Get(ctx, redis.CurrentTargetKey(location))
	if err != nil {
		return nil, err
	}

	var record TargetRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("failed to parse stored target: %w", err)
	}
	return &record, nil
}

// GetTimeline retrieves stored targets within a time window
func (s *Storage) GetTimeline(ctx context.Context, location string, start, end time.Time) ([]TargetRecord, error) {
	members, err := s.redis.ZRangeByScoreWithScores(ctx, redis.TargetTimelineKey(location),
		float64(start.UnixMilli()), float64(end.UnixMilli()))
	if err != nil {
		return nil, err
	}

	records := make([]TargetRecord, 0, len(members))
	for _, m := range members {
		var record TargetRecord
		if err := json.Unmarshal([]byte(m.Member), &record); err != nil {
			s.logger.Warn("Skipping unparsable timeline entry", "location", location, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// CacheSchedule stores a generated schedule for its date so repeated
// callers within the day reuse it.
func (s *Storage) CacheSchedule(ctx context.Context, location string, schedule *daylight.Schedule) error {
	payload, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	key := redis.ScheduleKey(location, schedule.Date.Format(time.DateOnly))
	return s.redis.Set(ctx, key, payload, 48*time.Hour)
}
