package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/saaga0h/lumen-platform/pkg/config"
	"github.com/saaga0h/lumen-platform/pkg/postgres"
)

// History records published targets in Postgres for later analysis
type History struct {
	pg     postgres.Client
	cfg    *config.Config
	logger *slog.Logger
}

// NewHistory creates a new History instance
func NewHistory(pgClient postgres.Client, cfg *config.Config, logger *slog.Logger) *History {
	return &History{
		pg:     pgClient,
		cfg:    cfg,
		logger: logger,
	}
}

// EnsureSchema creates the history table when it does not exist
func (h *History) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS circadian_targets (
			id UUID PRIMARY KEY,
			location TEXT NOT NULL,
			curve TEXT NOT NULL,
			cct INTEGER NOT NULL,
			intensity INTEGER NOT NULL,
			light_output DOUBLE PRECISION,
			cloud_cover DOUBLE PRECISION,
			computed_at TIMESTAMPTZ NOT NULL
		)`
	if _, err := h.pg.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure history schema: %w", err)
	}
	return nil
}

// Record inserts one published target
func (h *History) Record(ctx context.Context, location string, record TargetRecord) error {
	const insert = `
		INSERT INTO circadian_targets
			(id, location, curve, cct, intensity, light_output, cloud_cover, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := h.pg.Exec(ctx, insert,
		uuid.New(),
		location,
		record.Curve,
		record.CCT,
		record.Intensity,
		record.LightOutput,
		record.CloudCover,
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record target: %w", err)
	}
	return nil
}
