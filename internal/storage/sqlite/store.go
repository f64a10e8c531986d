// Package sqlite implements the storage contracts on a single sqlite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/starhold/gatewatch/internal/platform/storage/sqlitemigrate"
	"github.com/starhold/gatewatch/internal/storage"
	"github.com/starhold/gatewatch/internal/storage/sqlite/migrations"
)

// Store persists campaign state and telemetry in one sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the sqlite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveCampaignState upserts the single state row for a campaign.
func (s *Store) SaveCampaignState(ctx context.Context, campaignID string, state storage.CampaignState) error {
	if strings.TrimSpace(campaignID) == "" {
		return fmt.Errorf("campaign id is required")
	}
	savedAt := state.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO campaign_states (campaign_id, day, ships_processed_today, total_ships_processed, remaining_ms, saved_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(campaign_id) DO UPDATE SET
    day = excluded.day,
    ships_processed_today = excluded.ships_processed_today,
    total_ships_processed = excluded.total_ships_processed,
    remaining_ms = excluded.remaining_ms,
    saved_at = excluded.saved_at`,
		campaignID,
		state.Day,
		state.ShipsProcessedToday,
		state.TotalShipsProcessed,
		state.Remaining.Milliseconds(),
		savedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save campaign state: %w", err)
	}
	return nil
}

// LoadCampaignState fetches the saved state for a campaign.
func (s *Store) LoadCampaignState(ctx context.Context, campaignID string) (storage.CampaignState, error) {
	var (
		state       storage.CampaignState
		remainingMS int64
		savedAtMS   int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT day, ships_processed_today, total_ships_processed, remaining_ms, saved_at
FROM campaign_states WHERE campaign_id = ?`, campaignID).Scan(
		&state.Day,
		&state.ShipsProcessedToday,
		&state.TotalShipsProcessed,
		&remainingMS,
		&savedAtMS,
	)
	if err == sql.ErrNoRows {
		return storage.CampaignState{}, fmt.Errorf("campaign %s: %w", campaignID, storage.ErrNotFound)
	}
	if err != nil {
		return storage.CampaignState{}, fmt.Errorf("load campaign state: %w", err)
	}
	state.Remaining = time.Duration(remainingMS) * time.Millisecond
	state.SavedAt = time.UnixMilli(savedAtMS).UTC()
	return state, nil
}

// AppendTelemetryEvent inserts one observation row.
func (s *Store) AppendTelemetryEvent(ctx context.Context, ev storage.TelemetryEvent) error {
	if strings.TrimSpace(ev.ID) == "" {
		return fmt.Errorf("telemetry event id is required")
	}
	recordedAt := ev.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO telemetry_events (id, campaign_id, day, kind, detail, recorded_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.CampaignID, ev.Day, ev.Kind, ev.Detail, recordedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}

// TelemetryEvents returns a campaign's observations in recording order.
func (s *Store) TelemetryEvents(ctx context.Context, campaignID string) ([]storage.TelemetryEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, campaign_id, day, kind, detail, recorded_at
FROM telemetry_events WHERE campaign_id = ?
ORDER BY recorded_at, id`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("query telemetry events: %w", err)
	}
	defer rows.Close()

	var events []storage.TelemetryEvent
	for rows.Next() {
		var (
			ev          storage.TelemetryEvent
			recordedAtMS int64
		)
		if err := rows.Scan(&ev.ID, &ev.CampaignID, &ev.Day, &ev.Kind, &ev.Detail, &recordedAtMS); err != nil {
			return nil, fmt.Errorf("scan telemetry event: %w", err)
		}
		ev.RecordedAt = time.UnixMilli(recordedAtMS).UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate telemetry events: %w", err)
	}
	return events, nil
}
