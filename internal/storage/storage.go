// Package storage defines the persistence contracts for campaign progress
// and telemetry. Implementations live in subpackages; consumers depend on
// these interfaces only.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// CampaignState is the persisted progress of a single campaign: the calendar
// position, the processing counters, and the clock position to restore.
type CampaignState struct {
	Day                 int
	ShipsProcessedToday int
	TotalShipsProcessed int
	Remaining           time.Duration
	SavedAt             time.Time
}

// CampaignStateStore persists one state row per campaign.
type CampaignStateStore interface {
	SaveCampaignState(ctx context.Context, campaignID string, state CampaignState) error
	LoadCampaignState(ctx context.Context, campaignID string) (CampaignState, error)
}

// TelemetryEvent is one recorded simulation observation.
type TelemetryEvent struct {
	ID         string
	CampaignID string
	Day        int
	Kind       string
	Detail     string
	RecordedAt time.Time
}

// TelemetryStore appends simulation observations for later inspection.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, ev TelemetryEvent) error
	TelemetryEvents(ctx context.Context, campaignID string) ([]TelemetryEvent, error)
}
