// Package telemetry records simulation observations for later inspection.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/starhold/gatewatch/internal/engine/event"
	"github.com/starhold/gatewatch/internal/platform/id"
	"github.com/starhold/gatewatch/internal/storage"
)

// Appender is the narrow write side of the telemetry store.
type Appender interface {
	AppendTelemetryEvent(ctx context.Context, ev storage.TelemetryEvent) error
}

// Emitter turns engine notifications into telemetry rows for one campaign.
type Emitter struct {
	store      Appender
	campaignID string
	newID      func() (string, error)
	clock      func() time.Time
}

// NewEmitter creates an emitter for the given campaign.
func NewEmitter(store Appender, campaignID string) *Emitter {
	return &Emitter{
		store:      store,
		campaignID: campaignID,
		newID:      id.NewID,
		clock:      time.Now,
	}
}

// Emit records one event. It is a no-op when the emitter or store is nil.
func (e *Emitter) Emit(ctx context.Context, ev storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if ev.ID == "" {
		generated, err := e.newID()
		if err != nil {
			return fmt.Errorf("telemetry event id: %w", err)
		}
		ev.ID = generated
	}
	if ev.CampaignID == "" {
		ev.CampaignID = e.campaignID
	}
	if ev.RecordedAt.IsZero() {
		ev.RecordedAt = e.clock().UTC()
	}
	return e.store.AppendTelemetryEvent(ctx, ev)
}

// RecordNotice converts an engine notification into a telemetry row. The
// notification's simulated timestamp lands in the detail field; the row
// itself is stamped with wall-clock time.
func (e *Emitter) RecordNotice(ctx context.Context, day int, n event.Notice) error {
	return e.Emit(ctx, storage.TelemetryEvent{
		Day:    day,
		Kind:   string(n.Type),
		Detail: describePayload(n),
	})
}

func describePayload(n event.Notice) string {
	at := n.Timestamp.UTC().Format(time.RFC3339Nano)
	switch p := n.Payload.(type) {
	case event.DayChanged:
		return fmt.Sprintf("at=%s day=%d quota=%d", at, p.Day, p.Quota)
	case event.DaySettled:
		return fmt.Sprintf("at=%s day=%d", at, p.Day)
	case event.QuotaReached:
		return fmt.Sprintf("at=%s day=%d ships=%d", at, p.Day, p.Ships)
	case event.DaySummary:
		return fmt.Sprintf("at=%s day=%d ships=%d/%d quota_met=%t generated=%d completed=%d expired=%t",
			at, p.Day, p.ShipsProcessed, p.Quota, p.QuotaMet, p.Generated, p.Completed, p.Expired)
	case event.ShiftStarted:
		return fmt.Sprintf("at=%s day=%d duration=%s", at, p.Day, p.Duration)
	case event.ShiftEnded:
		return fmt.Sprintf("at=%s day=%d forced=%t", at, p.Day, p.Forced)
	case event.TimeWarning:
		return fmt.Sprintf("at=%s level=%d threshold=%s remaining=%s", at, p.Level, p.Threshold, p.Remaining)
	case event.ShiftExpired:
		return fmt.Sprintf("at=%s day=%d", at, p.Day)
	case event.EncounterGenerated:
		return fmt.Sprintf("at=%s id=%s type=%s threat=%d", at, p.Record.ID, p.Record.Type, p.Record.ThreatLevel)
	case event.EncounterStarted:
		return fmt.Sprintf("at=%s id=%s type=%s", at, p.Record.ID, p.Record.Type)
	case event.EncounterCompleted:
		return fmt.Sprintf("at=%s id=%s approved=%t", at, p.Completed.Record.ID, p.Completed.Decision.Approved)
	case event.CampaignOver:
		return fmt.Sprintf("at=%s day=%d", at, p.Day)
	default:
		return "at=" + at
	}
}
