// Package event defines the typed notifications the scheduling engine emits
// and the dispatcher that fans them out.
//
// Notifications are facts that have already happened, not commands: they are
// emitted after the engine finishes a mutation pass, in order, at most once
// per logical event. The dispatcher is owned by the engine and lives exactly
// as long as it does; there is no process-wide bus.
package event

import (
	"time"

	"github.com/starhold/gatewatch/internal/encounter"
)

// Type identifies the type of an engine notification.
type Type string

// Day lifecycle notifications.
const (
	// TypeDayChanged records a calendar advance.
	TypeDayChanged Type = "day.changed"
	// TypeDaySettled records the day transition window closing.
	TypeDaySettled Type = "day.settled"
	// TypeQuotaReached records the daily quota being met.
	TypeQuotaReached Type = "day.quota_reached"
	// TypeDaySummary carries the end-of-shift report payload.
	TypeDaySummary Type = "day.summary"
)

// Shift lifecycle notifications.
const (
	// TypeShiftStarted records a shift clock starting.
	TypeShiftStarted Type = "shift.started"
	// TypeShiftEnded records a shift ending, by expiry or force.
	TypeShiftEnded Type = "shift.ended"
	// TypeTimeWarning records a warning threshold crossing.
	TypeTimeWarning Type = "shift.time_warning"
	// TypeShiftExpired records the clock reaching zero.
	TypeShiftExpired Type = "shift.expired"
)

// Encounter notifications.
const (
	// TypeEncounterGenerated records a new encounter entering the queue.
	TypeEncounterGenerated Type = "encounter.generated"
	// TypeEncounterStarted records an encounter becoming active.
	TypeEncounterStarted Type = "encounter.started"
	// TypeEncounterCompleted records an encounter being resolved.
	TypeEncounterCompleted Type = "encounter.completed"
)

// Campaign notifications.
const (
	// TypeCampaignOver records the terminal game-over transition.
	TypeCampaignOver Type = "campaign.over"
)

// Notice is one ordered notification with its typed payload.
type Notice struct {
	Type      Type
	Timestamp time.Time
	Payload   any
}

// DayChanged is the payload for TypeDayChanged.
type DayChanged struct {
	Day   int
	Quota int
}

// DaySettled is the payload for TypeDaySettled. It follows a DayChanged
// notice once the transition window has closed and work may flow again.
type DaySettled struct {
	Day int
}

// QuotaReached is the payload for TypeQuotaReached.
type QuotaReached struct {
	Day   int
	Ships int
}

// ShiftStarted is the payload for TypeShiftStarted.
type ShiftStarted struct {
	Day      int
	Duration time.Duration
	Bonus    time.Duration
}

// ShiftEnded is the payload for TypeShiftEnded.
type ShiftEnded struct {
	Day    int
	Forced bool
}

// TimeWarning is the payload for TypeTimeWarning.
type TimeWarning struct {
	Level     int
	Threshold time.Duration
	Remaining time.Duration
}

// ShiftExpired is the payload for TypeShiftExpired.
type ShiftExpired struct {
	Day int
}

// EncounterGenerated is the payload for TypeEncounterGenerated.
type EncounterGenerated struct {
	Record encounter.Record
}

// EncounterStarted is the payload for TypeEncounterStarted.
type EncounterStarted struct {
	Record encounter.Record
}

// EncounterCompleted is the payload for TypeEncounterCompleted.
type EncounterCompleted struct {
	Completed encounter.Completed
}

// DaySummary is the payload for TypeDaySummary, handed to the reporting
// collaborator when a shift ends.
type DaySummary struct {
	Day                 int
	ShipsProcessed      int
	Quota               int
	QuotaMet            bool
	TotalShipsProcessed int
	Generated           int
	Completed           int
	Expired             bool
}

// CampaignOver is the payload for TypeCampaignOver.
type CampaignOver struct {
	Day int
}
