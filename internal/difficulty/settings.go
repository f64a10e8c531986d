// Package difficulty maps campaign days to shift and generation settings.
//
// SettingsForDay is a pure function of the day number: the same day always
// yields the same settings, and days past the end of the table fall back to
// the final entry so an arbitrarily long campaign keeps working.
package difficulty

import "time"

// FallbackShiftDuration is the safe shift length used when a configured
// duration is rejected as invalid.
const FallbackShiftDuration = 30 * time.Second

// Campaign-wide scaling constants.
const (
	// IncreasePerDay is the additive multiplier growth applied per day.
	IncreasePerDay = 0.15
	// MaxMultiplier caps the difficulty multiplier for late-campaign days.
	MaxMultiplier = 3.0
)

// Generation holds the encounter generation knobs for a day.
type Generation struct {
	// BaseInterval is the nominal delay between generated encounters
	// before difficulty scaling.
	BaseInterval time.Duration
	// Variation is the half-width of the uniform jitter applied to each
	// rescheduled generation time.
	Variation time.Duration
	// PerDayCap bounds how many encounters may be generated in one day.
	PerDayCap int
	// MaxQueueSize bounds the pending encounter queue.
	MaxQueueSize int
}

// Settings describes one day's shift parameters.
type Settings struct {
	Day               int
	ShiftDuration     time.Duration
	Quota             int
	// WarningThresholds are checked in descending order; crossing the
	// first enters the Warning phase and crossing the last enters the
	// Critical phase.
	WarningThresholds []time.Duration
	MaxBonusTime      time.Duration
	BonusMultiplier   float64
	Generation        Generation
}

var defaultThresholds = []time.Duration{60 * time.Second, 30 * time.Second, 10 * time.Second}

var defaultGeneration = Generation{
	BaseInterval: 20 * time.Second,
	Variation:    4 * time.Second,
	PerDayCap:    24,
	MaxQueueSize: 5,
}

// table holds hand-tuned settings for the scripted portion of the campaign.
// Days beyond the table reuse the final entry with the day number adjusted.
var table = []Settings{
	{Day: 1, ShiftDuration: 120 * time.Second, Quota: 4, WarningThresholds: defaultThresholds, MaxBonusTime: 30 * time.Second, BonusMultiplier: 1.0, Generation: defaultGeneration},
	{Day: 2, ShiftDuration: 150 * time.Second, Quota: 5, WarningThresholds: defaultThresholds, MaxBonusTime: 30 * time.Second, BonusMultiplier: 1.0, Generation: defaultGeneration},
	{Day: 3, ShiftDuration: 150 * time.Second, Quota: 6, WarningThresholds: defaultThresholds, MaxBonusTime: 45 * time.Second, BonusMultiplier: 1.1, Generation: defaultGeneration},
	{Day: 4, ShiftDuration: 180 * time.Second, Quota: 7, WarningThresholds: defaultThresholds, MaxBonusTime: 45 * time.Second, BonusMultiplier: 1.1, Generation: defaultGeneration},
	{Day: 5, ShiftDuration: 180 * time.Second, Quota: 8, WarningThresholds: defaultThresholds, MaxBonusTime: 60 * time.Second, BonusMultiplier: 1.2, Generation: defaultGeneration},
	{Day: 6, ShiftDuration: 210 * time.Second, Quota: 9, WarningThresholds: defaultThresholds, MaxBonusTime: 60 * time.Second, BonusMultiplier: 1.2, Generation: defaultGeneration},
	{Day: 7, ShiftDuration: 210 * time.Second, Quota: 10, WarningThresholds: defaultThresholds, MaxBonusTime: 60 * time.Second, BonusMultiplier: 1.3, Generation: defaultGeneration},
	{Day: 8, ShiftDuration: 240 * time.Second, Quota: 11, WarningThresholds: defaultThresholds, MaxBonusTime: 60 * time.Second, BonusMultiplier: 1.3, Generation: defaultGeneration},
	{Day: 9, ShiftDuration: 240 * time.Second, Quota: 12, WarningThresholds: defaultThresholds, MaxBonusTime: 60 * time.Second, BonusMultiplier: 1.4, Generation: defaultGeneration},
	{Day: 10, ShiftDuration: 270 * time.Second, Quota: 13, WarningThresholds: defaultThresholds, MaxBonusTime: 60 * time.Second, BonusMultiplier: 1.5, Generation: defaultGeneration},
}

// SettingsForDay returns the settings for the given day. Days below 1 are
// treated as day 1; days past the table reuse the final scripted entry.
func SettingsForDay(day int) Settings {
	if day < 1 {
		day = 1
	}
	var s Settings
	if day <= len(table) {
		s = table[day-1]
	} else {
		s = table[len(table)-1]
	}
	s.Day = day
	return s
}

// MultiplierForDay returns min(1+(day-1)*IncreasePerDay, MaxMultiplier).
// It is recomputed once per day-start event, never mid-day.
func MultiplierForDay(day int) float64 {
	if day < 1 {
		day = 1
	}
	m := 1 + float64(day-1)*IncreasePerDay
	if m > MaxMultiplier {
		return MaxMultiplier
	}
	return m
}
