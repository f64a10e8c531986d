// Package shift implements the countdown clock that governs one work shift.
//
// A Clock is created once and reset at each shift start rather than being
// reallocated. It owns remaining time, bonus-time accumulation, and the
// warning-phase classification derived from the configured thresholds. It
// never mutates anything outside itself: callers receive tick results and
// decide what to do with them.
package shift

import (
	"errors"
	"time"
)

// ErrInvalidDuration indicates a shift was started with a non-positive
// duration. Callers are expected to fall back to a safe default length and
// log the configuration defect rather than start a zero-length shift.
var ErrInvalidDuration = errors.New("shift duration must be positive")

// Phase classifies the remaining shift time for display and alerting.
type Phase int

const (
	// PhaseUnspecified represents an invalid phase value.
	PhaseUnspecified Phase = iota
	// PhaseNormal indicates no warning threshold has been crossed.
	PhaseNormal
	// PhaseWarning indicates the first warning threshold has been crossed.
	PhaseWarning
	// PhaseCritical indicates the final warning threshold has been crossed.
	PhaseCritical
	// PhaseBonus indicates bonus time is still being consumed.
	PhaseBonus
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNormal:
		return "normal"
	case PhaseWarning:
		return "warning"
	case PhaseCritical:
		return "critical"
	case PhaseBonus:
		return "bonus"
	default:
		return "unspecified"
	}
}

// Warning describes one threshold crossing observed during a tick.
type Warning struct {
	// Level is the threshold index, 0 for the earliest (largest) threshold.
	Level int
	// Threshold is the configured remaining-time cutoff that was crossed.
	Threshold time.Duration
	// Remaining is the clock's remaining time after the tick.
	Remaining time.Duration
}

// TickResult reports what one tick observed. Each warning threshold fires at
// most once per shift, in descending threshold order; Expired is reported on
// exactly one tick per shift.
type TickResult struct {
	Warnings []Warning
	Expired  bool
}

// Clock tracks elapsed and remaining time for exactly one shift.
// Not goroutine-safe: the scheduling engine is its only writer.
type Clock struct {
	base      time.Duration
	total     time.Duration
	remaining time.Duration
	bonus     time.Duration
	maxBonus  time.Duration

	// thresholds are remaining-time cutoffs in strictly descending order.
	thresholds []time.Duration
	fired      []bool

	phase       Phase
	active      bool
	paused      bool
	expired     bool
	expiryFired bool
}

// NewClock creates an idle clock with the given warning thresholds and
// bonus-time cap. The thresholds slice is copied.
func NewClock(thresholds []time.Duration, maxBonus time.Duration) *Clock {
	c := &Clock{phase: PhaseNormal}
	c.Reconfigure(thresholds, maxBonus)
	return c
}

// Reconfigure installs a new day's warning thresholds and bonus cap. It is
// called between shifts; reconfiguring a running clock also resets the
// per-shift warning tracking.
func (c *Clock) Reconfigure(thresholds []time.Duration, maxBonus time.Duration) {
	c.thresholds = append([]time.Duration(nil), thresholds...)
	c.fired = make([]bool, len(c.thresholds))
	if maxBonus < 0 {
		maxBonus = 0
	}
	c.maxBonus = maxBonus
}

// Start resets the clock for a new shift of the given duration plus bonus.
// It fails with ErrInvalidDuration when duration is not positive, leaving
// the clock untouched.
func (c *Clock) Start(duration, bonus time.Duration) error {
	if duration <= 0 {
		return ErrInvalidDuration
	}
	if bonus < 0 {
		bonus = 0
	}
	if bonus > c.maxBonus {
		bonus = c.maxBonus
	}

	c.base = duration
	c.bonus = bonus
	c.total = duration + bonus
	c.remaining = c.total
	c.active = true
	c.paused = false
	c.expired = false
	c.expiryFired = false
	for i := range c.fired {
		c.fired[i] = false
	}
	c.phase = c.classify()
	return nil
}

// Tick advances the clock by dt. It is an idempotent no-op unless the clock
// is active, unpaused, and unexpired. Remaining time is clamped at zero;
// the expiry edge is reported exactly once per shift.
func (c *Clock) Tick(dt time.Duration) TickResult {
	var result TickResult
	if dt <= 0 || !c.active || c.paused || c.expired {
		return result
	}

	c.remaining -= dt
	if c.remaining < 0 {
		c.remaining = 0
	}

	for i, threshold := range c.thresholds {
		if c.fired[i] || c.remaining > threshold {
			continue
		}
		c.fired[i] = true
		result.Warnings = append(result.Warnings, Warning{
			Level:     i,
			Threshold: threshold,
			Remaining: c.remaining,
		})
	}

	c.phase = c.classify()

	if c.remaining == 0 {
		c.expired = true
		c.active = false
		if !c.expiryFired {
			c.expiryFired = true
			result.Expired = true
		}
	}
	return result
}

// AddBonus extends the running shift, clamped so accumulated bonus never
// exceeds the configured cap. It returns the amount actually applied; a
// fully clamped call or a call on an inactive or expired clock applies zero
// and is still considered a success.
func (c *Clock) AddBonus(d time.Duration) time.Duration {
	if d <= 0 || !c.active || c.expired {
		return 0
	}
	room := c.maxBonus - c.bonus
	if room <= 0 {
		return 0
	}
	if d > room {
		d = room
	}
	c.bonus += d
	c.total += d
	c.remaining += d
	c.phase = c.classify()
	return d
}

// Pause suspends ticking. Pausing an inactive clock is a no-op, preserving
// the invariant that a paused clock is always active.
func (c *Clock) Pause() {
	if !c.active {
		return
	}
	c.paused = true
}

// Resume clears a pause. Resuming a non-paused or inactive clock is a no-op.
func (c *Clock) Resume() {
	if !c.active || !c.paused {
		return
	}
	c.paused = false
}

// Stop force-ends the shift. It reports true only on the active-to-inactive
// edge so callers can gate "shift ended" effects; repeated calls are no-ops.
func (c *Clock) Stop() bool {
	if !c.active {
		return false
	}
	c.active = false
	c.paused = false
	return true
}

// Restore re-establishes a saved clock position without starting the shift.
// Remaining must satisfy 0 <= remaining <= total.
func (c *Clock) Restore(remaining, total time.Duration) error {
	if total <= 0 {
		return ErrInvalidDuration
	}
	if remaining < 0 || remaining > total {
		return errors.New("remaining time out of range")
	}
	c.base = total
	c.bonus = 0
	c.total = total
	c.remaining = remaining
	c.active = false
	c.paused = false
	c.expired = false
	c.expiryFired = false
	for i := range c.fired {
		c.fired[i] = false
	}
	c.phase = c.classify()
	return nil
}

// classify derives the phase from remaining time, thresholds, and bonus
// presence. Bonus wins while remaining time exceeds the base duration.
func (c *Clock) classify() Phase {
	if c.remaining > c.base {
		return PhaseBonus
	}
	if n := len(c.thresholds); n > 0 {
		if c.remaining <= c.thresholds[n-1] {
			return PhaseCritical
		}
		if c.remaining <= c.thresholds[0] {
			return PhaseWarning
		}
	}
	return PhaseNormal
}

// Remaining returns the remaining shift time.
func (c *Clock) Remaining() time.Duration { return c.remaining }

// Total returns the full shift length including applied bonus time.
func (c *Clock) Total() time.Duration { return c.total }

// Bonus returns the accumulated bonus time for this shift.
func (c *Clock) Bonus() time.Duration { return c.bonus }

// CurrentPhase returns the current alert phase.
func (c *Clock) CurrentPhase() Phase { return c.phase }

// Active reports whether the shift is running.
func (c *Clock) Active() bool { return c.active }

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool { return c.paused }

// Expired reports whether the shift ran out of time.
func (c *Clock) Expired() bool { return c.expired }
