// Package day tracks campaign calendar progression and per-day throughput.
//
// A Cycle answers the single question the encounter scheduler is allowed to
// ask: "can more work be accepted right now". No other component derives its
// own version of that condition.
package day

import (
	"errors"
	"time"
)

// ErrTransitionInProgress indicates a re-entrant day advance. Such calls are
// rejected, not queued.
var ErrTransitionInProgress = errors.New("day transition already in progress")

// Cycle owns the day counter and ship-processed counters for one campaign.
// Not goroutine-safe: the scheduling engine is its only writer.
type Cycle struct {
	currentDay          int
	shipsProcessedToday int
	totalShipsProcessed int
	quota               int

	shiftActive  bool
	campaignOver bool

	// transitioning is true only between a new-day request and the settle
	// deadline. transitionDeadline bounds how long the flag can stay set.
	transitioning      bool
	transitionDeadline time.Time

	settleWindow time.Duration
	quotaMet     bool
}

// RecordResult reports the outcome of one RecordShipProcessed call.
type RecordResult struct {
	// Recorded is false when the call was rejected (campaign over or a day
	// transition in progress).
	Recorded bool
	// QuotaMet is true only on the call where the daily count first reaches
	// the quota.
	QuotaMet bool
}

// NewCycle creates a cycle positioned at startingDay with the given quota.
// The settle window bounds how long a day transition may remain pending.
func NewCycle(startingDay, quota int, settleWindow time.Duration) *Cycle {
	if startingDay < 1 {
		startingDay = 1
	}
	if quota < 1 {
		quota = 1
	}
	if settleWindow < 0 {
		settleWindow = 0
	}
	return &Cycle{
		currentDay:   startingDay,
		quota:        quota,
		settleWindow: settleWindow,
	}
}

// StartNewDay advances the calendar. It fails with ErrTransitionInProgress
// when a transition is already pending, and rejects any advance once the
// campaign is over. On success the daily counter is zeroed, the new quota is
// installed, and the transition flag is set with a bounded deadline.
func (c *Cycle) StartNewDay(now time.Time, nextQuota int) error {
	if c.campaignOver {
		return errors.New("campaign is over")
	}
	if c.transitioning {
		return ErrTransitionInProgress
	}
	if nextQuota < 1 {
		nextQuota = 1
	}

	c.transitioning = true
	c.transitionDeadline = now.Add(c.settleWindow)
	c.currentDay++
	c.shipsProcessedToday = 0
	c.quota = nextQuota
	c.quotaMet = false
	return nil
}

// SettleTransition clears the transition flag once the settle deadline has
// passed. It reports true on the tick where the flag clears. Dependent
// resets are expected to have completed synchronously when the day started;
// the deadline only bounds how long the flag itself can block new work.
func (c *Cycle) SettleTransition(now time.Time) bool {
	if !c.transitioning || now.Before(c.transitionDeadline) {
		return false
	}
	c.transitioning = false
	return true
}

// RecordShipProcessed increments the daily and campaign totals. It refuses
// (without error) while the campaign is over or a transition is pending.
// The quota-met edge is reported exactly once per day.
func (c *Cycle) RecordShipProcessed() RecordResult {
	if c.campaignOver || c.transitioning {
		return RecordResult{}
	}
	c.shipsProcessedToday++
	c.totalShipsProcessed++

	result := RecordResult{Recorded: true}
	if !c.quotaMet && c.shipsProcessedToday >= c.quota {
		c.quotaMet = true
		result.QuotaMet = true
	}
	return result
}

// CanAcceptWork is the single gating predicate for encounter production:
// campaign not over, a shift active, clock time remaining, and no day
// transition pending.
func (c *Cycle) CanAcceptWork(clockRemaining time.Duration) bool {
	return !c.campaignOver && c.shiftActive && clockRemaining > 0 && !c.transitioning
}

// BeginShift marks the shift active. It reports false when a shift is
// already active or the campaign is over.
func (c *Cycle) BeginShift() bool {
	if c.campaignOver || c.shiftActive {
		return false
	}
	c.shiftActive = true
	return true
}

// EndShift clears the shift-active flag. It is idempotent: the report is
// true only on the active-to-inactive edge, so "shift ended" effects cannot
// double-fire even when a forced end races internal flags.
func (c *Cycle) EndShift() bool {
	if !c.shiftActive {
		return false
	}
	c.shiftActive = false
	return true
}

// EndCampaign permanently closes the campaign. Idempotent.
func (c *Cycle) EndCampaign() {
	c.campaignOver = true
	c.shiftActive = false
	c.transitioning = false
}

// LoadState re-establishes saved calendar counters. It validates the §3
// counter invariants before accepting the values.
func (c *Cycle) LoadState(day, shipsToday, totalShips, quota int) error {
	if day < 1 {
		return errors.New("day must be at least 1")
	}
	if shipsToday < 0 || totalShips < 0 {
		return errors.New("ship counters must be non-negative")
	}
	if shipsToday > totalShips {
		return errors.New("daily ships exceed campaign total")
	}
	if quota < 1 {
		quota = 1
	}
	c.currentDay = day
	c.shipsProcessedToday = shipsToday
	c.totalShipsProcessed = totalShips
	c.quota = quota
	c.quotaMet = shipsToday >= quota
	c.shiftActive = false
	c.transitioning = false
	c.campaignOver = false
	return nil
}

// CurrentDay returns the calendar day, starting at 1.
func (c *Cycle) CurrentDay() int { return c.currentDay }

// ShipsProcessedToday returns the daily throughput counter.
func (c *Cycle) ShipsProcessedToday() int { return c.shipsProcessedToday }

// TotalShipsProcessed returns the campaign-wide throughput counter.
func (c *Cycle) TotalShipsProcessed() int { return c.totalShipsProcessed }

// Quota returns the current day's ship quota.
func (c *Cycle) Quota() int { return c.quota }

// QuotaMet reports whether today's quota has been reached.
func (c *Cycle) QuotaMet() bool { return c.quotaMet }

// ShiftActive reports whether a shift is running.
func (c *Cycle) ShiftActive() bool { return c.shiftActive }

// Transitioning reports whether a day transition is pending.
func (c *Cycle) Transitioning() bool { return c.transitioning }

// CampaignOver reports whether the campaign has permanently ended.
func (c *Cycle) CampaignOver() bool { return c.campaignOver }
