// Package engine implements the shift/day scheduling coordinator.
//
// The engine is the single writer of the countdown clock, the day cycle,
// and the encounter scheduler. External collaborators never touch those
// components directly: they receive read-only snapshots, subscribe to typed
// notifications, and request mutations through named commands.
//
// Every tick runs in two phases. The mutate phase applies the clock tick,
// warning checks, expiry check, and day/queue side effects; only when that
// pass is complete does the notify phase deliver the buffered notifications,
// so dependents always observe state consistent with exactly one completed
// mutation pass.
package engine

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/starhold/gatewatch/internal/day"
	"github.com/starhold/gatewatch/internal/difficulty"
	"github.com/starhold/gatewatch/internal/encounter"
	"github.com/starhold/gatewatch/internal/engine/event"
	"github.com/starhold/gatewatch/internal/platform/id"
	"github.com/starhold/gatewatch/internal/random"
	"github.com/starhold/gatewatch/internal/shift"
)

// State describes the coordinator's position in the day loop.
type State int

const (
	// StateUnspecified represents an invalid state value.
	StateUnspecified State = iota
	// StateIdle is the rest state between campaigns and days.
	StateIdle
	// StateBriefing is the pre-shift presentation state.
	StateBriefing
	// StateActive is a running shift.
	StateActive
	// StateEnding is the short presentation window after a shift ends.
	StateEnding
	// StateReporting is the end-of-day report awaiting the continue request.
	StateReporting
	// StateGameOver is terminal: no further mutation is accepted.
	StateGameOver
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBriefing:
		return "briefing"
	case StateActive:
		return "active"
	case StateEnding:
		return "ending"
	case StateReporting:
		return "reporting"
	case StateGameOver:
		return "game_over"
	default:
		return "unspecified"
	}
}

var (
	// ErrCampaignOver indicates a mutating call after the terminal
	// game-over transition.
	ErrCampaignOver = errors.New("campaign is over")
	// ErrInvalidTransition indicates a command that is not legal from the
	// current state. The engine state is unchanged.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Config assembles an engine. Zero fields fall back to sane defaults.
type Config struct {
	// StartingDay is the first campaign day, at least 1.
	StartingDay int
	// Start anchors the simulated timeline.
	Start time.Time
	// SettleWindow bounds how long a day transition may stay pending.
	SettleWindow time.Duration
	// EndingDelay is the presentation pause between a shift ending and the
	// report becoming available.
	EndingDelay time.Duration
	// Seed feeds the encounter generator; zero draws a crypto seed.
	Seed int64
	// SettingsForDay overrides the difficulty table lookup, mainly for
	// tests. Must be a pure function of the day.
	SettingsForDay func(day int) difficulty.Settings
	// NewID overrides encounter ID generation.
	NewID func() (string, error)
	// Logger receives operational anomalies. Defaults to the standard
	// logger.
	Logger *log.Logger
}

const (
	defaultSettleWindow = 500 * time.Millisecond
	defaultEndingDelay  = 2 * time.Second
)

// Engine is the coordinator state machine. Not goroutine-safe: it is built
// for a single-threaded cooperative simulation where all mutation happens
// inside the tick handler and the command methods.
type Engine struct {
	clock      *shift.Clock
	cycle      *day.Cycle
	sched      *encounter.Scheduler
	dispatcher *event.Dispatcher

	settingsFor func(day int) difficulty.Settings
	settings    difficulty.Settings
	logger      *log.Logger

	state       State
	now         time.Time
	endingUntil time.Time
	endingDelay time.Duration

	pending []event.Notice
}

// New assembles an engine in the idle state.
func New(cfg Config) (*Engine, error) {
	if cfg.StartingDay < 1 {
		cfg.StartingDay = 1
	}
	if cfg.SettleWindow <= 0 {
		cfg.SettleWindow = defaultSettleWindow
	}
	if cfg.EndingDelay <= 0 {
		cfg.EndingDelay = defaultEndingDelay
	}
	if cfg.SettingsForDay == nil {
		cfg.SettingsForDay = difficulty.SettingsForDay
	}
	if cfg.NewID == nil {
		cfg.NewID = id.NewID
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now().UTC()
	}
	seed := cfg.Seed
	if seed == 0 {
		drawn, err := random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("draw generator seed: %w", err)
		}
		seed = drawn
	}

	settings := cfg.SettingsForDay(cfg.StartingDay)
	e := &Engine{
		clock:       shift.NewClock(settings.WarningThresholds, settings.MaxBonusTime),
		cycle:       day.NewCycle(cfg.StartingDay, settings.Quota, cfg.SettleWindow),
		dispatcher:  event.NewDispatcher(),
		settingsFor: cfg.SettingsForDay,
		settings:    settings,
		logger:      cfg.Logger,
		state:       StateIdle,
		now:         cfg.Start,
		endingDelay: cfg.EndingDelay,
	}
	e.sched = encounter.NewScheduler(schedulerConfig(settings), random.NewRand(seed), cfg.NewID)
	e.sched.Configure(cfg.StartingDay, difficulty.MultiplierForDay(cfg.StartingDay), schedulerConfig(settings))
	return e, nil
}

// Subscribe registers a notification handler for the engine's lifetime.
// The returned function removes it.
func (e *Engine) Subscribe(h event.Handler) (unsubscribe func()) {
	return e.dispatcher.Subscribe(h)
}

// Tick advances the simulation by dt. All per-frame mutation happens here;
// buffered notifications are delivered once the mutation pass is complete.
func (e *Engine) Tick(dt time.Duration) {
	if dt <= 0 || e.state == StateGameOver {
		return
	}
	e.now = e.now.Add(dt)

	// Mutate phase. The ordering is fixed: clock tick, warning checks,
	// expiry check, then day and queue side effects.
	if e.cycle.SettleTransition(e.now) {
		e.emit(event.TypeDaySettled, event.DaySettled{Day: e.cycle.CurrentDay()})
	}

	switch e.state {
	case StateActive:
		if e.clock.Paused() {
			break
		}
		result := e.clock.Tick(dt)
		for _, w := range result.Warnings {
			e.emit(event.TypeTimeWarning, event.TimeWarning{
				Level:     w.Level,
				Threshold: w.Threshold,
				Remaining: w.Remaining,
			})
		}
		if result.Expired {
			// Expiry carries the authoritative zero time: it wins any
			// race with a manual end in the same tick.
			e.emit(event.TypeShiftExpired, event.ShiftExpired{Day: e.cycle.CurrentDay()})
			e.endShift(false)
		} else {
			schedResult := e.sched.Tick(e.now, e.cycle.CanAcceptWork(e.clock.Remaining()))
			if schedResult.Generated != nil {
				e.emit(event.TypeEncounterGenerated, event.EncounterGenerated{Record: *schedResult.Generated})
			}
			if schedResult.Started != nil {
				e.emit(event.TypeEncounterStarted, event.EncounterStarted{Record: *schedResult.Started})
			}
		}
	case StateEnding:
		if !e.now.Before(e.endingUntil) {
			e.state = StateReporting
		}
	}

	// Notify phase.
	e.flush()
}

// BeginBriefing moves the idle engine into the pre-shift briefing.
func (e *Engine) BeginBriefing() error {
	if e.state == StateGameOver {
		return ErrCampaignOver
	}
	if e.state != StateIdle {
		return fmt.Errorf("%w: begin briefing from %s", ErrInvalidTransition, e.state)
	}
	e.state = StateBriefing
	return nil
}

// BeginShift starts the day's shift: the clock first, and only then the
// encounter scheduler. An invalid configured duration falls back to the
// safe default length rather than starting a zero-length shift.
func (e *Engine) BeginShift() error {
	if e.state == StateGameOver {
		return ErrCampaignOver
	}
	if e.state != StateBriefing {
		return fmt.Errorf("%w: begin shift from %s", ErrInvalidTransition, e.state)
	}

	currentDay := e.cycle.CurrentDay()
	e.settings = e.settingsFor(currentDay)
	e.clock.Reconfigure(e.settings.WarningThresholds, e.settings.MaxBonusTime)

	duration := e.settings.ShiftDuration
	if err := e.clock.Start(duration, 0); err != nil {
		e.logger.Printf("day %d: configured shift duration %v rejected (%v), using fallback %v",
			currentDay, duration, err, difficulty.FallbackShiftDuration)
		duration = difficulty.FallbackShiftDuration
		if err := e.clock.Start(duration, 0); err != nil {
			return fmt.Errorf("start fallback shift: %w", err)
		}
	}

	e.cycle.BeginShift()
	e.sched.Configure(currentDay, difficulty.MultiplierForDay(currentDay), schedulerConfig(e.settings))
	e.sched.Arm(e.now)
	e.state = StateActive

	e.emit(event.TypeShiftStarted, event.ShiftStarted{
		Day:      currentDay,
		Duration: duration,
		Bonus:    e.clock.Bonus(),
	})
	e.flush()
	return nil
}

// ForceEndShift ends the running shift early, e.g. for a story event. A
// call after expiry or outside a shift is a logged no-op, not an error.
func (e *Engine) ForceEndShift() error {
	if e.state == StateGameOver {
		return nil
	}
	if e.state != StateActive {
		e.logger.Printf("force end shift ignored in state %s", e.state)
		return nil
	}
	e.endShift(true)
	e.flush()
	return nil
}

// endShift is the single Active-to-Ending edge: it stops the clock, disarms
// the scheduler, and hands the day summary to the reporting collaborator.
// The day cycle's edge guard keeps a racing forced end from double-firing.
func (e *Engine) endShift(forced bool) {
	e.clock.Stop()
	e.sched.Disarm()
	if !e.cycle.EndShift() {
		// Flag desync: the shift-ended edge already fired, so no second
		// notification, but the machine must still leave Active.
		e.logger.Printf("day %d: shift end requested with no active shift flag; flags resynced", e.cycle.CurrentDay())
		e.state = StateEnding
		e.endingUntil = e.now.Add(e.endingDelay)
		return
	}

	e.emit(event.TypeShiftEnded, event.ShiftEnded{Day: e.cycle.CurrentDay(), Forced: forced})
	e.emit(event.TypeDaySummary, e.buildSummary(!forced))
	e.state = StateEnding
	e.endingUntil = e.now.Add(e.endingDelay)
}

// RequestNextDay advances the campaign calendar. It is only legal from the
// reporting state and is never triggered automatically.
func (e *Engine) RequestNextDay() error {
	if e.state == StateGameOver {
		return ErrCampaignOver
	}
	if e.cycle.Transitioning() {
		return day.ErrTransitionInProgress
	}
	if e.state != StateReporting {
		return fmt.Errorf("%w: request next day from %s", ErrInvalidTransition, e.state)
	}

	nextDay := e.cycle.CurrentDay() + 1
	nextSettings := e.settingsFor(nextDay)
	if err := e.cycle.StartNewDay(e.now, nextSettings.Quota); err != nil {
		return err
	}

	// Dependent daily resets are synchronous with the day advance; the
	// settle deadline only bounds the transition flag itself.
	e.sched.Reset()
	e.sched.Configure(nextDay, difficulty.MultiplierForDay(nextDay), schedulerConfig(nextSettings))
	e.settings = nextSettings
	e.clock.Reconfigure(nextSettings.WarningThresholds, nextSettings.MaxBonusTime)
	e.state = StateBriefing

	e.emit(event.TypeDayChanged, event.DayChanged{Day: nextDay, Quota: nextSettings.Quota})
	e.flush()
	return nil
}

// GameOver force-stops everything and latches the terminal state. It is
// unconditionally legal and idempotent from every state.
func (e *Engine) GameOver() {
	e.clock.Stop()
	e.sched.Disarm()
	e.cycle.EndCampaign()
	if e.state != StateGameOver {
		e.state = StateGameOver
		e.emit(event.TypeCampaignOver, event.CampaignOver{Day: e.cycle.CurrentDay()})
	}
	e.flush()
}

// Pause suspends the shift clock for an external paused phase.
func (e *Engine) Pause() {
	if e.state == StateActive {
		e.clock.Pause()
	}
}

// Resume clears an external pause.
func (e *Engine) Resume() {
	if e.state == StateActive {
		e.clock.Resume()
	}
}

// StartNextEncounter manually dequeues the next pending encounter. It fails
// when one is already active or the queue is empty; the failed call changes
// nothing.
func (e *Engine) StartNextEncounter() error {
	if e.state == StateGameOver {
		return ErrCampaignOver
	}
	if e.state != StateActive {
		return fmt.Errorf("%w: start encounter from %s", ErrInvalidTransition, e.state)
	}
	rec, err := e.sched.StartNext()
	if err != nil {
		e.logger.Printf("start next encounter: %v", err)
		return err
	}
	e.emit(event.TypeEncounterStarted, event.EncounterStarted{Record: rec})
	e.flush()
	return nil
}

// ResolveActiveEncounter applies the consumer's decision: the encounter is
// completed first, then the processed ship is recorded, in that order.
func (e *Engine) ResolveActiveEncounter(decision encounter.Decision) error {
	if e.state == StateGameOver {
		return ErrCampaignOver
	}
	done, err := e.sched.CompleteActive(e.now, decision)
	if err != nil {
		e.logger.Printf("resolve encounter: %v", err)
		return err
	}
	e.emit(event.TypeEncounterCompleted, event.EncounterCompleted{Completed: done})

	result := e.cycle.RecordShipProcessed()
	if !result.Recorded {
		e.logger.Printf("day %d: ship not recorded (campaign over or day transition pending)", e.cycle.CurrentDay())
	}
	if result.QuotaMet {
		e.emit(event.TypeQuotaReached, event.QuotaReached{
			Day:   e.cycle.CurrentDay(),
			Ships: e.cycle.ShipsProcessedToday(),
		})
	}
	e.flush()
	return nil
}

// AddBonusTime extends the running shift, scaled by the day's bonus
// multiplier and clamped at the configured cap. Clamped and ignored calls
// are successes.
func (e *Engine) AddBonusTime(d time.Duration, reason string) {
	if e.state == StateGameOver || d <= 0 {
		return
	}
	scaled := time.Duration(float64(d) * e.settings.BonusMultiplier)
	applied := e.clock.AddBonus(scaled)
	if applied > 0 {
		e.logger.Printf("day %d: +%v bonus time (%s)", e.cycle.CurrentDay(), applied, reason)
	}
}

// LoadDayState restores saved campaign progress. It re-establishes the
// counter and clock invariants before the engine resumes ticking, and is
// rejected while a shift is running.
func (e *Engine) LoadDayState(dayNumber, shipsToday, totalShips int, remaining time.Duration) error {
	if e.state == StateGameOver {
		return ErrCampaignOver
	}
	if e.state == StateActive || e.state == StateEnding {
		return fmt.Errorf("%w: load day state during a shift", ErrInvalidTransition)
	}

	settings := e.settingsFor(dayNumber)
	if err := e.cycle.LoadState(dayNumber, shipsToday, totalShips, settings.Quota); err != nil {
		return fmt.Errorf("load day state: %w", err)
	}

	total := settings.ShiftDuration
	if remaining > total {
		total = remaining
	}
	e.clock.Reconfigure(settings.WarningThresholds, settings.MaxBonusTime)
	if err := e.clock.Restore(remaining, total); err != nil {
		return fmt.Errorf("restore clock: %w", err)
	}

	e.sched.Reset()
	e.sched.Configure(dayNumber, difficulty.MultiplierForDay(dayNumber), schedulerConfig(settings))
	e.settings = settings
	e.state = StateIdle
	return nil
}

// Snapshot holds the read model exposed to collaborators. All fields are
// copies; mutating a snapshot has no effect on the engine.
type Snapshot struct {
	State               State
	Day                 int
	Remaining           time.Duration
	Total               time.Duration
	Phase               shift.Phase
	Paused              bool
	ShipsProcessedToday int
	TotalShipsProcessed int
	Quota               int
	QueueDepth          int
	ActiveEncounter     *encounter.Record
	CampaignOver        bool
}

// Snapshot returns the consistent read model for the completed mutation
// pass.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State:               e.state,
		Day:                 e.cycle.CurrentDay(),
		Remaining:           e.clock.Remaining(),
		Total:               e.clock.Total(),
		Phase:               e.clock.CurrentPhase(),
		Paused:              e.clock.Paused(),
		ShipsProcessedToday: e.cycle.ShipsProcessedToday(),
		TotalShipsProcessed: e.cycle.TotalShipsProcessed(),
		Quota:               e.cycle.Quota(),
		QueueDepth:          e.sched.QueueDepth(),
		CampaignOver:        e.cycle.CampaignOver(),
	}
	if rec, ok := e.sched.Active(); ok {
		snap.ActiveEncounter = &rec
	}
	return snap
}

// State returns the coordinator state.
func (e *Engine) State() State { return e.state }

// Now returns the engine's simulated time.
func (e *Engine) Now() time.Time { return e.now }

// emit buffers a notification for the notify phase.
func (e *Engine) emit(t event.Type, payload any) {
	e.pending = append(e.pending, event.Notice{Type: t, Timestamp: e.now, Payload: payload})
}

// flush delivers buffered notifications in order.
func (e *Engine) flush() {
	if len(e.pending) == 0 {
		return
	}
	notices := e.pending
	e.pending = nil
	for _, n := range notices {
		e.dispatcher.Dispatch(n)
	}
}

// buildSummary captures the day report handed to the reporting collaborator.
func (e *Engine) buildSummary(expired bool) event.DaySummary {
	return event.DaySummary{
		Day:                 e.cycle.CurrentDay(),
		ShipsProcessed:      e.cycle.ShipsProcessedToday(),
		Quota:               e.cycle.Quota(),
		QuotaMet:            e.cycle.QuotaMet(),
		TotalShipsProcessed: e.cycle.TotalShipsProcessed(),
		Generated:           e.sched.GeneratedToday(),
		Completed:           e.sched.CompletedToday(),
		Expired:             expired,
	}
}

// schedulerConfig folds a day's generation settings into the scheduler's
// configuration, keeping the baseline weights and cooldown.
func schedulerConfig(s difficulty.Settings) encounter.Config {
	cfg := encounter.DefaultConfig()
	if s.Generation.BaseInterval > 0 {
		cfg.BaseInterval = s.Generation.BaseInterval
	}
	if s.Generation.Variation >= 0 {
		cfg.Variation = s.Generation.Variation
	}
	if s.Generation.PerDayCap > 0 {
		cfg.PerDayCap = s.Generation.PerDayCap
	}
	if s.Generation.MaxQueueSize > 0 {
		cfg.MaxQueueSize = s.Generation.MaxQueueSize
	}
	return cfg
}
