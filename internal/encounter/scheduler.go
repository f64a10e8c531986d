package encounter

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrInvalidOperation indicates a dequeue on an empty queue or a completion
// with no active encounter. The scheduler state is unchanged.
var ErrInvalidOperation = errors.New("invalid scheduler operation")

// MinGenerationInterval floors the rescheduled generation delay so extreme
// difficulty scaling cannot produce runaway generation.
const MinGenerationInterval = 5 * time.Second

// Config holds the generation knobs for one day.
type Config struct {
	// BaseInterval is the nominal delay between generated encounters
	// before difficulty scaling.
	BaseInterval time.Duration
	// Variation is the half-width of the uniform jitter applied to each
	// rescheduled generation time.
	Variation time.Duration
	// PerDayCap bounds how many encounters may be generated in one day.
	PerDayCap int
	// MaxQueueSize bounds the pending queue.
	MaxQueueSize int
	// SuspiciousWeight is the base suspicious probability at multiplier 1.
	SuspiciousWeight float64
	// SpecialWeight is the base special-event probability at multiplier 1.
	SpecialWeight float64
	// MaxTypeMass caps the combined suspicious and special probability so
	// normal encounters never disappear entirely.
	MaxTypeMass float64
	// StartCooldown is the pause between completing an encounter and
	// auto-starting the next queued one.
	StartCooldown time.Duration
}

// DefaultConfig returns the baseline generation configuration. Day-specific
// interval and cap values come from the difficulty table.
func DefaultConfig() Config {
	return Config{
		BaseInterval:     20 * time.Second,
		Variation:        4 * time.Second,
		PerDayCap:        24,
		MaxQueueSize:     5,
		SuspiciousWeight: 0.25,
		SpecialWeight:    0.08,
		MaxTypeMass:      0.85,
		StartCooldown:    1500 * time.Millisecond,
	}
}

// TickResult reports what one scheduler tick produced.
type TickResult struct {
	// Generated is the record produced this tick, if any.
	Generated *Record
	// Started is the record auto-started from the queue this tick, if any.
	Started *Record
}

// Scheduler owns the bounded encounter queue, the single active slot, and
// the generation pacing. Not goroutine-safe: the scheduling engine is its
// only writer.
type Scheduler struct {
	cfg     Config
	pending *queue
	active  *Record
	history []Completed

	rng   *rand.Rand
	newID func() (string, error)

	armed          bool
	day            int
	multiplier     float64
	nextGenAt      time.Time
	nextStartAt    time.Time
	generatedToday int
	sequence       uint64
}

// NewScheduler creates a disarmed scheduler. The rng must not be nil; newID
// may be nil, in which case sequential fallback IDs are used.
func NewScheduler(cfg Config, rng *rand.Rand, newID func() (string, error)) *Scheduler {
	if cfg.BaseInterval <= 0 {
		cfg.BaseInterval = DefaultConfig().BaseInterval
	}
	if cfg.MaxTypeMass <= 0 || cfg.MaxTypeMass > 1 {
		cfg.MaxTypeMass = DefaultConfig().MaxTypeMass
	}
	return &Scheduler{
		cfg:        cfg,
		pending:    newQueue(cfg.MaxQueueSize),
		rng:        rng,
		newID:      newID,
		day:        1,
		multiplier: 1,
	}
}

// Configure installs a new day's generation parameters. The difficulty
// multiplier is recomputed only at day start, never mid-day.
func (s *Scheduler) Configure(day int, multiplier float64, cfg Config) {
	if day < 1 {
		day = 1
	}
	if multiplier < 1 {
		multiplier = 1
	}
	if cfg.BaseInterval <= 0 {
		cfg.BaseInterval = s.cfg.BaseInterval
	}
	if cfg.MaxTypeMass <= 0 || cfg.MaxTypeMass > 1 {
		cfg.MaxTypeMass = s.cfg.MaxTypeMass
	}
	s.day = day
	s.multiplier = multiplier
	s.cfg = cfg
	s.pending.setMax(cfg.MaxQueueSize)
}

// Arm enables production and schedules the first generation.
func (s *Scheduler) Arm(now time.Time) {
	if s.armed {
		return
	}
	s.armed = true
	s.nextGenAt = now.Add(s.interval())
	s.nextStartAt = now
}

// Disarm halts production. Pending and active records are left in place for
// the day summary; Reset clears them.
func (s *Scheduler) Disarm() { s.armed = false }

// Armed reports whether production is enabled.
func (s *Scheduler) Armed() bool { return s.armed }

// Tick produces at most one record and auto-starts at most one queued
// record. canAccept is the day cycle's gating predicate, evaluated by the
// engine for this tick; the scheduler never derives its own version.
func (s *Scheduler) Tick(now time.Time, canAccept bool) TickResult {
	var result TickResult
	if !s.armed || !canAccept {
		return result
	}

	if s.pending.hasCapacity() && s.generatedToday < s.cfg.PerDayCap && !now.Before(s.nextGenAt) {
		rec := s.generate(now)
		if s.pending.push(rec) {
			s.generatedToday++
			result.Generated = &rec
		}
		s.nextGenAt = now.Add(s.interval())
	}

	if s.active == nil && !now.Before(s.nextStartAt) {
		if rec, ok := s.pending.pop(); ok {
			s.active = &rec
			started := rec
			result.Started = &started
		}
	}
	return result
}

// StartNext pops the oldest queued record into the active slot. It fails
// with ErrInvalidOperation when an encounter is already active or the queue
// is empty; the failed call changes nothing.
func (s *Scheduler) StartNext() (Record, error) {
	if s.active != nil {
		return Record{}, fmt.Errorf("%w: encounter %s already active", ErrInvalidOperation, s.active.ID)
	}
	rec, ok := s.pending.pop()
	if !ok {
		return Record{}, fmt.Errorf("%w: queue is empty", ErrInvalidOperation)
	}
	s.active = &rec
	return rec, nil
}

// CompleteActive resolves the active encounter, appends it to history, and
// begins the cooldown before the next auto-start.
func (s *Scheduler) CompleteActive(now time.Time, decision Decision) (Completed, error) {
	if s.active == nil {
		return Completed{}, fmt.Errorf("%w: no active encounter", ErrInvalidOperation)
	}
	done := Completed{
		Record:      *s.active,
		Decision:    decision,
		CompletedAt: now,
	}
	s.history = append(s.history, done)
	s.active = nil
	s.nextStartAt = now.Add(s.cfg.StartCooldown)
	return done, nil
}

// Reset clears the queue, the active slot, and the per-day counters. Called
// exactly once per day transition and once per campaign reset.
func (s *Scheduler) Reset() {
	s.pending.clear()
	s.active = nil
	s.history = s.history[:0]
	s.generatedToday = 0
	s.armed = false
}

// Active returns a copy of the active record, if any.
func (s *Scheduler) Active() (Record, bool) {
	if s.active == nil {
		return Record{}, false
	}
	return *s.active, true
}

// QueueDepth returns the number of pending records.
func (s *Scheduler) QueueDepth() int { return s.pending.len() }

// GeneratedToday returns how many records were produced this day.
func (s *Scheduler) GeneratedToday() int { return s.generatedToday }

// CompletedToday returns how many encounters were resolved this day.
func (s *Scheduler) CompletedToday() int { return len(s.history) }

// History returns a copy of the day's completed encounters.
func (s *Scheduler) History() []Completed {
	return append([]Completed(nil), s.history...)
}

// interval computes the next generation delay:
// baseInterval/multiplier + uniform(±variation), floored at the minimum.
func (s *Scheduler) interval() time.Duration {
	d := time.Duration(float64(s.cfg.BaseInterval) / s.multiplier)
	if s.cfg.Variation > 0 {
		jitter := time.Duration((s.rng.Float64()*2 - 1) * float64(s.cfg.Variation))
		d += jitter
	}
	if d < MinGenerationInterval {
		d = MinGenerationInterval
	}
	return d
}

// generate draws one record with day-scaled type weights.
func (s *Scheduler) generate(now time.Time) Record {
	special := s.cfg.SpecialWeight * s.multiplier
	suspicious := s.cfg.SuspiciousWeight * s.multiplier
	if mass := special + suspicious; mass > s.cfg.MaxTypeMass {
		scale := s.cfg.MaxTypeMass / mass
		special *= scale
		suspicious *= scale
	}

	roll := s.rng.Float64()
	var (
		typ    Type
		valid  = true
		threat int
	)
	switch {
	case roll < special:
		typ = TypeSpecialEvent
		threat = 2 + s.rng.Intn(4)
	case roll < special+suspicious:
		typ = TypeSuspicious
		// Suspicious ships carry invalid credentials half the time.
		valid = s.rng.Float64() >= 0.5
		threat = 1 + s.rng.Intn(3)
	default:
		typ = TypeNormal
		threat = s.rng.Intn(2)
	}

	s.sequence++
	recordID := fmt.Sprintf("enc-%d-%d", s.day, s.sequence)
	if s.newID != nil {
		if generated, err := s.newID(); err == nil {
			recordID = generated
		}
	}

	return Record{
		ID:                   recordID,
		Type:                 typ,
		Valid:                valid,
		ThreatLevel:          threat,
		Day:                  s.day,
		DifficultyMultiplier: s.multiplier,
		GeneratedAt:          now,
	}
}
