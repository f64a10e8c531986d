// Package encounter produces and queues the ship encounters a shift feeds to
// the decision-making consumer.
//
// Records are immutable once generated; ownership moves from the pending
// queue to the single active slot and finally to the completed history. The
// scheduler never gates itself: whether new work is allowed is decided by
// the day cycle's single predicate and passed in by the engine.
package encounter

import "time"

// Type identifies the kind of a generated encounter.
type Type int

const (
	// TypeUnspecified represents an invalid encounter type value.
	TypeUnspecified Type = iota
	// TypeNormal is a routine ship with valid paperwork odds.
	TypeNormal
	// TypeSuspicious is a ship with elevated threat and a coin-flip chance
	// of invalid credentials.
	TypeSuspicious
	// TypeSpecialEvent is a scripted rare encounter.
	TypeSpecialEvent
)

// String returns a human-readable encounter type name.
func (t Type) String() string {
	switch t {
	case TypeNormal:
		return "normal"
	case TypeSuspicious:
		return "suspicious"
	case TypeSpecialEvent:
		return "special_event"
	default:
		return "unspecified"
	}
}

// Record is one generated encounter. Immutable after creation.
type Record struct {
	ID                   string
	Type                 Type
	Valid                bool
	ThreatLevel          int
	Day                  int
	DifficultyMultiplier float64
	GeneratedAt          time.Time
}

// Decision is the consumer's verdict on an active encounter. Reward and
// penalty consequences are an external collaborator's concern; the core
// only records what was decided.
type Decision struct {
	Approved bool
}

// Completed pairs a finished encounter with its resolution.
type Completed struct {
	Record      Record
	Decision    Decision
	CompletedAt time.Time
}
