package domain

import "math"

// Direction selects which side of a day's tally an increment applies to.
type Direction string

const (
	// Add increments the positive counter of a day.
	Add Direction = "add"
	// Sub increments the negative counter of a day.
	Sub Direction = "sub"
)

// ParseDirection maps a wire action string onto a Direction. Anything but
// the two valid actions is rejected before it reaches a repository.
func ParseDirection(action string) (Direction, error) {
	switch Direction(action) {
	case Add:
		return Add, nil
	case Sub:
		return Sub, nil
	default:
		return "", ErrInvalidDirection
	}
}

// DayCounts holds the two saturating counters recorded for one calendar day.
// Both fields only ever grow; an increment past math.MaxUint64 is a no-op.
type DayCounts struct {
	Add uint64 `json:"add"`
	Sub uint64 `json:"sub"`
}

// Net returns add minus sub as a signed value.
func (c DayCounts) Net() int64 {
	return int64(c.Add) - int64(c.Sub)
}

// DailyCounts is the wire shape for a single day's tally.
type DailyCounts struct {
	Date     string `json:"date"`
	AddCount uint64 `json:"add_count"`
	SubCount uint64 `json:"sub_count"`
	Net      int64  `json:"net"`
}

// Snapshot is a detached copy of every recorded day, keyed by "YYYY-MM-DD".
// Lexicographic key order coincides with chronological order.
type Snapshot struct {
	Days map[string]DayCounts
}

// SatAdd adds two unsigned counters, clamping at math.MaxUint64 instead of
// wrapping.
func SatAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
