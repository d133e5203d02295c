package model

import "time"

// Interval is a half-open time window [Start, End).  All availability and
// hold logic treats intervals as half-open so that back-to-back slots
// (one ending exactly when the next begins) never conflict.
//
// Fields:
//  Start – inclusive start of the window (UTC).
//  End   – exclusive end of the window (UTC).
type Interval struct {
	Start time.Time // inclusive
	End   time.Time // exclusive
}

// Valid reports whether the interval is well formed, i.e. the end is
// strictly after the start.
func (iv Interval) Valid() bool { return iv.End.After(iv.Start) }

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints ([10,12) and [12,14)) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Covers reports whether other lies entirely within the interval.
// Matching either endpoint still counts as covered.
func (iv Interval) Covers(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}
