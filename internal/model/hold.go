package model

import "time"

// Hold states.  A hold in StateActive whose expires_at has passed is
// treated as expired everywhere without ever being rewritten; expiry is
// lazy and every overlap predicate filters on expires_at.
const (
	HoldStateActive   = "ACTIVE"
	HoldStateReleased = "RELEASED"
	HoldStateConsumed = "CONSUMED"
)

// Hold is a time-boxed exclusive reservation of a room and interval
// while a customer completes checkout.  At most one live hold or
// confirmed booking may cover any instant for a given room; the guarded
// insert in the hold repository enforces this.
//
// Fields:
//  ID        – primary key identifier.
//  Token     – opaque token returned to the client for correlation.
//  TenantID  – owning tenant.
//  RoomID    – room being held.
//  PackageID – package the customer selected.
//  StartsAt  – inclusive start of the held interval (UTC).
//  EndsAt    – exclusive end of the held interval (UTC).
//  Kids      – requested guest count; never exceeds room capacity.
//  State     – ACTIVE, RELEASED or CONSUMED.
//  ExpiresAt – when an ACTIVE hold lapses.
//  CreatedAt – creation timestamp.
type Hold struct {
	ID        uint64    // holds.id
	Token     string    // holds.hold_token
	TenantID  uint64    // holds.tenant_id
	RoomID    uint64    // holds.room_id
	PackageID uint64    // holds.package_id
	StartsAt  time.Time // holds.starts_at
	EndsAt    time.Time // holds.ends_at
	Kids      int       // holds.kids
	State     string    // holds.state
	ExpiresAt time.Time // holds.expires_at
	CreatedAt time.Time // holds.created_at
}

// Interval returns the held window as a half-open interval.
func (h Hold) Interval() Interval { return Interval{Start: h.StartsAt, End: h.EndsAt} }

// Live reports whether the hold still occupies its interval at the
// given instant: active and not yet expired.
func (h Hold) Live(now time.Time) bool {
	return h.State == HoldStateActive && now.Before(h.ExpiresAt)
}
