// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them onto HTTP statuses with errors.Is.
package repository

import "errors"

// ErrNotConfigured is returned by the slot template repository when a
// tenant has no active template for the requested weekday. Callers
// treat it as "no slots today", not as a failure.
var ErrNotConfigured = errors.New("no slot template configured")

// ErrSlotUnavailable is returned when a hold cannot be created because
// another live hold or a blocking booking already covers an overlapping
// interval for the room. Handlers translate this into HTTP 409.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrHoldNotFound is returned when the referenced hold does not exist
// for the tenant, or is already released or consumed.
var ErrHoldNotFound = errors.New("hold not found")

// ErrHoldExpired is returned when an operation requires a live hold but
// the hold's expires_at has passed. Handlers translate this into 410.
var ErrHoldExpired = errors.New("hold expired")

// ErrCapacityExceeded is returned when the requested guest count
// exceeds the room's capacity.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrInvalidInterval is returned for malformed or out-of-bounds time
// intervals (end not after start, start in the past, absurd length).
var ErrInvalidInterval = errors.New("invalid interval")

// ErrRoomNotFound is returned when the referenced room does not exist,
// is inactive, or belongs to a different tenant.
var ErrRoomNotFound = errors.New("room not found")

// ErrPackageNotFound is returned when the referenced package does not
// exist, is inactive, or belongs to a different tenant.
var ErrPackageNotFound = errors.New("package not found")

// ErrBookingNotFound is returned when the referenced booking does not
// exist for the tenant.
var ErrBookingNotFound = errors.New("booking not found")

// ErrTenantNotFound is returned when the tenant row is missing or
// inactive.
var ErrTenantNotFound = errors.New("tenant not found")

// ErrConflictingStatus is returned when an operational status
// transition is not allowed from the booking's current status.
// Handlers translate this into HTTP 409.
var ErrConflictingStatus = errors.New("conflicting booking status")
