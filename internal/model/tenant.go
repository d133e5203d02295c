package model

import "time"

// Tenant represents a venue operator.  Each tenant owns its own slot
// templates, blackout calendar, rooms, packages and pricing policy.  All
// engine operations are scoped to a single tenant.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – display name of the venue.
//  Timezone       – IANA timezone name (e.g. "America/New_York") used to
//                   derive the weekday for a booking date.  Weekday must
//                   never be derived from a UTC split.
//  TaxRateBps     – sales tax rate in basis points (850 = 8.50%).
//  DepositPercent – percentage of the total collected as deposit at
//                   booking time (default 50).
//  Active         – whether the tenant can accept bookings.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Tenant struct {
	ID             uint64    // tenants.id
	Name           string    // tenants.name
	Timezone       string    // tenants.timezone
	TaxRateBps     int64     // tenants.tax_rate_bps
	DepositPercent int64     // tenants.deposit_percent
	Active         bool      // tenants.is_active
	CreatedAt      time.Time // tenants.created_at
	UpdatedAt      time.Time // tenants.updated_at
}

// Location resolves the tenant's timezone, falling back to UTC when the
// name is empty or unknown so a bad configuration row cannot take the
// availability endpoint down.
func (t Tenant) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
