package model

import "time"

// Blackout excludes a range of dates from booking for a tenant, e.g.
// holidays or maintenance closures.  Dates are inclusive on both ends and
// carry date granularity only; any date touching an active blackout
// yields zero slots.
//
// Fields:
//  ID        – primary key identifier.
//  TenantID  – owning tenant.
//  StartDate – first excluded date (inclusive).
//  EndDate   – last excluded date (inclusive).
//  Reason    – optional operator note shown in admin tooling.
//  Active    – inactive blackouts are ignored.
//  CreatedAt – creation timestamp.
type Blackout struct {
	ID        uint64    // blackouts.id
	TenantID  uint64    // blackouts.tenant_id
	StartDate time.Time // blackouts.start_date (date only)
	EndDate   time.Time // blackouts.end_date (date only)
	Reason    string    // blackouts.reason
	Active    bool      // blackouts.is_active
	CreatedAt time.Time // blackouts.created_at
}
