package model

import "time"

// Character is a costumed performer appearance that can be added to a
// booking, priced per appearance.  Like add-ons, the unit price is
// snapshotted into a booking line item at finalization.
//
// Fields:
//  ID         – primary key identifier.
//  TenantID   – owning tenant.
//  Name       – character name ("Captain Confetti").
//  PriceCents – price per appearance in cents.
//  Active     – inactive characters cannot be booked.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Character struct {
	ID         uint64    // characters.id
	TenantID   uint64    // characters.tenant_id
	Name       string    // characters.name
	PriceCents int64     // characters.price_cents
	Active     bool      // characters.is_active
	CreatedAt  time.Time // characters.created_at
	UpdatedAt  time.Time // characters.updated_at
}
