package model

import "time"

// Addon is a flat per-unit extra a customer may attach to a booking,
// such as a pizza tray or a goodie bag.  Prices are copied into booking
// line items at finalization time and never change retroactively.
//
// Fields:
//  ID         – primary key identifier.
//  TenantID   – owning tenant.
//  Name       – display name.
//  PriceCents – unit price in cents.
//  Active     – inactive add-ons cannot be attached to new bookings.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Addon struct {
	ID         uint64    // addons.id
	TenantID   uint64    // addons.tenant_id
	Name       string    // addons.name
	PriceCents int64     // addons.price_cents
	Active     bool      // addons.is_active
	CreatedAt  time.Time // addons.created_at
	UpdatedAt  time.Time // addons.updated_at
}
