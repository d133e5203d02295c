package model

import "time"

// Booking statuses.  PENDING_PAYMENT and CONFIRMED bookings occupy
// their interval; CANCELLED and COMPLETED do not block new holds.
const (
	BookingStatusPendingPayment = "PENDING_PAYMENT"
	BookingStatusConfirmed      = "CONFIRMED"
	BookingStatusCancelled      = "CANCELLED"
	BookingStatusCompleted      = "COMPLETED"
)

// Booking is a confirmed (or payment-pending) party reservation created
// from a consumed hold.  Price fields are the authoritative output of
// the price calculator at finalization time; nothing recomputes them.
//
// Fields:
//  ID             – primary key identifier.
//  TenantID       – owning tenant.
//  CustomerID     – customer who booked.
//  PackageID      – booked package.
//  RoomID         – room hosting the party.
//  StartsAt       – inclusive start of the party (UTC).
//  EndsAt         – exclusive end of the party (UTC).
//  Kids           – guest count copied from the hold.
//  Status         – see status constants above.
//  SubtotalCents  – package + extra kids + add-ons + characters.
//  TaxCents       – tax computed once by the price calculator.
//  TotalCents     – subtotal plus tax.
//  DepositCents   – portion of total due at booking time.
//  BalanceCents   – total minus deposit, due later.
//  DepositPaid    – set when the payment collaborator confirms.
//  BalancePaid    – set by operational tooling on settlement.
//  CheckoutHandle – opaque handle passed to the payment collaborator.
//  Notes          – free-form customer notes.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Booking struct {
	ID             uint64    // bookings.id
	TenantID       uint64    // bookings.tenant_id
	CustomerID     uint64    // bookings.customer_id
	PackageID      uint64    // bookings.package_id
	RoomID         uint64    // bookings.room_id
	StartsAt       time.Time // bookings.starts_at
	EndsAt         time.Time // bookings.ends_at
	Kids           int       // bookings.kids
	Status         string    // bookings.status
	SubtotalCents  int64     // bookings.subtotal_cents
	TaxCents       int64     // bookings.tax_cents
	TotalCents     int64     // bookings.total_cents
	DepositCents   int64     // bookings.deposit_cents
	BalanceCents   int64     // bookings.balance_cents
	DepositPaid    bool      // bookings.deposit_paid
	BalancePaid    bool      // bookings.balance_paid
	CheckoutHandle string    // bookings.checkout_handle
	Notes          string    // bookings.notes
	CreatedAt      time.Time // bookings.created_at
	UpdatedAt      time.Time // bookings.updated_at
}

// Interval returns the booked window as a half-open interval.
func (b Booking) Interval() Interval { return Interval{Start: b.StartsAt, End: b.EndsAt} }

// Blocking reports whether the booking still occupies its interval for
// the purpose of the no-double-booking invariant.
func (b Booking) Blocking() bool {
	return b.Status == BookingStatusPendingPayment || b.Status == BookingStatusConfirmed
}

// BookingAddon is a line-item snapshot of an add-on attached to a
// booking.  UnitPriceCents is frozen at finalization; later catalog
// price changes never alter existing bookings.
type BookingAddon struct {
	ID             uint64 // booking_addons.id
	BookingID      uint64 // booking_addons.booking_id
	AddonID        uint64 // booking_addons.addon_id
	Name           string // booking_addons.name (snapshot)
	Quantity       int    // booking_addons.quantity
	UnitPriceCents int64  // booking_addons.unit_price_cents (snapshot)
}

// BookingCharacter is a line-item snapshot of a character appearance
// attached to a booking, frozen the same way as BookingAddon.
type BookingCharacter struct {
	ID             uint64 // booking_characters.id
	BookingID      uint64 // booking_characters.booking_id
	CharacterID    uint64 // booking_characters.character_id
	Name           string // booking_characters.name (snapshot)
	Quantity       int    // booking_characters.quantity
	UnitPriceCents int64  // booking_characters.unit_price_cents (snapshot)
}
