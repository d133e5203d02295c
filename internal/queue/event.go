// Package queue defines message payloads exchanged with the payment
// collaborator over the message broker.
package queue

// BookingCreatedEvent is published when a booking is finalized into
// PENDING_PAYMENT.  It carries everything the payment collaborator
// needs to open a checkout session without querying the primary
// database.
type BookingCreatedEvent struct {
	BookingID      uint64 `json:"booking_id"`
	TenantID       uint64 `json:"tenant_id"`
	CheckoutHandle string `json:"checkout_handle"`
	CustomerName   string `json:"customer_name"`
	CustomerEmail  string `json:"customer_email"`
	RoomID         uint64 `json:"room_id"`
	PackageID      uint64 `json:"package_id"`
	StartsAt       string `json:"starts_at"`
	EndsAt         string `json:"ends_at"`
	Kids           int    `json:"kids"`
	TotalCents     int64  `json:"total_cents"`
	DepositCents   int64  `json:"deposit_cents"`
	CreatedAt      string `json:"created_at"`
}

// PaymentResultEvent is consumed from the payment.result queue.  The
// collaborator reports deposit settlement for a checkout handle; the
// first report wins and replays are no-ops.
type PaymentResultEvent struct {
	EventID        string `json:"event_id"`
	CheckoutHandle string `json:"checkout_handle"`
	Succeeded      bool   `json:"succeeded"`
	AmountCents    int64  `json:"amount_cents"`
	OccurredAt     string `json:"occurred_at"`
}
