package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/partyloft/booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings and their add-on /
// character line items.  Line items snapshot the catalog name and unit
// price at finalization so later catalog edits never change what a
// customer agreed to pay.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the provided
// database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = `id, tenant_id, customer_id, package_id, room_id, starts_at, ends_at, kids, status,
	subtotal_cents, tax_cents, total_cents, deposit_cents, balance_cents,
	deposit_paid, balance_paid, checkout_handle, notes, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.TenantID, &b.CustomerID, &b.PackageID, &b.RoomID,
		&b.StartsAt, &b.EndsAt, &b.Kids, &b.Status,
		&b.SubtotalCents, &b.TaxCents, &b.TotalCents, &b.DepositCents, &b.BalanceCents,
		&b.DepositPaid, &b.BalancePaid, &b.CheckoutHandle, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateTx inserts a new booking within the caller's transaction and
// populates the generated ID and timestamps on the passed value.  The
// finalizer calls this in the same transaction that consumes the hold
// so exclusivity transfers with no gap.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const ins = `INSERT INTO bookings
		(tenant_id, customer_id, package_id, room_id, starts_at, ends_at, kids, status,
		 subtotal_cents, tax_cents, total_cents, deposit_cents, balance_cents,
		 checkout_handle, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		b.TenantID, b.CustomerID, b.PackageID, b.RoomID,
		b.StartsAt.UTC(), b.EndsAt.UTC(), b.Kids, b.Status,
		b.SubtotalCents, b.TaxCents, b.TotalCents, b.DepositCents, b.BalanceCents,
		b.CheckoutHandle, b.Notes,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// AddAddonsTx bulk inserts add-on line items for a booking within the
// caller's transaction.  Passing an empty slice is a no-op.
func (r *BookingRepo) AddAddonsTx(ctx context.Context, tx *sql.Tx, items []model.BookingAddon) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO booking_addons (booking_id, addon_id, name, quantity, unit_price_cents) VALUES `
	args := make([]any, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, it.BookingID, it.AddonID, it.Name, it.Quantity, it.UnitPriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// AddCharactersTx bulk inserts character line items for a booking
// within the caller's transaction.  Passing an empty slice is a no-op.
func (r *BookingRepo) AddCharactersTx(ctx context.Context, tx *sql.Tx, items []model.BookingCharacter) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO booking_characters (booking_id, character_id, name, quantity, unit_price_cents) VALUES `
	args := make([]any, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, it.BookingID, it.CharacterID, it.Name, it.Quantity, it.UnitPriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ApplyPaymentResult transitions a booking out of PENDING_PAYMENT based
// on the payment collaborator's report and returns the booking's
// resulting status.  The transition is guarded on the current status,
// which makes repeated webhook deliveries idempotent: the first report
// wins and every replay observes the already-settled status as a
// no-op.  Returns ErrBookingNotFound for an unknown checkout handle.
func (r *BookingRepo) ApplyPaymentResult(ctx context.Context, checkoutHandle string, succeeded bool) (string, error) {
	newStatus := model.BookingStatusCancelled
	depositPaid := 0
	if succeeded {
		newStatus = model.BookingStatusConfirmed
		depositPaid = 1
	}
	const upd = `UPDATE bookings SET status = ?, deposit_paid = ?
	             WHERE checkout_handle = ? AND status = 'PENDING_PAYMENT'`
	res, err := r.db.ExecContext(ctx, upd, newStatus, depositPaid, checkoutHandle)
	if err != nil {
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if n > 0 {
		return newStatus, nil
	}
	var current string
	const sel = `SELECT status FROM bookings WHERE checkout_handle = ?`
	err = r.db.QueryRowContext(ctx, sel, checkoutHandle).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrBookingNotFound
	}
	if err != nil {
		return "", err
	}
	return current, nil
}

// Transition moves a booking between statuses for operational actions
// (cancel, complete).  The from-guard keeps illegal jumps out, e.g.
// completing a cancelled booking.  Returns ErrBookingNotFound when the
// booking does not exist for the tenant and ErrConflictingStatus when
// it exists but is not in an allowed source status.
func (r *BookingRepo) Transition(ctx context.Context, tenantID, bookingID uint64, from []string, to string) error {
	if len(from) == 0 {
		return ErrConflictingStatus
	}
	query := `UPDATE bookings SET status = ? WHERE id = ? AND tenant_id = ? AND status IN (` +
		strings.Repeat("?,", len(from)-1) + `?)`
	args := []any{to, bookingID, tenantID}
	for _, s := range from {
		args = append(args, s)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ? AND tenant_id = ?`, bookingID, tenantID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	return ErrConflictingStatus
}

// ByIDForTenant loads a booking with its line items.
func (r *BookingRepo) ByIDForTenant(ctx context.Context, tenantID, bookingID uint64) (*model.Booking, []model.BookingAddon, []model.BookingCharacter, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE id = ? AND tenant_id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, bookingID, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, nil, nil, err
	}

	const addonQ = `SELECT id, booking_id, addon_id, name, quantity, unit_price_cents
	                FROM booking_addons WHERE booking_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, addonQ, b.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	defer rows.Close()
	var addons []model.BookingAddon
	for rows.Next() {
		var it model.BookingAddon
		if err := rows.Scan(&it.ID, &it.BookingID, &it.AddonID, &it.Name, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, nil, nil, err
		}
		addons = append(addons, it)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	const charQ = `SELECT id, booking_id, character_id, name, quantity, unit_price_cents
	               FROM booking_characters WHERE booking_id = ? ORDER BY id`
	crows, err := r.db.QueryContext(ctx, charQ, b.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	defer crows.Close()
	var characters []model.BookingCharacter
	for crows.Next() {
		var it model.BookingCharacter
		if err := crows.Scan(&it.ID, &it.BookingID, &it.CharacterID, &it.Name, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, nil, nil, err
		}
		characters = append(characters, it)
	}
	if err := crows.Err(); err != nil {
		return nil, nil, nil, err
	}
	return b, addons, characters, nil
}

// ListForTenant returns the tenant's bookings, newest first, optionally
// filtered to a single party date (UTC day window) and/or status.
func (r *BookingRepo) ListForTenant(ctx context.Context, tenantID uint64, day *time.Time, status string) ([]model.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE tenant_id = ?`
	args := []any{tenantID}
	if day != nil {
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		q += ` AND starts_at >= ? AND starts_at < ?`
		args = append(args, dayStart, dayStart.Add(24*time.Hour))
	}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
