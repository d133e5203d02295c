package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/partyloft/booking/internal/model"
)

// HoldRepo provides data access to the holds table and owns the
// room/interval reservation ledger.  All correctness-critical
// concurrency control lives here, at the storage layer: hold creation
// is a single guarded insert under a per-room row lock, so concurrent
// attempts on overlapping intervals can never both succeed.  All
// expiry comparisons run against UTC_TIMESTAMP(); expiry is lazy and
// no row is ever rewritten just because it lapsed.
type HoldRepo struct {
	db *sql.DB
}

// NewHoldRepo returns a new HoldRepo bound to the provided database.
func NewHoldRepo(db *sql.DB) *HoldRepo { return &HoldRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *HoldRepo) DB() *sql.DB { return r.db }

// NewHoldToken generates the opaque token handed to clients as the
// public hold identifier.  32 random bytes hex encoded.
func NewHoldToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

const holdCols = `id, hold_token, tenant_id, room_id, package_id, starts_at, ends_at, kids, state, expires_at, created_at`

func scanHold(row interface{ Scan(...any) error }) (*model.Hold, error) {
	var h model.Hold
	err := row.Scan(&h.ID, &h.Token, &h.TenantID, &h.RoomID, &h.PackageID,
		&h.StartsAt, &h.EndsAt, &h.Kids, &h.State, &h.ExpiresAt, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// CreateExclusive atomically inserts the hold if and only if no live
// hold and no blocking booking overlaps its interval for the same
// tenant and room.  The whole check-and-insert is one INSERT ... SELECT
// statement executed while the room row is locked, so two racing
// callers serialize on the room and exactly one observes a clear
// ledger.  Returns ErrSlotUnavailable when the interval is taken and
// ErrRoomNotFound when the locked room is missing or inactive.
//
// The caller must have populated Token, TenantID, RoomID, PackageID,
// StartsAt, EndsAt, Kids and ExpiresAt; State is forced to ACTIVE.
func (r *HoldRepo) CreateExclusive(ctx context.Context, h *model.Hold) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Serialize concurrent hold creation per room.  The lock also
	// doubles as the existence/ownership check.
	var roomID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM rooms WHERE id = ? AND tenant_id = ? AND is_active = 1 FOR UPDATE`,
		h.RoomID, h.TenantID,
	).Scan(&roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	if err != nil {
		return err
	}

	// Guarded insert: the row lands only when no live hold and no
	// blocking booking overlaps [starts_at, ends_at).  Half-open
	// overlap test: a.start < b.end AND a.end > b.start.
	const ins = `
		INSERT INTO holds (hold_token, tenant_id, room_id, package_id, starts_at, ends_at, kids, state, expires_at)
		SELECT ?, ?, ?, ?, ?, ?, ?, 'ACTIVE', ?
		FROM DUAL
		WHERE NOT EXISTS (
			SELECT 1 FROM holds
			WHERE tenant_id = ? AND room_id = ? AND state = 'ACTIVE'
			  AND expires_at > UTC_TIMESTAMP()
			  AND starts_at < ? AND ends_at > ?
		)
		AND NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE tenant_id = ? AND room_id = ?
			  AND status IN ('PENDING_PAYMENT','CONFIRMED')
			  AND starts_at < ? AND ends_at > ?
		)`
	res, err := tx.ExecContext(ctx, ins,
		h.Token, h.TenantID, h.RoomID, h.PackageID,
		h.StartsAt.UTC(), h.EndsAt.UTC(), h.Kids, h.ExpiresAt.UTC(),
		h.TenantID, h.RoomID, h.EndsAt.UTC(), h.StartsAt.UTC(),
		h.TenantID, h.RoomID, h.EndsAt.UTC(), h.StartsAt.UTC(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSlotUnavailable
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	h.ID = uint64(id)
	h.State = model.HoldStateActive
	return nil
}

// ByToken loads a hold by its public token, scoped to the tenant.
func (r *HoldRepo) ByToken(ctx context.Context, tenantID uint64, token string) (*model.Hold, error) {
	q := `SELECT ` + holdCols + ` FROM holds WHERE hold_token = ? AND tenant_id = ?`
	h, err := scanHold(r.db.QueryRowContext(ctx, q, token, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Extend pushes a live hold's expiry forward by the given minutes:
// expires_at = max(expires_at, now) + minutes, computed in a single
// UPDATE so concurrent extends remain monotonic.  Returns the new
// expiry, ErrHoldNotFound for missing/terminal holds, or ErrHoldExpired
// when the hold lapsed before the call.
func (r *HoldRepo) Extend(ctx context.Context, tenantID uint64, token string, minutes int) (time.Time, error) {
	const upd = `UPDATE holds
	             SET expires_at = DATE_ADD(GREATEST(expires_at, UTC_TIMESTAMP()), INTERVAL ? MINUTE)
	             WHERE hold_token = ? AND tenant_id = ? AND state = 'ACTIVE' AND expires_at > UTC_TIMESTAMP()`
	res, err := r.db.ExecContext(ctx, upd, minutes, token, tenantID)
	if err != nil {
		return time.Time{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return time.Time{}, err
	}
	if n == 0 {
		// Distinguish missing/terminal from lapsed.
		h, err := r.ByToken(ctx, tenantID, token)
		if err != nil {
			return time.Time{}, err
		}
		if h.State == model.HoldStateActive {
			return time.Time{}, ErrHoldExpired
		}
		return time.Time{}, ErrHoldNotFound
	}
	var expiresAt time.Time
	const sel = `SELECT expires_at FROM holds WHERE hold_token = ? AND tenant_id = ?`
	if err := r.db.QueryRowContext(ctx, sel, token, tenantID).Scan(&expiresAt); err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

// Release marks a hold RELEASED.  Idempotent: releasing an already
// expired, released or consumed hold is a no-op success; only a token
// that never existed yields ErrHoldNotFound.
func (r *HoldRepo) Release(ctx context.Context, tenantID uint64, token string) error {
	const upd = `UPDATE holds SET state = 'RELEASED'
	             WHERE hold_token = ? AND tenant_id = ? AND state = 'ACTIVE'`
	res, err := r.db.ExecContext(ctx, upd, token, tenantID)
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
	if _, err := r.ByToken(ctx, tenantID, token); err != nil {
		return err
	}
	return nil
}

// ActiveForUpdateTx locks and returns a hold by token within the
// caller's transaction.  The finalizer uses this so the hold cannot be
// extended, released or consumed concurrently while a booking is being
// written.  Missing and terminal holds yield ErrHoldNotFound; an
// active-but-lapsed hold yields ErrHoldExpired.
func (r *HoldRepo) ActiveForUpdateTx(ctx context.Context, tx *sql.Tx, tenantID uint64, token string) (*model.Hold, error) {
	q := `SELECT ` + holdCols + ` FROM holds WHERE hold_token = ? AND tenant_id = ? FOR UPDATE`
	h, err := scanHold(tx.QueryRowContext(ctx, q, token, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, err
	}
	if h.State != model.HoldStateActive {
		return nil, ErrHoldNotFound
	}
	var lapsed bool
	if err := tx.QueryRowContext(ctx, `SELECT ? <= UTC_TIMESTAMP()`, h.ExpiresAt).Scan(&lapsed); err != nil {
		return nil, err
	}
	if lapsed {
		return nil, ErrHoldExpired
	}
	return h, nil
}

// ConsumeTx transitions a live hold to CONSUMED within the caller's
// transaction.  The state and expiry guards make consumption safe
// against racing expiry: zero rows affected means the hold lapsed (or
// was taken) between lookup and consumption.
func (r *HoldRepo) ConsumeTx(ctx context.Context, tx *sql.Tx, holdID uint64) error {
	const upd = `UPDATE holds SET state = 'CONSUMED'
	             WHERE id = ? AND state = 'ACTIVE' AND expires_at > UTC_TIMESTAMP()`
	res, err := tx.ExecContext(ctx, upd, holdID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHoldExpired
	}
	return nil
}

// LiveIntervalsByRoom returns, per room, every interval inside the
// window that is currently occupied: live holds plus blocking
// bookings.  The availability computer overlays this ledger on the
// generated slots.
func (r *HoldRepo) LiveIntervalsByRoom(ctx context.Context, tenantID uint64, window model.Interval) (map[uint64][]model.Interval, error) {
	const q = `
		SELECT room_id, starts_at, ends_at FROM holds
		WHERE tenant_id = ? AND state = 'ACTIVE' AND expires_at > UTC_TIMESTAMP()
		  AND starts_at < ? AND ends_at > ?
		UNION ALL
		SELECT room_id, starts_at, ends_at FROM bookings
		WHERE tenant_id = ? AND status IN ('PENDING_PAYMENT','CONFIRMED')
		  AND starts_at < ? AND ends_at > ?`
	rows, err := r.db.QueryContext(ctx, q,
		tenantID, window.End.UTC(), window.Start.UTC(),
		tenantID, window.End.UTC(), window.Start.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	busy := make(map[uint64][]model.Interval)
	for rows.Next() {
		var roomID uint64
		var iv model.Interval
		if err := rows.Scan(&roomID, &iv.Start, &iv.End); err != nil {
			return nil, err
		}
		busy[roomID] = append(busy[roomID], iv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return busy, nil
}

// DeleteStale removes holds that stopped occupying their interval
// longer than the retention period ago: terminal rows by age and
// active rows by how long they have been lapsed.  Purely a ledger
// hygiene optimization; correctness never depends on it because every
// overlap predicate filters on expires_at.
func (r *HoldRepo) DeleteStale(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	const del = `DELETE FROM holds
	             WHERE (state IN ('RELEASED','CONSUMED') AND created_at <= ?)
	                OR (state = 'ACTIVE' AND expires_at <= ?)`
	res, err := r.db.ExecContext(ctx, del, cutoff, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
