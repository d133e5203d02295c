package repository

import (
	"context"
	"database/sql"
	"time"
)

// BlackoutRepo provides read access to blackout date ranges.
type BlackoutRepo struct {
	db *sql.DB
}

// NewBlackoutRepo returns a new BlackoutRepo bound to the provided
// database.
func NewBlackoutRepo(db *sql.DB) *BlackoutRepo { return &BlackoutRepo{db: db} }

// CoversDate reports whether any active blackout range contains the
// given date.  Ranges are inclusive on both ends at date granularity;
// the caller passes the date truncated to midnight.
func (r *BlackoutRepo) CoversDate(ctx context.Context, tenantID uint64, date time.Time) (bool, error) {
	const q = `SELECT COUNT(*) FROM blackouts
	           WHERE tenant_id = ? AND is_active = 1
	             AND start_date <= ? AND end_date >= ?`
	d := date.Format("2006-01-02")
	var n int
	if err := r.db.QueryRowContext(ctx, q, tenantID, d, d).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
