package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/partyloft/booking/internal/model"
)

// TenantRepo provides read access to tenant configuration.  Tenant rows
// are owned by the excluded admin surface; the engine only ever reads
// them (timezone, tax rate, deposit policy).
type TenantRepo struct {
	db *sql.DB
}

// NewTenantRepo returns a new TenantRepo bound to the provided database.
func NewTenantRepo(db *sql.DB) *TenantRepo { return &TenantRepo{db: db} }

// ByID loads an active tenant.  It returns ErrTenantNotFound when the
// tenant does not exist or has been deactivated.
func (r *TenantRepo) ByID(ctx context.Context, tenantID uint64) (*model.Tenant, error) {
	const q = `SELECT id, name, timezone, tax_rate_bps, deposit_percent, is_active, created_at, updated_at
	           FROM tenants WHERE id = ? AND is_active = 1`
	var t model.Tenant
	err := r.db.QueryRowContext(ctx, q, tenantID).Scan(
		&t.ID, &t.Name, &t.Timezone, &t.TaxRateBps, &t.DepositPercent,
		&t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
