package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/partyloft/booking/internal/model"
)

// PackageRepo provides read access to party packages.  The inclusions
// JSON column is decoded through model.PackageInclusions, which also
// accepts the legacy flat-list shape.
type PackageRepo struct {
	db *sql.DB
}

// NewPackageRepo returns a new PackageRepo bound to the provided
// database.
func NewPackageRepo(db *sql.DB) *PackageRepo { return &PackageRepo{db: db} }

// ByID loads a single active package scoped to the tenant.  It returns
// ErrPackageNotFound for missing, inactive or foreign packages.
func (r *PackageRepo) ByID(ctx context.Context, tenantID, packageID uint64) (*model.Package, error) {
	const q = `SELECT id, tenant_id, name, base_price_cents, base_kids, extra_kid_price_cents,
	                  duration_min, inclusions, is_active, created_at, updated_at
	           FROM packages WHERE id = ? AND tenant_id = ? AND is_active = 1`
	var p model.Package
	var inclusions sql.NullString
	err := r.db.QueryRowContext(ctx, q, packageID, tenantID).Scan(
		&p.ID, &p.TenantID, &p.Name, &p.BasePriceCents, &p.BaseKids, &p.ExtraKidPriceCents,
		&p.DurationMin, &inclusions, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}
	if inclusions.Valid && inclusions.String != "" {
		if err := json.Unmarshal([]byte(inclusions.String), &p.Inclusions); err != nil {
			// A corrupt inclusions blob must not make the package
			// unbookable; pricing and duration do not depend on it.
			p.Inclusions = model.PackageInclusions{}
		}
	}
	return &p, nil
}
