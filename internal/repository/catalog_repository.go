package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/partyloft/booking/internal/model"
)

// CatalogRepo provides read access to the per-unit extras catalog:
// add-ons and characters.  The finalizer fetches live rows here so line
// items always snapshot current authoritative prices, never
// client-supplied ones.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo returns a new CatalogRepo bound to the provided
// database.
func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// AddonsByIDs returns the tenant's active add-ons among the requested
// ids, keyed by id.  Missing or inactive ids are simply absent from the
// map; callers decide whether that is an error.
func (r *CatalogRepo) AddonsByIDs(ctx context.Context, tenantID uint64, ids []uint64) (map[uint64]model.Addon, error) {
	out := make(map[uint64]model.Addon)
	if len(ids) == 0 {
		return out, nil
	}
	q := `SELECT id, tenant_id, name, price_cents, is_active, created_at, updated_at
	      FROM addons
	      WHERE tenant_id = ? AND is_active = 1 AND id IN (` + placeholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, q, withTenant(tenantID, ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a model.Addon
		if err := rows.Scan(&a.ID, &a.TenantID, &a.Name, &a.PriceCents, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}

// CharactersByIDs returns the tenant's active characters among the
// requested ids, keyed by id.
func (r *CatalogRepo) CharactersByIDs(ctx context.Context, tenantID uint64, ids []uint64) (map[uint64]model.Character, error) {
	out := make(map[uint64]model.Character)
	if len(ids) == 0 {
		return out, nil
	}
	q := `SELECT id, tenant_id, name, price_cents, is_active, created_at, updated_at
	      FROM characters
	      WHERE tenant_id = ? AND is_active = 1 AND id IN (` + placeholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, q, withTenant(tenantID, ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ch model.Character
		if err := rows.Scan(&ch.ID, &ch.TenantID, &ch.Name, &ch.PriceCents, &ch.Active, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, err
		}
		out[ch.ID] = ch
	}
	return out, rows.Err()
}

// placeholders builds a "?, ?, ?" list of n placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// withTenant prefixes the tenant id onto an id list as query args.
func withTenant(tenantID uint64, ids []uint64) []any {
	args := make([]any, 0, len(ids)+1)
	args = append(args, tenantID)
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}
