package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/partyloft/booking/internal/model"
)

// SlotTemplateRepo provides read access to the weekly slot templates.
// Templates are tenant configuration: mutated only by the excluded admin
// surface and read-only here.
type SlotTemplateRepo struct {
	db *sql.DB
}

// NewSlotTemplateRepo returns a new SlotTemplateRepo bound to the
// provided database.
func NewSlotTemplateRepo(db *sql.DB) *SlotTemplateRepo { return &SlotTemplateRepo{db: db} }

// ByWeekday returns the active template for a tenant and weekday
// (0 = Sunday).  When no active template exists it returns
// ErrNotConfigured, which callers treat as "no slots that day".
func (r *SlotTemplateRepo) ByWeekday(ctx context.Context, tenantID uint64, weekday int) (*model.SlotTemplate, error) {
	const q = `SELECT id, tenant_id, day_of_week, start_times, open_time, close_time, is_active, created_at, updated_at
	           FROM slot_templates
	           WHERE tenant_id = ? AND day_of_week = ? AND is_active = 1`
	var tpl model.SlotTemplate
	var startTimes string
	err := r.db.QueryRowContext(ctx, q, tenantID, weekday).Scan(
		&tpl.ID, &tpl.TenantID, &tpl.DayOfWeek, &startTimes,
		&tpl.OpenTime, &tpl.CloseTime, &tpl.Active, &tpl.CreatedAt, &tpl.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}
	tpl.StartTimes = splitTimes(startTimes)
	return &tpl, nil
}

// AllForTenant returns every active template for the tenant, keyed by
// weekday.  The availability snapshot writer uses this to cache the
// whole weekly pattern in one pass.
func (r *SlotTemplateRepo) AllForTenant(ctx context.Context, tenantID uint64) (map[int]*model.SlotTemplate, error) {
	const q = `SELECT id, tenant_id, day_of_week, start_times, open_time, close_time, is_active, created_at, updated_at
	           FROM slot_templates
	           WHERE tenant_id = ? AND is_active = 1`
	rows, err := r.db.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int]*model.SlotTemplate)
	for rows.Next() {
		var tpl model.SlotTemplate
		var startTimes string
		if err := rows.Scan(
			&tpl.ID, &tpl.TenantID, &tpl.DayOfWeek, &startTimes,
			&tpl.OpenTime, &tpl.CloseTime, &tpl.Active, &tpl.CreatedAt, &tpl.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tpl.StartTimes = splitTimes(startTimes)
		out[tpl.DayOfWeek] = &tpl
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// splitTimes parses the comma separated start_times column into a slice
// of "HH:MM" strings, dropping empty entries.
func splitTimes(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
