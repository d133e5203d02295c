package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/partyloft/booking/internal/model"
)

// RoomRepo provides read access to the tenant's rooms.  Rooms are
// catalog configuration; the engine reads them for eligibility checks
// and never writes them.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the provided database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomCols = `id, tenant_id, name, max_kids, position, is_active, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var rm model.Room
	err := row.Scan(&rm.ID, &rm.TenantID, &rm.Name, &rm.MaxKids, &rm.Position,
		&rm.Active, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// ByID loads a single active room scoped to the tenant.  It returns
// ErrRoomNotFound for missing, inactive or foreign rooms.
func (r *RoomRepo) ByID(ctx context.Context, tenantID, roomID uint64) (*model.Room, error) {
	q := `SELECT ` + roomCols + ` FROM rooms WHERE id = ? AND tenant_id = ? AND is_active = 1`
	rm, err := scanRoom(r.db.QueryRowContext(ctx, q, roomID, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return rm, nil
}

// ListActive returns all active rooms for the tenant in stable catalog
// order (position, then id).
func (r *RoomRepo) ListActive(ctx context.Context, tenantID uint64) ([]model.Room, error) {
	q := `SELECT ` + roomCols + ` FROM rooms
	      WHERE tenant_id = ? AND is_active = 1
	      ORDER BY position, id`
	return r.listRooms(ctx, q, tenantID)
}

// ListForPackage returns the active rooms mapped to a package through
// package_rooms, in stable catalog order.
func (r *RoomRepo) ListForPackage(ctx context.Context, tenantID, packageID uint64) ([]model.Room, error) {
	q := `SELECT r.id, r.tenant_id, r.name, r.max_kids, r.position, r.is_active, r.created_at, r.updated_at
	      FROM rooms r
	      JOIN package_rooms pr ON pr.room_id = r.id
	      WHERE r.tenant_id = ? AND pr.package_id = ? AND r.is_active = 1
	      ORDER BY r.position, r.id`
	return r.listRooms(ctx, q, tenantID, packageID)
}

func (r *RoomRepo) listRooms(ctx context.Context, q string, args ...any) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
