package model

import "time"

// Room is a physical party room.  Rooms exist independently of packages;
// a join table decides which packages may be hosted in which rooms.
//
// Fields:
//  ID        – primary key identifier.
//  TenantID  – owning tenant.
//  Name      – display name ("Jungle Room").
//  MaxKids   – capacity; a hold or booking may never exceed it.
//  Position  – stable catalog ordering within the tenant.
//  Active    – inactive rooms never appear in availability.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
	ID        uint64    // rooms.id
	TenantID  uint64    // rooms.tenant_id
	Name      string    // rooms.name
	MaxKids   int       // rooms.max_kids
	Position  int       // rooms.position
	Active    bool      // rooms.is_active
	CreatedAt time.Time // rooms.created_at
	UpdatedAt time.Time // rooms.updated_at
}
