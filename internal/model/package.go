package model

import (
	"encoding/json"
	"time"
)

// Package is a bookable party offering.  It governs both the slot
// duration used when computing availability and the set of rooms the
// party may be hosted in (via package_rooms).
//
// Fields:
//  ID                 – primary key identifier.
//  TenantID           – owning tenant.
//  Name               – display name ("Deluxe Birthday Bash").
//  BasePriceCents     – price covering up to BaseKids guests.
//  BaseKids           – number of guests included in the base price.
//  ExtraKidPriceCents – per-guest charge beyond BaseKids.
//  DurationMin        – party length in minutes.
//  Inclusions         – structured description of what the package
//                       includes (see PackageInclusions).
//  Active             – inactive packages cannot be booked.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Package struct {
	ID                 uint64            // packages.id
	TenantID           uint64            // packages.tenant_id
	Name               string            // packages.name
	BasePriceCents     int64             // packages.base_price_cents
	BaseKids           int               // packages.base_kids
	ExtraKidPriceCents int64             // packages.extra_kid_price_cents
	DurationMin        int               // packages.duration_min
	Inclusions         PackageInclusions // packages.inclusions (JSON column)
	Active             bool              // packages.is_active
	CreatedAt          time.Time         // packages.created_at
	UpdatedAt          time.Time         // packages.updated_at
}

// PackageInclusions is the validated shape of the packages.inclusions
// JSON column.  Older rows stored a bare array of strings; the decoder
// accepts both shapes so legacy rows keep working until migrated.
type PackageInclusions struct {
	Food       []string `json:"food,omitempty"`
	Activities []string `json:"activities,omitempty"`
	Extras     []string `json:"extras,omitempty"`
}

// UnmarshalJSON decodes either the current object shape or the legacy
// flat string list.  Legacy entries land in Extras.
func (p *PackageInclusions) UnmarshalJSON(data []byte) error {
	type current PackageInclusions
	var cur current
	if err := json.Unmarshal(data, &cur); err == nil {
		*p = PackageInclusions(cur)
		return nil
	}
	var legacy []string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	*p = PackageInclusions{Extras: legacy}
	return nil
}

// IsZero reports whether no inclusions are recorded.
func (p PackageInclusions) IsZero() bool {
	return len(p.Food) == 0 && len(p.Activities) == 0 && len(p.Extras) == 0
}
