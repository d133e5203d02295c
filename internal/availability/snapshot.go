package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/partyloft/booking/internal/model"
)

// Snapshot is the cached slice of tenant configuration the degraded
// fallback needs: enough to derive template slots, nothing about the
// reservation ledger (which a fallback must not pretend to know).
type Snapshot struct {
	Timezone  string                      `json:"timezone"`
	Templates map[int]*model.SlotTemplate `json:"templates"`
	Rooms     []model.Room                `json:"rooms"`
	SavedAt   time.Time                   `json:"saved_at"`
}

// Location resolves the snapshot's timezone, defaulting to UTC.
func (s *Snapshot) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SnapshotStore persists availability snapshots in Redis.  A nil
// client disables the store; Save and Load become no-ops and misses.
type SnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSnapshotStore builds a store over the given Redis client.  The
// generous TTL is intentional: a day-old snapshot still beats an empty
// availability page during a database outage.
func NewSnapshotStore(rdb *redis.Client) *SnapshotStore {
	return &SnapshotStore{rdb: rdb, ttl: 24 * time.Hour}
}

func snapshotKey(tenantID uint64) string {
	return fmt.Sprintf("avail:snapshot:%d", tenantID)
}

// Save writes the tenant's snapshot.
func (s *SnapshotStore) Save(ctx context.Context, tenantID uint64, snap *Snapshot) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.rdb.SetEx(ctx, snapshotKey(tenantID), payload, s.ttl).Err()
}

// Load reads the tenant's snapshot; an error means no usable snapshot
// exists and the degraded fallback cannot serve.
func (s *SnapshotStore) Load(ctx context.Context, tenantID uint64) (*Snapshot, error) {
	if s == nil || s.rdb == nil {
		return nil, redis.Nil
	}
	payload, err := s.rdb.Get(ctx, snapshotKey(tenantID)).Bytes()
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
