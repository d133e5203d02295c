// Package hold implements the lifecycle of exclusive, time-boxed room
// holds: create, extend, release.  The manager validates requests and
// owns TTL policy; the storage layer (Store) owns the atomic
// check-and-insert that makes concurrent overlapping creates lose
// cleanly instead of double-booking.
package hold

import (
	"context"
	"errors"
	"time"

	"github.com/partyloft/booking/internal/model"
	"github.com/partyloft/booking/internal/repository"
)

// Store is the persistence contract for holds.  CreateExclusive must
// be atomic with respect to the room/interval ledger: of any set of
// concurrent calls with overlapping intervals on the same room,
// exactly one succeeds and the rest return ErrSlotUnavailable.
type Store interface {
	CreateExclusive(ctx context.Context, h *model.Hold) error
	Extend(ctx context.Context, tenantID uint64, token string, minutes int) (time.Time, error)
	Release(ctx context.Context, tenantID uint64, token string) error
}

// RoomSource resolves rooms for capacity validation.
type RoomSource interface {
	ByID(ctx context.Context, tenantID, roomID uint64) (*model.Room, error)
}

// TenantSource supplies tenant policy (timezone) for calendar checks.
type TenantSource interface {
	ByID(ctx context.Context, tenantID uint64) (*model.Tenant, error)
}

// TemplateSource resolves the weekday template whose open/close bounds
// every hold interval must fit inside.
type TemplateSource interface {
	ByWeekday(ctx context.Context, tenantID uint64, weekday int) (*model.SlotTemplate, error)
}

// BlackoutSource reports whether a date is excluded from booking.
type BlackoutSource interface {
	CoversDate(ctx context.Context, tenantID uint64, date time.Time) (bool, error)
}

// TokenFunc generates public hold tokens.
type TokenFunc func() (string, error)

// Manager applies hold policy on top of a Store.
type Manager struct {
	Store     Store
	Rooms     RoomSource
	Tenants   TenantSource
	Templates TemplateSource
	Blackouts BlackoutSource
	TTL       time.Duration // lifetime of a new hold
	MaxExtend time.Duration // cap on a single extension
	NewToken  TokenFunc     // defaults to repository.NewHoldToken
	Now       func() time.Time
}

// NewManager builds a Manager with the given TTL and extension cap.
func NewManager(store Store, rooms RoomSource, tenants TenantSource, templates TemplateSource, blackouts BlackoutSource, ttl, maxExtend time.Duration) *Manager {
	return &Manager{
		Store:     store,
		Rooms:     rooms,
		Tenants:   tenants,
		Templates: templates,
		Blackouts: blackouts,
		TTL:       ttl,
		MaxExtend: maxExtend,
		NewToken:  repository.NewHoldToken,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// maxHoldSpan bounds how long a single party interval may be; anything
// longer is a malformed request, not a real booking.
const maxHoldSpan = 12 * time.Hour

// Create places a new exclusive hold on (room, interval).  It
// validates the interval against the tenant's calendar (weekday
// template bounds, blackout dates) and the guest count against room
// capacity, then delegates the atomic overlap check to the store.  The
// returned hold carries the public token and expiry the client needs
// for checkout.
func (m *Manager) Create(ctx context.Context, tenantID, roomID, packageID uint64, iv model.Interval, kids int) (*model.Hold, error) {
	now := m.Now()
	if !iv.Valid() || iv.Duration() > maxHoldSpan {
		return nil, repository.ErrInvalidInterval
	}
	if iv.Start.Before(now) {
		return nil, repository.ErrInvalidInterval
	}
	if kids < 1 {
		return nil, repository.ErrInvalidInterval
	}
	if err := m.checkCalendar(ctx, tenantID, iv); err != nil {
		return nil, err
	}
	room, err := m.Rooms.ByID(ctx, tenantID, roomID)
	if err != nil {
		return nil, err
	}
	if kids > room.MaxKids {
		return nil, repository.ErrCapacityExceeded
	}
	token, err := m.NewToken()
	if err != nil {
		return nil, err
	}
	h := &model.Hold{
		Token:     token,
		TenantID:  tenantID,
		RoomID:    roomID,
		PackageID: packageID,
		StartsAt:  iv.Start.UTC(),
		EndsAt:    iv.End.UTC(),
		Kids:      kids,
		State:     model.HoldStateActive,
		ExpiresAt: now.Add(m.TTL),
	}
	if err := m.Store.CreateExclusive(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// checkCalendar rejects intervals the availability computer would never
// offer: blackout dates, weekdays without a template, and times outside
// the template's open/close window.  The weekday is taken in the
// tenant's timezone, never from a UTC split.
func (m *Manager) checkCalendar(ctx context.Context, tenantID uint64, iv model.Interval) error {
	tenant, err := m.Tenants.ByID(ctx, tenantID)
	if err != nil {
		return err
	}
	loc := tenant.Location()
	local := iv.Start.In(loc)

	blacked, err := m.Blackouts.CoversDate(ctx, tenantID, local)
	if err != nil {
		return err
	}
	if blacked {
		return repository.ErrInvalidInterval
	}

	tpl, err := m.Templates.ByWeekday(ctx, tenantID, int(local.Weekday()))
	if errors.Is(err, repository.ErrNotConfigured) {
		return repository.ErrInvalidInterval
	}
	if err != nil {
		return err
	}
	window, ok := tpl.OpenWindow(local, loc)
	if !ok || !window.Covers(iv) {
		return repository.ErrInvalidInterval
	}
	return nil
}

// Extend pushes a live hold's expiry forward, clamping the request to
// the configured maximum.  Expiry never moves backwards: the store
// computes max(expires_at, now) + minutes.
func (m *Manager) Extend(ctx context.Context, tenantID uint64, token string, minutes int) (time.Time, error) {
	if minutes < 1 {
		return time.Time{}, repository.ErrInvalidInterval
	}
	if max := int(m.MaxExtend / time.Minute); max > 0 && minutes > max {
		minutes = max
	}
	return m.Store.Extend(ctx, tenantID, token, minutes)
}

// Release marks a hold released.  Idempotent: clients call it on
// navigation-away and may race expiry or consumption; lazy expiry is
// the authoritative cleanup either way.
func (m *Manager) Release(ctx context.Context, tenantID uint64, token string) error {
	return m.Store.Release(ctx, tenantID, token)
}
