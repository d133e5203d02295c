// Package availability derives the bookable slots for a date from the
// tenant's weekly templates, blackout calendar and the live reservation
// ledger.  Results are advisory: hold creation always re-validates
// against the ledger, so a stale or degraded answer can never cause a
// double-booking.
package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/partyloft/booking/internal/model"
	"github.com/partyloft/booking/internal/repository"
)

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

// TenantSource supplies tenant policy (timezone) for slot derivation.
type TenantSource interface {
	ByID(ctx context.Context, tenantID uint64) (*model.Tenant, error)
}

// TemplateSource supplies the weekly slot templates.
type TemplateSource interface {
	ByWeekday(ctx context.Context, tenantID uint64, weekday int) (*model.SlotTemplate, error)
	AllForTenant(ctx context.Context, tenantID uint64) (map[int]*model.SlotTemplate, error)
}

// BlackoutSource reports whether a date is excluded from booking.
type BlackoutSource interface {
	CoversDate(ctx context.Context, tenantID uint64, date time.Time) (bool, error)
}

// RoomSource supplies candidate rooms in stable catalog order.
type RoomSource interface {
	ListActive(ctx context.Context, tenantID uint64) ([]model.Room, error)
	ListForPackage(ctx context.Context, tenantID, packageID uint64) ([]model.Room, error)
}

// PackageSource supplies the package whose duration governs slot length.
type PackageSource interface {
	ByID(ctx context.Context, tenantID, packageID uint64) (*model.Package, error)
}

// LedgerSource supplies the occupied intervals (live holds plus
// blocking bookings) per room inside a window.
type LedgerSource interface {
	LiveIntervalsByRoom(ctx context.Context, tenantID uint64, window model.Interval) (map[uint64][]model.Interval, error)
}

// SnapshotSource stores and recalls the tenant-configuration snapshot
// backing the degraded fallback.
type SnapshotSource interface {
	Save(ctx context.Context, tenantID uint64, snap *Snapshot) error
	Load(ctx context.Context, tenantID uint64) (*Snapshot, error)
}

// RoomAvailability annotates one room for one slot.
type RoomAvailability struct {
	RoomID    uint64 `json:"room_id"`
	Name      string `json:"name"`
	MaxKids   int    `json:"max_kids"`
	Eligible  bool   `json:"eligible"`
	Available bool   `json:"available"`
}

// Slot is one bookable window with its per-room annotations.
type Slot struct {
	Start time.Time          `json:"start"`
	End   time.Time          `json:"end"`
	Rooms []RoomAvailability `json:"rooms"`
}

// Result is the availability answer for one tenant and date.  Degraded
// results come from the snapshot fallback and must only ever be used
// for display.
type Result struct {
	Date     string `json:"date"`
	Degraded bool   `json:"degraded"`
	Slots    []Slot `json:"slots"`
}

// Computer composes the template resolver, blackout filter, catalog and
// reservation ledger into availability answers.
type Computer struct {
	Tenants         TenantSource
	Templates       TemplateSource
	Blackouts       BlackoutSource
	Rooms           RoomSource
	Packages        PackageSource
	Ledger          LedgerSource
	Snapshots       SnapshotSource // optional; enables the degraded fallback
	DefaultDuration time.Duration  // slot length when no package is chosen
}

// Compute returns the slots for a date.  packageID of zero means the
// customer has not picked a package yet: all active rooms are candidates
// and the default duration applies.  kids of zero skips the capacity
// eligibility filter.
//
// When the primary path fails on a storage error, Compute falls back to
// the last snapshot and tags the result Degraded.  Domain errors
// (unknown tenant or package, malformed date) are returned as-is.
func (c *Computer) Compute(ctx context.Context, tenantID uint64, date string, packageID uint64, kids int) (*Result, error) {
	res, err := c.computePrimary(ctx, tenantID, date, packageID, kids)
	if err == nil {
		return res, nil
	}
	if isDomainErr(err) {
		return nil, err
	}
	if c.Snapshots != nil {
		if deg, derr := c.computeDegraded(ctx, tenantID, date); derr == nil {
			return deg, nil
		}
	}
	return nil, err
}

func (c *Computer) computePrimary(ctx context.Context, tenantID uint64, date string, packageID uint64, kids int) (*Result, error) {
	tenant, err := c.Tenants.ByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	loc := tenant.Location()
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", repository.ErrInvalidInterval, date)
	}

	result := &Result{Date: date, Slots: []Slot{}}

	blacked, err := c.Blackouts.CoversDate(ctx, tenantID, day)
	if err != nil {
		return nil, err
	}
	if blacked {
		return result, nil
	}

	// Weekday in the tenant's timezone, never from a UTC split.
	tpl, err := c.Templates.ByWeekday(ctx, tenantID, int(day.Weekday()))
	if errors.Is(err, repository.ErrNotConfigured) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	duration := c.DefaultDuration
	if packageID != 0 {
		pkg, err := c.Packages.ByID(ctx, tenantID, packageID)
		if err != nil {
			return nil, err
		}
		duration = time.Duration(pkg.DurationMin) * time.Minute
	}

	var rooms []model.Room
	if packageID != 0 {
		rooms, err = c.Rooms.ListForPackage(ctx, tenantID, packageID)
	} else {
		rooms, err = c.Rooms.ListActive(ctx, tenantID)
	}
	if err != nil {
		return nil, err
	}

	windows := buildWindows(tpl, day, loc, duration)
	if len(windows) == 0 {
		return result, nil
	}

	dayWindow := model.Interval{Start: windows[0].Start, End: windows[len(windows)-1].End}
	busy, err := c.Ledger.LiveIntervalsByRoom(ctx, tenantID, dayWindow)
	if err != nil {
		return nil, err
	}

	for _, w := range windows {
		slot := Slot{Start: w.Start, End: w.End, Rooms: make([]RoomAvailability, 0, len(rooms))}
		for _, rm := range rooms {
			ra := RoomAvailability{
				RoomID:   rm.ID,
				Name:     rm.Name,
				MaxKids:  rm.MaxKids,
				Eligible: kids <= 0 || kids <= rm.MaxKids,
			}
			ra.Available = !overlapsAny(w, busy[rm.ID])
			slot.Rooms = append(slot.Rooms, ra)
		}
		result.Slots = append(result.Slots, slot)
	}

	c.saveSnapshot(ctx, tenant)
	return result, nil
}

// computeDegraded serves availability from the last Redis snapshot:
// template starts with the default duration and every room marked
// eligible and available.  Display only; hold creation re-checks the
// live ledger regardless of how a slot was discovered.
func (c *Computer) computeDegraded(ctx context.Context, tenantID uint64, date string) (*Result, error) {
	snap, err := c.Snapshots.Load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	loc := snap.Location()
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", repository.ErrInvalidInterval, date)
	}
	result := &Result{Date: date, Degraded: true, Slots: []Slot{}}
	tpl := snap.Templates[int(day.Weekday())]
	if tpl == nil {
		return result, nil
	}
	rooms := make([]RoomAvailability, 0, len(snap.Rooms))
	for _, rm := range snap.Rooms {
		rooms = append(rooms, RoomAvailability{
			RoomID: rm.ID, Name: rm.Name, MaxKids: rm.MaxKids,
			Eligible: true, Available: true,
		})
	}
	for _, w := range buildWindows(tpl, day, loc, c.DefaultDuration) {
		result.Slots = append(result.Slots, Slot{Start: w.Start, End: w.End, Rooms: rooms})
	}
	return result, nil
}

// saveSnapshot refreshes the degraded-mode snapshot after a successful
// primary computation.  Best effort: a failed save never fails the
// request.
func (c *Computer) saveSnapshot(ctx context.Context, tenant *model.Tenant) {
	if c.Snapshots == nil {
		return
	}
	templates, err := c.Templates.AllForTenant(ctx, tenant.ID)
	if err != nil {
		return
	}
	rooms, err := c.Rooms.ListActive(ctx, tenant.ID)
	if err != nil {
		return
	}
	_ = c.Snapshots.Save(ctx, tenant.ID, &Snapshot{
		Timezone:  tenant.Timezone,
		Templates: templates,
		Rooms:     rooms,
		SavedAt:   time.Now().UTC(),
	})
}

// buildWindows turns the template's wall-clock start times into UTC
// intervals of the given duration, keeping only windows that fit within
// [open_time, close_time], sorted ascending.
func buildWindows(tpl *model.SlotTemplate, day time.Time, loc *time.Location, duration time.Duration) []model.Interval {
	openMin, err := model.ParseClock(tpl.OpenTime)
	if err != nil {
		return nil
	}
	closeMin, err := model.ParseClock(tpl.CloseTime)
	if err != nil {
		return nil
	}
	durMin := int(duration / time.Minute)
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	var out []model.Interval
	for _, st := range tpl.StartTimes {
		startMin, err := model.ParseClock(st)
		if err != nil {
			continue
		}
		if startMin < openMin || startMin+durMin > closeMin {
			continue
		}
		start := midnight.Add(time.Duration(startMin) * time.Minute).UTC()
		out = append(out, model.Interval{Start: start, End: start.Add(duration)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func overlapsAny(w model.Interval, busy []model.Interval) bool {
	for _, b := range busy {
		if w.Overlaps(b) {
			return true
		}
	}
	return false
}

// isDomainErr reports whether the error is a client-facing domain error
// rather than a storage failure; domain errors never trigger the
// degraded fallback.
func isDomainErr(err error) bool {
	return errors.Is(err, repository.ErrTenantNotFound) ||
		errors.Is(err, repository.ErrPackageNotFound) ||
		errors.Is(err, repository.ErrInvalidInterval)
}
