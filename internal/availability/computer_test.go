package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/partyloft/booking/internal/model"
	"github.com/partyloft/booking/internal/repository"
)

type fakeTenants struct{ tenant *model.Tenant }

func (f *fakeTenants) ByID(_ context.Context, id uint64) (*model.Tenant, error) {
	if f.tenant == nil || f.tenant.ID != id {
		return nil, repository.ErrTenantNotFound
	}
	return f.tenant, nil
}

type fakeTemplates struct{ byDay map[int]*model.SlotTemplate }

func (f *fakeTemplates) ByWeekday(_ context.Context, _ uint64, weekday int) (*model.SlotTemplate, error) {
	tpl, ok := f.byDay[weekday]
	if !ok {
		return nil, repository.ErrNotConfigured
	}
	return tpl, nil
}

func (f *fakeTemplates) AllForTenant(context.Context, uint64) (map[int]*model.SlotTemplate, error) {
	return f.byDay, nil
}

type fakeBlackouts struct{ dates map[string]bool }

func (f *fakeBlackouts) CoversDate(_ context.Context, _ uint64, date time.Time) (bool, error) {
	return f.dates[date.Format(DateLayout)], nil
}

type fakeRooms struct{ rooms []model.Room }

func (f *fakeRooms) ListActive(context.Context, uint64) ([]model.Room, error) { return f.rooms, nil }
func (f *fakeRooms) ListForPackage(context.Context, uint64, uint64) ([]model.Room, error) {
	return f.rooms, nil
}

type fakePackages struct{ pkg *model.Package }

func (f *fakePackages) ByID(_ context.Context, _, id uint64) (*model.Package, error) {
	if f.pkg == nil || f.pkg.ID != id {
		return nil, repository.ErrPackageNotFound
	}
	return f.pkg, nil
}

type fakeLedger struct {
	busy map[uint64][]model.Interval
	err  error
}

func (f *fakeLedger) LiveIntervalsByRoom(context.Context, uint64, model.Interval) (map[uint64][]model.Interval, error) {
	return f.busy, f.err
}

type fakeSnapshots struct{ snap *Snapshot }

func (f *fakeSnapshots) Save(_ context.Context, _ uint64, snap *Snapshot) error {
	f.snap = snap
	return nil
}

func (f *fakeSnapshots) Load(context.Context, uint64) (*Snapshot, error) {
	if f.snap == nil {
		return nil, errors.New("no snapshot")
	}
	return f.snap, nil
}

// saturdayTemplate offers 10:00, 13:00 and 18:30 starts with doors
// from 10:00 to 20:00.
func saturdayTemplate() *model.SlotTemplate {
	return &model.SlotTemplate{
		TenantID:   1,
		DayOfWeek:  6,
		StartTimes: []string{"13:00", "10:00", "18:30"},
		OpenTime:   "10:00",
		CloseTime:  "20:00",
		Active:     true,
	}
}

func newComputer() *Computer {
	return &Computer{
		Tenants:   &fakeTenants{tenant: &model.Tenant{ID: 1, Timezone: "UTC", Active: true}},
		Templates: &fakeTemplates{byDay: map[int]*model.SlotTemplate{6: saturdayTemplate()}},
		Blackouts: &fakeBlackouts{dates: map[string]bool{}},
		Rooms: &fakeRooms{rooms: []model.Room{
			{ID: 11, TenantID: 1, Name: "Jungle", MaxKids: 10, Active: true},
			{ID: 12, TenantID: 1, Name: "Space", MaxKids: 20, Active: true},
		}},
		Packages:        &fakePackages{pkg: &model.Package{ID: 5, TenantID: 1, DurationMin: 90, Active: true}},
		Ledger:          &fakeLedger{},
		DefaultDuration: 120 * time.Minute,
	}
}

// 2025-06-07 is a Saturday.
const saturday = "2025-06-07"

func TestComputeBounds(t *testing.T) {
	c := newComputer()
	res, err := c.Compute(context.Background(), 1, saturday, 0, 0)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// 18:30 + 120min would end 20:30, past close; only 10:00 and 13:00 fit.
	if len(res.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(res.Slots))
	}
	open := 10 * 60
	closeMin := 20 * 60
	for _, s := range res.Slots {
		startMin := s.Start.UTC().Hour()*60 + s.Start.UTC().Minute()
		endMin := startMin + int(s.End.Sub(s.Start)/time.Minute)
		if startMin < open || endMin > closeMin {
			t.Fatalf("slot %v-%v escapes open/close bounds", s.Start, s.End)
		}
	}
	if !res.Slots[0].Start.Before(res.Slots[1].Start) {
		t.Fatalf("slots not ordered by start time")
	}
}

func TestComputePackageDuration(t *testing.T) {
	c := newComputer()
	res, err := c.Compute(context.Background(), 1, saturday, 5, 0)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// 90-minute package: 18:30 now fits (ends 20:00 exactly).
	if len(res.Slots) != 3 {
		t.Fatalf("expected 3 slots with 90min duration, got %d", len(res.Slots))
	}
	for _, s := range res.Slots {
		if got := s.End.Sub(s.Start); got != 90*time.Minute {
			t.Fatalf("expected 90min slots, got %v", got)
		}
	}
}

func TestComputeBlackout(t *testing.T) {
	c := newComputer()
	c.Blackouts = &fakeBlackouts{dates: map[string]bool{saturday: true}}
	res, err := c.Compute(context.Background(), 1, saturday, 0, 0)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(res.Slots) != 0 {
		t.Fatalf("expected no slots on a blackout date, got %d", len(res.Slots))
	}
}

func TestComputeNoTemplate(t *testing.T) {
	c := newComputer()
	res, err := c.Compute(context.Background(), 1, "2025-06-09", 0, 0) // a Monday
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(res.Slots) != 0 {
		t.Fatalf("expected no slots without a template, got %d", len(res.Slots))
	}
}

func TestComputeConflictsAndEligibility(t *testing.T) {
	c := newComputer()
	// Room 11 is busy 10:00-12:00 UTC.
	busyStart := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)
	c.Ledger = &fakeLedger{busy: map[uint64][]model.Interval{
		11: {{Start: busyStart, End: busyStart.Add(2 * time.Hour)}},
	}}
	res, err := c.Compute(context.Background(), 1, saturday, 0, 12)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	first := res.Slots[0] // 10:00 slot
	for _, ra := range first.Rooms {
		switch ra.RoomID {
		case 11:
			if ra.Available {
				t.Fatalf("room 11 should be unavailable for the 10:00 slot")
			}
			if ra.Eligible {
				t.Fatalf("room 11 (max 10 kids) should be ineligible for 12 kids")
			}
		case 12:
			if !ra.Available || !ra.Eligible {
				t.Fatalf("room 12 should be available and eligible, got %+v", ra)
			}
		}
	}
	second := res.Slots[1] // 13:00 slot, no conflicts
	for _, ra := range second.Rooms {
		if !ra.Available {
			t.Fatalf("room %d should be available for the 13:00 slot", ra.RoomID)
		}
	}
}

func TestComputeTenantTimezone(t *testing.T) {
	c := newComputer()
	c.Tenants = &fakeTenants{tenant: &model.Tenant{ID: 1, Timezone: "America/New_York", Active: true}}
	res, err := c.Compute(context.Background(), 1, saturday, 0, 0)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(res.Slots) == 0 {
		t.Fatal("expected slots")
	}
	// 10:00 EDT is 14:00 UTC in June.
	if got := res.Slots[0].Start.UTC().Hour(); got != 14 {
		t.Fatalf("expected first slot at 14:00 UTC, got %02d:00", got)
	}
}

func TestComputeDegradedFallback(t *testing.T) {
	c := newComputer()
	snaps := &fakeSnapshots{}
	c.Snapshots = snaps

	// Prime the snapshot through a healthy compute.
	if _, err := c.Compute(context.Background(), 1, saturday, 0, 0); err != nil {
		t.Fatalf("priming compute: %v", err)
	}
	if snaps.snap == nil {
		t.Fatal("expected snapshot to be saved after primary compute")
	}

	// Break the ledger; the computer must serve the snapshot, degraded.
	c.Ledger = &fakeLedger{err: errors.New("connection refused")}
	res, err := c.Compute(context.Background(), 1, saturday, 0, 0)
	if err != nil {
		t.Fatalf("degraded compute: %v", err)
	}
	if !res.Degraded {
		t.Fatal("expected a degraded result")
	}
	if len(res.Slots) != 2 {
		t.Fatalf("expected 2 default-duration slots, got %d", len(res.Slots))
	}
	for _, s := range res.Slots {
		for _, ra := range s.Rooms {
			if !ra.Available || !ra.Eligible {
				t.Fatalf("degraded results must mark rooms available and eligible, got %+v", ra)
			}
		}
	}
}

func TestComputeDegradedWithoutSnapshotFailsClosed(t *testing.T) {
	c := newComputer()
	c.Snapshots = &fakeSnapshots{}
	c.Ledger = &fakeLedger{err: errors.New("connection refused")}
	if _, err := c.Compute(context.Background(), 1, saturday, 0, 0); err == nil {
		t.Fatal("expected an error when no snapshot can back the fallback")
	}
}

func TestComputeUnknownPackage(t *testing.T) {
	c := newComputer()
	_, err := c.Compute(context.Background(), 1, saturday, 99, 0)
	if !errors.Is(err, repository.ErrPackageNotFound) {
		t.Fatalf("expected ErrPackageNotFound, got %v", err)
	}
}
