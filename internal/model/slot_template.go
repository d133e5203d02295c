package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotTemplate defines the recurring weekly pattern of bookable start
// times for one weekday.  A tenant has at most one active template per
// weekday; a missing template simply means the venue offers no parties
// that day.
//
// Fields:
//  ID         – primary key identifier.
//  TenantID   – owning tenant.
//  DayOfWeek  – 0 (Sunday) through 6 (Saturday).
//  StartTimes – ordered wall-clock start times ("HH:MM", 24h) in the
//               tenant's timezone.
//  OpenTime   – earliest wall-clock time a slot may start ("HH:MM").
//  CloseTime  – latest wall-clock time a slot may end ("HH:MM").
//  Active     – inactive templates are ignored by the resolver.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type SlotTemplate struct {
	ID         uint64    // slot_templates.id
	TenantID   uint64    // slot_templates.tenant_id
	DayOfWeek  int       // slot_templates.day_of_week
	StartTimes []string  // slot_templates.start_times (comma separated column)
	OpenTime   string    // slot_templates.open_time
	CloseTime  string    // slot_templates.close_time
	Active     bool      // slot_templates.is_active
	CreatedAt  time.Time // slot_templates.created_at
	UpdatedAt  time.Time // slot_templates.updated_at
}

// OpenWindow returns the template's [OpenTime, CloseTime) window on the
// given day in loc, converted to UTC.  ok is false when either bound is
// malformed.
func (t *SlotTemplate) OpenWindow(day time.Time, loc *time.Location) (Interval, bool) {
	openMin, err := ParseClock(t.OpenTime)
	if err != nil {
		return Interval{}, false
	}
	closeMin, err := ParseClock(t.CloseTime)
	if err != nil {
		return Interval{}, false
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return Interval{
		Start: midnight.Add(time.Duration(openMin) * time.Minute).UTC(),
		End:   midnight.Add(time.Duration(closeMin) * time.Minute).UTC(),
	}, true
}

// ParseClock converts a wall-clock "HH:MM" value into minutes from
// midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("bad clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("bad clock value %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad clock value %q", s)
	}
	return h*60 + m, nil
}
