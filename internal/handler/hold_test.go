package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/partyloft/booking/internal/hold"
	"github.com/partyloft/booking/internal/model"
	"github.com/partyloft/booking/internal/repository"
)

// stubStore backs the hold manager with a single in-memory hold so the
// HTTP surface can be exercised without a database.
type stubStore struct {
	mu   sync.Mutex
	held *model.Hold
	now  time.Time
}

func (s *stubStore) CreateExclusive(_ context.Context, h *model.Hold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held != nil && s.held.Live(s.now) && s.held.RoomID == h.RoomID &&
		s.held.StartsAt.Before(h.EndsAt) && h.StartsAt.Before(s.held.EndsAt) {
		return repository.ErrSlotUnavailable
	}
	cp := *h
	s.held = &cp
	return nil
}

func (s *stubStore) Extend(_ context.Context, tenantID uint64, token string, minutes int) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held == nil || s.held.Token != token || s.held.TenantID != tenantID {
		return time.Time{}, repository.ErrHoldNotFound
	}
	if !s.held.Live(s.now) {
		return time.Time{}, repository.ErrHoldExpired
	}
	s.held.ExpiresAt = s.held.ExpiresAt.Add(time.Duration(minutes) * time.Minute)
	return s.held.ExpiresAt, nil
}

func (s *stubStore) Release(_ context.Context, tenantID uint64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held == nil || s.held.Token != token || s.held.TenantID != tenantID {
		return repository.ErrHoldNotFound
	}
	if s.held.State == model.HoldStateActive {
		s.held.State = model.HoldStateReleased
	}
	return nil
}

type stubRooms struct{ room model.Room }

func (r stubRooms) ByID(_ context.Context, _, roomID uint64) (*model.Room, error) {
	if roomID != r.room.ID {
		return nil, repository.ErrRoomNotFound
	}
	cp := r.room
	return &cp, nil
}

// stubCalendar admits any weekday with a wide open window so the HTTP
// tests exercise the handler mapping, not the calendar policy.
type stubCalendar struct{}

func (stubCalendar) ByID(_ context.Context, tenantID uint64) (*model.Tenant, error) {
	return &model.Tenant{ID: tenantID, Timezone: "UTC"}, nil
}

func (stubCalendar) ByWeekday(_ context.Context, _ uint64, weekday int) (*model.SlotTemplate, error) {
	return &model.SlotTemplate{
		DayOfWeek: weekday,
		OpenTime:  "08:00",
		CloseTime: "22:00",
		Active:    true,
	}, nil
}

func (stubCalendar) CoversDate(_ context.Context, _ uint64, _ time.Time) (bool, error) {
	return false, nil
}

var holdClock = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newHoldHandler() (*HoldHandler, *stubStore) {
	st := &stubStore{now: holdClock}
	m := hold.NewManager(st, stubRooms{room: model.Room{ID: 7, MaxKids: 15}},
		stubCalendar{}, stubCalendar{}, stubCalendar{}, 10*time.Minute, 30*time.Minute)
	m.Now = func() time.Time { return holdClock }
	return NewHoldHandler(m), st
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("tenant_id", uint64(1))
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func createBody(startHour int) string {
	start := time.Date(2025, 6, 7, startHour, 0, 0, 0, time.UTC)
	b, _ := json.Marshal(map[string]any{
		"room_id":    7,
		"package_id": 3,
		"start":      start.Format(time.RFC3339),
		"end":        start.Add(2 * time.Hour).Format(time.RFC3339),
		"kids":       10,
	})
	return string(b)
}

func TestHoldCreateReturnsToken(t *testing.T) {
	h, _ := newHoldHandler()
	rec := doJSON(t, h.Create, http.MethodPost, "/v1/holds", createBody(13), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		HoldID    string    `json:"hold_id"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.HoldID == "" {
		t.Fatal("expected hold_id")
	}
	if want := holdClock.Add(10 * time.Minute); !resp.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", resp.ExpiresAt, want)
	}
}

func TestHoldCreateConflict(t *testing.T) {
	h, _ := newHoldHandler()
	if rec := doJSON(t, h.Create, http.MethodPost, "/v1/holds", createBody(13), nil); rec.Code != http.StatusCreated {
		t.Fatalf("first create: %d", rec.Code)
	}
	if rec := doJSON(t, h.Create, http.MethodPost, "/v1/holds", createBody(13), nil); rec.Code != http.StatusConflict {
		t.Fatalf("second create = %d, want 409", rec.Code)
	}
}

func TestHoldCreateCapacity(t *testing.T) {
	h, _ := newHoldHandler()
	body := strings.Replace(createBody(13), `"kids":10`, `"kids":16`, 1)
	if rec := doJSON(t, h.Create, http.MethodPost, "/v1/holds", body, nil); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestHoldCreateBadInterval(t *testing.T) {
	h, _ := newHoldHandler()
	body := `{"room_id":7,"package_id":3,"start":"2025-06-07T15:00:00Z","end":"2025-06-07T13:00:00Z","kids":10}`
	if rec := doJSON(t, h.Create, http.MethodPost, "/v1/holds", body, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHoldExtendAndGone(t *testing.T) {
	h, st := newHoldHandler()
	rec := doJSON(t, h.Create, http.MethodPost, "/v1/holds", createBody(13), nil)
	var created struct {
		HoldID string `json:"hold_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, h.Extend, http.MethodPost, "/v1/holds/x/extend", `{"minutes":15}`, map[string]string{"id": created.HoldID})
	if rec.Code != http.StatusOK {
		t.Fatalf("extend = %d body = %s", rec.Code, rec.Body.String())
	}

	// Lapse the hold, then extension answers 410.
	st.mu.Lock()
	st.held.ExpiresAt = holdClock.Add(-time.Minute)
	st.mu.Unlock()
	rec = doJSON(t, h.Extend, http.MethodPost, "/v1/holds/x/extend", `{"minutes":15}`, map[string]string{"id": created.HoldID})
	if rec.Code != http.StatusGone {
		t.Fatalf("extend lapsed = %d, want 410", rec.Code)
	}

	rec = doJSON(t, h.Extend, http.MethodPost, "/v1/holds/x/extend", `{"minutes":15}`, map[string]string{"id": "missing"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("extend unknown = %d, want 404", rec.Code)
	}
}

func TestHoldReleaseIdempotent(t *testing.T) {
	h, _ := newHoldHandler()
	rec := doJSON(t, h.Create, http.MethodPost, "/v1/holds", createBody(13), nil)
	var created struct {
		HoldID string `json:"hold_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := 0; i < 2; i++ {
		rec = doJSON(t, h.Release, http.MethodDelete, "/v1/holds/x", "", map[string]string{"id": created.HoldID})
		if rec.Code != http.StatusOK {
			t.Fatalf("release #%d = %d", i+1, rec.Code)
		}
	}
	// Unknown holds release fine too.
	rec = doJSON(t, h.Release, http.MethodDelete, "/v1/holds/x", "", map[string]string{"id": "missing"})
	if rec.Code != http.StatusOK {
		t.Fatalf("release unknown = %d, want 200", rec.Code)
	}
}

func TestHoldRequiresTenant(t *testing.T) {
	h, _ := newHoldHandler()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/holds", strings.NewReader(createBody(13)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
