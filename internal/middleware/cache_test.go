package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/partyloft/booking/internal/config"
)

func TestCaptureWriterFlagsOversizedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	payload := strings.Repeat("x", 100)
	for _, chunk := range []string{payload[:3], payload[3:40], payload[40:]} {
		if _, err := cw.Write([]byte(chunk)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if got := rec.Body.Len(); got != 100 {
		t.Fatalf("client received %d bytes, want 100", got)
	}
	if got := cw.buf.Len(); got != 10 {
		t.Fatalf("captured %d bytes, want the 10 byte cap", got)
	}
	// size counts the full response, so a truncated capture is
	// detectable as size > limit even though len(buf) == limit.
	if cw.size != 100 {
		t.Fatalf("size = %d, want 100", cw.size)
	}
	if cw.size <= cw.limit {
		t.Fatal("oversized body not flagged; truncated payload would be cached")
	}
}

func TestCaptureWriterExactLimitIsCacheable(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	if _, err := cw.Write([]byte("0123456789")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if cw.buf.Len() != 10 || cw.size != 10 {
		t.Fatalf("buf = %d size = %d, want 10/10", cw.buf.Len(), cw.size)
	}
	if cw.size > cw.limit {
		t.Fatal("exact-limit body misreported as truncated")
	}
}

func TestCacheKeyScopedByTenant(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	e := echo.New()

	keyFor := func(tenant uint64) string {
		req := httptest.NewRequest(http.MethodGet, "/v1/availability?date=2025-06-07", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/availability")
		c.Set("tenant_id", tenant)
		return cacheKeyFrom(cfg, c)
	}

	if keyFor(1) == keyFor(2) {
		t.Fatal("two tenants share one cache key")
	}
	if keyFor(1) != keyFor(1) {
		t.Fatal("cache key not stable for one tenant")
	}
}

func TestDisabledCachePassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/availability", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("called = %v code = %d", called, rec.Code)
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Fatalf("unexpected X-Cache header %q", rec.Header().Get("X-Cache"))
	}
}
