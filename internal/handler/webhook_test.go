package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/partyloft/booking/internal/model"
	"github.com/partyloft/booking/internal/repository"
)

// fakeApplier records payment applications and mimics the guarded
// status transition: the first result settles, replays observe it.
type fakeApplier struct {
	statuses map[string]string // checkout handle -> settled status
	calls    int
}

func (f *fakeApplier) ApplyPaymentResult(_ context.Context, handle string, succeeded bool) (string, error) {
	f.calls++
	if cur, ok := f.statuses[handle]; ok {
		return cur, nil
	}
	if f.statuses == nil {
		return "", repository.ErrBookingNotFound
	}
	status := model.BookingStatusCancelled
	if succeeded {
		status = model.BookingStatusConfirmed
	}
	f.statuses[handle] = status
	return status, nil
}

const testSecret = "whsec-test"

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, h *PaymentWebhookHandler, body, sig string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if sig != "" {
		req.Header.Set(signatureHeader, sig)
	}
	rec := httptest.NewRecorder()
	if err := h.Handle(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestWebhookSuccess(t *testing.T) {
	applier := &fakeApplier{statuses: map[string]string{}}
	h := NewPaymentWebhookHandler(testSecret, applier, nil)

	body := `{"event_id":"evt-1","checkout_handle":"co-1","succeeded":true}`
	rec := postWebhook(t, h, body, sign(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != model.BookingStatusConfirmed {
		t.Fatalf("status = %q", resp["status"])
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	applier := &fakeApplier{statuses: map[string]string{}}
	h := NewPaymentWebhookHandler(testSecret, applier, nil)

	body := `{"event_id":"evt-1","checkout_handle":"co-1","succeeded":true}`
	for _, sig := range []string{"", "deadbeef", sign(body + " ")} {
		rec := postWebhook(t, h, body, sig)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("sig %q: status = %d, want 401", sig, rec.Code)
		}
	}
	if applier.calls != 0 {
		t.Fatalf("applier called %d times for unsigned requests", applier.calls)
	}
}

func TestWebhookReplayObservesSettledStatus(t *testing.T) {
	applier := &fakeApplier{statuses: map[string]string{}}
	h := NewPaymentWebhookHandler(testSecret, applier, nil)

	success := `{"event_id":"evt-1","checkout_handle":"co-1","succeeded":true}`
	if rec := postWebhook(t, h, success, sign(success)); rec.Code != http.StatusOK {
		t.Fatalf("first delivery: %d", rec.Code)
	}
	// A later failure report for the same handle must not unsettle it.
	failure := `{"event_id":"evt-2","checkout_handle":"co-1","succeeded":false}`
	rec := postWebhook(t, h, failure, sign(failure))
	if rec.Code != http.StatusOK {
		t.Fatalf("replay delivery: %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != model.BookingStatusConfirmed {
		t.Fatalf("settled status changed to %q", resp["status"])
	}
}

func TestWebhookUnknownHandle(t *testing.T) {
	h := NewPaymentWebhookHandler(testSecret, &fakeApplier{}, nil)
	body := `{"event_id":"evt-9","checkout_handle":"co-missing","succeeded":true}`
	if rec := postWebhook(t, h, body, sign(body)); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestWebhookValidatesPayload(t *testing.T) {
	h := NewPaymentWebhookHandler(testSecret, &fakeApplier{statuses: map[string]string{}}, nil)
	for _, body := range []string{
		`not json`,
		`{"checkout_handle":"co-1","succeeded":true}`,
		`{"event_id":"evt-1","succeeded":true}`,
	} {
		if rec := postWebhook(t, h, body, sign(body)); rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}
