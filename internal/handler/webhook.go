package handler

import (
	"crypto/hmac"   // constant-time signature comparison
	"crypto/sha256" // webhook signature digest
	"encoding/hex"  // signature encoding
	"encoding/json" // payload decoding
	"errors"        // sentinel comparisons
	"io"            // raw body read for signing
	"net/http"      // HTTP status codes
	"time"          // dedup key TTL

	"github.com/labstack/echo/v4"  // Echo web framework
	"github.com/redis/go-redis/v9" // replay dedup

	"github.com/partyloft/booking/internal/queue"
	"github.com/partyloft/booking/internal/repository"
)

// signatureHeader carries the hex HMAC-SHA256 of the raw request body.
const signatureHeader = "X-Payment-Signature"

// dedupTTL bounds how long a webhook event id is remembered.  The
// status-guarded update makes replays harmless regardless; the dedup
// only saves the database round trip.
const dedupTTL = 48 * time.Hour

// PaymentWebhookHandler receives deposit settlement callbacks from the
// payment collaborator.  The endpoint sits outside the JWT surface;
// authenticity comes from the shared-secret HMAC over the raw body.
type PaymentWebhookHandler struct {
	Secret   []byte               // shared HMAC secret
	Bookings queue.PaymentApplier // settles pending bookings
	Redis    *redis.Client        // optional event-id dedup
}

// NewPaymentWebhookHandler constructs a PaymentWebhookHandler.  rdb
// may be nil; dedup then falls back to the status guard alone.
func NewPaymentWebhookHandler(secret string, bookings queue.PaymentApplier, rdb *redis.Client) *PaymentWebhookHandler {
	if secret == "" || bookings == nil {
		panic("missing secret or repository in NewPaymentWebhookHandler")
	}
	return &PaymentWebhookHandler{Secret: []byte(secret), Bookings: bookings, Redis: rdb}
}

// Handle processes POST /v1/payments/webhook.  Processing is
// idempotent end to end: a replayed event id short-circuits at the
// dedup, and even without it the guarded status transition means the
// first result wins and later ones observe the settled status.
func (h *PaymentWebhookHandler) Handle(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}
	if !h.verify(body, c.Request().Header.Get(signatureHeader)) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
	}
	var ev queue.PaymentResultEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if ev.EventID == "" || ev.CheckoutHandle == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and checkout_handle are required"})
	}

	ctx := c.Request().Context()
	if h.Redis != nil {
		fresh, err := h.Redis.SetNX(ctx, "payment:event:"+ev.EventID, 1, dedupTTL).Result()
		if err == nil && !fresh {
			return c.JSON(http.StatusOK, echo.Map{"status": "duplicate"})
		}
		// On Redis failure fall through; the status guard still holds.
	}

	status, err := h.Bookings.ApplyPaymentResult(ctx, ev.CheckoutHandle, ev.Succeeded)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown checkout handle"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status})
}

// verify checks the hex HMAC-SHA256 signature in constant time.
func (h *PaymentWebhookHandler) verify(body []byte, sig string) bool {
	if sig == "" {
		return false
	}
	mac := hmac.New(sha256.New, h.Secret)
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(sig))
}
