package handler

import (
	"errors"   // sentinel comparisons
	"net/http" // HTTP status codes
	"time"     // RFC3339 timestamp parsing

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/partyloft/booking/internal/hold"
	"github.com/partyloft/booking/internal/model"
	"github.com/partyloft/booking/internal/repository"
)

// HoldHandler exposes the hold lifecycle over HTTP.  The hold token is
// the public hold ID; clients never see the numeric row ID.
type HoldHandler struct {
	Manager *hold.Manager
}

// NewHoldHandler constructs a HoldHandler.
func NewHoldHandler(m *hold.Manager) *HoldHandler {
	if m == nil {
		panic("nil manager passed to NewHoldHandler")
	}
	return &HoldHandler{Manager: m}
}

// Create handles POST /v1/holds.  Exactly one of any set of concurrent
// requests for overlapping intervals on a room gets the 201; the rest
// get 409 and are expected to re-fetch availability.
func (h *HoldHandler) Create(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		RoomID    uint64 `json:"room_id"`
		PackageID uint64 `json:"package_id"`
		Start     string `json:"start"`
		End       string `json:"end"`
		Kids      int    `json:"kids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RoomID == 0 || body.PackageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id and package_id are required"})
	}
	start, err := time.Parse(time.RFC3339, body.Start)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start"})
	}
	end, err := time.Parse(time.RFC3339, body.End)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end"})
	}
	iv := model.Interval{Start: start.UTC(), End: end.UTC()}

	created, err := h.Manager.Create(c.Request().Context(), tenantID, body.RoomID, body.PackageID, iv, body.Kids)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot unavailable"})
		case errors.Is(err, repository.ErrCapacityExceeded):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "room capacity exceeded"})
		case errors.Is(err, repository.ErrInvalidInterval):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid interval"})
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"hold_id":    created.Token,
		"expires_at": created.ExpiresAt,
	})
}

// Extend handles POST /v1/holds/:id/extend.  Returns 410 Gone when the
// hold has already lapsed or been consumed, so the client knows the
// slot may no longer be theirs.
func (h *HoldHandler) Extend(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	token := c.Param("id")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hold id"})
	}
	var body struct {
		Minutes int `json:"minutes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	expiresAt, err := h.Manager.Extend(c.Request().Context(), tenantID, token, body.Minutes)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInterval):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "minutes must be positive"})
		case errors.Is(err, repository.ErrHoldExpired):
			return c.JSON(http.StatusGone, echo.Map{"error": "hold expired"})
		case errors.Is(err, repository.ErrHoldNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hold not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"expires_at": expiresAt})
}

// Release handles DELETE /v1/holds/:id.  Releasing an unknown,
// expired or already released hold still answers 200; the operation
// only promises the hold is not live afterwards.
func (h *HoldHandler) Release(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	token := c.Param("id")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hold id"})
	}
	if err := h.Manager.Release(c.Request().Context(), tenantID, token); err != nil &&
		!errors.Is(err, repository.ErrHoldNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"released": true})
}
