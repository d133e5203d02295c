package handler

import (
	"errors"   // sentinel comparisons
	"net/http" // HTTP status codes
	"strconv"  // query parameter parsing

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/partyloft/booking/internal/availability"
	"github.com/partyloft/booking/internal/repository"
)

// AvailabilityHandler serves the read side of the engine: which slots
// a venue offers on a date and which rooms can take the party.
type AvailabilityHandler struct {
	Computer *availability.Computer
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(comp *availability.Computer) *AvailabilityHandler {
	if comp == nil {
		panic("nil computer passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Computer: comp}
}

// Get handles GET /v1/availability?date=YYYY-MM-DD&package_id=&kids=.
// date is required; package_id narrows rooms and sets the slot length;
// kids drives the per-room eligibility flag.  Degraded results carry an
// X-Degraded: true header on top of the body flag so callers and caches
// can tell the difference without parsing.
func (h *AvailabilityHandler) Get(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}
	var packageID uint64
	if s := c.QueryParam("package_id"); s != "" {
		packageID, err = strconv.ParseUint(s, 10, 64)
		if err != nil || packageID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package_id"})
		}
	}
	kids := 0
	if s := c.QueryParam("kids"); s != "" {
		kids, err = strconv.Atoi(s)
		if err != nil || kids < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid kids"})
		}
	}

	res, err := h.Computer.Compute(c.Request().Context(), tenantID, date, packageID, kids)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInterval):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		case errors.Is(err, repository.ErrTenantNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		case errors.Is(err, repository.ErrPackageNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "availability unavailable"})
	}
	if res.Degraded {
		c.Response().Header().Set("X-Degraded", "true")
	}
	return c.JSON(http.StatusOK, res)
}
