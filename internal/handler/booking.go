package handler

import (
	"context"  // detached context for post-commit publishing
	"errors"   // sentinel comparisons
	"log"      // best-effort publish failures
	"net/http" // HTTP status codes
	"strings"  // request field normalization
	"time"     // timestamps in the published event

	"github.com/google/uuid"      // checkout handle generation
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/partyloft/booking/internal/model"
	"github.com/partyloft/booking/internal/pricing"
	"github.com/partyloft/booking/internal/queue"
	"github.com/partyloft/booking/internal/repository"
)

// Publisher sends the booking.created event to the payment
// collaborator.  Publishing is best effort; a broker outage must not
// fail the booking.
type Publisher func(ctx context.Context, event queue.BookingCreatedEvent) error

// BookingHandler finalizes holds into bookings and serves booking
// listing and detail.  Finalization runs hold consumption, customer
// upsert, pricing snapshot and booking insert in one transaction so a
// hold can never pay for two parties.
type BookingHandler struct {
	TenantRepo   *repository.TenantRepo   // tax and deposit policy
	HoldRepo     *repository.HoldRepo     // hold locking and consumption
	RoomRepo     *repository.RoomRepo     // capacity re-check
	PackageRepo  *repository.PackageRepo  // live package pricing
	CatalogRepo  *repository.CatalogRepo  // add-on and character prices
	CustomerRepo *repository.CustomerRepo // customer get-or-create
	BookingRepo  *repository.BookingRepo  // booking rows and line items
	Publish      Publisher                // booking.created, may be nil in tests
}

// NewBookingHandler constructs a BookingHandler with the provided
// repositories.  All repositories must be non-nil.
func NewBookingHandler(tenants *repository.TenantRepo, holds *repository.HoldRepo, rooms *repository.RoomRepo, packages *repository.PackageRepo, catalog *repository.CatalogRepo, customers *repository.CustomerRepo, bookings *repository.BookingRepo, publish Publisher) *BookingHandler {
	if tenants == nil || holds == nil || rooms == nil || packages == nil || catalog == nil || customers == nil || bookings == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		TenantRepo:   tenants,
		HoldRepo:     holds,
		RoomRepo:     rooms,
		PackageRepo:  packages,
		CatalogRepo:  catalog,
		CustomerRepo: customers,
		BookingRepo:  bookings,
		Publish:      publish,
	}
}

type lineSelection struct {
	ID       uint64 `json:"id"`
	Quantity int    `json:"quantity"`
}

type createBookingRequest struct {
	HoldID   string `json:"hold_id"`
	Customer struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Addons     []lineSelection `json:"addons"`
	Characters []lineSelection `json:"characters"`
	Notes      string          `json:"notes"`
}

// Create handles POST /v1/bookings.  It turns a live hold into a
// PENDING_PAYMENT booking: the hold row is locked FOR UPDATE, prices
// are recomputed from live catalog rows, line items are snapshotted at
// current unit prices, and the hold is consumed in the same
// transaction.  A second finalization of the same hold sees it
// consumed under the lock and fails with 410.
func (h *BookingHandler) Create(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createBookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.HoldID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hold_id is required"})
	}
	name := strings.TrimSpace(body.Customer.Name)
	email := strings.ToLower(strings.TrimSpace(body.Customer.Email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer name and email are required"})
	}

	ctx := c.Request().Context()
	tenant, err := h.TenantRepo.ByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.HoldRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	held, err := h.HoldRepo.ActiveForUpdateTx(ctx, tx, tenantID, body.HoldID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrHoldExpired):
			return c.JSON(http.StatusGone, echo.Map{"error": "hold expired"})
		case errors.Is(err, repository.ErrHoldNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hold not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Capacity against the live room; the limit may have been lowered
	// since the hold was placed.
	room, err := h.RoomRepo.ByID(ctx, tenantID, held.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room no longer available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if held.Kids > room.MaxKids {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "room capacity exceeded"})
	}

	pkg, err := h.PackageRepo.ByID(ctx, tenantID, held.PackageID)
	if err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "package no longer available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	addonItems, lines, err := h.resolveAddons(ctx, tenantID, body.Addons)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	characterItems, charLines, err := h.resolveCharacters(ctx, tenantID, body.Characters)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	lines = append(lines, charLines...)

	quote := pricing.Calculate(*pkg, held.Kids, lines, tenant.TaxRateBps, tenant.DepositPercent)

	customer := &model.Customer{TenantID: tenantID, Name: name, Email: email, Phone: strings.TrimSpace(body.Customer.Phone)}
	if err := h.CustomerRepo.GetOrCreateTx(ctx, tx, customer); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save customer"})
	}

	booking := &model.Booking{
		TenantID:       tenantID,
		CustomerID:     customer.ID,
		PackageID:      held.PackageID,
		RoomID:         held.RoomID,
		StartsAt:       held.StartsAt,
		EndsAt:         held.EndsAt,
		Kids:           held.Kids,
		Status:         model.BookingStatusPendingPayment,
		SubtotalCents:  quote.SubtotalCents,
		TaxCents:       quote.TaxCents,
		TotalCents:     quote.TotalCents,
		DepositCents:   quote.DepositCents,
		BalanceCents:   quote.BalanceCents,
		CheckoutHandle: uuid.NewString(),
		Notes:          body.Notes,
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	for i := range addonItems {
		addonItems[i].BookingID = booking.ID
	}
	for i := range characterItems {
		characterItems[i].BookingID = booking.ID
	}
	if err := h.BookingRepo.AddAddonsTx(ctx, tx, addonItems); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save add-ons"})
	}
	if err := h.BookingRepo.AddCharactersTx(ctx, tx, characterItems); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save characters"})
	}
	if err := h.HoldRepo.ConsumeTx(ctx, tx, held.ID); err != nil {
		if errors.Is(err, repository.ErrHoldExpired) {
			return c.JSON(http.StatusGone, echo.Map{"error": "hold expired"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit booking"})
	}
	committed = true

	if h.Publish != nil {
		event := queue.BookingCreatedEvent{
			BookingID:      booking.ID,
			TenantID:       tenantID,
			CheckoutHandle: booking.CheckoutHandle,
			CustomerName:   customer.Name,
			CustomerEmail:  customer.Email,
			RoomID:         booking.RoomID,
			PackageID:      booking.PackageID,
			StartsAt:       booking.StartsAt.UTC().Format(time.RFC3339),
			EndsAt:         booking.EndsAt.UTC().Format(time.RFC3339),
			Kids:           booking.Kids,
			TotalCents:     booking.TotalCents,
			DepositCents:   booking.DepositCents,
			CreatedAt:      booking.CreatedAt.UTC().Format(time.RFC3339),
		}
		// Detached context: the HTTP request may finish first.
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.Publish(pubCtx, event); err != nil {
				log.Printf("booking: publish booking.created for %d failed: %v", event.BookingID, err)
			}
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":      booking.ID,
		"checkout_handle": booking.CheckoutHandle,
		"deposit_cents":   booking.DepositCents,
	})
}

// resolveAddons validates the selections against the tenant's active
// catalog and returns line-item snapshots plus pricing lines.
func (h *BookingHandler) resolveAddons(ctx context.Context, tenantID uint64, sels []lineSelection) ([]model.BookingAddon, []pricing.Line, error) {
	ids := make([]uint64, 0, len(sels))
	for _, s := range sels {
		if s.ID == 0 || s.Quantity < 1 {
			return nil, nil, errors.New("invalid addon selection")
		}
		ids = append(ids, s.ID)
	}
	found, err := h.CatalogRepo.AddonsByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, nil, errors.New("failed to load add-ons")
	}
	items := make([]model.BookingAddon, 0, len(sels))
	lines := make([]pricing.Line, 0, len(sels))
	for _, s := range sels {
		a, ok := found[s.ID]
		if !ok {
			return nil, nil, errors.New("unknown or inactive addon")
		}
		items = append(items, model.BookingAddon{
			AddonID:        a.ID,
			Name:           a.Name,
			Quantity:       s.Quantity,
			UnitPriceCents: a.PriceCents,
		})
		lines = append(lines, pricing.Line{UnitPriceCents: a.PriceCents, Quantity: s.Quantity})
	}
	return items, lines, nil
}

// resolveCharacters is resolveAddons for character appearances.
func (h *BookingHandler) resolveCharacters(ctx context.Context, tenantID uint64, sels []lineSelection) ([]model.BookingCharacter, []pricing.Line, error) {
	ids := make([]uint64, 0, len(sels))
	for _, s := range sels {
		if s.ID == 0 || s.Quantity < 1 {
			return nil, nil, errors.New("invalid character selection")
		}
		ids = append(ids, s.ID)
	}
	found, err := h.CatalogRepo.CharactersByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, nil, errors.New("failed to load characters")
	}
	items := make([]model.BookingCharacter, 0, len(sels))
	lines := make([]pricing.Line, 0, len(sels))
	for _, s := range sels {
		ch, ok := found[s.ID]
		if !ok {
			return nil, nil, errors.New("unknown or inactive character")
		}
		items = append(items, model.BookingCharacter{
			CharacterID:    ch.ID,
			Name:           ch.Name,
			Quantity:       s.Quantity,
			UnitPriceCents: ch.PriceCents,
		})
		lines = append(lines, pricing.Line{UnitPriceCents: ch.PriceCents, Quantity: s.Quantity})
	}
	return items, lines, nil
}

// List handles GET /v1/bookings?date=YYYY-MM-DD&status=.  Both filters
// are optional; results are newest first.
func (h *BookingHandler) List(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var day *time.Time
	if s := c.QueryParam("date"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		day = &d
	}
	status := c.QueryParam("status")
	switch status {
	case "", model.BookingStatusPendingPayment, model.BookingStatusConfirmed,
		model.BookingStatusCancelled, model.BookingStatusCompleted:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	bookings, err := h.BookingRepo.ListForTenant(c.Request().Context(), tenantID, day, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingSummary(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Get handles GET /v1/bookings/:id with full line items.
func (h *BookingHandler) Get(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, addons, characters, err := h.BookingRepo.ByIDForTenant(c.Request().Context(), tenantID, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	resp := bookingSummary(*b)
	addonOut := make([]echo.Map, 0, len(addons))
	for _, a := range addons {
		addonOut = append(addonOut, echo.Map{
			"addon_id": a.AddonID, "name": a.Name,
			"quantity": a.Quantity, "unit_price_cents": a.UnitPriceCents,
		})
	}
	charOut := make([]echo.Map, 0, len(characters))
	for _, ch := range characters {
		charOut = append(charOut, echo.Map{
			"character_id": ch.CharacterID, "name": ch.Name,
			"quantity": ch.Quantity, "unit_price_cents": ch.UnitPriceCents,
		})
	}
	resp["addons"] = addonOut
	resp["characters"] = charOut
	resp["notes"] = b.Notes
	return c.JSON(http.StatusOK, resp)
}

// Complete handles POST /v1/bookings/:id/complete.  Venue staff close
// out a confirmed booking after the party.  Payment results own the
// PENDING_PAYMENT transitions, so only CONFIRMED is a legal source.
func (h *BookingHandler) Complete(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	err = h.BookingRepo.Transition(c.Request().Context(), tenantID, bookingID,
		[]string{model.BookingStatusConfirmed}, model.BookingStatusCompleted)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrConflictingStatus):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not confirmed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.BookingStatusCompleted})
}

func bookingSummary(b model.Booking) echo.Map {
	return echo.Map{
		"booking_id":      b.ID,
		"room_id":         b.RoomID,
		"package_id":      b.PackageID,
		"starts_at":       b.StartsAt,
		"ends_at":         b.EndsAt,
		"kids":            b.Kids,
		"status":          b.Status,
		"subtotal_cents":  b.SubtotalCents,
		"tax_cents":       b.TaxCents,
		"total_cents":     b.TotalCents,
		"deposit_cents":   b.DepositCents,
		"balance_cents":   b.BalanceCents,
		"deposit_paid":    b.DepositPaid,
		"checkout_handle": b.CheckoutHandle,
		"created_at":      b.CreatedAt,
	}
}
