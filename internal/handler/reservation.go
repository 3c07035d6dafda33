package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openbistro/ordering-platform/internal/model"
	"github.com/openbistro/ordering-platform/internal/repository"
	"github.com/openbistro/ordering-platform/internal/service"
)

// ReservationHandler exposes the reservation endpoints. Field validation
// happens here; the conflict check and everything transactional lives in the
// service and repository below it.
type ReservationHandler struct {
	Reservations service.ReservationService
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: svc}
}

type createReservationReq struct {
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	TableNumber     int     `json:"tableNumber"`
	PartySize       int     `json:"partySize"`
	ReservationDate string  `json:"reservationDate"`
	ReservationTime string  `json:"reservationTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Notes           *string `json:"notes"`
	Status          string  `json:"status"`
}

// validate returns a field-level error message, or "" when the request is
// acceptable.
func (r createReservationReq) validate() string {
	switch {
	case r.CustomerName == "":
		return "customerName is required"
	case r.CustomerPhone == "":
		return "customerPhone is required"
	case r.TableNumber < 1:
		return "tableNumber must be a positive integer"
	case r.PartySize < 1:
		return "partySize must be >= 1"
	case r.ReservationDate == "":
		return "reservationDate is required"
	case r.ReservationTime == "":
		return "reservationTime is required"
	case r.DurationMinutes < 0:
		return "durationMinutes must be positive"
	}
	if r.Status != "" && !model.ValidReservationStatus(r.Status) {
		return "invalid status"
	}
	return ""
}

// Create handles POST /reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	res, err := h.Reservations.Create(c.Request().Context(), service.CreateReservationInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		TableNumber:     req.TableNumber,
		PartySize:       req.PartySize,
		Date:            req.ReservationDate,
		Clock:           req.ReservationTime,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		Status:          req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTableNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		case errors.Is(err, repository.ErrTableUnavailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "table already reserved in this time slot"})
		case errors.Is(err, service.ErrInvalidTime):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not build startTime from reservationDate + reservationTime"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create reservation"})
	}
	return c.JSON(http.StatusCreated, res)
}

// AvailableTables handles GET /reservations/available-tables.
func (h *ReservationHandler) AvailableTables(c echo.Context) error {
	date := c.QueryParam("date")
	clock := c.QueryParam("time")
	partySizeStr := c.QueryParam("partySize")
	if date == "" || clock == "" || partySizeStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date, time, partySize required"})
	}
	partySize, err := strconv.Atoi(partySizeStr)
	if err != nil || partySize < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "partySize must be a positive integer"})
	}

	tables, err := h.Reservations.AvailableTables(c.Request().Context(), date, clock, partySize)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTime) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date or time"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list available tables"})
	}
	return c.JSON(http.StatusOK, tables)
}

// List handles GET /reservations with optional status and date+time filters.
func (h *ReservationHandler) List(c echo.Context) error {
	filter := repository.ListFilter{Status: c.QueryParam("status")}
	if filter.Status != "" && !model.ValidReservationStatus(filter.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if date, clock := c.QueryParam("date"), c.QueryParam("time"); date != "" && clock != "" {
		start, err := service.CombineDateTime(date, clock)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date or time"})
		}
		filter.Start = start
		filter.End = start.Add(service.DefaultDurationMinutes * time.Minute)
	}

	reservations, err := h.Reservations.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list reservations"})
	}
	return c.JSON(http.StatusOK, reservations)
}

// Get handles GET /reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch reservation"})
	}
	return c.JSON(http.StatusOK, res)
}

type updateReservationReq struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// Update handles PUT /reservations/:id.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req updateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Status != nil && !model.ValidReservationStatus(*req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	res, err := h.Reservations.Update(c.Request().Context(), id, req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update reservation"})
	}
	return c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /reservations/:id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Reservations.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete reservation"})
	}
	return c.NoContent(http.StatusNoContent)
}
