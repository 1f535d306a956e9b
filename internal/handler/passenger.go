package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-operations/internal/activity"
	"github.com/iliyamo/airport-operations/internal/authz"
	"github.com/iliyamo/airport-operations/internal/model"
	"github.com/iliyamo/airport-operations/internal/repository"
)

// PassengerHandler implements passenger CRUD. Any authenticated role
// may write passengers; the ticket identifier is generated server-side
// and never accepted from, or changed by, a client.
type PassengerHandler struct {
	Passengers *repository.PassengerRepo
	Recorder   *activity.Recorder
}

func NewPassengerHandler(passengers *repository.PassengerRepo, rec *activity.Recorder) *PassengerHandler {
	if passengers == nil || rec == nil {
		panic("nil dependency passed to NewPassengerHandler")
	}
	return &PassengerHandler{Passengers: passengers, Recorder: rec}
}

type passengerResp struct {
	ID             uint64    `json:"id"`
	FlightID       uint64    `json:"flight_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PassportNumber string    `json:"passport_number"`
	SeatNumber     *string   `json:"seat_number,omitempty"`
	TicketID       string    `json:"ticket_id"`
	BoardingStatus string    `json:"boarding_status"`
	Nationality    string    `json:"nationality"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toPassengerResp(p model.Passenger) passengerResp {
	return passengerResp{
		ID:             p.ID,
		FlightID:       p.FlightID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		PassportNumber: p.PassportNumber,
		SeatNumber:     p.SeatNumber,
		TicketID:       p.TicketID,
		BoardingStatus: p.BoardingStatus,
		Nationality:    p.Nationality,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// Create handles POST /v1/passengers and the nested
// POST /v1/flights/:id/passengers. The flight comes from the path when
// present, otherwise from flight_id in the body.
func (h *PassengerHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityPassenger, authz.OpInsert) {
		return forbidden(c)
	}
	var body struct {
		FlightID       uint64  `json:"flight_id"`
		FirstName      string  `json:"first_name"`
		LastName       string  `json:"last_name"`
		PassportNumber string  `json:"passport_number"`
		SeatNumber     *string `json:"seat_number"`
		BoardingStatus string  `json:"boarding_status"`
		Nationality    string  `json:"nationality"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	flightID := body.FlightID
	if c.Param("id") != "" {
		flightID, err = pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
	}
	if flightID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_id is required"})
	}
	switch {
	case strings.TrimSpace(body.FirstName) == "" || strings.TrimSpace(body.LastName) == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name are required"})
	case strings.TrimSpace(body.PassportNumber) == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passport_number is required"})
	case strings.TrimSpace(body.Nationality) == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nationality is required"})
	}
	status := strings.ToUpper(strings.TrimSpace(body.BoardingStatus))
	if status == "" {
		status = model.BoardingCheckedIn
	}
	if !model.ValidBoardingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown boarding status"})
	}

	p := model.Passenger{
		FlightID:       flightID,
		FirstName:      strings.TrimSpace(body.FirstName),
		LastName:       strings.TrimSpace(body.LastName),
		PassportNumber: strings.ToUpper(strings.TrimSpace(body.PassportNumber)),
		SeatNumber:     body.SeatNumber,
		BoardingStatus: status,
		Nationality:    strings.TrimSpace(body.Nationality),
	}
	ctx := c.Request().Context()
	if err := h.Passengers.Create(ctx, &p); err != nil {
		return repoJSON(c, err, "could not create passenger")
	}
	h.Recorder.Record(ctx, userID, "passenger.created", "passenger", &p.ID,
		map[string]any{"flight_id": flightID, "ticket_id": p.TicketID})
	publishChange(ctx, "passengers", "INSERT", toPassengerResp(p), userID)
	return c.JSON(http.StatusCreated, toPassengerResp(p))
}

// ListByFlight handles GET /v1/flights/:id/passengers.
func (h *PassengerHandler) ListByFlight(c echo.Context) error {
	flightID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Passengers.ListByFlight(c.Request().Context(), flightID)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	out := make([]passengerResp, 0, len(items))
	for _, p := range items {
		out = append(out, toPassengerResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/passengers/:id.
func (h *PassengerHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Passengers.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	return c.JSON(http.StatusOK, toPassengerResp(p))
}

// Update handles PUT/PATCH /v1/passengers/:id. The ticket ID cannot be
// changed; a body that tries gets 400 rather than a silent drop.
func (h *PassengerHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityPassenger, authz.OpUpdate) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		FirstName      *string `json:"first_name"`
		LastName       *string `json:"last_name"`
		PassportNumber *string `json:"passport_number"`
		SeatNumber     *string `json:"seat_number"`
		BoardingStatus *string `json:"boarding_status"`
		Nationality    *string `json:"nationality"`
		TicketID       *string `json:"ticket_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TicketID != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_id cannot be changed"})
	}
	if body.BoardingStatus != nil {
		s := strings.ToUpper(strings.TrimSpace(*body.BoardingStatus))
		if !model.ValidBoardingStatus(s) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown boarding status"})
		}
		body.BoardingStatus = &s
	}
	ctx := c.Request().Context()
	patch := repository.PassengerPatch{
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		PassportNumber: body.PassportNumber,
		SeatNumber:     body.SeatNumber,
		BoardingStatus: body.BoardingStatus,
		Nationality:    body.Nationality,
	}
	if err := h.Passengers.UpdateFields(ctx, id, patch); err != nil {
		return repoJSON(c, err, "update failed")
	}
	p, err := h.Passengers.GetByID(ctx, id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	h.Recorder.Record(ctx, userID, "passenger.updated", "passenger", &id, nil)
	publishChange(ctx, "passengers", "UPDATE", toPassengerResp(p), userID)
	return c.JSON(http.StatusOK, toPassengerResp(p))
}

// Delete handles DELETE /v1/passengers/:id.
func (h *PassengerHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityPassenger, authz.OpDelete) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Passengers.Delete(ctx, id); err != nil {
		return repoJSON(c, err, "delete failed")
	}
	h.Recorder.Record(ctx, userID, "passenger.deleted", "passenger", &id, nil)
	publishChange(ctx, "passengers", "DELETE", echo.Map{"id": id}, userID)
	return c.NoContent(http.StatusNoContent)
}
