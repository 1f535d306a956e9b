package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-operations/internal/activity"
	"github.com/iliyamo/airport-operations/internal/authz"
	"github.com/iliyamo/airport-operations/internal/flightops"
	"github.com/iliyamo/airport-operations/internal/model"
	"github.com/iliyamo/airport-operations/internal/repository"
)

// FlightHandler implements flight CRUD, runway assignment and the
// ATC-confirmed status transitions. The update path is role-branched:
// ADMIN/ATC may patch any field, STAFF only the status value itself.
type FlightHandler struct {
	Flights  *repository.FlightRepo
	Runways  *repository.RunwayRepo
	Alerts   *repository.AlertRepo
	Recorder *activity.Recorder
}

func NewFlightHandler(flights *repository.FlightRepo, runways *repository.RunwayRepo, alerts *repository.AlertRepo, rec *activity.Recorder) *FlightHandler {
	if flights == nil || runways == nil || alerts == nil || rec == nil {
		panic("nil dependency passed to NewFlightHandler")
	}
	return &FlightHandler{Flights: flights, Runways: runways, Alerts: alerts, Recorder: rec}
}

type flightResp struct {
	ID                 uint64     `json:"id"`
	FlightNumber       string     `json:"flight_number"`
	Airline            string     `json:"airline"`
	Origin             string     `json:"origin"`
	Destination        string     `json:"destination"`
	Status             string     `json:"status"`
	ScheduledDeparture time.Time  `json:"scheduled_departure"`
	ScheduledArrival   time.Time  `json:"scheduled_arrival"`
	ActualDeparture    *time.Time `json:"actual_departure,omitempty"`
	ActualArrival      *time.Time `json:"actual_arrival,omitempty"`
	RunwayID           *uint64    `json:"runway_id,omitempty"`
	Gate               *string    `json:"gate,omitempty"`
	AircraftType       string     `json:"aircraft_type"`
	Capacity           uint32     `json:"capacity"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedBy          uint64     `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toFlightResp(f model.Flight) flightResp {
	return flightResp{
		ID:                 f.ID,
		FlightNumber:       f.FlightNumber,
		Airline:            f.Airline,
		Origin:             f.Origin,
		Destination:        f.Destination,
		Status:             f.Status,
		ScheduledDeparture: f.ScheduledDeparture,
		ScheduledArrival:   f.ScheduledArrival,
		ActualDeparture:    f.ActualDeparture,
		ActualArrival:      f.ActualArrival,
		RunwayID:           f.RunwayID,
		Gate:               f.Gate,
		AircraftType:       f.AircraftType,
		Capacity:           f.Capacity,
		Notes:              f.Notes,
		CreatedBy:          f.CreatedBy,
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
	}
}

// Create handles POST /v1/flights. New flights always start SCHEDULED.
func (h *FlightHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityFlight, authz.OpInsert) {
		return forbidden(c)
	}
	var body struct {
		FlightNumber       string    `json:"flight_number"`
		Airline            string    `json:"airline"`
		Origin             string    `json:"origin"`
		Destination        string    `json:"destination"`
		ScheduledDeparture time.Time `json:"scheduled_departure"`
		ScheduledArrival   time.Time `json:"scheduled_arrival"`
		Gate               *string   `json:"gate"`
		AircraftType       string    `json:"aircraft_type"`
		Capacity           uint32    `json:"capacity"`
		Notes              *string   `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.FlightNumber = strings.ToUpper(strings.TrimSpace(body.FlightNumber))
	switch {
	case body.FlightNumber == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_number is required"})
	case strings.TrimSpace(body.Airline) == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "airline is required"})
	case strings.TrimSpace(body.Origin) == "" || strings.TrimSpace(body.Destination) == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination are required"})
	case body.ScheduledDeparture.IsZero() || body.ScheduledArrival.IsZero():
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled times are required"})
	case !body.ScheduledArrival.After(body.ScheduledDeparture):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_arrival must be after scheduled_departure"})
	case strings.TrimSpace(body.AircraftType) == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "aircraft_type is required"})
	case body.Capacity == 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity is required"})
	}

	f := model.Flight{
		FlightNumber:       body.FlightNumber,
		Airline:            strings.TrimSpace(body.Airline),
		Origin:             strings.ToUpper(strings.TrimSpace(body.Origin)),
		Destination:        strings.ToUpper(strings.TrimSpace(body.Destination)),
		ScheduledDeparture: body.ScheduledDeparture,
		ScheduledArrival:   body.ScheduledArrival,
		Gate:               body.Gate,
		AircraftType:       strings.TrimSpace(body.AircraftType),
		Capacity:           body.Capacity,
		Notes:              body.Notes,
		CreatedBy:          userID,
	}
	ctx := c.Request().Context()
	if err := h.Flights.Create(ctx, &f); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "flight_number already exists"})
		}
		return repoJSON(c, err, "could not create flight")
	}
	h.Recorder.Record(ctx, userID, "flight.created", "flight", &f.ID,
		map[string]any{"flight_number": f.FlightNumber})
	publishChange(ctx, "flights", "INSERT", toFlightResp(f), userID)
	return c.JSON(http.StatusCreated, toFlightResp(f))
}

// List handles GET /v1/flights with an optional ?status= filter.
func (h *FlightHandler) List(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !model.ValidFlightStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown flight status"})
	}
	items, err := h.Flights.List(c.Request().Context(), status)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	out := make([]flightResp, 0, len(items))
	for _, f := range items {
		out = append(out, toFlightResp(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/flights/:id.
func (h *FlightHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	f, err := h.Flights.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	return c.JSON(http.StatusOK, toFlightResp(f))
}

// Update handles PUT/PATCH /v1/flights/:id. ADMIN and ATC may patch any
// field; STAFF may only set the status value, and only through the
// plain single-field write that skips the transition table and its side
// effects. A STAFF patch that touches anything else is rejected.
func (h *FlightHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role := roleOf(c)
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Airline            *string    `json:"airline"`
		Origin             *string    `json:"origin"`
		Destination        *string    `json:"destination"`
		Status             *string    `json:"status"`
		ScheduledDeparture *time.Time `json:"scheduled_departure"`
		ScheduledArrival   *time.Time `json:"scheduled_arrival"`
		Gate               *string    `json:"gate"`
		AircraftType       *string    `json:"aircraft_type"`
		Capacity           *uint32    `json:"capacity"`
		Notes              *string    `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	touchesOtherFields := body.Airline != nil || body.Origin != nil ||
		body.Destination != nil || body.ScheduledDeparture != nil ||
		body.ScheduledArrival != nil || body.Gate != nil ||
		body.AircraftType != nil || body.Capacity != nil || body.Notes != nil

	ctx := c.Request().Context()

	if !authz.CanPerform(role, authz.EntityFlight, authz.OpUpdate) {
		// STAFF lands here: the constrained status-only path.
		if !authz.CanPerform(role, authz.EntityFlight, authz.OpUpdateStatus) || touchesOtherFields {
			return forbidden(c)
		}
		if body.Status == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
		}
		status := strings.ToUpper(strings.TrimSpace(*body.Status))
		if !model.ValidFlightStatus(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown flight status"})
		}
		if err := h.Flights.UpdateStatusOnly(ctx, id, status); err != nil {
			return repoJSON(c, err, "update failed")
		}
		f, err := h.Flights.GetByID(ctx, id)
		if err != nil {
			return repoJSON(c, err, "db error")
		}
		h.Recorder.Record(ctx, userID, "flight.status_edit", "flight", &id,
			map[string]any{"status": status})
		publishChange(ctx, "flights", "UPDATE", toFlightResp(f), userID)
		return c.JSON(http.StatusOK, toFlightResp(f))
	}

	patch := repository.FlightPatch{
		Airline:            body.Airline,
		Origin:             body.Origin,
		Destination:        body.Destination,
		ScheduledDeparture: body.ScheduledDeparture,
		ScheduledArrival:   body.ScheduledArrival,
		Gate:               body.Gate,
		AircraftType:       body.AircraftType,
		Capacity:           body.Capacity,
		Notes:              body.Notes,
	}
	if err := h.Flights.UpdateFields(ctx, id, patch); err != nil {
		return repoJSON(c, err, "update failed")
	}
	if body.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*body.Status))
		if !model.ValidFlightStatus(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown flight status"})
		}
		if err := h.Flights.UpdateStatusOnly(ctx, id, status); err != nil {
			return repoJSON(c, err, "update failed")
		}
	}
	f, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	h.Recorder.Record(ctx, userID, "flight.updated", "flight", &id, nil)
	publishChange(ctx, "flights", "UPDATE", toFlightResp(f), userID)
	return c.JSON(http.StatusOK, toFlightResp(f))
}

// AssignRunway handles POST /v1/flights/:id/assign-runway. The runway
// is flipped AVAILABLE->OCCUPIED and the flight pointed at it inside
// one transaction, so two flights cannot end up on the same runway.
func (h *FlightHandler) AssignRunway(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityFlight, authz.OpUpdate) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		RunwayID uint64 `json:"runway_id"`
	}
	if err := c.Bind(&body); err != nil || body.RunwayID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "runway_id is required"})
	}
	ctx := c.Request().Context()

	f, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	if f.RunwayID != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "flight already has a runway assigned"})
	}
	if !model.ActiveFlightStatus(f.Status) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "flight is no longer active"})
	}

	tx, err := h.Flights.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Runways.Occupy(ctx, tx, body.RunwayID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "runway is not available"})
		}
		return repoJSON(c, err, "assign failed")
	}
	if err := h.Flights.AssignRunwayTx(ctx, tx, id, body.RunwayID); err != nil {
		return repoJSON(c, err, "assign failed")
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	f, err = h.Flights.GetByID(ctx, id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	h.Recorder.Record(ctx, userID, "flight.runway_assigned", "flight", &id,
		map[string]any{"runway_id": body.RunwayID})
	publishChange(ctx, "flights", "UPDATE", toFlightResp(f), userID)
	return c.JSON(http.StatusOK, toFlightResp(f))
}

// Transition handles POST /v1/flights/:id/transition, the ATC-confirmed
// path through the state machine. The status write carries the current
// status as a precondition; a concurrent transition loses with 409 and
// must be retried against fresh state. Runway release and alert
// emission run after the status commits and are best-effort: their
// failure is logged but never reverts the flight.
func (h *FlightHandler) Transition(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityFlight, authz.OpUpdate) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Action  string `json:"action"`
		Minutes int    `json:"minutes"`
		Reason  string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	action := strings.ToLower(strings.TrimSpace(body.Action))
	if action == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action is required"})
	}
	ctx := c.Request().Context()

	f, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}

	plan, err := flightops.Build(&f, action, flightops.Params{
		Minutes: body.Minutes,
		Reason:  strings.TrimSpace(body.Reason),
	}, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, flightops.ErrIllegalTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, flightops.ErrUnknownAction), errors.Is(err, flightops.ErrDelayTooShort):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
	}

	if err := h.Flights.ApplyTransition(ctx, id, f.Status, plan); err != nil {
		return repoJSON(c, err, "transition failed")
	}

	// Best-effort runway release. The flight status change above has
	// already committed; a failure here leaves the runway OCCUPIED for
	// an operator to fix and is only logged.
	if plan.ReleaseRunway && f.RunwayID != nil {
		if err := h.Runways.Release(ctx, *f.RunwayID); err != nil {
			log.Printf("flight %d: runway %d release failed: %v", id, *f.RunwayID, err)
		}
	}

	if plan.EmitsAlert() {
		a := model.Alert{
			Title:     plan.AlertTitle,
			Message:   plan.AlertMessage,
			Severity:  plan.AlertSeverity,
			FlightID:  &id,
			RunwayID:  f.RunwayID,
			CreatedBy: userID,
		}
		if err := h.Alerts.Create(ctx, &a); err != nil {
			log.Printf("flight %d: %s alert emission failed: %v", id, plan.AlertSeverity, err)
		} else {
			publishChange(ctx, "alerts", "INSERT", toAlertResp(a), userID)
		}
	}

	h.Recorder.Record(ctx, userID, "flight."+action, "flight", &id, map[string]any{
		"from": f.Status, "to": plan.NewStatus, "reason": body.Reason,
	})

	updated, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	publishChange(ctx, "flights", "UPDATE", toFlightResp(updated), userID)
	return c.JSON(http.StatusOK, toFlightResp(updated))
}

// Delete handles DELETE /v1/flights/:id. Passengers cascade away with
// the flight.
func (h *FlightHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityFlight, authz.OpDelete) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	f, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	if err := h.Flights.Delete(ctx, id); err != nil {
		return repoJSON(c, err, "delete failed")
	}
	// An occupied runway should not stay blocked by a flight that no
	// longer exists.
	if f.RunwayID != nil {
		if err := h.Runways.Release(ctx, *f.RunwayID); err != nil {
			log.Printf("flight %d: runway %d release failed: %v", id, *f.RunwayID, err)
		}
	}
	h.Recorder.Record(ctx, userID, "flight.deleted", "flight", &id,
		map[string]any{"flight_number": f.FlightNumber})
	publishChange(ctx, "flights", "DELETE", echo.Map{"id": id}, userID)
	return c.NoContent(http.StatusNoContent)
}
