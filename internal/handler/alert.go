package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-operations/internal/activity"
	"github.com/iliyamo/airport-operations/internal/authz"
	"github.com/iliyamo/airport-operations/internal/model"
	"github.com/iliyamo/airport-operations/internal/repository"
)

// AlertHandler manages operational alerts. Any role may raise one;
// editing, acknowledging and deleting are ADMIN/ATC operations.
type AlertHandler struct {
	Alerts   *repository.AlertRepo
	Recorder *activity.Recorder
}

func NewAlertHandler(alerts *repository.AlertRepo, rec *activity.Recorder) *AlertHandler {
	if alerts == nil || rec == nil {
		panic("nil dependency passed to NewAlertHandler")
	}
	return &AlertHandler{Alerts: alerts, Recorder: rec}
}

type alertResp struct {
	ID             uint64     `json:"id"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	Severity       string     `json:"severity"`
	FlightID       *uint64    `json:"flight_id,omitempty"`
	RunwayID       *uint64    `json:"runway_id,omitempty"`
	IsActive       bool       `json:"is_active"`
	IsAcknowledged bool       `json:"is_acknowledged"`
	AcknowledgedBy *uint64    `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedBy      uint64     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toAlertResp(a model.Alert) alertResp {
	return alertResp{
		ID:             a.ID,
		Title:          a.Title,
		Message:        a.Message,
		Severity:       a.Severity,
		FlightID:       a.FlightID,
		RunwayID:       a.RunwayID,
		IsActive:       a.IsActive,
		IsAcknowledged: a.IsAcknowledged,
		AcknowledgedBy: a.AcknowledgedBy,
		AcknowledgedAt: a.AcknowledgedAt,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
	}
}

// Create handles POST /v1/alerts.
func (h *AlertHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityAlert, authz.OpInsert) {
		return forbidden(c)
	}
	var body struct {
		Title    string  `json:"title"`
		Message  string  `json:"message"`
		Severity string  `json:"severity"`
		FlightID *uint64 `json:"flight_id"`
		RunwayID *uint64 `json:"runway_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Title) == "" || strings.TrimSpace(body.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and message are required"})
	}
	sev := strings.ToUpper(strings.TrimSpace(body.Severity))
	if sev == "" {
		sev = model.SeverityInfo
	}
	if !model.ValidSeverity(sev) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown severity"})
	}

	a := model.Alert{
		Title:     strings.TrimSpace(body.Title),
		Message:   strings.TrimSpace(body.Message),
		Severity:  sev,
		FlightID:  body.FlightID,
		RunwayID:  body.RunwayID,
		CreatedBy: userID,
	}
	ctx := c.Request().Context()
	if err := h.Alerts.Create(ctx, &a); err != nil {
		return repoJSON(c, err, "could not create alert")
	}
	h.Recorder.Record(ctx, userID, "alert.created", "alert", &a.ID,
		map[string]any{"severity": sev})
	publishChange(ctx, "alerts", "INSERT", toAlertResp(a), userID)
	return c.JSON(http.StatusCreated, toAlertResp(a))
}

// List handles GET /v1/alerts with an optional ?active=true filter.
func (h *AlertHandler) List(c echo.Context) error {
	activeOnly := strings.EqualFold(c.QueryParam("active"), "true")
	items, err := h.Alerts.List(c.Request().Context(), activeOnly)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	out := make([]alertResp, 0, len(items))
	for _, a := range items {
		out = append(out, toAlertResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/alerts/:id.
func (h *AlertHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Alerts.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	return c.JSON(http.StatusOK, toAlertResp(a))
}

// Acknowledge handles POST /v1/alerts/:id/acknowledge. Repeated
// acknowledgement is a conflict so the original acknowledger and
// timestamp are never overwritten.
func (h *AlertHandler) Acknowledge(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityAlert, authz.OpUpdate) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Alerts.Acknowledge(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "alert already acknowledged"})
		}
		return repoJSON(c, err, "acknowledge failed")
	}
	a, err := h.Alerts.GetByID(ctx, id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	h.Recorder.Record(ctx, userID, "alert.acknowledged", "alert", &id, nil)
	publishChange(ctx, "alerts", "UPDATE", toAlertResp(a), userID)
	return c.JSON(http.StatusOK, toAlertResp(a))
}

// Update handles PUT/PATCH /v1/alerts/:id, limited to the is_active
// flag. Title, message and severity are immutable once raised, and an
// acknowledged alert cannot be reactivated (409).
func (h *AlertHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityAlert, authz.OpUpdate) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil || body.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active is required"})
	}
	ctx := c.Request().Context()
	if err := h.Alerts.SetActive(ctx, id, *body.IsActive); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "alert already acknowledged"})
		}
		return repoJSON(c, err, "update failed")
	}
	a, err := h.Alerts.GetByID(ctx, id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	h.Recorder.Record(ctx, userID, "alert.updated", "alert", &id,
		map[string]any{"is_active": *body.IsActive})
	publishChange(ctx, "alerts", "UPDATE", toAlertResp(a), userID)
	return c.JSON(http.StatusOK, toAlertResp(a))
}

// Delete handles DELETE /v1/alerts/:id.
func (h *AlertHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityAlert, authz.OpDelete) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Alerts.Delete(ctx, id); err != nil {
		return repoJSON(c, err, "delete failed")
	}
	h.Recorder.Record(ctx, userID, "alert.deleted", "alert", &id, nil)
	publishChange(ctx, "alerts", "DELETE", echo.Map{"id": id}, userID)
	return c.NoContent(http.StatusNoContent)
}
