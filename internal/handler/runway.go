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

// RunwayHandler implements runway CRUD and the allocation-guarded
// status change.
type RunwayHandler struct {
	Runways  *repository.RunwayRepo
	Recorder *activity.Recorder
}

func NewRunwayHandler(runways *repository.RunwayRepo, rec *activity.Recorder) *RunwayHandler {
	if runways == nil || rec == nil {
		panic("nil dependency passed to NewRunwayHandler")
	}
	return &RunwayHandler{Runways: runways, Recorder: rec}
}

type runwayResp struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	LengthMeters uint32    `json:"length_meters"`
	Status       string    `json:"status"`
	SurfaceType  string    `json:"surface_type"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toRunwayResp(rw model.Runway) runwayResp {
	return runwayResp{
		ID:           rw.ID,
		Name:         rw.Name,
		LengthMeters: rw.LengthMeters,
		Status:       rw.Status,
		SurfaceType:  rw.SurfaceType,
		Notes:        rw.Notes,
		CreatedAt:    rw.CreatedAt,
		UpdatedAt:    rw.UpdatedAt,
	}
}

// Create handles POST /v1/runways.
func (h *RunwayHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityRunway, authz.OpInsert) {
		return forbidden(c)
	}
	var body struct {
		Name         string  `json:"name"`
		LengthMeters uint32  `json:"length_meters"`
		SurfaceType  string  `json:"surface_type"`
		Notes        *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.LengthMeters == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "length_meters is required"})
	}
	rw := model.Runway{
		Name:         name,
		LengthMeters: body.LengthMeters,
		Status:       model.RunwayAvailable,
		SurfaceType:  strings.TrimSpace(body.SurfaceType),
		Notes:        body.Notes,
	}
	ctx := c.Request().Context()
	if err := h.Runways.Create(ctx, &rw); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "runway name already exists"})
		}
		return repoJSON(c, err, "could not create runway")
	}
	h.Recorder.Record(ctx, userID, "runway.created", "runway", &rw.ID, map[string]any{"name": rw.Name})
	publishChange(ctx, "runways", "INSERT", toRunwayResp(rw), userID)
	return c.JSON(http.StatusCreated, toRunwayResp(rw))
}

// List handles GET /v1/runways with an optional ?status= filter.
func (h *RunwayHandler) List(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !model.ValidRunwayStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown runway status"})
	}
	items, err := h.Runways.List(c.Request().Context(), status)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	out := make([]runwayResp, 0, len(items))
	for _, rw := range items {
		out = append(out, toRunwayResp(rw))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/runways/:id.
func (h *RunwayHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rw, err := h.Runways.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	return c.JSON(http.StatusOK, toRunwayResp(rw))
}

// Update handles PUT/PATCH /v1/runways/:id for non-status fields.
func (h *RunwayHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityRunway, authz.OpUpdate) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name         *string `json:"name"`
		LengthMeters *uint32 `json:"length_meters"`
		SurfaceType  *string `json:"surface_type"`
		Notes        *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
	}
	ctx := c.Request().Context()
	if err := h.Runways.UpdateFields(ctx, id, body.Name, body.LengthMeters, body.SurfaceType, body.Notes); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "runway name already exists"})
		}
		return repoJSON(c, err, "update failed")
	}
	rw, err := h.Runways.GetByID(ctx, id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	h.Recorder.Record(ctx, userID, "runway.updated", "runway", &id, nil)
	publishChange(ctx, "runways", "UPDATE", toRunwayResp(rw), userID)
	return c.JSON(http.StatusOK, toRunwayResp(rw))
}

// SetStatus handles PATCH /v1/runways/:id/status. A transition to
// AVAILABLE is refused with 409 while an active flight still holds the
// runway; every other status is unrestricted.
func (h *RunwayHandler) SetStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityRunway, authz.OpUpdate) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if !model.ValidRunwayStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown runway status"})
	}
	ctx := c.Request().Context()
	if err := h.Runways.SetStatus(ctx, id, status); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "runway still assigned to an active flight"})
		}
		return repoJSON(c, err, "update failed")
	}
	rw, err := h.Runways.GetByID(ctx, id)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	h.Recorder.Record(ctx, userID, "runway.status", "runway", &id, map[string]any{"status": status})
	publishChange(ctx, "runways", "UPDATE", toRunwayResp(rw), userID)
	return c.JSON(http.StatusOK, toRunwayResp(rw))
}

// Delete handles DELETE /v1/runways/:id. Flights referencing the runway
// are detached, not deleted.
func (h *RunwayHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityRunway, authz.OpDelete) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Runways.Delete(ctx, id); err != nil {
		return repoJSON(c, err, "delete failed")
	}
	h.Recorder.Record(ctx, userID, "runway.deleted", "runway", &id, nil)
	publishChange(ctx, "runways", "DELETE", echo.Map{"id": id}, userID)
	return c.NoContent(http.StatusNoContent)
}
