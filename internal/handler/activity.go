package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-operations/internal/model"
	"github.com/iliyamo/airport-operations/internal/repository"
)

// ActivityHandler exposes read access to the audit trail. Entries are
// written only through the recorder; no write endpoint exists.
type ActivityHandler struct {
	Activity *repository.ActivityRepo
}

func NewActivityHandler(activity *repository.ActivityRepo) *ActivityHandler {
	if activity == nil {
		panic("nil repository passed to NewActivityHandler")
	}
	return &ActivityHandler{Activity: activity}
}

type activityResp struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   *uint64   `json:"entity_id,omitempty"`
	Details    *string   `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toActivityResp(e model.ActivityLogEntry) activityResp {
	return activityResp{
		ID:         e.ID,
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt,
	}
}

// List handles GET /v1/activity with optional ?entity_type=, ?user_id=
// and ?limit= filters. Entries come back newest first.
func (h *ActivityHandler) List(c echo.Context) error {
	entityType := strings.ToLower(strings.TrimSpace(c.QueryParam("entity_type")))
	var userID uint64
	if raw := c.QueryParam("user_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		userID = v
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = v
	}
	items, err := h.Activity.List(c.Request().Context(), entityType, userID, limit)
	if err != nil {
		return repoJSON(c, err, "db error")
	}
	out := make([]activityResp, 0, len(items))
	for _, e := range items {
		out = append(out, toActivityResp(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
