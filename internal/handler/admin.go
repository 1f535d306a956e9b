package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-operations/internal/activity"
	"github.com/iliyamo/airport-operations/internal/authz"
	"github.com/iliyamo/airport-operations/internal/model"
	"github.com/iliyamo/airport-operations/internal/repository"
)

// AdminHandler exposes the role store mutations. Route middleware
// already restricts the group to ADMIN; the policy table is consulted
// again so the rule is enforced even if the routing changes.
type AdminHandler struct {
	Users    *repository.UserRepo
	Recorder *activity.Recorder
}

func NewAdminHandler(users *repository.UserRepo, rec *activity.Recorder) *AdminHandler {
	if users == nil || rec == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Users: users, Recorder: rec}
}

// SetRole handles PUT /v1/admin/users/:id/role.
func (h *AdminHandler) SetRole(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !authz.CanPerform(roleOf(c), authz.EntityRole, authz.OpUpdate) {
		return forbidden(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	role := strings.ToUpper(strings.TrimSpace(body.Role))
	if !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ADMIN, ATC or STAFF"})
	}
	ctx := c.Request().Context()
	if err := h.Users.SetRole(ctx, id, role); err != nil {
		return repoJSON(c, err, "set role failed")
	}
	h.Recorder.Record(ctx, actorID, "role.set", "user", &id, map[string]any{"role": role})
	return c.JSON(http.StatusOK, echo.Map{"user_id": id, "role": role})
}

// GetRole handles GET /v1/users/:id/role. Any authenticated user may
// look up who holds which role.
func (h *AdminHandler) GetRole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoJSON(c, err, "load user failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": u.ID, "role": u.Role})
}
