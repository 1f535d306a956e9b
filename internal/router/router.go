// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-operations/internal/handler"
	"github.com/iliyamo/airport-operations/internal/middleware"
	"github.com/iliyamo/airport-operations/internal/model"
)

// OpsHandlers bundles the handlers for the authenticated operations
// surface so RegisterOps does not take a dozen parameters.
type OpsHandlers struct {
	Runways    *handler.RunwayHandler
	Flights    *handler.FlightHandler
	Passengers *handler.PassengerHandler
	Alerts     *handler.AlertHandler
	Activity   *handler.ActivityHandler
	Admin      *handler.AdminHandler
}

// RegisterRoutes registers routes that do not require authentication.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register, login
// and the token exchanges live under /v1/auth and need no session;
// /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout takes the refresh token in the body, so it works without
	// an access token and after access-token expiry.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleATC, model.RoleStaff))
	auth.GET("/me", a.Me)
	auth.POST("/logout-all", a.LogoutAll)
}

// RegisterOps registers the operations surface under /v1. Every route
// requires a valid access token and a known role; finer-grained
// decisions (which role may write which entity) happen inside the
// handlers against the policy table, so a denied write is a 403 while
// a missing or bad token stays a 401 at the middleware layer.
func RegisterOps(e *echo.Echo, h OpsHandlers, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin, model.RoleATC, model.RoleStaff))
	for _, m := range extra {
		g.Use(m)
	}

	// Runways.
	g.POST("/runways", h.Runways.Create)
	g.GET("/runways", h.Runways.List)
	g.GET("/runways/:id", h.Runways.Get)
	g.PUT("/runways/:id", h.Runways.Update)
	g.PATCH("/runways/:id", h.Runways.Update)
	g.PATCH("/runways/:id/status", h.Runways.SetStatus)
	g.DELETE("/runways/:id", h.Runways.Delete)

	// Flights.
	g.POST("/flights", h.Flights.Create)
	g.GET("/flights", h.Flights.List)
	g.GET("/flights/:id", h.Flights.Get)
	g.PUT("/flights/:id", h.Flights.Update)
	g.PATCH("/flights/:id", h.Flights.Update)
	g.POST("/flights/:id/transition", h.Flights.Transition)
	g.POST("/flights/:id/assign-runway", h.Flights.AssignRunway)
	g.DELETE("/flights/:id", h.Flights.Delete)

	// Passengers. Create accepts the flight either in the nested path
	// or as flight_id in the body on the flat route.
	g.POST("/passengers", h.Passengers.Create)
	g.POST("/flights/:id/passengers", h.Passengers.Create)
	g.GET("/flights/:id/passengers", h.Passengers.ListByFlight)
	g.GET("/passengers/:id", h.Passengers.Get)
	g.PUT("/passengers/:id", h.Passengers.Update)
	g.PATCH("/passengers/:id", h.Passengers.Update)
	g.DELETE("/passengers/:id", h.Passengers.Delete)

	// Alerts.
	g.POST("/alerts", h.Alerts.Create)
	g.GET("/alerts", h.Alerts.List)
	g.GET("/alerts/:id", h.Alerts.Get)
	g.POST("/alerts/:id/acknowledge", h.Alerts.Acknowledge)
	g.PUT("/alerts/:id", h.Alerts.Update)
	g.PATCH("/alerts/:id", h.Alerts.Update)
	g.DELETE("/alerts/:id", h.Alerts.Delete)

	// Audit trail, read-only.
	g.GET("/activity", h.Activity.List)

	// Role administration.
	g.PUT("/admin/users/:id/role", h.Admin.SetRole)
	g.GET("/users/:id/role", h.Admin.GetRole)
}
