package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-operations/internal/queue"
	"github.com/iliyamo/airport-operations/internal/repository"
	event_publisher "github.com/iliyamo/airport-operations/internal/service"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. JWT numeric claims decode as float64, so several shapes are
// accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// roleOf returns the role stored in context by JWTAuth, or "" when absent.
func roleOf(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// forbidden is the uniform 403 body for policy violations.
func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
}

// publishChange emits a change event for a committed mutation. The
// publish is best-effort: the publisher logs failures and the mutation
// stands regardless of how the broker behaves.
func publishChange(ctx context.Context, table, op string, row any, actorID uint64) {
	_ = event_publisher.PublishChange(ctx, queue.ChangeEvent{
		Table:   table,
		Op:      op,
		Row:     row,
		ActorID: actorID,
	})
}

// repoJSON maps repository sentinel errors onto HTTP responses. Unknown
// errors become a 500 with the supplied fallback message, signalling a
// transient store failure the caller may retry with backoff.
func repoJSON(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrRunwayNotFound),
		errors.Is(err, repository.ErrFlightNotFound),
		errors.Is(err, repository.ErrPassengerNotFound),
		errors.Is(err, repository.ErrAlertNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	case errors.Is(err, repository.ErrForbidden):
		return forbidden(c)
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
}
