package httpserver

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/netra/internal/logging"
)

const (
	dbConnected   = "connected"
	dbUnreachable = "unreachable"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHTTP struct {
	Store   Pinger
	Profile string
	Version string
	Timeout time.Duration
}

func (h *HealthHTTP) database(ctx context.Context) string {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		logging.FromContext(ctx).Warn("health_db_unreachable", "error", err)
		return dbUnreachable
	}
	return dbConnected
}

func (h *HealthHTTP) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "Backend is running",
		"version":  h.Version,
		"database": h.database(c.Request().Context()),
	})
}

// Health keeps one response shape; only the values and status code change
// when the store is down.
func (h *HealthHTTP) Health(c echo.Context) error {
	db := h.database(c.Request().Context())
	if db != dbConnected {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":   "degraded",
			"message":  "Storage is unreachable",
			"database": db,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "healthy",
		"message":  "Project Netra API is operational",
		"database": db,
	})
}

func (h *HealthHTTP) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Test successful!",
		"environment": echo.Map{
			"go_version": runtime.Version(),
			"profile":    h.Profile,
			"version":    h.Version,
		},
	})
}
