package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/netra/internal/logging"
	"github.com/Skotchmaster/netra/internal/service"
)

const (
	detailRequired     = "Username and password are required"
	detailBadLogin     = "Incorrect username or password"
	detailUnavailable  = "Service temporarily unavailable"
	detailSearchOff    = "Student search is not configured"
	detailQueryMissing = "Query parameter q is required"
)

// ErrorHandler renders every error as {"detail": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			detail = m
		case error:
			detail = m.Error()
		case nil:
			detail = http.StatusText(code)
		default:
			detail = fmt.Sprint(m)
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, echo.Map{"detail": detail})
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
	}
}

// serviceError maps service sentinels onto HTTP errors. validation is the
// 400 detail for the calling route.
func serviceError(err error, validation string) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, validation)
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, detailBadLogin)
	case errors.Is(err, service.ErrSearchDisabled):
		return echo.NewHTTPError(http.StatusServiceUnavailable, detailSearchOff)
	case errors.Is(err, service.ErrUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, detailUnavailable)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
	}
}
