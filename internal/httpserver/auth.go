package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/netra/internal/logging"
	"github.com/Skotchmaster/netra/internal/metrics"
	"github.com/Skotchmaster/netra/internal/service"
)

type AuthHTTP struct {
	Svc     *service.AuthService
	Metrics *metrics.Metrics
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (h *AuthHTTP) observe(outcome string) {
	if h.Metrics != nil {
		h.Metrics.ObserveLogin(outcome)
	}
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		h.observe(metrics.OutcomeBadRequest)
		return echo.NewHTTPError(http.StatusBadRequest, detailRequired)
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		h.observe(metrics.OutcomeBadRequest)
		return echo.NewHTTPError(http.StatusBadRequest, detailRequired)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.observe(metrics.OutcomeBadRequest)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.observe(metrics.OutcomeInvalid)
		default:
			h.observe(metrics.OutcomeUnavailable)
		}
		return serviceError(err, detailRequired)
	}

	h.observe(metrics.OutcomeSuccess)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": res.AccessToken,
		"token_type":   "bearer",
		"user":         res.User,
	})
}

func (h *AuthHTTP) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Auth routes are working",
		"endpoints": []string{"/api/auth/login"},
	})
}
