package auth

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/netra/internal/logging"
	"github.com/Skotchmaster/netra/internal/models"
	"github.com/Skotchmaster/netra/internal/tokens"
)

const (
	CtxClaims   = "claims"
	CtxUsername = "username"
	CtxRole     = "role"
)

const credentialsDetail = "Could not validate credentials"

type TokenVerifier interface {
	Verify(raw string) (*tokens.AccessClaims, error)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, credentialsDetail)
}

// RequireAuth verifies the bearer token and stores its claims on the context.
func RequireAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("mw", "require_auth")

			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				l.Warn("auth_failed", "status", 401, "reason", "missing bearer token")
				return unauthorized(c)
			}

			claims, err := v.Verify(raw)
			if err != nil {
				reason := "invalid token"
				if errors.Is(err, tokens.ErrExpired) {
					reason = "expired token"
				}
				l.Warn("auth_failed", "status", 401, "reason", reason)
				return unauthorized(c)
			}

			c.Set(CtxClaims, claims)
			c.Set(CtxUsername, claims.Subject)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// RequireRole is a static allow-list. Anything outside it, including an
// empty or unknown role, gets 403 with detail.
func RequireRole(detail string, allowed ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if !slices.Contains(allowed, models.Role(role)) {
				logging.FromContext(c.Request().Context()).Warn("access_denied",
					"status", 403, "role", role, "path", c.Path())
				return echo.NewHTTPError(http.StatusForbidden, detail)
			}
			return next(c)
		}
	}
}

func ClaimsFrom(c echo.Context) (*tokens.AccessClaims, bool) {
	claims, ok := c.Get(CtxClaims).(*tokens.AccessClaims)
	return claims, ok && claims != nil
}
