package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/netra/internal/middleware/auth"
)

// Profile echoes the verified token claims back to the caller.
func Profile(c echo.Context) error {
	claims, ok := authmw.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"username":      claims.Subject,
		"role":          claims.Role,
		"dept":          claims.Department,
		"fullName":      claims.FullName,
		"assignedClass": claims.AssignedClass,
	})
}
