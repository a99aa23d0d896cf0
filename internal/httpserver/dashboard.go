package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/netra/internal/middleware/auth"
)

func placeholder(message string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := c.Get(authmw.CtxUsername).(string)
		return c.JSON(http.StatusOK, echo.Map{
			"message": message,
			"user":    user,
		})
	}
}

var (
	PrincipalDashboard = placeholder("Principal dashboard")
	HODDashboard       = placeholder("HOD dashboard")
	StaffDashboard     = placeholder("Staff dashboard")
	AttendanceSummary  = placeholder("Attendance summary endpoint")
	RegistrationStatus = placeholder("Registration status endpoint")
)
