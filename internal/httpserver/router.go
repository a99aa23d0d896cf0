package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/netra/internal/config"
	"github.com/Skotchmaster/netra/internal/metrics"
	authmw "github.com/Skotchmaster/netra/internal/middleware/auth"
	"github.com/Skotchmaster/netra/internal/models"
)

type Deps struct {
	Auth       *AuthHTTP
	Directory  *DirectoryHTTP
	Health     *HealthHTTP
	Verifier   authmw.TokenVerifier
	Features   config.Features
	Metrics    *metrics.Metrics
	LoginLimit echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", d.Health.Root)
	e.GET("/health", d.Health.Health)
	if d.Features.Diagnostics {
		e.GET("/test", d.Health.Test)
	}
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	authGroup := e.Group("/api/auth")
	if d.LoginLimit != nil {
		authGroup.POST("/login", d.Auth.Login, d.LoginLimit)
	} else {
		authGroup.POST("/login", d.Auth.Login)
	}
	authGroup.GET("/test", d.Auth.Test)

	// Auth is attached per route so unregistered /api paths stay 404.
	authed := authmw.RequireAuth(d.Verifier)
	private := e.Group("/api")

	if d.Features.Users {
		private.GET("/users/profile", Profile, authed)
	}

	if d.Features.Management {
		readers := authmw.RequireRole("Access denied",
			models.RolePrincipal, models.RoleHOD, models.RoleClassTeacher)
		private.GET("/management/students", d.Directory.Students, authed, readers)
		private.GET("/management/timetable", d.Directory.Timetable, authed)
		if d.Features.Search {
			private.GET("/management/students/search", d.Directory.SearchStudents, authed, readers)
		}
	}

	if d.Features.Dashboards {
		private.GET("/principal/dashboard", PrincipalDashboard, authed,
			authmw.RequireRole("Access denied - Principal only", models.RolePrincipal))
		private.GET("/hod/dashboard", HODDashboard, authed,
			authmw.RequireRole("Access denied - HOD only", models.RoleHOD))
		private.GET("/staff/dashboard", StaffDashboard, authed,
			authmw.RequireRole("Access denied - Staff only", models.RoleStaff, models.RoleClassTeacher))
	}
	if d.Features.Attendance {
		private.GET("/attendance/summary", AttendanceSummary, authed)
	}
	if d.Features.Registration {
		private.GET("/registration/status", RegistrationStatus, authed)
	}
}
