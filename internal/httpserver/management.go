package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/netra/internal/middleware/auth"
	"github.com/Skotchmaster/netra/internal/models"
	"github.com/Skotchmaster/netra/internal/service"
	"github.com/Skotchmaster/netra/internal/util"
)

type DirectoryHTTP struct {
	Svc *service.DirectoryService
}

func viewer(c echo.Context) service.Viewer {
	claims, ok := authmw.ClaimsFrom(c)
	if !ok {
		return service.Viewer{}
	}
	return service.Viewer{
		Username:   claims.Subject,
		Role:       models.Role(claims.Role),
		Department: claims.Department,
	}
}

func (h *DirectoryHTTP) Students(c echo.Context) error {
	students, err := h.Svc.Students(c.Request().Context(), viewer(c))
	if err != nil {
		return serviceError(err, detailUnavailable)
	}
	if students == nil {
		students = []models.Student{}
	}
	return c.JSON(http.StatusOK, students)
}

func (h *DirectoryHTTP) Timetable(c echo.Context) error {
	entries, err := h.Svc.Timetable(c.Request().Context())
	if err != nil {
		return serviceError(err, detailUnavailable)
	}
	if entries == nil {
		entries = []models.TimetableEntry{}
	}
	return c.JSON(http.StatusOK, echo.Map{"timetable": entries})
}

func (h *DirectoryHTTP) SearchStudents(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	res, err := h.Svc.SearchStudents(c.Request().Context(), viewer(c), c.QueryParam("q"), from, limit)
	if err != nil {
		return serviceError(err, detailQueryMissing)
	}
	students := res.Students
	if students == nil {
		students = []models.Student{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total":    res.Total,
		"students": students,
	})
}
