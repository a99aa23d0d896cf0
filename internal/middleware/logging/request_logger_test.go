package loggingmw

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/netra/internal/logging"
	authmw "github.com/Skotchmaster/netra/internal/middleware/auth"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestLogger_InjectsLoggerAndLogsCompletion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.GET("/api/users/profile", func(c echo.Context) error {
		c.Set(authmw.CtxUsername, "principal1")
		logging.FromContext(c.Request().Context()).Info("handler_ran")
		return c.JSON(http.StatusOK, map[string]string{"ok": "1"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	got := lines(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "handler_ran", got[0]["msg"])
	assert.Equal(t, "rid-1", got[0]["request_id"])
	assert.Equal(t, "request completed", got[1]["msg"])
	assert.Equal(t, "INFO", got[1]["level"])
	assert.EqualValues(t, 200, got[1]["status"])
	assert.Equal(t, "principal1", got[1]["user"])
}

func TestRequestLogger_HandlesErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.GET("/forbidden", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forbidden", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "WARN", got[0]["level"])
	assert.EqualValues(t, 403, got[0]["status"])
}
