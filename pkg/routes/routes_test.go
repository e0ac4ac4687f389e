package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ExamSeatPlanner/internal/seating"
	"ExamSeatPlanner/pkg/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterRoutes(t *testing.T) {
	enf, err := middleware.InitCasbinEnforcer()
	require.NoError(t, err)

	e := echo.New()
	RegisterRoutes(e, seating.NewSeatingHandler(nil, nil), enf, zap.NewNop())

	registered := map[string]bool{}
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"GET /api/rooms",
		"POST /api/rooms",
		"PUT /api/rooms/:id",
		"DELETE /api/rooms/:id",
		"GET /api/students",
		"POST /api/students",
		"GET /api/plans",
		"POST /api/plans",
		"GET /api/plans/:id",
		"DELETE /api/plans/:id",
		"GET /api/plans/:id/report",
		"POST /api/plans/:id/pins",
		"DELETE /api/plans/:id/pins/:studentId",
	} {
		assert.True(t, registered[want], want)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/plans", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
