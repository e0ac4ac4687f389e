package seating

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ExamSeatPlanner/internal/placement"
)

func newTestServer(store *memStore) *echo.Echo {
	h := NewSeatingHandler(newTestService(store), nil)
	e := echo.New()
	e.GET("/healthz", h.Healthz)
	e.GET("/rooms", h.ListRooms)
	e.POST("/rooms", h.CreateRoom)
	e.PUT("/rooms/:id", h.UpdateRoom)
	e.DELETE("/rooms/:id", h.DeleteRoom)
	e.GET("/students", h.ListStudents)
	e.POST("/students", h.CreateStudents)
	e.GET("/plans", h.ListPlans)
	e.POST("/plans", h.GeneratePlan)
	e.GET("/plans/:id", h.GetPlan)
	e.DELETE("/plans/:id", h.DeletePlan)
	e.GET("/plans/:id/report", h.GetReport)
	e.POST("/plans/:id/pins", h.PinStudent)
	e.DELETE("/plans/:id/pins/:studentId", h.UnpinStudent)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlerPlanFlow(t *testing.T) {
	store := newMemStore()
	store.rooms = []placement.Room{room("A", 2, 3), room("B", 2, 3)}
	store.students = roster(8)
	e := newTestServer(store)

	rec := do(e, http.MethodPost, "/plans", `{"seed": 3, "optimizer": "genetic"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var plan PlacementPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, int64(3), plan.Seed)
	assert.Equal(t, placement.OptimizerGenetic, plan.Optimizer)
	id := plan.ID.Hex()

	rec = do(e, http.MethodGet, "/plans/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/plans/"+id+"/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report placement.StatsReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 8, report.TotalPlaced+report.TotalUnplaced)

	rec = do(e, http.MethodPost, "/plans/"+id+"/pins", `{"studentId": "s02", "roomId": "A", "seatId": "1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodDelete, "/plans/"+id+"/pins/s02", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodDelete, "/plans/"+id, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/plans/"+id, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerErrors(t *testing.T) {
	store := newMemStore()
	store.rooms = []placement.Room{room("A", 1, 2)}
	store.students = roster(3)
	e := newTestServer(store)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed body", http.MethodPost, "/plans", `{"seed":`, http.StatusBadRequest},
		{"negative seed", http.MethodPost, "/plans", `{"seed": -1}`, http.StatusBadRequest},
		{"unknown optimizer", http.MethodPost, "/plans", `{"optimizer": "annealing"}`, http.StatusBadRequest},
		{"weight out of range", http.MethodPost, "/plans", `{"weights": {"medicalNeeds": 0.05, "groupPreservation": 0.2, "genderBalance": 0.2, "classLevelMix": 0.2, "academicSimilarity": 0.2}}`, http.StatusBadRequest},
		{"over capacity", http.MethodPost, "/plans", `{}`, http.StatusBadRequest},
		{"bad plan id", http.MethodGet, "/plans/xyz", "", http.StatusBadRequest},
		{"missing plan", http.MethodGet, "/plans/0123456789abcdef01234567", "", http.StatusNotFound},
		{"pin without student", http.MethodPost, "/plans/0123456789abcdef01234567/pins", `{"roomId": "A"}`, http.StatusBadRequest},
		{"room without name", http.MethodPost, "/rooms", `{"capacity": 4}`, http.StatusBadRequest},
		{"room bad arrangement", http.MethodPost, "/rooms", `{"name": "Hall", "shape": {"arrangement": "triple"}}`, http.StatusBadRequest},
		{"missing room", http.MethodDelete, "/rooms/nope", "", http.StatusNotFound},
		{"empty import", http.MethodPost, "/students", `{"students": []}`, http.StatusBadRequest},
		{"student without class", http.MethodPost, "/students", `{"students": [{"name": "Ada"}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.method, tt.path, tt.body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandlerRoomsAndStudents(t *testing.T) {
	store := newMemStore()
	e := newTestServer(store)

	rec := do(e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/rooms", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(e, http.MethodPost, "/rooms", `{"code": "B-204", "name": "Hall", "shape": {"arrangement": "double", "groups": [{"id": 1, "rowCount": 3}]}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created placement.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)
	assert.Equal(t, 6, created.EffectiveCapacity())

	rec = do(e, http.MethodPut, "/rooms/"+created.ID, `{"name": "Hall", "active": false, "shape": {"arrangement": "double", "groups": [{"id": 1, "rowCount": 3}]}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, store.rooms[0].Active)

	rec = do(e, http.MethodPost, "/students", `{"students": [{"id": "s1", "name": "Ada", "classLabel": "10-A", "gender": "F", "medicalNeed": true}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, store.students, 1)
	assert.True(t, store.students[0].MedicalNeed)

	rec = do(e, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var students []placement.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &students))
	assert.Equal(t, "Ada", students[0].Name)

	rec = do(e, http.MethodDelete, "/rooms/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}
