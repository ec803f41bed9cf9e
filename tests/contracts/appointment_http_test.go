package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/agendalab/internal/appointment/application"
	"github.com/davicafu/agendalab/internal/appointment/domain"
	appointmentHttp "github.com/davicafu/agendalab/internal/appointment/infra/inbound/http"
	"github.com/davicafu/agendalab/tests/mocks"
)

// problemResponse es el formato de error que el contrato HTTP promete.
type problemResponse struct {
	Status   int    `json:"status"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := mocks.NewInMemoryAppointmentRepo()
	service := application.NewAppointmentService(repo, nil, &mocks.CapturePublisher{}, domain.NewEventRegistry(), zap.NewNop())

	router := gin.New()
	appointmentHttp.RegisterAppointmentRoutes(router, appointmentHttp.NewAppointmentHandler(service))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createBody() map[string]interface{} {
	start := time.Now().UTC().Add(1 * time.Hour).Truncate(time.Second)
	return map[string]interface{}{
		"title":       "Revisión anual",
		"start_time":  start.Format(time.RFC3339),
		"end_time":    start.Add(30 * time.Minute).Format(time.RFC3339),
		"description": "primera visita",
	}
}

func TestCreateAppointment_HTTPContract(t *testing.T) {
	router := setupRouter(t)

	// Caso bueno: 201 con la proyección completa.
	rec := doJSON(t, router, http.MethodPost, "/appointments", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var dto application.AppointmentDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, int64(1), dto.ID)
	assert.Equal(t, "Revisión anual", dto.Title)
	assert.Equal(t, "scheduled", dto.Status)

	// Cuerpo sin title: 400 con problem details.
	bad := createBody()
	delete(bad, "title")
	rec = doJSON(t, router, http.MethodPost, "/appointments", bad)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem problemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Equal(t, "/appointments", problem.Instance)
}

func TestGetAppointment_HTTPContract(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/appointments", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	// Existente: 200.
	rec = doJSON(t, router, http.MethodGet, "/appointments/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Inexistente: 404 con problem details y el id en el detalle.
	rec = doJSON(t, router, http.MethodGet, "/appointments/99", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var problem problemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Contains(t, problem.Detail, "appointment with id '99' was not found")
	assert.Equal(t, "/appointments/99", problem.Instance)

	// Id no numérico: 400.
	rec = doJSON(t, router, http.MethodGet, "/appointments/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_HTTPContract(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/appointments", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	// Transición válida: 200 con el nuevo estado.
	rec = doJSON(t, router, http.MethodPatch, "/appointments/1/status", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)

	var dto application.AppointmentDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "completed", dto.Status)

	// Estado desconocido: 400.
	rec = doJSON(t, router, http.MethodPatch, "/appointments/1/status", map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAppointment_HTTPContract(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/appointments", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	// Una cita completada no se puede borrar: 400.
	rec = doJSON(t, router, http.MethodPatch, "/appointments/1/status", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/appointments/1", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem problemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Contains(t, problem.Detail, "cannot be deleted")

	// Una programada sí: 204 y el GET posterior devuelve 404.
	rec = doJSON(t, router, http.MethodPost, "/appointments", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var second application.AppointmentDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	path := fmt.Sprintf("/appointments/%d", second.ID)
	rec = doJSON(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
