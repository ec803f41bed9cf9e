package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/agendalab/internal/appointment/domain"
	sharedEvents "github.com/davicafu/agendalab/internal/shared/events"
	"github.com/davicafu/agendalab/tests/mocks"
)

func newTestService(repo *mocks.InMemoryAppointmentRepo, publisher *mocks.CapturePublisher) *AppointmentService {
	return NewAppointmentService(repo, nil, publisher, domain.NewEventRegistry(), zap.NewNop())
}

func testWindow() (time.Time, time.Time) {
	start := time.Now().UTC().Add(1 * time.Hour).Truncate(time.Second)
	return start, start.Add(30 * time.Minute)
}

func TestCreateAppointment_Success(t *testing.T) {
	// Arrange
	repo := mocks.NewInMemoryAppointmentRepo()
	publisher := &mocks.CapturePublisher{}
	service := newTestService(repo, publisher)
	start, end := testWindow()

	// Act
	dto, err := service.CreateAppointment(context.Background(), "Revisión anual", start, end, "Con el doctor Pérez")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), dto.ID, "el repo debería haber asignado el primer id")
	assert.Equal(t, "scheduled", dto.Status)

	// Verificar el evento publicado y su routing key
	published := publisher.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "appointment.created", published[0].RoutingKey)
	evt, ok := published[0].Event.(sharedEvents.AppointmentCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1), evt.AppointmentID, "el evento debería llevar el id ya asignado")
	assert.Equal(t, "Revisión anual", evt.Title)
}

func TestCreateAppointment_ValidationError(t *testing.T) {
	// Arrange
	repo := mocks.NewInMemoryAppointmentRepo()
	publisher := &mocks.CapturePublisher{}
	service := newTestService(repo, publisher)
	start, end := testWindow()

	// Act
	_, err := service.CreateAppointment(context.Background(), "  ", start, end, "desc")

	// Assert
	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindBadRequest, appErr.Kind)
	assert.Empty(t, publisher.Published(), "no debería publicarse nada si la validación falla")
}

func TestCreateAppointment_PublishFailureAfterPersist(t *testing.T) {
	// Arrange
	repo := mocks.NewInMemoryAppointmentRepo()
	publisher := &mocks.CapturePublisher{FailWith: errors.New("broker down")}
	service := newTestService(repo, publisher)
	start, end := testWindow()

	// Act
	_, err := service.CreateAppointment(context.Background(), "Revisión", start, end, "desc")

	// Assert: el error sube, pero la escritura ya quedó confirmada.
	require.Error(t, err)
	stored, repoErr := repo.GetByID(context.Background(), 1)
	require.NoError(t, repoErr, "la cita debería haberse persistido antes del fallo de publicación")
	assert.Equal(t, "Revisión", stored.Title())
}

func TestGetAppointment_NotFound(t *testing.T) {
	// Arrange
	service := newTestService(mocks.NewInMemoryAppointmentRepo(), &mocks.CapturePublisher{})

	// Act
	_, err := service.GetAppointment(context.Background(), 99)

	// Assert
	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.Contains(t, appErr.Message, "appointment with id '99' was not found")
}

func TestGetAppointment_CacheHit(t *testing.T) {
	// Arrange: el repo está vacío, solo la caché tiene la proyección.
	repo := mocks.NewInMemoryAppointmentRepo()
	cache := &mocks.DummyCache{}
	start, end := testWindow()
	cached := &AppointmentDTO{ID: 5, Title: "En caché", StartTime: start, EndTime: end, Status: "scheduled"}
	require.NoError(t, cache.Set(context.Background(), domain.CacheKeyByID(5), cached, 60))

	service := NewAppointmentService(repo, cache, &mocks.CapturePublisher{}, domain.NewEventRegistry(), zap.NewNop())

	// Act
	dto, err := service.GetAppointment(context.Background(), 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "En caché", dto.Title)
}

func TestListAppointments(t *testing.T) {
	// Arrange
	repo := mocks.NewInMemoryAppointmentRepo()
	service := newTestService(repo, &mocks.CapturePublisher{})
	start, end := testWindow()
	_, err := service.CreateAppointment(context.Background(), "Primera", start, end, "")
	require.NoError(t, err)
	_, err = service.CreateAppointment(context.Background(), "Segunda", start, end, "")
	require.NoError(t, err)

	// Act
	list, err := service.ListAppointments(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Primera", list[0].Title)
	assert.Equal(t, "Segunda", list[1].Title)
}

func TestUpdateAppointment_Success(t *testing.T) {
	// Arrange
	repo := mocks.NewInMemoryAppointmentRepo()
	publisher := &mocks.CapturePublisher{}
	service := newTestService(repo, publisher)
	start, end := testWindow()
	created, err := service.CreateAppointment(context.Background(), "Original", start, end, "desc")
	require.NoError(t, err)

	// Act
	dto, err := service.UpdateAppointment(context.Background(), created.ID, "Actualizada", start, end, "nueva desc", domain.StatusCompleted)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Actualizada", dto.Title)
	assert.Equal(t, "completed", dto.Status)

	stored, _ := repo.GetByID(context.Background(), created.ID)
	assert.Equal(t, domain.StatusCompleted, stored.Status(), "el cambio debería haberse persistido")

	published := publisher.Published()
	require.Len(t, published, 2) // created + changed
	assert.Equal(t, "appointment.changed", published[1].RoutingKey)
}

func TestUpdateAppointment_NotFound(t *testing.T) {
	// Arrange
	service := newTestService(mocks.NewInMemoryAppointmentRepo(), &mocks.CapturePublisher{})
	start, end := testWindow()

	// Act
	_, err := service.UpdateAppointment(context.Background(), 42, "Título", start, end, "", domain.StatusScheduled)

	// Assert
	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.Contains(t, appErr.Message, "appointment with id '42' was not found")
}

func TestUpdateAppointmentStatus(t *testing.T) {
	start, end := testWindow()

	t.Run("transición válida publica el evento", func(t *testing.T) {
		repo := mocks.NewInMemoryAppointmentRepo()
		publisher := &mocks.CapturePublisher{}
		service := newTestService(repo, publisher)
		created, err := service.CreateAppointment(context.Background(), "Cita", start, end, "")
		require.NoError(t, err)

		dto, err := service.UpdateAppointmentStatus(context.Background(), created.ID, domain.StatusCanceled)

		require.NoError(t, err)
		assert.Equal(t, "canceled", dto.Status)
		published := publisher.Published()
		require.Len(t, published, 2)
		assert.Equal(t, "appointment.changed", published[1].RoutingKey)
	})

	t.Run("mismo estado es no-op pero publica igualmente", func(t *testing.T) {
		repo := mocks.NewInMemoryAppointmentRepo()
		publisher := &mocks.CapturePublisher{}
		service := newTestService(repo, publisher)
		created, err := service.CreateAppointment(context.Background(), "Cita", start, end, "")
		require.NoError(t, err)

		dto, err := service.UpdateAppointmentStatus(context.Background(), created.ID, domain.StatusScheduled)

		require.NoError(t, err)
		assert.Equal(t, "scheduled", dto.Status)
		assert.Len(t, publisher.Published(), 2)
	})

	t.Run("estado inválido", func(t *testing.T) {
		repo := mocks.NewInMemoryAppointmentRepo()
		service := newTestService(repo, &mocks.CapturePublisher{})
		created, err := service.CreateAppointment(context.Background(), "Cita", start, end, "")
		require.NoError(t, err)

		_, err = service.UpdateAppointmentStatus(context.Background(), created.ID, domain.Status("archived"))

		var appErr *Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, KindBadRequest, appErr.Kind)
	})
}

func TestDeleteAppointment(t *testing.T) {
	start, end := testWindow()

	t.Run("scheduled se borra y publica", func(t *testing.T) {
		repo := mocks.NewInMemoryAppointmentRepo()
		publisher := &mocks.CapturePublisher{}
		service := newTestService(repo, publisher)
		created, err := service.CreateAppointment(context.Background(), "A borrar", start, end, "")
		require.NoError(t, err)

		err = service.DeleteAppointment(context.Background(), created.ID)

		require.NoError(t, err)
		_, getErr := repo.GetByID(context.Background(), created.ID)
		assert.ErrorIs(t, getErr, domain.ErrAppointmentNotFound)

		published := publisher.Published()
		require.Len(t, published, 2)
		assert.Equal(t, "appointment.deleted", published[1].RoutingKey)
		evt, ok := published[1].Event.(sharedEvents.AppointmentDeletedEvent)
		require.True(t, ok)
		assert.Equal(t, created.ID, evt.AppointmentID)
	})

	t.Run("completed no se puede borrar", func(t *testing.T) {
		repo := mocks.NewInMemoryAppointmentRepo()
		publisher := &mocks.CapturePublisher{}
		service := newTestService(repo, publisher)
		created, err := service.CreateAppointment(context.Background(), "Cerrada", start, end, "")
		require.NoError(t, err)
		_, err = service.UpdateAppointmentStatus(context.Background(), created.ID, domain.StatusCompleted)
		require.NoError(t, err)

		err = service.DeleteAppointment(context.Background(), created.ID)

		var appErr *Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, KindBadRequest, appErr.Kind)

		_, getErr := repo.GetByID(context.Background(), created.ID)
		assert.NoError(t, getErr, "la cita debería seguir existiendo")
		assert.Len(t, publisher.Published(), 2, "no debería publicarse un deleted")
	})

	t.Run("no encontrada", func(t *testing.T) {
		service := newTestService(mocks.NewInMemoryAppointmentRepo(), &mocks.CapturePublisher{})

		err := service.DeleteAppointment(context.Background(), 404)

		var appErr *Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, KindNotFound, appErr.Kind)
	})
}
