package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/agendalab/internal/appointment/domain"
)

const cacheTTLSecs = 60

// AppointmentService agrupa los casos de uso sobre el agregado Appointment.
// Cada caso de uso mutador tiene la misma forma: cargar o construir el
// agregado, mutar, persistir, construir el evento y publicarlo. Escritura y
// publicación son dos pasos independientes, no atómicos: un fallo entre
// medias deja la escritura ya confirmada (hueco de inconsistencia asumido).
type AppointmentService struct {
	repo     domain.AppointmentRepository
	cache    domain.AppointmentCache
	events   domain.EventPublisher
	registry map[string]string // evento -> routing key
	log      *zap.Logger
}

func NewAppointmentService(
	repo domain.AppointmentRepository,
	cache domain.AppointmentCache,
	events domain.EventPublisher,
	registry map[string]string,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		cache:    cache,
		events:   events,
		registry: registry,
		log:      log,
	}
}

// CreateAppointment construye la cita, la persiste (el repositorio asigna el
// id) y publica AppointmentCreatedEvent.
func (s *AppointmentService) CreateAppointment(ctx context.Context, title string, startTime, endTime time.Time, description string) (*AppointmentDTO, error) {
	a, err := domain.NewAppointment(title, startTime, endTime, description)
	if err != nil {
		return nil, s.translateValidation("validation error occurred while creating an appointment", err)
	}

	id, err := s.repo.Add(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := a.AssignID(id); err != nil {
		return nil, s.translateValidation("validation error occurred while creating an appointment", err)
	}

	if err := s.publish(ctx, domain.EventAppointmentCreated, toCreatedEvent(a)); err != nil {
		return nil, err
	}

	s.cacheSet(a)
	return toDTO(a), nil
}

// GetAppointment devuelve la proyección de una cita (primero intenta cache).
func (s *AppointmentService) GetAppointment(ctx context.Context, id int64) (*AppointmentDTO, error) {
	if s.cache != nil {
		var dto AppointmentDTO
		if ok, _ := s.cache.Get(ctx, domain.CacheKeyByID(id), &dto); ok {
			return &dto, nil
		}
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return nil, notFound(fmt.Sprintf("appointment with id '%d' was not found", id))
		}
		return nil, err
	}

	s.cacheSet(a)
	return toDTO(a), nil
}

// ListAppointments devuelve todas las citas.
func (s *AppointmentService) ListAppointments(ctx context.Context) ([]*AppointmentDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]*AppointmentDTO, 0, len(list))
	for _, a := range list {
		dtos = append(dtos, toDTO(a))
	}
	return dtos, nil
}

// UpdateAppointment sobreescribe los campos mutables y aplica la transición
// de estado pedida; publica AppointmentChangedEvent.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, id int64, title string, startTime, endTime time.Time, description string, status domain.Status) (*AppointmentDTO, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.Update(title, startTime, endTime, description, status); err != nil {
		return nil, s.translateValidation("validation error occurred while updating the appointment", err)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	if err := s.publish(ctx, domain.EventAppointmentChanged, toChangedEvent(a)); err != nil {
		return nil, err
	}

	s.cacheSet(a)
	return toDTO(a), nil
}

// UpdateAppointmentStatus aplica solo la transición de estado; publica
// AppointmentChangedEvent.
func (s *AppointmentService) UpdateAppointmentStatus(ctx context.Context, id int64, status domain.Status) (*AppointmentDTO, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.UpdateStatus(status); err != nil {
		return nil, s.translateValidation("validation error occurred while updating the appointment status", err)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	if err := s.publish(ctx, domain.EventAppointmentChanged, toChangedEvent(a)); err != nil {
		return nil, err
	}

	s.cacheSet(a)
	return toDTO(a), nil
}

// DeleteAppointment elimina la cita si su estado lo permite; publica
// AppointmentDeletedEvent. No devuelve proyección.
func (s *AppointmentService) DeleteAppointment(ctx context.Context, id int64) error {
	a, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := a.ValidateDeletable(); err != nil {
		return s.translateValidation("validation error occurred while deleting the appointment", err)
	}

	if err := s.repo.Remove(ctx, a); err != nil {
		return err
	}

	if err := s.publish(ctx, domain.EventAppointmentDeleted, toDeletedEvent(a)); err != nil {
		return err
	}

	s.cacheDelete(id)
	return nil
}

// ---------------- Helpers ----------------

func (s *AppointmentService) load(ctx context.Context, id int64) (*domain.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return nil, notFound(fmt.Sprintf("appointment with id '%d' was not found", id))
		}
		return nil, err
	}
	return a, nil
}

func (s *AppointmentService) publish(ctx context.Context, eventName string, event interface{}) error {
	return s.events.Publish(ctx, s.registry[eventName], event)
}

func (s *AppointmentService) translateValidation(message string, err error) error {
	if domain.IsValidationError(err) {
		s.log.Warn(message, zap.Error(err))
		return badRequest(message, err)
	}
	return err
}

func (s *AppointmentService) cacheSet(a *domain.Appointment) {
	if s.cache == nil {
		return
	}
	dto := toDTO(a)
	go func() {
		ctxCache, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_ = s.cache.Set(ctxCache, domain.CacheKeyByID(dto.ID), dto, cacheTTLSecs)
	}()
}

func (s *AppointmentService) cacheDelete(id int64) {
	if s.cache == nil {
		return
	}
	go func() {
		ctxCache, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_ = s.cache.Delete(ctxCache, domain.CacheKeyByID(id))
	}()
}
