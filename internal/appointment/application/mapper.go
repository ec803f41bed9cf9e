package application

import (
	"time"

	"github.com/davicafu/agendalab/internal/appointment/domain"
	sharedEvents "github.com/davicafu/agendalab/internal/shared/events"
)

// AppointmentDTO es la proyección que devuelven los casos de uso.
type AppointmentDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
}

func toDTO(a *domain.Appointment) *AppointmentDTO {
	return &AppointmentDTO{
		ID:          a.ID(),
		Title:       a.Title(),
		StartTime:   a.StartTime(),
		EndTime:     a.EndTime(),
		Description: a.Description(),
		Status:      string(a.Status()),
	}
}

func toCreatedEvent(a *domain.Appointment) sharedEvents.AppointmentCreatedEvent {
	return sharedEvents.AppointmentCreatedEvent{
		AppointmentID: a.ID(),
		Title:         a.Title(),
		StartTime:     a.StartTime(),
		EndTime:       a.EndTime(),
		Description:   a.Description(),
		Status:        string(a.Status()),
	}
}

func toChangedEvent(a *domain.Appointment) sharedEvents.AppointmentChangedEvent {
	return sharedEvents.AppointmentChangedEvent{
		AppointmentID: a.ID(),
		Title:         a.Title(),
		StartTime:     a.StartTime(),
		EndTime:       a.EndTime(),
		Description:   a.Description(),
		Status:        string(a.Status()),
	}
}

func toDeletedEvent(a *domain.Appointment) sharedEvents.AppointmentDeletedEvent {
	return sharedEvents.AppointmentDeletedEvent{
		AppointmentID: a.ID(),
		Title:         a.Title(),
		StartTime:     a.StartTime(),
		EndTime:       a.EndTime(),
		Description:   a.Description(),
		Status:        string(a.Status()),
	}
}
