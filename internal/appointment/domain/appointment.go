package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

type NotificationStatus string

const (
	NotificationNotSent NotificationStatus = "not_sent"
	NotificationSent    NotificationStatus = "sent"
)

const (
	minimumAllowedID int64 = 1
	unassignedID     int64 = 0
)

// Appointment es la raíz del agregado. Los campos son privados: todas las
// mutaciones pasan por los métodos, que hacen cumplir las invariantes del
// ciclo de vida.
type Appointment struct {
	id           int64
	title        string
	startTime    time.Time
	endTime      time.Time
	description  string
	status       Status
	notification NotificationStatus
}

// NewAppointment construye una cita nueva (id sin asignar, estado scheduled).
func NewAppointment(title string, startTime, endTime time.Time, description string) (*Appointment, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDates(startTime, endTime); err != nil {
		return nil, err
	}

	return &Appointment{
		title:        title,
		startTime:    startTime,
		endTime:      endTime,
		description:  description,
		status:       StatusScheduled,
		notification: NotificationNotSent,
	}, nil
}

// Hydrate reconstruye una cita desde almacenamiento sin pasar por las
// validaciones de negocio. Solo debe usarse desde los mappers de persistencia.
func Hydrate(id int64, title string, startTime, endTime time.Time, description string, status Status) *Appointment {
	return &Appointment{
		id:           id,
		title:        title,
		startTime:    startTime,
		endTime:      endTime,
		description:  description,
		status:       status,
		notification: NotificationNotSent,
	}
}

// AssignID asigna el id generado por el repositorio. Exactamente una vez.
func (a *Appointment) AssignID(id int64) error {
	if id < minimumAllowedID {
		return newValidationError("appointment id must be greater than or equal to %d, provided value: %d", minimumAllowedID, id)
	}
	if a.id != unassignedID {
		return newValidationError("appointment id has already been assigned, current id: %d", a.id)
	}
	a.id = id
	return nil
}

// Update revalida título y fechas, aplica la transición de estado pedida con
// la misma regla que UpdateStatus y sobreescribe el resto de campos.
func (a *Appointment) Update(title string, startTime, endTime time.Time, description string, status Status) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validateDates(startTime, endTime); err != nil {
		return err
	}
	if err := a.UpdateStatus(status); err != nil {
		return err
	}

	a.title = title
	a.startTime = startTime
	a.endTime = endTime
	a.description = description
	return nil
}

// Complete marca la cita como completada. Falla si ya lo estaba.
func (a *Appointment) Complete() error {
	if a.status == StatusCompleted {
		return newValidationError("appointment with id %d is already %s", a.id, StatusCompleted)
	}
	a.status = StatusCompleted
	return nil
}

// Cancel marca la cita como cancelada. Falla si ya lo estaba.
func (a *Appointment) Cancel() error {
	if a.status == StatusCanceled {
		return newValidationError("appointment with id %d is already %s", a.id, StatusCanceled)
	}
	a.status = StatusCanceled
	return nil
}

// UpdateStatus es no-op si el estado pedido es el actual; en otro caso
// delega en Complete/Cancel. Cualquier otro valor es un error. Ojo: esto es
// deliberadamente asimétrico con Complete/Cancel, que sí fallan al
// re-aplicarse sobre el mismo estado terminal.
func (a *Appointment) UpdateStatus(status Status) error {
	if status == a.status {
		return nil
	}

	switch status {
	case StatusCompleted:
		return a.Complete()
	case StatusCanceled:
		return a.Cancel()
	default:
		return newValidationError("invalid status: %s", status)
	}
}

// ValidateDeletable rechaza el borrado de citas en estado terminal.
func (a *Appointment) ValidateDeletable() error {
	if a.status == StatusCompleted || a.status == StatusCanceled {
		return newValidationError("appointment with id %d cannot be deleted because it is %s", a.id, a.status)
	}
	return nil
}

// MarkNotificationSent registra el envío de la notificación. Una sola vez.
func (a *Appointment) MarkNotificationSent() error {
	if a.notification == NotificationSent {
		return newValidationError("notification for appointment with id %d has already been sent", a.id)
	}
	a.notification = NotificationSent
	return nil
}

func (a *Appointment) ID() int64 { return a.id }
func (a *Appointment) Title() string { return a.title }
func (a *Appointment) StartTime() time.Time { return a.startTime }
func (a *Appointment) EndTime() time.Time { return a.endTime }
func (a *Appointment) Description() string { return a.description }
func (a *Appointment) Status() Status { return a.status }
func (a *Appointment) NotificationStatus() NotificationStatus { return a.notification }

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return newValidationError("title cannot be empty")
	}
	return nil
}

func validateDates(startTime, endTime time.Time) error {
	if !startTime.Before(endTime) {
		return newValidationError("start time (%s) must be earlier than end time (%s)", startTime.Format(time.RFC3339), endTime.Format(time.RFC3339))
	}
	return nil
}
