package events

import (
	"strconv"
	"time"
)

// Estos son contratos de integración, NO entidades del dominio.
// Se definen planos para intercambio entre servicios; cada tipo viaja por su
// propia routing key, así que no hace falta sobre adicional.

type AppointmentCreatedEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	Title         string    `json:"title"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
}

type AppointmentChangedEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	Title         string    `json:"title"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
}

type AppointmentDeletedEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	Title         string    `json:"title"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
}

// AppointmentNotificationEvent llega desde el exterior; el campo Type actúa
// como discriminador ad-hoc dentro de un único esquema de wire.
type AppointmentNotificationEvent struct {
	NotificationID string    `json:"notification_id"`
	AppointmentID  int64     `json:"appointment_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	SentAt         time.Time `json:"sent_at"`
}

func (e AppointmentCreatedEvent) PartitionKey() string {
	return strconv.FormatInt(e.AppointmentID, 10)
}

func (e AppointmentChangedEvent) PartitionKey() string {
	return strconv.FormatInt(e.AppointmentID, 10)
}

func (e AppointmentDeletedEvent) PartitionKey() string {
	return strconv.FormatInt(e.AppointmentID, 10)
}

func (e AppointmentNotificationEvent) PartitionKey() string {
	return strconv.FormatInt(e.AppointmentID, 10)
}
