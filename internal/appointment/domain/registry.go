package domain

import (
	sharedEvents "github.com/davicafu/agendalab/internal/shared/events"
)

// Identificadores de los tipos de evento de integración. Las routing keys se
// derivan de ellos, nunca se escriben a mano.
const (
	EventAppointmentCreated      = "AppointmentCreatedEvent"
	EventAppointmentChanged      = "AppointmentChangedEvent"
	EventAppointmentDeleted      = "AppointmentDeletedEvent"
	EventAppointmentNotification = "AppointmentNotificationEvent"
)

// NotificationType es el tag esperado dentro del evento de notificación; un
// tag distinto hace que el consumidor descarte el mensaje sin efecto.
const NotificationType = EventAppointmentNotification

// NewEventRegistry construye el mapa evento -> routing key. Se construye una
// vez en el arranque y se pasa por valor al dispatcher y a los casos de uso
// que lo necesitan; no hay estado ambiental.
func NewEventRegistry() map[string]string {
	return map[string]string{
		EventAppointmentCreated:      sharedEvents.RoutingKey(EventAppointmentCreated),
		EventAppointmentChanged:      sharedEvents.RoutingKey(EventAppointmentChanged),
		EventAppointmentDeleted:      sharedEvents.RoutingKey(EventAppointmentDeleted),
		EventAppointmentNotification: sharedEvents.RoutingKey(EventAppointmentNotification),
	}
}
