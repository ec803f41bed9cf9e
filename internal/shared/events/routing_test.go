package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRoutingKey valida la derivación de claves de enrutado desde nombres de tipo.
func TestRoutingKey(t *testing.T) {
	cases := []struct {
		typeName string
		expected string
	}{
		{"AppointmentCreatedEvent", "appointment.created"},
		{"AppointmentChangedEvent", "appointment.changed"},
		{"AppointmentDeletedEvent", "appointment.deleted"},
		{"AppointmentNotificationEvent", "appointment.notification"},
		// El sufijo solo se recorta como segmento final ".event".
		{"UserEvent", "user"},
		{"Event", "event"},
		// Sin sufijo que recortar.
		{"OrderShippedNotice", "order.shipped.notice"},
		// Ya en minúsculas: no hay límites que separar.
		{"appointment", "appointment"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, RoutingKey(tc.typeName), "clave inesperada para %q", tc.typeName)
	}
}
