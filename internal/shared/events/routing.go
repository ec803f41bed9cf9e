package events

import (
	"strings"
	"unicode"
)

const eventSuffix = ".event"

// RoutingKey deriva la clave de enrutado a partir del nombre del tipo de
// evento: separa en los límites de mayúsculas, pasa a minúsculas y une con
// puntos, eliminando el segmento final ".event".
//
// Ejemplo: "AppointmentCreatedEvent" -> "appointment.created".
func RoutingKey(typeName string) string {
	var b strings.Builder
	for i, r := range typeName {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('.')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.TrimSuffix(b.String(), eventSuffix)
}
