package bus

import (
	"context"
	"errors"
)

// Errores de infraestructura al construir el bus. Se distinguen para que el
// llamador pueda separar una caída del broker de una mala configuración.
var (
	ErrBrokerUnreachable = errors.New("event bus: broker unreachable")
	ErrHostUnresolvable  = errors.New("event bus: host unresolvable")
)

// Keyer permite a un evento aportar su clave de partición.
type Keyer interface {
	PartitionKey() string
}

// Handler procesa el payload crudo de un mensaje entrante. Si el payload no
// se puede decodificar o el handler falla, el mensaje se considera consumido
// igualmente (at-most-once sobre un broker at-least-once).
type Handler func(ctx context.Context, payload []byte)

// EventBus publica eventos bajo una routing key y registra suscripciones.
// La semántica del formato del payload la deciden los adapters (JSON aquí).
type EventBus interface {
	// Publish serializa y encola el evento. Fire-and-forget: no hay vínculo
	// transaccional con escrituras previas en almacenamiento.
	Publish(ctx context.Context, routingKey string, event interface{}) error

	// Subscribe abre una suscripción sobre la routing key y entrega cada
	// mensaje entrante al handler.
	Subscribe(routingKey string, handler Handler) error

	// Close cierra la conexión con el broker. Best-effort: no espera a los
	// handlers en vuelo.
	Close() error
}
