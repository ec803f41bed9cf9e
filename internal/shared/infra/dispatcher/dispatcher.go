// Package dispatcher convierte un mapa estático evento -> routing key en
// suscripciones vivas sobre el bus y reparte cada mensaje entrante entre los
// handlers registrados para su tipo.
//
// El despacho es genérico y sin reflexión: en el arranque se construye un
// registro de closures, una por tipo de evento, que ya saben decodificar y
// repartir ese tipo concreto.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/davicafu/agendalab/internal/shared/platform/bus"
)

// HandlerFunc procesa un evento ya decodificado.
type HandlerFunc[E any] func(ctx context.Context, event E) error

// HandlerFactory resuelve un handler dentro de un scope fresco por mensaje.
type HandlerFactory[S, E any] func(scope S) HandlerFunc[E]

type entry[S any] struct {
	routingKey string
	dispatch   func(ctx context.Context, scope S, payload []byte, log *zap.Logger)
}

// Registry acumula, por nombre de evento, la closure de decodificación y
// despacho. Se construye una vez en el arranque y después es de solo lectura.
type Registry[S any] struct {
	entries map[string]entry[S]
	order   []string
}

func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{entries: make(map[string]entry[S])}
}

// Register asocia un tipo de evento con su routing key y con los handlers
// que deben recibirlo, en el orden de registro. Todos los handlers de un tipo
// se registran en una sola llamada; registrar dos veces el mismo nombre es un
// error de configuración.
func Register[S, E any](r *Registry[S], eventName, routingKey string, factories ...HandlerFactory[S, E]) error {
	if _, exists := r.entries[eventName]; exists {
		return fmt.Errorf("dispatcher: event %q already registered", eventName)
	}

	dispatch := func(ctx context.Context, scope S, payload []byte, log *zap.Logger) {
		var evt E
		if err := json.Unmarshal(payload, &evt); err != nil {
			log.Warn("mensaje descartado: payload no decodificable",
				zap.String("event", eventName),
				zap.Error(err),
			)
			return
		}

		// Un handler que falla se registra en el log y no aborta a los
		// siguientes: el mensaje se considera consumido igualmente.
		for i, factory := range factories {
			handler := factory(scope)
			if err := handler(ctx, evt); err != nil {
				log.Warn("handler de evento falló",
					zap.String("event", eventName),
					zap.Int("handler", i),
					zap.Error(err),
				)
			}
		}
	}

	r.entries[eventName] = entry[S]{routingKey: routingKey, dispatch: dispatch}
	r.order = append(r.order, eventName)
	return nil
}

// Dispatcher abre una suscripción por entrada del registro y, por cada
// mensaje, construye un scope aislado, reparte secuencialmente y libera el
// scope al terminar.
type Dispatcher[S any] struct {
	bus      bus.EventBus
	registry *Registry[S]
	newScope func() S
	log      *zap.Logger
}

func New[S any](eventBus bus.EventBus, registry *Registry[S], newScope func() S, log *zap.Logger) *Dispatcher[S] {
	return &Dispatcher[S]{
		bus:      eventBus,
		registry: registry,
		newScope: newScope,
		log:      log,
	}
}

// Start abre las suscripciones. Corre durante toda la vida del proceso.
func (d *Dispatcher[S]) Start(ctx context.Context) error {
	for _, name := range d.registry.order {
		e := d.registry.entries[name]
		eventName := name

		err := d.bus.Subscribe(e.routingKey, func(ctx context.Context, payload []byte) {
			scope := d.newScope()
			defer d.disposeScope(scope)
			e.dispatch(ctx, scope, payload, d.log)
		})
		if err != nil {
			return fmt.Errorf("subscribing %s: %w", eventName, err)
		}

		d.log.Info("🎧 Suscripción abierta",
			zap.String("event", eventName),
			zap.String("routing_key", e.routingKey),
		)
	}
	return nil
}

// Stop cierra el bus. Best-effort: no espera a los handlers en vuelo.
func (d *Dispatcher[S]) Stop() {
	if err := d.bus.Close(); err != nil {
		d.log.Warn("error al cerrar el bus de eventos", zap.Error(err))
	}
}

func (d *Dispatcher[S]) disposeScope(scope S) {
	if closer, ok := any(scope).(io.Closer); ok {
		if err := closer.Close(); err != nil {
			d.log.Warn("error al liberar el scope", zap.Error(err))
		}
	}
}
