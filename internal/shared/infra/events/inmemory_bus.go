package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/davicafu/agendalab/internal/shared/platform/bus"
)

// InMemoryEventBus implementa el bus de eventos sobre memoria, indexando
// suscriptores por routing key. La entrega es síncrona dentro de Publish, lo
// que lo hace determinista para desarrollo local y tests.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]bus.Handler
	closed      bool
}

// Verifica en tiempo de compilación que cumple la interfaz
var _ bus.EventBus = (*InMemoryEventBus)(nil)

func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make(map[string][]bus.Handler),
	}
}

// Publish serializa el evento e invoca in situ a todos los suscriptores de
// la routing key. Igual que en el adapter de Kafka, el payload es JSON.
func (b *InMemoryEventBus) Publish(ctx context.Context, routingKey string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	handlers := b.subscribers[routingKey]
	closed := b.closed
	b.mu.RUnlock()

	if closed {
		return nil
	}

	for _, handler := range handlers {
		handler(ctx, payload)
	}
	return nil
}

// Subscribe añade un oyente para la routing key.
func (b *InMemoryEventBus) Subscribe(routingKey string, handler bus.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[routingKey] = append(b.subscribers[routingKey], handler)
	return nil
}

// Close descarta los suscriptores; las publicaciones posteriores se ignoran.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.subscribers = make(map[string][]bus.Handler)
	return nil
}
