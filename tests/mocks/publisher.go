package mocks

import (
	"context"
	"sync"

	"github.com/davicafu/agendalab/internal/appointment/domain"
)

// PublishedEvent es un evento capturado por el CapturePublisher.
type PublishedEvent struct {
	RoutingKey string
	Event      interface{}
}

// CapturePublisher captura los eventos publicados por los casos de uso.
// Si FailWith no es nil, Publish devuelve ese error sin capturar nada.
type CapturePublisher struct {
	mu       sync.Mutex
	Events   []PublishedEvent
	FailWith error
}

// Verificación estática para asegurar que implementa la interfaz del dominio.
var _ domain.EventPublisher = (*CapturePublisher)(nil)

func (p *CapturePublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	if p.FailWith != nil {
		return p.FailWith
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{RoutingKey: routingKey, Event: event})
	return nil
}

// Published devuelve una copia de los eventos capturados hasta el momento.
func (p *CapturePublisher) Published() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.Events))
	copy(out, p.Events)
	return out
}
