package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/davicafu/agendalab/internal/shared/platform/bus"
)

// KafkaEventBus implementa bus.EventBus sobre Kafka. Cada routing key se
// mapea a un topic propio (prefijado con el nombre del exchange) y cada
// suscripción abre un reader con su goroutine de consumo. El bus es el único
// dueño de la conexión: ningún otro componente la toca directamente.
type KafkaEventBus struct {
	brokers  []string
	exchange string
	group    string
	writer   *kafka.Writer
	log      *zap.Logger

	mu      sync.Mutex
	readers []*kafka.Reader
	cancel  context.CancelFunc
	ctx     context.Context
	closed  bool
}

// NewKafkaEventBus valida que el broker sea alcanzable antes de construir el
// bus. Un fallo de resolución DNS se reporta como ErrHostUnresolvable y
// cualquier otro fallo de conexión como ErrBrokerUnreachable, para que el
// llamador distinga caída de infraestructura de mala configuración.
func NewKafkaEventBus(ctx context.Context, brokers []string, exchange, group string, log *zap.Logger) (*KafkaEventBus, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("%w: no brokers configured", bus.ErrHostUnresolvable)
	}

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			return nil, fmt.Errorf("%w: %s: %v", bus.ErrHostUnresolvable, brokers[0], err)
		}
		return nil, fmt.Errorf("%w: %s: %v", bus.ErrBrokerUnreachable, brokers[0], err)
	}
	_ = conn.Close()

	busCtx, cancel := context.WithCancel(context.Background())

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	return &KafkaEventBus{
		brokers:  brokers,
		exchange: exchange,
		group:    group,
		writer:   writer,
		log:      log,
		ctx:      busCtx,
		cancel:   cancel,
	}, nil
}

// Publish serializa el evento a JSON y lo encola en el topic derivado de la
// routing key. Fire-and-forget: no hay reintentos ni compensación.
func (b *KafkaEventBus) Publish(ctx context.Context, routingKey string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var key []byte
	if keyer, ok := event.(bus.Keyer); ok {
		key = []byte(keyer.PartitionKey())
	}

	msg := kafka.Message{
		Topic: b.topic(routingKey),
		Key:   key,
		Value: data,
		Headers: []kafka.Header{
			{Key: "message_id", Value: []byte(uuid.NewString())},
		},
	}

	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		b.log.Error("error al publicar en Kafka",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return err
	}

	b.log.Debug("evento publicado", zap.String("routing_key", routingKey))
	return nil
}

// Subscribe abre un reader sobre el topic de la routing key y arranca el
// bucle de consumo en una goroutine. El broker serializa la entrega por
// cola; suscripciones distintas corren concurrentes entre sí.
func (b *KafkaEventBus) Subscribe(routingKey string, handler bus.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("%w: bus closed", bus.ErrBrokerUnreachable)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  b.brokers,
		GroupID:  b.group,
		Topic:    b.topic(routingKey),
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	b.readers = append(b.readers, reader)

	go b.consumeLoop(reader, routingKey, handler)
	return nil
}

// Close cancela los bucles de consumo y cierra readers y writer. No espera a
// los handlers en vuelo.
func (b *KafkaEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.cancel()

	var firstErr error
	for _, r := range b.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := b.writer.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (b *KafkaEventBus) consumeLoop(reader *kafka.Reader, routingKey string, handler bus.Handler) {
	for {
		// ReadMessage es bloqueante y confirma el offset al devolver, así
		// que un handler que falle no provoca re-entrega (at-most-once).
		msg, err := reader.ReadMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil || errors.Is(err, context.Canceled) {
				b.log.Info("consumidor detenido", zap.String("routing_key", routingKey))
				return
			}
			b.log.Error("error al leer mensaje de Kafka",
				zap.String("routing_key", routingKey),
				zap.Error(err),
			)
			continue
		}

		handler(b.ctx, msg.Value)
	}
}

func (b *KafkaEventBus) topic(routingKey string) string {
	if b.exchange == "" {
		return routingKey
	}
	return b.exchange + "." + routingKey
}

// Verificación estática
var _ bus.EventBus = (*KafkaEventBus)(nil)
