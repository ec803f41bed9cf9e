package domain

import (
	"context"
	"errors"
	"fmt"
)

// ---------- Errores de dominio ----------

var ErrAppointmentNotFound = errors.New("appointment not found")

// ValidationError es el único tipo de error que produce el agregado: cada
// invariante violada lleva un mensaje legible.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError indica si err (o su cadena) es una violación de invariante.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ---------- Interfaces (Ports) ----------

// AppointmentRepository define las operaciones persistentes para Appointment.
// El repositorio es el sistema de registro entre operaciones; el caso de uso
// posee el agregado en exclusiva durante una operación.
type AppointmentRepository interface {
	// List devuelve todas las citas.
	List(ctx context.Context) ([]*Appointment, error)

	// GetByID debe devolver ErrAppointmentNotFound si no existe.
	GetByID(ctx context.Context, id int64) (*Appointment, error)

	// Add persiste una cita nueva y devuelve el id asignado por el almacén.
	Add(ctx context.Context, a *Appointment) (int64, error)

	// Update debe devolver ErrAppointmentNotFound si la cita no existe.
	Update(ctx context.Context, a *Appointment) error

	// Remove debe devolver ErrAppointmentNotFound si la cita no existe.
	Remove(ctx context.Context, a *Appointment) error
}

// EventPublisher es el port de salida hacia el bus de eventos. La publicación
// no es atómica con la escritura previa en el repositorio: un fallo entre
// ambas deja almacenamiento y consumidores inconsistentes.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// AppointmentCache es el port de caché de lectura.
type AppointmentCache interface {
	// Get intenta poblar dest (puntero) con el valor asociado a la key.
	// Devuelve (true, nil) si hay hit y dest fue rellenado.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set serializa y guarda el valor con TTL en segundos.
	Set(ctx context.Context, key string, val interface{}, ttlSecs int) error

	// Delete elimina la key del cache.
	Delete(ctx context.Context, key string) error
}

// CacheKeyByID forma una key consistente para cache usando el id.
func CacheKeyByID(id int64) string {
	return fmt.Sprintf("appointment:id:%d", id)
}
