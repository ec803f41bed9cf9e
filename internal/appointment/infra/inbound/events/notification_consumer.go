package events

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/davicafu/agendalab/internal/appointment/domain"
	sharedEvents "github.com/davicafu/agendalab/internal/shared/events"
)

// NotificationConsumer aplica eventos de notificación entrantes sobre el
// agregado. Se registra en el dispatcher para AppointmentNotificationEvent.
type NotificationConsumer struct {
	repo domain.AppointmentRepository
	log  *zap.Logger
}

func NewNotificationConsumer(repo domain.AppointmentRepository, log *zap.Logger) *NotificationConsumer {
	return &NotificationConsumer{repo: repo, log: log}
}

// Handle descarta en silencio los eventos cuyo tag no coincide y los que
// apuntan a citas inexistentes (sin dead-letter ni reintento). En el caso
// bueno sobreescribe los campos mutables desde el payload y marca la
// notificación como enviada; un error de validación aborta el tratamiento y
// sube a la ruta de fallo por handler del dispatcher.
func (c *NotificationConsumer) Handle(ctx context.Context, evt sharedEvents.AppointmentNotificationEvent) error {
	if evt.Type != domain.NotificationType {
		return nil
	}

	a, err := c.repo.GetByID(ctx, evt.AppointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			c.log.Warn("notificación para cita inexistente, se descarta",
				zap.Int64("appointment_id", evt.AppointmentID),
				zap.String("notification_id", evt.NotificationID),
			)
			return nil
		}
		return err
	}

	if err := a.Update(evt.Title, evt.StartTime, evt.EndTime, evt.Description, domain.Status(evt.Status)); err != nil {
		return err
	}
	if err := a.MarkNotificationSent(); err != nil {
		return err
	}

	if err := c.repo.Update(ctx, a); err != nil {
		return err
	}

	c.log.Info("notificación procesada",
		zap.Int64("appointment_id", evt.AppointmentID),
		zap.String("notification_id", evt.NotificationID),
	)
	return nil
}
