package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	sharedEvents "github.com/davicafu/agendalab/internal/shared/events"
)

// AppointmentLog registra en ClickHouse cada evento de cita que pasa por el
// dispatcher, para consultas analíticas. Se registra como handler adicional
// de cada tipo de evento; sus fallos se quedan en el log del dispatcher y no
// afectan al resto de handlers.
type AppointmentLog struct {
	db *sql.DB
}

func NewAppointmentLog(addr string, dbName string) (*AppointmentLog, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &AppointmentLog{db: conn}, nil
}

func (l *AppointmentLog) record(ctx context.Context, eventName string, appointmentID int64, title, status string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO appointment_events (event_name, appointment_id, title, status, event_time) VALUES (?,?,?,?,?)`,
		eventName, appointmentID, title, status, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to log %s for appointment %d: %w", eventName, appointmentID, err)
	}
	return nil
}

// --- Handlers tipados, uno por evento del registro ---

func (l *AppointmentLog) OnCreated(ctx context.Context, evt sharedEvents.AppointmentCreatedEvent) error {
	return l.record(ctx, "AppointmentCreatedEvent", evt.AppointmentID, evt.Title, evt.Status)
}

func (l *AppointmentLog) OnChanged(ctx context.Context, evt sharedEvents.AppointmentChangedEvent) error {
	return l.record(ctx, "AppointmentChangedEvent", evt.AppointmentID, evt.Title, evt.Status)
}

func (l *AppointmentLog) OnDeleted(ctx context.Context, evt sharedEvents.AppointmentDeletedEvent) error {
	return l.record(ctx, "AppointmentDeletedEvent", evt.AppointmentID, evt.Title, evt.Status)
}

func (l *AppointmentLog) OnNotification(ctx context.Context, evt sharedEvents.AppointmentNotificationEvent) error {
	return l.record(ctx, "AppointmentNotificationEvent", evt.AppointmentID, evt.Title, evt.Status)
}
