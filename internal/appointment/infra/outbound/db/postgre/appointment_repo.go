package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/davicafu/agendalab/internal/appointment/domain"
)

type AppointmentRepoPostgres struct {
	db *sql.DB
}

func NewAppointmentRepoPostgres(db *sql.DB) *AppointmentRepoPostgres {
	return &AppointmentRepoPostgres{db: db}
}

// InitPostgres crea la tabla si no existe.
func InitPostgres(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS appointments (
			id          BIGSERIAL PRIMARY KEY,
			title       TEXT NOT NULL,
			start_time  TIMESTAMPTZ NOT NULL,
			end_time    TIMESTAMPTZ NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL
		)`)
	return err
}

func (r *AppointmentRepoPostgres) List(ctx context.Context) ([]*domain.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, start_time, end_time, description, status FROM appointments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Appointment
	for rows.Next() {
		var (
			id          int64
			title, desc string
			start, end  time.Time
			status      string
		)
		if err := rows.Scan(&id, &title, &start, &end, &desc, &status); err != nil {
			return nil, err
		}
		list = append(list, domain.Hydrate(id, title, start, end, desc, domain.Status(status)))
	}
	return list, rows.Err()
}

func (r *AppointmentRepoPostgres) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var (
		title, desc string
		start, end  time.Time
		status      string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT title, start_time, end_time, description, status FROM appointments WHERE id = $1`, id,
	).Scan(&title, &start, &end, &desc, &status)
	if err == sql.ErrNoRows {
		return nil, domain.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return domain.Hydrate(id, title, start, end, desc, domain.Status(status)), nil
}

// Add inserta la cita y devuelve el id que asigna la secuencia.
func (r *AppointmentRepoPostgres) Add(ctx context.Context, a *domain.Appointment) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO appointments (title, start_time, end_time, description, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		a.Title(), a.StartTime(), a.EndTime(), a.Description(), string(a.Status()),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *AppointmentRepoPostgres) Update(ctx context.Context, a *domain.Appointment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET title=$1, start_time=$2, end_time=$3, description=$4, status=$5 WHERE id=$6`,
		a.Title(), a.StartTime(), a.EndTime(), a.Description(), string(a.Status()), a.ID(),
	)
	if err != nil {
		return err
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepoPostgres) Remove(ctx context.Context, a *domain.Appointment) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id=$1`, a.ID())
	if err != nil {
		return err
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

// Verificación estática
var _ domain.AppointmentRepository = (*AppointmentRepoPostgres)(nil)
