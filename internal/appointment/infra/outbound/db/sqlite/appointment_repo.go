package sqlite

import (
	"context"
	"database/sql"
	"time"

	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	"github.com/davicafu/agendalab/internal/appointment/domain"
)

type AppointmentRepoSQLite struct {
	db *sql.DB
}

func NewAppointmentRepoSQLite(db *sql.DB) *AppointmentRepoSQLite {
	return &AppointmentRepoSQLite{db: db}
}

// InitSQLite crea la tabla y, si está vacía, inserta citas de ejemplo.
func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS appointments (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			start_time  TIMESTAMP NOT NULL,
			end_time    TIMESTAMP NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL
		)`)
	if err != nil {
		return err
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM appointments`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// Datos semilla, mismo espíritu que la migración SeedAppointments original.
	now := time.Now().UTC().Truncate(time.Minute)
	seed := []struct {
		title, description string
		start, end         time.Time
	}{
		{"Kickoff meeting", "initial project kickoff", now.Add(24 * time.Hour), now.Add(25 * time.Hour)},
		{"Dentist", "routine checkup", now.Add(48 * time.Hour), now.Add(48*time.Hour + 30*time.Minute)},
	}
	for _, s := range seed {
		if _, err := db.Exec(
			`INSERT INTO appointments (title, start_time, end_time, description, status) VALUES (?,?,?,?,?)`,
			s.title, s.start, s.end, s.description, string(domain.StatusScheduled),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *AppointmentRepoSQLite) List(ctx context.Context) ([]*domain.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, start_time, end_time, description, status FROM appointments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AppointmentRepoSQLite) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, start_time, end_time, description, status FROM appointments WHERE id = ?`, id)

	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AppointmentRepoSQLite) Add(ctx context.Context, a *domain.Appointment) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (title, start_time, end_time, description, status) VALUES (?,?,?,?,?)`,
		a.Title(), a.StartTime(), a.EndTime(), a.Description(), string(a.Status()),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *AppointmentRepoSQLite) Update(ctx context.Context, a *domain.Appointment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET title=?, start_time=?, end_time=?, description=?, status=? WHERE id=?`,
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

func (r *AppointmentRepoSQLite) Remove(ctx context.Context, a *domain.Appointment) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id=?`, a.ID())
	if err != nil {
		return err
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment mapea una fila al agregado vía Hydrate (reconstrucción
// confiada, sin validaciones de negocio).
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		id          int64
		title, desc string
		start, end  time.Time
		status      string
	)
	if err := row.Scan(&id, &title, &start, &end, &desc, &status); err != nil {
		return nil, err
	}
	return domain.Hydrate(id, title, start, end, desc, domain.Status(status)), nil
}

// Verificación estática
var _ domain.AppointmentRepository = (*AppointmentRepoSQLite)(nil)
