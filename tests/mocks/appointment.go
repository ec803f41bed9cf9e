package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/davicafu/agendalab/internal/appointment/domain"
)

// storedAppointment es la fila que el repo fake guarda: una instantánea de
// los campos persistidos del agregado (la notificación no se persiste).
type storedAppointment struct {
	id          int64
	title       string
	startTime   time.Time
	endTime     time.Time
	description string
	status      domain.Status
}

// InMemoryAppointmentRepo simula AppointmentRepository con ids secuenciales.
type InMemoryAppointmentRepo struct {
	mu     sync.Mutex
	rows   map[int64]storedAppointment
	nextID int64
}

// Verificación estática para asegurar que implementa la interfaz del dominio.
var _ domain.AppointmentRepository = (*InMemoryAppointmentRepo)(nil)

func NewInMemoryAppointmentRepo() *InMemoryAppointmentRepo {
	return &InMemoryAppointmentRepo{
		rows:   make(map[int64]storedAppointment),
		nextID: 1,
	}
}

func (r *InMemoryAppointmentRepo) List(ctx context.Context) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Appointment, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, hydrate(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *InMemoryAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	return hydrate(row), nil
}

func (r *InMemoryAppointmentRepo) Add(ctx context.Context, a *domain.Appointment) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.rows[id] = snapshot(id, a)
	return id, nil
}

func (r *InMemoryAppointmentRepo) Update(ctx context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[a.ID()]; !ok {
		return domain.ErrAppointmentNotFound
	}
	r.rows[a.ID()] = snapshot(a.ID(), a)
	return nil
}

func (r *InMemoryAppointmentRepo) Remove(ctx context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[a.ID()]; !ok {
		return domain.ErrAppointmentNotFound
	}
	delete(r.rows, a.ID())
	return nil
}

func snapshot(id int64, a *domain.Appointment) storedAppointment {
	return storedAppointment{
		id:          id,
		title:       a.Title(),
		startTime:   a.StartTime(),
		endTime:     a.EndTime(),
		description: a.Description(),
		status:      a.Status(),
	}
}

func hydrate(row storedAppointment) *domain.Appointment {
	return domain.Hydrate(row.id, row.title, row.startTime, row.endTime, row.description, row.status)
}
