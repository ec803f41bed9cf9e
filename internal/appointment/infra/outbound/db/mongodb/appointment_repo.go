package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/davicafu/agendalab/internal/appointment/domain"
)

// AppointmentRepoMongoDB implementa AppointmentRepository para MongoDB.
// Los ids secuenciales se generan con una colección de contadores.
type AppointmentRepoMongoDB struct {
	client       *mongo.Client
	appointments *mongo.Collection
	counters     *mongo.Collection
}

func NewAppointmentRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*AppointmentRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	db := client.Database(dbName)
	return &AppointmentRepoMongoDB{
		client:       client,
		appointments: db.Collection("appointments"),
		counters:     db.Collection("counters"),
	}, nil
}

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.

type mongoAppointment struct {
	ID          int64     `bson:"_id"`
	Title       string    `bson:"title"`
	StartTime   time.Time `bson:"startTime"`
	EndTime     time.Time `bson:"endTime"`
	Description string    `bson:"description"`
	Status      string    `bson:"status"`
}

func (m mongoAppointment) toDomain() *domain.Appointment {
	return domain.Hydrate(m.ID, m.Title, m.StartTime, m.EndTime, m.Description, domain.Status(m.Status))
}

func (r *AppointmentRepoMongoDB) List(ctx context.Context) ([]*domain.Appointment, error) {
	cursor, err := r.appointments.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoAppointment
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	list := make([]*domain.Appointment, 0, len(docs))
	for _, doc := range docs {
		list = append(list, doc.toDomain())
	}
	return list, nil
}

func (r *AppointmentRepoMongoDB) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var doc mongoAppointment
	err := r.appointments.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AppointmentRepoMongoDB) Add(ctx context.Context, a *domain.Appointment) (int64, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return 0, err
	}

	doc := mongoAppointment{
		ID:          id,
		Title:       a.Title(),
		StartTime:   a.StartTime(),
		EndTime:     a.EndTime(),
		Description: a.Description(),
		Status:      string(a.Status()),
	}
	if _, err := r.appointments.InsertOne(ctx, doc); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *AppointmentRepoMongoDB) Update(ctx context.Context, a *domain.Appointment) error {
	doc := mongoAppointment{
		ID:          a.ID(),
		Title:       a.Title(),
		StartTime:   a.StartTime(),
		EndTime:     a.EndTime(),
		Description: a.Description(),
		Status:      string(a.Status()),
	}

	res, err := r.appointments.ReplaceOne(ctx, bson.M{"_id": a.ID()}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepoMongoDB) Remove(ctx context.Context, a *domain.Appointment) error {
	res, err := r.appointments.DeleteOne(ctx, bson.M{"_id": a.ID()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

// nextID incrementa y devuelve el contador de la colección de appointments.
func (r *AppointmentRepoMongoDB) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "appointments"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// Verificación estática
var _ domain.AppointmentRepository = (*AppointmentRepoMongoDB)(nil)
