package main

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/davicafu/agendalab/internal/appointment/application"
	"github.com/davicafu/agendalab/internal/appointment/domain"
	appointmentEvents "github.com/davicafu/agendalab/internal/appointment/infra/inbound/events"
	appointmentHttp "github.com/davicafu/agendalab/internal/appointment/infra/inbound/http"
	"github.com/davicafu/agendalab/internal/appointment/infra/outbound/analytics/clickhouse"
	appointmentCache "github.com/davicafu/agendalab/internal/appointment/infra/outbound/cache"
	mongoRepo "github.com/davicafu/agendalab/internal/appointment/infra/outbound/db/mongodb"
	postgresRepo "github.com/davicafu/agendalab/internal/appointment/infra/outbound/db/postgre"
	sqliteRepo "github.com/davicafu/agendalab/internal/appointment/infra/outbound/db/sqlite"
	"github.com/davicafu/agendalab/internal/config"
	sharedEvents "github.com/davicafu/agendalab/internal/shared/events"
	"github.com/davicafu/agendalab/internal/shared/infra/dispatcher"
	infraEvents "github.com/davicafu/agendalab/internal/shared/infra/events"
	sharedBus "github.com/davicafu/agendalab/internal/shared/platform/bus"
	"github.com/davicafu/agendalab/pkg/logger"

	// _ "github.com/mattn/go-sqlite3" // requires gcc
	_ "modernc.org/sqlite"
)

// consumerScope es el contexto por mensaje del dispatcher: cada mensaje
// entrante recibe un scope fresco con su acceso a almacenamiento.
type consumerScope struct {
	appointments domain.AppointmentRepository
}

// ---------------- Main ----------------
func main() {
	logger.Init()
	log := logger.Logger()
	defer log.Sync()

	ctx := context.Background()
	cfg := config.LoadConfig()

	// ---------------- DB ----------------
	repo, closeDB := buildRepository(ctx, cfg, log)
	defer closeDB()

	// ---------------- Cache ----------------
	var cacheInstance domain.AppointmentCache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		cacheInstance = appointmentCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
	} else {
		cacheInstance = appointmentCache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info("✅ Redis conectado, cache habilitado")
	}

	// ---------------- Events ----------------
	eventRegistry := domain.NewEventRegistry()

	var eventBus sharedBus.EventBus
	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))
		kafkaBus, err := infraEvents.NewKafkaEventBus(ctx, cfg.KafkaBrokers, cfg.ExchangeName, cfg.QueueName, log)
		if err != nil {
			log.Fatal("failed to connect to Kafka", zap.Error(err))
		}
		eventBus = kafkaBus
	} else {
		log.Info("⚡️ Usando bus de eventos en memoria")
		eventBus = infraEvents.NewInMemoryEventBus()
	}

	// ---------------- Analytics (opcional) ----------------
	var eventLog *clickhouse.AppointmentLog
	if cfg.ClickHouseAddr != "" {
		var err error
		eventLog, err = clickhouse.NewAppointmentLog(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, analítica deshabilitada", zap.Error(err))
			eventLog = nil
		}
	}

	// ---------------- Dispatcher ----------------
	handlerRegistry := dispatcher.NewRegistry[consumerScope]()
	registerHandlers(handlerRegistry, eventRegistry, eventLog, log)

	newScope := func() consumerScope {
		return consumerScope{appointments: repo}
	}

	disp := dispatcher.New(eventBus, handlerRegistry, newScope, log)
	if err := disp.Start(ctx); err != nil {
		log.Fatal("failed to start event dispatcher", zap.Error(err))
	}
	defer disp.Stop()

	// --------------- Servicio --------------
	service := application.NewAppointmentService(repo, cacheInstance, eventBus, eventRegistry, log)

	// ---------------- HTTP ----------------
	handler := appointmentHttp.NewAppointmentHandler(service)
	router := gin.New()
	router.Use(appointmentHttp.RequestLogger(log), gin.Recovery())
	appointmentHttp.RegisterAppointmentRoutes(router, handler)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	log.Info("🚀 Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// registerHandlers construye el registro de despacho: una entrada por tipo de
// evento del mapa de enrutado, con sus handlers en orden de registro. El
// consumidor de notificaciones va antes que la analítica para que el estado
// del agregado se actualice primero.
func registerHandlers(
	reg *dispatcher.Registry[consumerScope],
	eventRegistry map[string]string,
	eventLog *clickhouse.AppointmentLog,
	log *zap.Logger,
) {
	notificationFactories := []dispatcher.HandlerFactory[consumerScope, sharedEvents.AppointmentNotificationEvent]{
		func(s consumerScope) dispatcher.HandlerFunc[sharedEvents.AppointmentNotificationEvent] {
			return appointmentEvents.NewNotificationConsumer(s.appointments, log).Handle
		},
	}

	var (
		createdFactories []dispatcher.HandlerFactory[consumerScope, sharedEvents.AppointmentCreatedEvent]
		changedFactories []dispatcher.HandlerFactory[consumerScope, sharedEvents.AppointmentChangedEvent]
		deletedFactories []dispatcher.HandlerFactory[consumerScope, sharedEvents.AppointmentDeletedEvent]
	)

	if eventLog != nil {
		createdFactories = append(createdFactories,
			func(consumerScope) dispatcher.HandlerFunc[sharedEvents.AppointmentCreatedEvent] { return eventLog.OnCreated })
		changedFactories = append(changedFactories,
			func(consumerScope) dispatcher.HandlerFunc[sharedEvents.AppointmentChangedEvent] { return eventLog.OnChanged })
		deletedFactories = append(deletedFactories,
			func(consumerScope) dispatcher.HandlerFunc[sharedEvents.AppointmentDeletedEvent] { return eventLog.OnDeleted })
		notificationFactories = append(notificationFactories,
			func(consumerScope) dispatcher.HandlerFunc[sharedEvents.AppointmentNotificationEvent] { return eventLog.OnNotification })
	}

	mustRegister(log, dispatcher.Register(reg, domain.EventAppointmentNotification, eventRegistry[domain.EventAppointmentNotification], notificationFactories...))
	mustRegister(log, dispatcher.Register(reg, domain.EventAppointmentCreated, eventRegistry[domain.EventAppointmentCreated], createdFactories...))
	mustRegister(log, dispatcher.Register(reg, domain.EventAppointmentChanged, eventRegistry[domain.EventAppointmentChanged], changedFactories...))
	mustRegister(log, dispatcher.Register(reg, domain.EventAppointmentDeleted, eventRegistry[domain.EventAppointmentDeleted], deletedFactories...))
}

func mustRegister(log *zap.Logger, err error) {
	if err != nil {
		log.Fatal("invalid event handler registration", zap.Error(err))
	}
}

// buildRepository abre el backend configurado y devuelve el repositorio y su
// función de cierre.
func buildRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (domain.AppointmentRepository, func()) {
	switch cfg.Backend {
	case "postgres":
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to open Postgres", zap.Error(err))
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("failed to ping Postgres", zap.Error(err))
		}
		if err := postgresRepo.InitPostgres(db); err != nil {
			log.Fatal("failed to initialize Postgres", zap.Error(err))
		}
		return postgresRepo.NewAppointmentRepoPostgres(db), func() { db.Close() }

	case "mongodb":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		repo, err := mongoRepo.NewAppointmentRepoMongoDB(ctx, client, cfg.MongoDB)
		if err != nil {
			log.Fatal("failed to initialize MongoDB repository", zap.Error(err))
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }

	default:
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			log.Fatal("failed to open SQLite", zap.Error(err))
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("failed to ping SQLite", zap.Error(err))
		}
		if err := sqliteRepo.InitSQLite(db); err != nil {
			log.Fatal("failed to initialize SQLite", zap.Error(err))
		}
		return sqliteRepo.NewAppointmentRepoSQLite(db), func() { db.Close() }
	}
}
