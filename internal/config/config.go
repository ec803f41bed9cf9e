package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPPort string

	// Backend de persistencia: sqlite | postgres | mongodb
	Backend     string
	SQLitePath  string
	PostgresDSN string
	MongoURI    string
	MongoDB     string

	// Bus de eventos. El exchange se usa como prefijo de topic y la queue
	// como consumer group.
	UseKafka     bool
	KafkaBrokers []string
	ExchangeName string
	QueueName    string

	// Analítica (opcional)
	ClickHouseAddr string
	ClickHouseDB   string

	RedisAddr string
	CacheTTL  time.Duration
}

func LoadConfig() *Config {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")

	return &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Backend:        getEnv("DB_BACKEND", "sqlite"),
		SQLitePath:     getEnv("SQLITE_PATH", "./agendalab_appointments.db"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDB:        getEnv("MONGO_DB", "agendalab"),
		UseKafka:       getEnv("USE_KAFKA", "false") == "true",
		KafkaBrokers:   kafkaBrokers,
		ExchangeName:   getEnv("EVENT_EXCHANGE", "appointments"),
		QueueName:      getEnv("EVENT_QUEUE", "agendalab-appointments"),
		ClickHouseAddr: getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDB:   getEnv("CLICKHOUSE_DB", "agendalab"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:       5 * time.Minute,
	}
}
