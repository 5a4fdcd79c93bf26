package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config описывает настройки запуска приложения.
// Все значения приходят из окружения с префиксом FURNSTORE_.
type Config struct {
	// DatabaseDSN — строка подключения к PostgreSQL. Пустая строка
	// переключает приложение на in-memory хранилище (локальный режим).
	DatabaseDSN string
	// MetricsAddr — адрес HTTP-сервера /metrics и health-проб.
	// Пустая строка отключает сервер.
	MetricsAddr string
	// KafkaBrokers — список брокеров через запятую. Пустая строка
	// отключает публикацию событий: outbox просто накапливается.
	KafkaBrokers string
	// KafkaTopic — topic для событий заказов.
	KafkaTopic string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
}

// DefaultConfig возвращает настройки локального режима.
func DefaultConfig() Config {
	return Config{
		MetricsAddr:        ":9090",
		OutboxPollInterval: 1 * time.Second,
		OutboxBatchSize:    100,
	}
}

// ConfigFromEnv читает настройки из переменных окружения поверх значений
// по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("FURNSTORE_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("FURNSTORE_METRICS_ADDR"); ok {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("FURNSTORE_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("FURNSTORE_KAFKA_TOPIC"); v != "" {
		cfg.KafkaTopic = v
	}
	if v := os.Getenv("FURNSTORE_OUTBOX_POLL_INTERVAL"); v != "" {
		if interval, err := time.ParseDuration(v); err == nil && interval > 0 {
			cfg.OutboxPollInterval = interval
		}
	}
	if v := os.Getenv("FURNSTORE_OUTBOX_BATCH_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil && size > 0 {
			cfg.OutboxBatchSize = size
		}
	}

	return cfg
}

// BrokerList возвращает брокеры Kafka отдельными адресами.
func (c Config) BrokerList() []string {
	if c.KafkaBrokers == "" {
		return nil
	}

	parts := strings.Split(c.KafkaBrokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}
