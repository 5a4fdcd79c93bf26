package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/furniture-store/internal/cli"
	healthcheck "github.com/vladislavdragonenkov/furniture-store/internal/health"
	"github.com/vladislavdragonenkov/furniture-store/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/furniture-store/internal/service/orders"
	"github.com/vladislavdragonenkov/furniture-store/internal/service/outbox"
	"github.com/vladislavdragonenkov/furniture-store/internal/service/reports"
	"github.com/vladislavdragonenkov/furniture-store/internal/version"
)

// Порог backlog outbox, после которого health уходит в degraded.
const outboxBacklogThreshold = 1000

// Run собирает зависимости и запускает консоль магазина.
// in и out — поток оператора: stdin/stdout в продакшене, буферы в тестах.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	logger := log.WithField("component", "app")

	deps, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := deps.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("failed to close store")
		}
	}()

	orderService := orders.NewService(deps.Orders, logger.WithField("component", "orders"))
	reportService := reports.NewService(deps.Reports, logger.WithField("component", "reports"))

	producer := initKafkaProducer(cfg, logger)
	if producer != nil {
		defer closeKafkaProducer(producer, logger)

		publisher := kafka.NewOutboxPublisher(producer, cfg.KafkaTopic)
		worker := outbox.NewWorker(
			deps.Outbox,
			publisher,
			outbox.WithLogger(logger.WithField("component", "outbox-worker")),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
		)
		go worker.Run(ctx)
	}

	if cfg.MetricsAddr != "" {
		healthHandler := healthcheck.NewHandler(version.GetVersion())
		if deps.Store != nil {
			healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
				return deps.Store.Ping(context.Background())
			}))
		}
		healthHandler.RegisterChecker("outbox", healthcheck.NewOutboxChecker("outbox", deps.Outbox, outboxBacklogThreshold))

		startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)
	}

	shell := cli.NewShell(in, out, cli.Deps{
		Orders:     orderService,
		Reports:    reportService,
		Products:   deps.Products,
		Customers:  deps.Customers,
		Categories: deps.Categories,
	})

	logger.WithField("version", version.String()).Info("магазин запущен")
	return shell.Run(ctx)
}

func buildDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if cfg.DatabaseDSN == "" {
		return newMemoryDependencies(logger), nil
	}
	return newPostgresDependencies(ctx, cfg.DatabaseDSN, logger)
}

// initKafkaProducer создаёт producer, если заданы брокеры. Ошибка
// подключения к Kafka не фатальна: магазин продолжает работать,
// события копятся в outbox.
func initKafkaProducer(cfg Config, logger *log.Entry) *kafka.Producer {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		return nil
	}

	producer, err := kafka.NewProducer(brokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer
}

func closeKafkaProducer(producer *kafka.Producer, logger *log.Entry) {
	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
		return
	}
	logger.Info("kafka producer closed")
}

// startMetricsServer поднимает HTTP-сервер с /metrics и health-пробами.
// Сервер живёт до отмены ctx.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics shutdown with error")
		}
	}()
}
