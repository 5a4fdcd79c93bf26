package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
	"github.com/vladislavdragonenkov/furniture-store/internal/storage/memory"
	"github.com/vladislavdragonenkov/furniture-store/internal/storage/postgres"
)

// Dependencies содержит репозитории, за которыми стоит выбранное хранилище.
type Dependencies struct {
	Categories domain.CategoryRepository
	Products   domain.ProductRepository
	Customers  domain.CustomerRepository
	Orders     domain.OrderRepository
	Reports    domain.ReportRepository
	Outbox     domain.OutboxRepository

	// Store не nil только в режиме PostgreSQL.
	Store *postgres.Store
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() error {
	if d.Store != nil {
		return d.Store.Close()
	}
	return nil
}

// newPostgresDependencies подключается к PostgreSQL и применяет схему.
// Недоступная база — фатальная ошибка запуска.
func newPostgresDependencies(ctx context.Context, dsn string, logger *log.Entry) (*Dependencies, error) {
	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to store: %w", err)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Info("подключение к базе данных установлено")
	return &Dependencies{
		Categories: postgres.NewCategoryRepository(store),
		Products:   postgres.NewProductRepository(store),
		Customers:  postgres.NewCustomerRepository(store),
		Orders:     postgres.NewOrderRepository(store),
		Reports:    postgres.NewReportRepository(store),
		Outbox:     postgres.NewOutboxRepository(store),
		Store:      store,
	}, nil
}

// newMemoryDependencies собирает in-memory хранилище для локального режима.
func newMemoryDependencies(logger *log.Entry) *Dependencies {
	logger.Warn("FURNSTORE_DATABASE_DSN не задан, работаем с in-memory хранилищем")

	store := memory.NewStore()
	return &Dependencies{
		Categories: store.Categories(),
		Products:   store.Products(),
		Customers:  store.Customers(),
		Orders:     store.Orders(),
		Reports:    store.Reports(),
		Outbox:     store.Outbox(),
	}
}
