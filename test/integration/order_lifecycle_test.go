package integration

import (
	"context"
	"sync"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
	"github.com/vladislavdragonenkov/furniture-store/internal/service/orders"
	"github.com/vladislavdragonenkov/furniture-store/internal/service/outbox"
	"github.com/vladislavdragonenkov/furniture-store/internal/service/reports"
	"github.com/vladislavdragonenkov/furniture-store/internal/storage/memory"
)

// OrderLifecycleTestSuite проверяет полный жизненный цикл заказа:
// от открытия до отчётов и публикации событий из outbox.
type OrderLifecycleTestSuite struct {
	suite.Suite

	store   *memory.Store
	orders  *orders.Service
	reports *reports.Service

	customer domain.Customer
	sofa     domain.Product
	table    domain.Product
}

func (s *OrderLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "lifecycle-test")

	s.store = memory.NewStore()
	s.orders = orders.NewServiceWithoutMetrics(s.store.Orders(), logger)
	s.reports = reports.NewServiceWithoutMetrics(s.store.Reports(), logger)

	sofas, err := s.store.Categories().Create(domain.Category{Name: "Диваны"})
	s.Require().NoError(err)
	tables, err := s.store.Categories().Create(domain.Category{Name: "Столы"})
	s.Require().NoError(err)

	s.sofa, err = s.store.Products().Create(domain.Product{
		Name: "Диван Лофт", CategoryID: sofas.ID, PriceMinor: 2500000, Stock: 5,
	})
	s.Require().NoError(err)
	s.table, err = s.store.Products().Create(domain.Product{
		Name: "Стол Дуб", CategoryID: tables.ID, PriceMinor: 1200000, Stock: 2,
	})
	s.Require().NoError(err)

	s.customer, err = s.store.Customers().Create(domain.Customer{
		FirstName: "Анна", LastName: "Смирнова", Email: "anna@example.com",
	})
	s.Require().NoError(err)
}

func (s *OrderLifecycleTestSuite) TestFullLifecycle() {
	order, err := s.orders.CreateOrder(s.customer.ID, "Москва, Тверская 1")
	s.Require().NoError(err)
	s.Require().Equal(domain.OrderStatusPending, order.Status)

	// Две позиции из разных категорий.
	_, err = s.orders.AddLineItem(order.ID, s.sofa.ID, 2)
	s.Require().NoError(err)
	_, err = s.orders.AddLineItem(order.ID, s.table.ID, 1)
	s.Require().NoError(err)

	updated, err := s.store.Orders().Get(order.ID)
	s.Require().NoError(err)
	s.Require().Equal(int64(6200000), updated.TotalMinor)

	s.Require().NoError(s.orders.UpdateStatus(order.ID, "processing"))
	s.Require().NoError(s.orders.UpdateStatus(order.ID, "shipped"))
	s.Require().NoError(s.orders.UpdateStatus(order.ID, "delivered"))

	// Отчёты видят доставленный заказ.
	sales, err := s.reports.SalesByCategory()
	s.Require().NoError(err)
	s.Require().Len(sales, 2)
	s.Require().Equal("Диваны", sales[0].Category)
	s.Require().Equal(int64(5000000), sales[0].RevenueMinor)

	top, err := s.reports.TopClients(5)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Require().Equal(int64(6200000), top[0].SpentMinor)

	details, err := s.reports.OrderDetails(order.ID)
	s.Require().NoError(err)
	s.Require().Len(details.Items, 2)
}

func (s *OrderLifecycleTestSuite) TestInsufficientStockLeavesNoTrace() {
	order, err := s.orders.CreateOrder(s.customer.ID, "Москва")
	s.Require().NoError(err)

	_, err = s.orders.AddLineItem(order.ID, s.table.ID, 3)
	s.Require().ErrorIs(err, domain.ErrInsufficientStock)

	unchanged, err := s.store.Orders().Get(order.ID)
	s.Require().NoError(err)
	s.Require().Equal(int64(0), unchanged.TotalMinor)

	product, err := s.store.Products().Get(s.table.ID)
	s.Require().NoError(err)
	s.Require().Equal(int32(2), product.Stock)

	details, err := s.reports.OrderDetails(order.ID)
	s.Require().NoError(err)
	s.Require().Empty(details.Items)
}

func (s *OrderLifecycleTestSuite) TestOutboxDrainedByWorker() {
	order, err := s.orders.CreateOrder(s.customer.ID, "Москва")
	s.Require().NoError(err)
	_, err = s.orders.AddLineItem(order.ID, s.sofa.ID, 1)
	s.Require().NoError(err)
	s.Require().NoError(s.orders.UpdateStatus(order.ID, "delivered"))

	stats, err := s.store.Outbox().Stats()
	s.Require().NoError(err)
	s.Require().Equal(3, stats.PendingCount)

	publisher := &recordingPublisher{}
	worker := outbox.NewWorker(
		s.store.Outbox(),
		publisher,
		outbox.WithRetryBaseDelay(0),
	)
	worker.ProcessOnce(context.Background())

	stats, err = s.store.Outbox().Stats()
	s.Require().NoError(err)
	s.Require().Equal(0, stats.PendingCount)

	types := publisher.eventTypes()
	s.Require().Equal([]string{
		domain.EventTypeOrderCreated,
		domain.EventTypeOrderItemAdded,
		domain.EventTypeOrderStatusChange,
	}, types)
}

func TestOrderLifecycleSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OutboxMessage
}

func (p *recordingPublisher) Publish(event domain.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.EventType)
	}
	return types
}
