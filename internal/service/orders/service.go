package orders

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
	"github.com/vladislavdragonenkov/furniture-store/internal/metrics"
)

// Service реализует workflow исполнения заказа поверх OrderRepository:
// валидация входа, логирование и метрики вокруг транзакций хранилища.
type Service struct {
	repo    domain.OrderRepository
	logger  *log.Entry
	metrics *metrics.StoreMetrics
}

// NewService создаёт рабочий экземпляр workflow заказов.
func NewService(repo domain.OrderRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "orders")
	}
	return &Service{
		repo:    repo,
		logger:  logger,
		metrics: metrics.NewStoreMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт workflow без метрик (для тестов).
func NewServiceWithoutMetrics(repo domain.OrderRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "orders")
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateOrder открывает новый заказ со статусом pending и нулевой суммой.
func (s *Service) CreateOrder(customerID int64, shippingAddress string) (domain.Order, error) {
	if customerID <= 0 {
		return domain.Order{}, domain.ErrCustomerRequired
	}

	order, err := s.repo.Create(customerID, shippingAddress)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Warn("create order failed")
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": customerID,
	}).Info("заказ открыт")

	return order, nil
}

// AddLineItem добавляет позицию в заказ. Проверка остатка, фиксация
// цены, пересчёт суммы и списание остатка — одна транзакция хранилища;
// при любом отказе состояние не меняется.
func (s *Service) AddLineItem(orderID, productID int64, quantity int32) (domain.OrderItem, error) {
	start := time.Now()

	if quantity <= 0 {
		s.recordLineItem(metrics.ResultInvalid)
		return domain.OrderItem{}, domain.ErrQuantityInvalid
	}

	item, err := s.repo.AddItem(orderID, productID, quantity)
	if s.metrics != nil {
		s.metrics.RecordFulfillmentDuration(time.Since(start))
	}
	if err != nil {
		s.recordLineItem(lineItemResult(err))
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   orderID,
			"product_id": productID,
			"quantity":   quantity,
		}).Warn("add line item failed")
		return domain.OrderItem{}, err
	}

	s.recordLineItem(metrics.ResultOK)
	s.logger.WithFields(log.Fields{
		"order_id":   orderID,
		"product_id": productID,
		"quantity":   quantity,
		"subtotal":   item.SubtotalMinor,
	}).Info("позиция добавлена в заказ")

	return item, nil
}

// UpdateStatus переводит заказ в новый статус. Допустим любой статус
// из перечисления; граф переходов не ограничивается.
func (s *Service) UpdateStatus(orderID int64, rawStatus string) error {
	status, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(orderID, status); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"status":   rawStatus,
		}).Warn("update order status failed")
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordStatusChange(string(status))
	}
	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"status":   string(status),
	}).Info("статус заказа обновлён")

	return nil
}

// ListByCustomer возвращает заказы клиента, новые первыми.
func (s *Service) ListByCustomer(customerID int64, limit int) ([]domain.Order, error) {
	if customerID <= 0 {
		return nil, domain.ErrCustomerRequired
	}
	return s.repo.ListByCustomer(customerID, limit)
}

func (s *Service) recordLineItem(result string) {
	if s.metrics != nil {
		s.metrics.RecordLineItem(result)
	}
}

// lineItemResult сводит ошибку добавления позиции к лейблу метрики.
func lineItemResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.ResultInsufficientStock
	case domain.IsNotFound(err):
		return metrics.ResultNotFound
	case domain.IsValidation(err):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
