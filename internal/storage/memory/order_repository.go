package memory

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
)

// orderView — in-memory реализация OrderRepository. Семантика повторяет
// PostgreSQL-версию: проверка остатка, фиксация цены, пересчёт суммы и
// списание остатка выполняются под одним мьютексом как единое целое.
type orderView struct {
	store *Store
}

func (v *orderView) Create(customerID int64, shippingAddress string) (domain.Order, error) {
	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customerID]; !ok {
		return domain.Order{}, domain.ErrCustomerNotFound
	}

	now := time.Now().UTC()
	s.orderSeq++
	order := domain.Order{
		ID:              s.orderSeq,
		CustomerID:      customerID,
		Status:          domain.OrderStatusPending,
		ShippingAddress: shippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.orders[order.ID] = order

	s.enqueueEventLocked(order.ID, domain.OrderEvent{
		EventType:  domain.EventTypeOrderCreated,
		OrderID:    order.ID,
		CustomerID: customerID,
		Status:     string(order.Status),
		OccurredAt: now,
	})

	return order, nil
}

func (v *orderView) Get(id int64) (domain.Order, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

func (v *orderView) AddItem(orderID, productID int64, quantity int32) (domain.OrderItem, error) {
	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return domain.OrderItem{}, domain.ErrQuantityInvalid
	}

	// Порядок проверок тот же, что у SQL-транзакции: товар, остаток, заказ.
	product, ok := s.products[productID]
	if !ok {
		return domain.OrderItem{}, domain.ErrProductNotFound
	}
	if product.Stock < quantity {
		return domain.OrderItem{}, domain.ErrInsufficientStock
	}
	order, ok := s.orders[orderID]
	if !ok {
		return domain.OrderItem{}, domain.ErrOrderNotFound
	}

	s.itemSeq++
	item := domain.OrderItem{
		ID:             s.itemSeq,
		OrderID:        orderID,
		ProductID:      productID,
		ProductName:    product.Name,
		Quantity:       quantity,
		UnitPriceMinor: product.PriceMinor,
		SubtotalMinor:  int64(quantity) * product.PriceMinor,
	}
	s.items[orderID] = append(s.items[orderID], item)

	// Пересчёт от суммы позиций, не инкремент.
	now := time.Now().UTC()
	order.TotalMinor = domain.ItemsTotalMinor(s.items[orderID])
	order.UpdatedAt = now
	s.orders[orderID] = order

	product.Stock -= quantity
	s.products[productID] = product

	s.enqueueEventLocked(orderID, domain.OrderEvent{
		EventType:  domain.EventTypeOrderItemAdded,
		OrderID:    orderID,
		CustomerID: order.CustomerID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalMinor: order.TotalMinor,
		OccurredAt: now,
	})

	return item, nil
}

func (v *orderView) UpdateStatus(orderID int64, status domain.OrderStatus) error {
	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := domain.ParseOrderStatus(string(status)); err != nil {
		return err
	}

	order, ok := s.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}

	now := time.Now().UTC()
	order.Status = status
	order.UpdatedAt = now
	s.orders[orderID] = order

	s.enqueueEventLocked(orderID, domain.OrderEvent{
		EventType:  domain.EventTypeOrderStatusChange,
		OrderID:    orderID,
		Status:     string(status),
		OccurredAt: now,
	})

	return nil
}

func (v *orderView) ListByCustomer(customerID int64, limit int) ([]domain.Order, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range s.orders {
		if order.CustomerID != customerID {
			continue
		}
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// enqueueEventLocked пишет событие в outbox; вызывается только под мьютексом.
func (s *Store) enqueueEventLocked(orderID int64, event domain.OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		// OrderEvent сериализуется всегда; ветка оставлена для полноты.
		payload = []byte("{}")
	}

	now := time.Now().UTC()
	s.outboxSeq++
	msg := domain.OutboxMessage{
		ID:            uuid.NewString(),
		AggregateType: domain.AggregateTypeOrder,
		AggregateID:   fmt.Sprintf("%d", orderID),
		EventType:     event.EventType,
		Payload:       payload,
	}
	s.outbox[msg.ID] = &outboxRecord{
		msg:       msg,
		status:    "pending",
		createdAt: now,
		updatedAt: now,
		seq:       s.outboxSeq,
	}
}

var _ domain.OrderRepository = (*orderView)(nil)
