package domain

import "time"

// Типы событий заказа, записываемых в transactional outbox.
const (
	EventTypeOrderCreated      = "order.created"
	EventTypeOrderItemAdded    = "order.item_added"
	EventTypeOrderStatusChange = "order.status_changed"

	// AggregateTypeOrder — тип агрегата для outbox-сообщений заказа.
	AggregateTypeOrder = "order"
)

// OrderEvent — полезная нагрузка события заказа.
type OrderEvent struct {
	EventType  string    `json:"event_type"`
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id,omitempty"`
	ProductID  int64     `json:"product_id,omitempty"`
	Quantity   int32     `json:"quantity,omitempty"`
	Status     string    `json:"status,omitempty"`
	TotalMinor int64     `json:"total_minor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
