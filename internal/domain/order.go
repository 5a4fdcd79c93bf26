package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, обработка ещё не началась.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing — заказ собирается.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ получен клиентом.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён; вместо удаления строки.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderStatuses перечисляет допустимые значения статуса.
var orderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:    {},
	OrderStatusProcessing: {},
	OrderStatusShipped:    {},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ParseOrderStatus проверяет принадлежность значения к перечислению статусов.
// Граф переходов намеренно не ограничивается: любой статус может
// следовать за любым, как в исходной системе.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(raw)
	if _, ok := orderStatuses[status]; !ok {
		return "", ErrStatusInvalid
	}
	return status, nil
}

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	ID      int64
	OrderID int64
	// ProductID — ссылка на товар каталога.
	ProductID int64
	// ProductName денормализовано для отображения позиций.
	ProductName string
	Quantity    int32
	// UnitPriceMinor — цена на момент покупки; не перечитывается
	// при изменении каталожной цены.
	UnitPriceMinor int64
	// SubtotalMinor = Quantity * UnitPriceMinor.
	SubtotalMinor int64
}

// Order агрегирует заголовок заказа.
// Инвариант: TotalMinor равен сумме SubtotalMinor всех позиций,
// пересчитывается после каждого изменения состава.
type Order struct {
	ID              int64
	CustomerID      int64
	Status          OrderStatus
	TotalMinor      int64
	ShippingAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ItemsTotalMinor суммирует subtotal позиций.
func ItemsTotalMinor(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.SubtotalMinor
	}
	return total
}
