package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
)

func TestIntegration_OrderFulfillment(t *testing.T) {
	store := openStoreForIntegrationTest(t)

	category, err := NewCategoryRepository(store).Create(domain.Category{Name: "Диваны"})
	require.NoError(t, err)

	products := NewProductRepository(store)
	product, err := products.Create(domain.Product{
		Name:       "Диван Лофт",
		CategoryID: category.ID,
		PriceMinor: 1000000,
		Stock:      5,
	})
	require.NoError(t, err)

	customer, err := NewCustomerRepository(store).Create(domain.Customer{
		FirstName: "Анна", LastName: "Смирнова", Email: "anna@example.com",
	})
	require.NoError(t, err)

	orders := NewOrderRepository(store)
	order, err := orders.Create(customer.ID, "Москва, Тверская 1")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.Equal(t, int64(0), order.TotalMinor)

	// Успешное добавление: фиксация цены, пересчёт суммы, списание остатка.
	item, err := orders.AddItem(order.ID, product.ID, 3)
	require.NoError(t, err)
	require.Equal(t, int64(1000000), item.UnitPriceMinor)
	require.Equal(t, int64(3000000), item.SubtotalMinor)

	updated, err := orders.Get(order.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3000000), updated.TotalMinor)

	left, err := products.Get(product.ID)
	require.NoError(t, err)
	require.Equal(t, int32(2), left.Stock)

	// Остатка не хватает: отказ без побочных эффектов.
	_, err = orders.AddItem(order.ID, product.ID, 3)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	unchangedOrder, err := orders.Get(order.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3000000), unchangedOrder.TotalMinor)

	unchangedProduct, err := products.Get(product.ID)
	require.NoError(t, err)
	require.Equal(t, int32(2), unchangedProduct.Stock)

	require.NoError(t, orders.UpdateStatus(order.ID, domain.OrderStatusDelivered))

	reports := NewReportRepository(store)

	sales, err := reports.SalesByCategory()
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.Equal(t, "Диваны", sales[0].Category)
	require.Equal(t, int64(3000000), sales[0].RevenueMinor)
	require.Equal(t, int64(3), sales[0].QuantitySold)

	details, err := reports.OrderDetails(order.ID)
	require.NoError(t, err)
	require.Len(t, details.Items, 1)
	require.Equal(t, "Диван Лофт", details.Items[0].ProductName)

	// Каждая мутация оставила событие в outbox той же транзакцией.
	outbox := NewOutboxRepository(store)
	pending, err := outbox.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	eventTypes := []string{pending[0].EventType, pending[1].EventType, pending[2].EventType}
	require.ElementsMatch(t, []string{
		domain.EventTypeOrderCreated,
		domain.EventTypeOrderItemAdded,
		domain.EventTypeOrderStatusChange,
	}, eventTypes)

	require.NoError(t, outbox.MarkSent(pending[0].ID))
	stats, err := outbox.Stats()
	require.NoError(t, err)
	require.Equal(t, 2, stats.PendingCount)
}

func TestIntegration_OrderNotFound(t *testing.T) {
	store := openStoreForIntegrationTest(t)

	orders := NewOrderRepository(store)
	_, err := orders.Get(404)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = orders.Create(404, "куда-то")
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestIntegration_DuplicateEmails(t *testing.T) {
	store := openStoreForIntegrationTest(t)

	customers := NewCustomerRepository(store)
	_, err := customers.Create(domain.Customer{FirstName: "Анна", LastName: "Смирнова", Email: "anna@example.com"})
	require.NoError(t, err)
	_, err = customers.Create(domain.Customer{FirstName: "Анна", LastName: "Другая", Email: "anna@example.com"})
	require.NoError(t, err)

	rows, err := NewReportRepository(store).DuplicateEmails()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "anna@example.com", rows[0].Email)
	require.Equal(t, 2, rows[0].Count)
}
