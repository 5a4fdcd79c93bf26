package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
)

// buildShowroom собирает состояние с двумя категориями, тремя товарами
// и двумя клиентами для отчётных сценариев.
type showroom struct {
	store    *Store
	sofas    domain.Category
	tables   domain.Category
	sofa     domain.Product
	armchair domain.Product
	table    domain.Product
	anna     domain.Customer
	boris    domain.Customer
}

func buildShowroom(t *testing.T) *showroom {
	t.Helper()

	store := NewStore()
	sr := &showroom{store: store}
	var err error

	sr.sofas, err = store.Categories().Create(domain.Category{Name: "Диваны"})
	require.NoError(t, err)
	sr.tables, err = store.Categories().Create(domain.Category{Name: "Столы"})
	require.NoError(t, err)

	sr.sofa, err = store.Products().Create(domain.Product{
		Name: "Диван", CategoryID: sr.sofas.ID, PriceMinor: 50000, Stock: 10,
	})
	require.NoError(t, err)
	sr.armchair, err = store.Products().Create(domain.Product{
		Name: "Кресло", CategoryID: sr.sofas.ID, PriceMinor: 20000, Stock: 10,
	})
	require.NoError(t, err)
	sr.table, err = store.Products().Create(domain.Product{
		Name: "Стол обеденный", CategoryID: sr.tables.ID, PriceMinor: 30000, Stock: 10,
	})
	require.NoError(t, err)

	sr.anna, err = store.Customers().Create(domain.Customer{
		FirstName: "Анна", LastName: "Петрова", Email: "anna@example.com",
	})
	require.NoError(t, err)
	sr.boris, err = store.Customers().Create(domain.Customer{
		FirstName: "Борис", LastName: "Сидоров", Email: "boris@example.com",
	})
	require.NoError(t, err)

	return sr
}

func (sr *showroom) placeOrder(t *testing.T, customer domain.Customer, lines map[int64]int32) domain.Order {
	t.Helper()

	order, err := sr.store.Orders().Create(customer.ID, "")
	require.NoError(t, err)
	for productID, qty := range lines {
		_, err := sr.store.Orders().AddItem(order.ID, productID, qty)
		require.NoError(t, err)
	}
	return order
}

func TestSalesByCategory(t *testing.T) {
	sr := buildShowroom(t)

	// Два заказа с диванами/креслами, один со столом.
	sr.placeOrder(t, sr.anna, map[int64]int32{sr.sofa.ID: 1, sr.armchair.ID: 2})
	sr.placeOrder(t, sr.boris, map[int64]int32{sr.armchair.ID: 1})
	sr.placeOrder(t, sr.boris, map[int64]int32{sr.table.ID: 1})

	rows, err := sr.store.Reports().SalesByCategory()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Диваны: 50000 + 2*20000 + 20000 = 110000; Столы: 30000.
	require.Equal(t, "Диваны", rows[0].Category)
	require.Equal(t, int64(110000), rows[0].RevenueMinor)
	require.Equal(t, 2, rows[0].OrderCount)
	require.Equal(t, int64(4), rows[0].QuantitySold)
	// Средняя цена по строкам позиций: (50000+20000+20000)/3.
	require.InDelta(t, 30000.0, rows[0].AvgUnitPriceMinor, 0.01)

	require.Equal(t, "Столы", rows[1].Category)
	require.Equal(t, int64(30000), rows[1].RevenueMinor)
}

func TestSalesByCategory_ExcludesCancelledOnly(t *testing.T) {
	sr := buildShowroom(t)

	cancelled := sr.placeOrder(t, sr.anna, map[int64]int32{sr.table.ID: 2})
	require.NoError(t, sr.store.Orders().UpdateStatus(cancelled.ID, domain.OrderStatusCancelled))
	sr.placeOrder(t, sr.boris, map[int64]int32{sr.sofa.ID: 1})

	rows, err := sr.store.Reports().SalesByCategory()
	require.NoError(t, err)
	require.Len(t, rows, 1, "category with only cancelled orders must not appear")
	require.Equal(t, "Диваны", rows[0].Category)
}

func TestTopClients(t *testing.T) {
	sr := buildShowroom(t)

	sr.placeOrder(t, sr.anna, map[int64]int32{sr.sofa.ID: 2})     // 100000
	sr.placeOrder(t, sr.boris, map[int64]int32{sr.armchair.ID: 1}) // 20000
	cancelled := sr.placeOrder(t, sr.boris, map[int64]int32{sr.sofa.ID: 1})
	require.NoError(t, sr.store.Orders().UpdateStatus(cancelled.ID, domain.OrderStatusCancelled))

	rows, err := sr.store.Reports().TopClients(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, sr.anna.ID, rows[0].Customer.ID)
	require.Equal(t, int64(100000), rows[0].SpentMinor)
	require.Equal(t, 1, rows[0].OrderCount)

	// Отменённый заказ не попал ни в сумму, ни в счётчик.
	require.Equal(t, sr.boris.ID, rows[1].Customer.ID)
	require.Equal(t, int64(20000), rows[1].SpentMinor)
	require.Equal(t, 1, rows[1].OrderCount)

	// Убывание по сумме.
	require.GreaterOrEqual(t, rows[0].SpentMinor, rows[1].SpentMinor)
}

func TestTopClients_LimitAndZeroTotals(t *testing.T) {
	sr := buildShowroom(t)

	sr.placeOrder(t, sr.anna, map[int64]int32{sr.armchair.ID: 1})

	// Клиент без заказов остаётся в рейтинге с нулями.
	rows, err := sr.store.Reports().TopClients(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, sr.boris.ID, rows[1].Customer.ID)
	require.Zero(t, rows[1].SpentMinor)
	require.Zero(t, rows[1].OrderCount)

	// limit усечение.
	rows, err = sr.store.Reports().TopClients(1)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = sr.store.Reports().TopClients(0)
	require.ErrorIs(t, err, domain.ErrLimitInvalid)
}

func TestOrderDetails_EmptyOrder(t *testing.T) {
	sr := buildShowroom(t)

	order, err := sr.store.Orders().Create(sr.anna.ID, "пр. Мира, 10")
	require.NoError(t, err)

	details, err := sr.store.Reports().OrderDetails(order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, details.Order.ID)
	require.NotNil(t, details.Items)
	require.Empty(t, details.Items)

	_, err = sr.store.Reports().OrderDetails(12345)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestProductsByCategory(t *testing.T) {
	sr := buildShowroom(t)

	// Обнуляем остаток кресла: оно должно выпасть из выборки.
	sr.placeOrder(t, sr.anna, map[int64]int32{sr.armchair.ID: 10})

	products, err := sr.store.Reports().ProductsByCategory(sr.sofas.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, sr.sofa.ID, products[0].ID)

	// Возрастание цены.
	cheap, err := sr.store.Products().Create(domain.Product{
		Name: "Пуф", CategoryID: sr.sofas.ID, PriceMinor: 5000, Stock: 3,
	})
	require.NoError(t, err)

	products, err = sr.store.Reports().ProductsByCategory(sr.sofas.ID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, cheap.ID, products[0].ID)
}

func TestDuplicateEmails(t *testing.T) {
	sr := buildShowroom(t)

	// Пока все email уникальны — отчёт пуст.
	rows, err := sr.store.Reports().DuplicateEmails()
	require.NoError(t, err)
	require.Empty(t, rows)

	for i := 0; i < 2; i++ {
		_, err := sr.store.Customers().Create(domain.Customer{
			FirstName: "Гость", LastName: "Дубль", Email: "anna@example.com",
		})
		require.NoError(t, err)
	}

	rows, err = sr.store.Reports().DuplicateEmails()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "anna@example.com", rows[0].Email)
	require.Equal(t, 3, rows[0].Count)
}
