package reports

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
	"github.com/vladislavdragonenkov/furniture-store/internal/storage/memory"
)

// newShowroom собирает магазин с двумя категориями и двумя клиентами,
// один заказ оплачен, один отменён.
func newShowroom(t *testing.T) (*memory.Store, *Service) {
	t.Helper()

	store := memory.NewStore()

	sofas, err := store.Categories().Create(domain.Category{Name: "Диваны"})
	require.NoError(t, err)
	tables, err := store.Categories().Create(domain.Category{Name: "Столы"})
	require.NoError(t, err)

	sofa, err := store.Products().Create(domain.Product{
		Name: "Диван Лофт", CategoryID: sofas.ID, PriceMinor: 2500000, Stock: 10,
	})
	require.NoError(t, err)
	table, err := store.Products().Create(domain.Product{
		Name: "Стол Дуб", CategoryID: tables.ID, PriceMinor: 1200000, Stock: 3,
	})
	require.NoError(t, err)

	anna, err := store.Customers().Create(domain.Customer{
		FirstName: "Анна", LastName: "Смирнова", Email: "anna@example.com",
	})
	require.NoError(t, err)
	boris, err := store.Customers().Create(domain.Customer{
		FirstName: "Борис", LastName: "Ковалёв", Email: "boris@example.com",
	})
	require.NoError(t, err)

	orders := store.Orders()

	paid, err := orders.Create(anna.ID, "Москва")
	require.NoError(t, err)
	_, err = orders.AddItem(paid.ID, sofa.ID, 2)
	require.NoError(t, err)
	require.NoError(t, orders.UpdateStatus(paid.ID, domain.OrderStatusDelivered))

	cancelled, err := orders.Create(boris.ID, "Казань")
	require.NoError(t, err)
	_, err = orders.AddItem(cancelled.ID, table.ID, 1)
	require.NoError(t, err)
	require.NoError(t, orders.UpdateStatus(cancelled.ID, domain.OrderStatusCancelled))

	return store, NewServiceWithoutMetrics(store.Reports(), nil)
}

func TestSalesByCategory(t *testing.T) {
	t.Parallel()
	_, service := newShowroom(t)

	rows, err := service.SalesByCategory()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Диваны", rows[0].Category)
	require.Equal(t, int64(5000000), rows[0].RevenueMinor)
}

func TestTopClients(t *testing.T) {
	t.Parallel()
	_, service := newShowroom(t)

	rows, err := service.TopClients(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Анна Смирнова", rows[0].Customer.FullName())
	require.Equal(t, int64(5000000), rows[0].SpentMinor)
	// Отменённый заказ Бориса в сумму не входит.
	require.Equal(t, int64(0), rows[1].SpentMinor)
}

func TestTopClients_LimitValidation(t *testing.T) {
	t.Parallel()
	_, service := newShowroom(t)

	_, err := service.TopClients(0)
	require.ErrorIs(t, err, domain.ErrLimitInvalid)

	_, err = service.TopClients(-3)
	require.ErrorIs(t, err, domain.ErrLimitInvalid)

	rows, err := service.TopClients(1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestOrderDetails(t *testing.T) {
	t.Parallel()
	store, service := newShowroom(t)

	orders, err := store.Orders().ListByCustomer(1, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	details, err := service.OrderDetails(orders[0].ID)
	require.NoError(t, err)
	require.Equal(t, orders[0].ID, details.Order.ID)
	require.Len(t, details.Items, 1)
	require.Equal(t, "Диван Лофт", details.Items[0].ProductName)
}

func TestOrderDetails_NotFound(t *testing.T) {
	t.Parallel()
	_, service := newShowroom(t)

	_, err := service.OrderDetails(9999)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestProductsByCategory(t *testing.T) {
	t.Parallel()
	store, service := newShowroom(t)

	categories, err := store.Categories().List()
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	products, err := service.ProductsByCategory(categories[0].ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Диван Лофт", products[0].Name)
}

func TestDuplicateEmails(t *testing.T) {
	t.Parallel()
	store, service := newShowroom(t)

	rows, err := service.DuplicateEmails()
	require.NoError(t, err)
	require.Empty(t, rows)

	_, err = store.Customers().Create(domain.Customer{
		FirstName: "Анна", LastName: "Другая", Email: "anna@example.com",
	})
	require.NoError(t, err)

	rows, err = service.DuplicateEmails()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "anna@example.com", rows[0].Email)
	require.Equal(t, 2, rows[0].Count)
}
