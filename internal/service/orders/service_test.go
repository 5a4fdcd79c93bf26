package orders

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
	"github.com/vladislavdragonenkov/furniture-store/internal/storage/memory"
)

type fixture struct {
	store    *memory.Store
	service  *Service
	customer domain.Customer
	product  domain.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()

	category, err := store.Categories().Create(domain.Category{Name: "Кресла"})
	require.NoError(t, err)

	product, err := store.Products().Create(domain.Product{
		Name:       "Кресло Комфорт",
		CategoryID: category.ID,
		PriceMinor: 1500000,
		Stock:      4,
	})
	require.NoError(t, err)

	customer, err := store.Customers().Create(domain.Customer{
		FirstName: "Анна",
		LastName:  "Смирнова",
		Email:     "anna@example.com",
	})
	require.NoError(t, err)

	return &fixture{
		store:    store,
		service:  NewServiceWithoutMetrics(store.Orders(), nil),
		customer: customer,
		product:  product,
	}
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	order, err := fx.service.CreateOrder(fx.customer.ID, "Москва, Тверская 1")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.Equal(t, int64(0), order.TotalMinor)
}

func TestCreateOrder_RequiresCustomer(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	_, err := fx.service.CreateOrder(0, "адрес")
	require.ErrorIs(t, err, domain.ErrCustomerRequired)

	_, err = fx.service.CreateOrder(-5, "адрес")
	require.ErrorIs(t, err, domain.ErrCustomerRequired)
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	_, err := fx.service.CreateOrder(fx.customer.ID+100, "адрес")
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestAddLineItem(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	order, err := fx.service.CreateOrder(fx.customer.ID, "адрес")
	require.NoError(t, err)

	item, err := fx.service.AddLineItem(order.ID, fx.product.ID, 2)
	require.NoError(t, err)
	require.Equal(t, fx.product.PriceMinor, item.UnitPriceMinor)
	require.Equal(t, int64(3000000), item.SubtotalMinor)

	updated, err := fx.store.Orders().Get(order.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3000000), updated.TotalMinor)
}

func TestAddLineItem_RejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	order, err := fx.service.CreateOrder(fx.customer.ID, "адрес")
	require.NoError(t, err)

	_, err = fx.service.AddLineItem(order.ID, fx.product.ID, 0)
	require.ErrorIs(t, err, domain.ErrQuantityInvalid)

	_, err = fx.service.AddLineItem(order.ID, fx.product.ID, -1)
	require.ErrorIs(t, err, domain.ErrQuantityInvalid)

	// Отказ до хранилища: остаток не тронут.
	product, err := fx.store.Products().Get(fx.product.ID)
	require.NoError(t, err)
	require.Equal(t, int32(4), product.Stock)
}

func TestAddLineItem_InsufficientStock(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	order, err := fx.service.CreateOrder(fx.customer.ID, "адрес")
	require.NoError(t, err)

	_, err = fx.service.AddLineItem(order.ID, fx.product.ID, 5)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	updated, err := fx.store.Orders().Get(order.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), updated.TotalMinor)
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	order, err := fx.service.CreateOrder(fx.customer.ID, "адрес")
	require.NoError(t, err)

	require.NoError(t, fx.service.UpdateStatus(order.ID, "shipped"))

	updated, err := fx.store.Orders().Get(order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusShipped, updated.Status)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	order, err := fx.service.CreateOrder(fx.customer.ID, "адрес")
	require.NoError(t, err)

	err = fx.service.UpdateStatus(order.ID, "paid")
	require.ErrorIs(t, err, domain.ErrStatusInvalid)

	// Статус валидируется до обращения к хранилищу.
	err = fx.service.UpdateStatus(order.ID+100, "paid")
	require.ErrorIs(t, err, domain.ErrStatusInvalid)
}

func TestListByCustomer(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	first, err := fx.service.CreateOrder(fx.customer.ID, "адрес 1")
	require.NoError(t, err)
	second, err := fx.service.CreateOrder(fx.customer.ID, "адрес 2")
	require.NoError(t, err)

	orders, err := fx.service.ListByCustomer(fx.customer.ID, 10)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, second.ID, orders[0].ID)
	require.Equal(t, first.ID, orders[1].ID)

	_, err = fx.service.ListByCustomer(0, 10)
	require.ErrorIs(t, err, domain.ErrCustomerRequired)
}

func TestLineItemResult(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"insufficient stock", domain.ErrInsufficientStock, "insufficient_stock"},
		{"product not found", domain.ErrProductNotFound, "not_found"},
		{"order not found", domain.ErrOrderNotFound, "not_found"},
		{"quantity invalid", domain.ErrQuantityInvalid, "invalid"},
		{"store unavailable", domain.ErrStoreUnavailable, "error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, lineItemResult(tc.err))
		})
	}
}
