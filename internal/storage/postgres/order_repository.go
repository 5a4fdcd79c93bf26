package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Create открывает заказ со статусом pending и нулевой суммой.
func (r *orderRepository) Create(customerID int64, shippingAddress string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", classify(err))
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists int64
	err = tx.QueryRowContext(ctx, `
		SELECT customer_id FROM customers WHERE customer_id = $1
	`, customerID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrCustomerNotFound
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("check customer exists: %w", classify(err))
	}

	now := time.Now().UTC()
	order := domain.Order{
		CustomerID:      customerID,
		Status:          domain.OrderStatusPending,
		ShippingAddress: shippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, status, total_amount_minor, shipping_address, created_at, updated_at)
		VALUES ($1,$2,0,$3,$4,$5)
		RETURNING order_id
	`,
		customerID, string(order.Status), shippingAddress, now, now,
	).Scan(&order.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", classify(err))
	}

	if err = enqueueEvent(ctx, tx, order.ID, domain.OrderEvent{
		EventType:  domain.EventTypeOrderCreated,
		OrderID:    order.ID,
		CustomerID: customerID,
		Status:     string(order.Status),
		OccurredAt: now,
	}); err != nil {
		return domain.Order{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit create order: %w", classify(err))
	}

	return order, nil
}

func (r *orderRepository) Get(id int64) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT order_id, customer_id, status, total_amount_minor, shipping_address, created_at, updated_at
		FROM orders
		WHERE order_id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", classify(err))
	}

	return order, nil
}

// AddItem выполняет всю последовательность добавления позиции в одной
// транзакции: блокировка строки товара, вставка позиции с фиксацией
// цены, пересчёт суммы заказа от суммы позиций и условное списание
// остатка. Никаких эффектов при отказе не остаётся.
func (r *orderRepository) AddItem(orderID, productID int64, quantity int32) (domain.OrderItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if quantity <= 0 {
		return domain.OrderItem{}, domain.ErrQuantityInvalid
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("begin tx: %w", classify(err))
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Блокируем строку товара: конкурирующие AddItem по одному товару
	// сериализуются и не могут оба пройти проверку остатка.
	var (
		productName string
		priceMinor  int64
		stock       int32
	)
	err = tx.QueryRowContext(ctx, `
		SELECT product_name, price_minor, stock
		FROM products
		WHERE product_id = $1
		FOR UPDATE
	`, productID).Scan(&productName, &priceMinor, &stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrProductNotFound
			return domain.OrderItem{}, err
		}
		return domain.OrderItem{}, fmt.Errorf("lock product row: %w", classify(err))
	}
	if stock < quantity {
		err = domain.ErrInsufficientStock
		return domain.OrderItem{}, err
	}

	var order domain.Order
	order, err = scanOrder(tx.QueryRowContext(ctx, `
		SELECT order_id, customer_id, status, total_amount_minor, shipping_address, created_at, updated_at
		FROM orders
		WHERE order_id = $1
		FOR UPDATE
	`, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrOrderNotFound
			return domain.OrderItem{}, err
		}
		return domain.OrderItem{}, fmt.Errorf("lock order row: %w", classify(err))
	}

	item := domain.OrderItem{
		OrderID:        orderID,
		ProductID:      productID,
		ProductName:    productName,
		Quantity:       quantity,
		UnitPriceMinor: priceMinor,
		SubtotalMinor:  int64(quantity) * priceMinor,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price_minor, subtotal_minor)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING item_id
	`,
		item.OrderID, item.ProductID, item.ProductName,
		item.Quantity, item.UnitPriceMinor, item.SubtotalMinor,
	).Scan(&item.ID)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("insert order item: %w", classify(err))
	}

	// Сумма заказа пересчитывается от позиций целиком, а не инкрементом,
	// чтобы выправить возможный накопленный дрейф.
	now := time.Now().UTC()
	var totalMinor int64
	err = tx.QueryRowContext(ctx, `
		UPDATE orders
		SET total_amount_minor = (
			SELECT COALESCE(SUM(subtotal_minor), 0)
			FROM order_items
			WHERE order_id = $1
		),
		    updated_at = $2
		WHERE order_id = $1
		RETURNING total_amount_minor
	`, orderID, now).Scan(&totalMinor)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("recompute order total: %w", classify(err))
	}

	// Условное списание. Строка уже под блокировкой, но нулевое число
	// затронутых строк всё равно трактуем как нехватку остатка.
	var res sql.Result
	res, err = tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $2
		WHERE product_id = $1
		  AND stock >= $2
	`, productID, quantity)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("decrement stock: %w", classify(err))
	}
	var affected int64
	affected, err = res.RowsAffected()
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		err = domain.ErrInsufficientStock
		return domain.OrderItem{}, err
	}

	if err = enqueueEvent(ctx, tx, orderID, domain.OrderEvent{
		EventType:  domain.EventTypeOrderItemAdded,
		OrderID:    orderID,
		CustomerID: order.CustomerID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalMinor: totalMinor,
		OccurredAt: now,
	}); err != nil {
		return domain.OrderItem{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.OrderItem{}, fmt.Errorf("commit add item: %w", classify(err))
	}

	return item, nil
}

func (r *orderRepository) UpdateStatus(orderID int64, status domain.OrderStatus) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := domain.ParseOrderStatus(string(status)); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", classify(err))
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	var res sql.Result
	res, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $2,
		    updated_at = $3
		WHERE order_id = $1
	`, orderID, string(status), now)
	if err != nil {
		return fmt.Errorf("update order status: %w", classify(err))
	}

	var affected int64
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		err = domain.ErrOrderNotFound
		return err
	}

	if err = enqueueEvent(ctx, tx, orderID, domain.OrderEvent{
		EventType:  domain.EventTypeOrderStatusChange,
		OrderID:    orderID,
		Status:     string(status),
		OccurredAt: now,
	}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update status: %w", classify(err))
	}

	return nil
}

func (r *orderRepository) ListByCustomer(customerID int64, limit int) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT order_id, customer_id, status, total_amount_minor, shipping_address, created_at, updated_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, order_id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)

	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $2", customerID, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query, customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", classify(err))
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

// rowScanner покрывает и *sql.Row, и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	var status string
	if err := row.Scan(
		&order.ID, &order.CustomerID, &status, &order.TotalMinor,
		&order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}

// enqueueEvent пишет событие в outbox той же транзакцией, что и мутация.
func enqueueEvent(ctx context.Context, tx *sql.Tx, orderID int64, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO outbox_messages (
			id, aggregate_type, aggregate_id, event_type, payload,
			status, attempt_count, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,'pending',0,$6,$7)
	`,
		uuid.NewString(), domain.AggregateTypeOrder, fmt.Sprintf("%d", orderID),
		event.EventType, payload, now, now,
	); err != nil {
		return fmt.Errorf("enqueue outbox event: %w", err)
	}

	return nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
