package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
)

// reportRepository выполняет только чтение: ни одна выборка не
// открывает пишущую транзакцию и не берёт блокировок.
type reportRepository struct {
	db *sql.DB
}

// NewReportRepository создаёт PostgreSQL-реализацию ReportRepository.
func NewReportRepository(store *Store) domain.ReportRepository {
	return &reportRepository{db: store.DB()}
}

func (r *reportRepository) SalesByCategory() ([]domain.CategorySales, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.category_name,
		       COUNT(DISTINCT o.order_id)          AS orders_count,
		       COALESCE(SUM(oi.quantity), 0)       AS total_quantity,
		       COALESCE(SUM(oi.subtotal_minor), 0) AS revenue_minor,
		       COALESCE(AVG(oi.unit_price_minor), 0) AS avg_price_minor
		FROM categories c
		JOIN products p ON p.category_id = c.category_id
		JOIN order_items oi ON oi.product_id = p.product_id
		JOIN orders o ON o.order_id = oi.order_id
		WHERE o.status <> 'cancelled'
		GROUP BY c.category_name
		HAVING COALESCE(SUM(oi.subtotal_minor), 0) > 0
		ORDER BY revenue_minor DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("sales by category: %w", classify(err))
	}
	defer rows.Close()

	result := make([]domain.CategorySales, 0)
	for rows.Next() {
		var row domain.CategorySales
		if err := rows.Scan(
			&row.Category, &row.OrderCount, &row.QuantitySold,
			&row.RevenueMinor, &row.AvgUnitPriceMinor,
		); err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales rows: %w", err)
	}

	return result, nil
}

func (r *reportRepository) TopClients(limit int) ([]domain.CustomerSpending, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if limit <= 0 {
		return nil, domain.ErrLimitInvalid
	}

	// LEFT JOIN: клиенты без подходящих заказов остаются в рейтинге с нулями.
	// Порядок при равных суммах не специфицирован; для стабильности
	// выборки добавлен customer_id.
	rows, err := r.db.QueryContext(ctx, `
		SELECT cu.customer_id, cu.first_name, cu.last_name, cu.email, cu.phone, cu.address,
		       COUNT(o.order_id) FILTER (WHERE o.status <> 'cancelled') AS orders_count,
		       COALESCE(SUM(o.total_amount_minor) FILTER (WHERE o.status <> 'cancelled'), 0) AS spent_minor
		FROM customers cu
		LEFT JOIN orders o ON o.customer_id = cu.customer_id
		GROUP BY cu.customer_id, cu.first_name, cu.last_name, cu.email, cu.phone, cu.address
		ORDER BY spent_minor DESC, cu.customer_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top clients: %w", classify(err))
	}
	defer rows.Close()

	result := make([]domain.CustomerSpending, 0, limit)
	for rows.Next() {
		var row domain.CustomerSpending
		if err := rows.Scan(
			&row.Customer.ID, &row.Customer.FirstName, &row.Customer.LastName,
			&row.Customer.Email, &row.Customer.Phone, &row.Customer.Address,
			&row.OrderCount, &row.SpentMinor,
		); err != nil {
			return nil, fmt.Errorf("scan client row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client rows: %w", err)
	}

	return result, nil
}

func (r *reportRepository) OrderDetails(orderID int64) (domain.OrderDetails, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var details domain.OrderDetails
	order, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT order_id, customer_id, status, total_amount_minor, shipping_address, created_at, updated_at
		FROM orders
		WHERE order_id = $1
	`, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OrderDetails{}, domain.ErrOrderNotFound
		}
		return domain.OrderDetails{}, fmt.Errorf("select order header: %w", classify(err))
	}
	details.Order = order

	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, order_id, product_id, product_name, quantity, unit_price_minor, subtotal_minor
		FROM order_items
		WHERE order_id = $1
		ORDER BY item_id
	`, orderID)
	if err != nil {
		return domain.OrderDetails{}, fmt.Errorf("load order items: %w", classify(err))
	}
	defer rows.Close()

	// Заказ без позиций — пустой список, не ошибка.
	details.Items = make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPriceMinor, &item.SubtotalMinor,
		); err != nil {
			return domain.OrderDetails{}, fmt.Errorf("scan order item: %w", err)
		}
		details.Items = append(details.Items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.OrderDetails{}, fmt.Errorf("iterate order items: %w", err)
	}

	return details, nil
}

func (r *reportRepository) ProductsByCategory(categoryID int64) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT p.product_id, p.product_name, p.category_id, c.category_name,
		       p.description, p.price_minor, p.dimensions, p.material, p.stock
		FROM products p
		JOIN categories c ON c.category_id = p.category_id
		WHERE p.category_id = $1
		  AND p.stock > 0
		ORDER BY p.price_minor, p.product_id
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("products by category: %w", classify(err))
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.CategoryID, &product.CategoryName,
			&product.Description, &product.PriceMinor, &product.Dimensions,
			&product.Material, &product.Stock,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func (r *reportRepository) DuplicateEmails() ([]domain.DuplicateEmail, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT email, COUNT(*) AS cnt
		FROM customers
		GROUP BY email
		HAVING COUNT(*) >= 2
		ORDER BY cnt DESC, email
	`)
	if err != nil {
		return nil, fmt.Errorf("duplicate emails: %w", classify(err))
	}
	defer rows.Close()

	result := make([]domain.DuplicateEmail, 0)
	for rows.Next() {
		var row domain.DuplicateEmail
		if err := rows.Scan(&row.Email, &row.Count); err != nil {
			return nil, fmt.Errorf("scan email row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate email rows: %w", err)
	}

	return result, nil
}

var _ domain.ReportRepository = (*reportRepository)(nil)
