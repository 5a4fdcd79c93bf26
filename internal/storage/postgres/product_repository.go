package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(product domain.Product) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (product_name, category_id, description, price_minor, dimensions, material, stock)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING product_id
	`,
		product.Name, product.CategoryID, product.Description,
		product.PriceMinor, product.Dimensions, product.Material, product.Stock,
	).Scan(&product.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Product{}, domain.ErrCategoryNotFound
		}
		return domain.Product{}, fmt.Errorf("insert product: %w", classify(err))
	}

	return product, nil
}

func (r *productRepository) Get(id int64) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT p.product_id, p.product_name, p.category_id, c.category_name,
		       p.description, p.price_minor, p.dimensions, p.material, p.stock
		FROM products p
		JOIN categories c ON c.category_id = p.category_id
		WHERE p.product_id = $1
	`, id).Scan(
		&product.ID, &product.Name, &product.CategoryID, &product.CategoryName,
		&product.Description, &product.PriceMinor, &product.Dimensions,
		&product.Material, &product.Stock,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", classify(err))
	}

	return product, nil
}

func (r *productRepository) List() ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT p.product_id, p.product_name, p.category_id, c.category_name,
		       p.description, p.price_minor, p.dimensions, p.material, p.stock
		FROM products p
		JOIN categories c ON c.category_id = p.category_id
		ORDER BY p.product_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", classify(err))
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

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

var _ domain.ProductRepository = (*productRepository)(nil)
