package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository — каталог товаров на Postgres (pgxpool).
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `
	id, name, description, category, sku, price,
	images, colors, sizes, featured, active, created_at`

// List — весь каталог одним запросом; каталог небольшой и кэшируется целиком.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+productColumns+`
		FROM products
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("products rows: %w", err)
	}
	return products, nil
}

// GetByID — точечное чтение. (nil, nil), если записи нет.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+productColumns+`
		FROM products WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("select product: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("product rows: %w", err)
		}
		return nil, nil
	}
	p, err := scanProduct(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create — вставка; дубликат SKU транслируется в domain.ErrConflict.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO products (
			id, name, description, category, sku, price,
			images, colors, sizes, featured, active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		p.ID, p.Name, p.Description, p.Category, p.SKU, p.Price,
		p.Images, p.Colors, p.Sizes, p.Featured, p.Active, p.CreatedAt,
	); err != nil {
		return asConflict(fmt.Errorf("insert product: %w", err))
	}
	return nil
}

// Update — полная замена полей.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET
			name = $2, description = $3, category = $4, sku = $5, price = $6,
			images = $7, colors = $8, sizes = $9, featured = $10, active = $11
		WHERE id = $1
	`,
		p.ID, p.Name, p.Description, p.Category, p.SKU, p.Price,
		p.Images, p.Colors, p.Sizes, p.Featured, p.Active,
	)
	if err != nil {
		return asConflict(fmt.Errorf("update product: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(rows pgx.Rows) (domain.Product, error) {
	var p domain.Product
	if err := rows.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.SKU, &p.Price,
		&p.Images, &p.Colors, &p.Sizes, &p.Featured, &p.Active, &p.CreatedAt,
	); err != nil {
		return domain.Product{}, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}
