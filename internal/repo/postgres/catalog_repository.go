package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
)

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

// CatalogRepository — справочники админки на Postgres: категории, цвета, размеры.
// Дубликат имени транслируется в domain.ErrConflict с дословным сообщением сервера.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("categories rows: %w", err)
	}
	return out, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name,
	).Scan(&c.ID); err != nil {
		return asConflict(fmt.Errorf("insert category: %w", err))
	}
	return nil
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1`, c.ID, c.Name)
	if err != nil {
		return asConflict(fmt.Errorf("update category: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) ListColors(ctx context.Context) ([]domain.Color, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, hex FROM colors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select colors: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Color, 0)
	for rows.Next() {
		var c domain.Color
		if err := rows.Scan(&c.ID, &c.Name, &c.Hex); err != nil {
			return nil, fmt.Errorf("scan color: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("colors rows: %w", err)
	}
	return out, nil
}

func (r *CatalogRepository) CreateColor(ctx context.Context, c *domain.Color) error {
	if err := r.pool.QueryRow(ctx,
		`INSERT INTO colors (name, hex) VALUES ($1, $2) RETURNING id`, c.Name, c.Hex,
	).Scan(&c.ID); err != nil {
		return asConflict(fmt.Errorf("insert color: %w", err))
	}
	return nil
}

func (r *CatalogRepository) UpdateColor(ctx context.Context, c *domain.Color) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE colors SET name = $2, hex = $3 WHERE id = $1`, c.ID, c.Name, c.Hex)
	if err != nil {
		return asConflict(fmt.Errorf("update color: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteColor(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM colors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete color: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) ListSizes(ctx context.Context) ([]domain.Size, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, sort_order FROM sizes ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("select sizes: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Size, 0)
	for rows.Next() {
		var s domain.Size
		if err := rows.Scan(&s.ID, &s.Name, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("scan size: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sizes rows: %w", err)
	}
	return out, nil
}

func (r *CatalogRepository) CreateSize(ctx context.Context, s *domain.Size) error {
	if err := r.pool.QueryRow(ctx,
		`INSERT INTO sizes (name, sort_order) VALUES ($1, $2) RETURNING id`, s.Name, s.SortOrder,
	).Scan(&s.ID); err != nil {
		return asConflict(fmt.Errorf("insert size: %w", err))
	}
	return nil
}

func (r *CatalogRepository) UpdateSize(ctx context.Context, s *domain.Size) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sizes SET name = $2, sort_order = $3 WHERE id = $1`, s.ID, s.Name, s.SortOrder)
	if err != nil {
		return asConflict(fmt.Errorf("update size: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteSize(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sizes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete size: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
