package ports

import (
	"context"

	"github.com/velmark/shopfront/internal/domain"
)

// CatalogRepository — справочники админки (категории, цвета, размеры).
// Нарушение уникальности имени → domain.ErrConflict с дословным сообщением сервера.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	ListColors(ctx context.Context) ([]domain.Color, error)
	CreateColor(ctx context.Context, c *domain.Color) error
	UpdateColor(ctx context.Context, c *domain.Color) error
	DeleteColor(ctx context.Context, id int64) error

	ListSizes(ctx context.Context) ([]domain.Size, error)
	CreateSize(ctx context.Context, s *domain.Size) error
	UpdateSize(ctx context.Context, s *domain.Size) error
	DeleteSize(ctx context.Context, id int64) error
}
