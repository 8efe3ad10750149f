package ports

import (
	"context"

	"github.com/velmark/shopfront/internal/domain"
)

// ProductRepository — доступ к каталогу товаров.
type ProductRepository interface {
	// List — весь каталог одним запросом (каталог небольшой, кэшируется целиком).
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID — точечное чтение для админки. (nil, nil), если записи нет.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Create — вставка; нарушение уникальности SKU → domain.ErrConflict.
	Create(ctx context.Context, p *domain.Product) error

	// Update — полная замена полей; domain.ErrNotFound, если записи нет.
	Update(ctx context.Context, p *domain.Product) error

	// Delete — удаление; domain.ErrNotFound, если записи нет.
	Delete(ctx context.Context, id string) error
}
