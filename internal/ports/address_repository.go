package ports

import (
	"context"

	"github.com/velmark/shopfront/internal/domain"
)

// AddressRepository — адреса доставки, скоуп по user_id во всех операциях.
type AddressRepository interface {
	// ListByUser — адреса пользователя, is_default DESC, created_at DESC.
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)

	// Create — вставка; is_default=true снимает флаг с остальных адресов (в транзакции).
	Create(ctx context.Context, a *domain.Address) error

	// Update — обновление; domain.ErrNotFound, если адрес не принадлежит пользователю.
	Update(ctx context.Context, a *domain.Address) error

	// Delete — удаление; domain.ErrNotFound, если адрес не принадлежит пользователю.
	Delete(ctx context.Context, id, userID string) error
}
