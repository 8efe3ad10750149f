package ports

import (
	"context"

	"github.com/velmark/shopfront/internal/domain"
)

// UserRepository — пользователи (админка: список, смена роли).
type UserRepository interface {
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Count(ctx context.Context) (int, error)

	// UpdateRole — смена роли; domain.ErrNotFound, если записи нет.
	UpdateRole(ctx context.Context, id, role string) error
}
