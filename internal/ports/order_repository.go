package ports

import (
	"context"

	"github.com/velmark/shopfront/internal/domain"
)

// AdminOrderFilter — фильтр/сортировка списка заказов в админке.
type AdminOrderFilter struct {
	Status  domain.Status // пусто — без фильтра
	SortBy  string        // created_at | total_amount
	SortDir string        // asc | desc
	Limit   int
	Offset  int
}

// OrderRepository — доступ к заказам.
type OrderRepository interface {
	// Create — транзакционное сохранение заказа вместе с позициями.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID — точечное чтение. (nil, nil), если записи нет.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// ListByUser — страница заказов пользователя, created_at DESC.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, error)

	// CountByUser — лёгкий запрос общего количества (страница 0).
	CountByUser(ctx context.Context, userID string) (int, error)

	// Cancel — отмена, скоуп по (id, user_id) на уровне запроса.
	// Ноль затронутых строк → domain.ErrNotFound.
	Cancel(ctx context.Context, orderID, userID string) error

	// UpdateStatus — выставить любой статус (админка/консьюмер).
	// Легальность перехода не проверяется. domain.ErrNotFound, если записи нет.
	UpdateStatus(ctx context.Context, orderID string, status domain.Status) error

	// AdminList — страница всех заказов с фильтром и сортировкой + общее число.
	AdminList(ctx context.Context, f AdminOrderFilter) ([]*domain.Order, int, error)

	// Stats — агрегат по статусам и выручке.
	Stats(ctx context.Context) (domain.OrderStats, error)
}
