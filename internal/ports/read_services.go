package ports

import (
	"context"

	"github.com/velmark/shopfront/internal/domain"
)

// Порты чтения, которые потребляет HTTP-слой. Реализуются доменными сторами.

// CatalogReader — чтение каталога через кэш.
type CatalogReader interface {
	All(ctx context.Context, forceRefresh bool) ([]domain.Product, error)
	ByCategory(ctx context.Context, name string) ([]domain.Product, error)
	ByID(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Refresh(ctx context.Context) ([]domain.Product, error)
}

// OrderReader — постраничное чтение и отмена заказов профиля.
type OrderReader interface {
	Page(ctx context.Context, userID string, page int, appendTo bool) (domain.OrderPage, error)
	Cancel(ctx context.Context, userID, orderID string) (domain.OrderPage, error)
}

// AddressManager — адреса профиля: чтение через кэш, мутация с перезагрузкой.
type AddressManager interface {
	All(ctx context.Context, userID string) ([]domain.Address, error)
	Create(ctx context.Context, a *domain.Address) ([]domain.Address, error)
	Update(ctx context.Context, a *domain.Address) ([]domain.Address, error)
	Delete(ctx context.Context, id, userID string) ([]domain.Address, error)
}

// CheckoutPlacer — оформление заказа.
type CheckoutPlacer interface {
	PlaceOrder(ctx context.Context, userID string, req *domain.CheckoutRequest) (*domain.Order, error)
}
