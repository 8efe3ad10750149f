package ports

import (
	"context"

	"github.com/velmark/shopfront/internal/domain"
)

// CheckoutValidator — валидация запроса оформления заказа.
type CheckoutValidator interface {
	Validate(ctx context.Context, req *domain.CheckoutRequest) error
}

// ProductValidator — валидация товара (админка, офлайн-валидация фида).
type ProductValidator interface {
	Validate(ctx context.Context, p *domain.Product) error
}
