package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
)

var _ ports.ProductValidator = (*ProductValidator)(nil)

// ErrInvalidProduct — базовая ошибка валидации товара.
var ErrInvalidProduct = errors.New("product validation failed")

// ProductValidator — валидация товара: админские мутации каталога и
// офлайн-проверка фида (cmd/validate-feed).
type ProductValidator struct{}

func NewProductValidator() *ProductValidator { return &ProductValidator{} }

// Validate — проверяет корректность полей товара.
func (v *ProductValidator) Validate(_ context.Context, p *domain.Product) error {
	if p == nil {
		return fmt.Errorf("%w: товар не может быть nil", ErrInvalidProduct)
	}
	if p.ID == "" {
		return fmt.Errorf("%w: id обязателен", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name обязателен", ErrInvalidProduct)
	}
	if p.SKU == "" {
		return fmt.Errorf("%w: sku обязателен", ErrInvalidProduct)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price должен быть неотрицательным", ErrInvalidProduct)
	}
	return v.validateVariants(p)
}

func (v *ProductValidator) validateVariants(p *domain.Product) error {
	for i, c := range p.Colors {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: colors[%d] пустой", ErrInvalidProduct, i)
		}
	}
	for i, s := range p.Sizes {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: sizes[%d] пустой", ErrInvalidProduct, i)
		}
	}
	return nil
}
