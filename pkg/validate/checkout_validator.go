package validate

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
)

// Проверка, что CheckoutValidator удовлетворяет интерфейсу CheckoutValidator.
var _ ports.CheckoutValidator = (*CheckoutValidator)(nil)

// ErrInvalidCheckout — базовая (sentinel error) ошибка валидации оформления.
var ErrInvalidCheckout = errors.New("checkout validation failed")

// ErrInvalidStatusUpdate — сообщение о смене статуса не прошло валидацию
// (консьюмер Kafka пропускает такие навсегда).
var ErrInvalidStatusUpdate = errors.New("status update validation failed")

// CheckoutValidator — валидация запроса оформления заказа.
type CheckoutValidator struct{}

// NewCheckoutValidator — конструктор CheckoutValidator.
// Возвращает ErrInvalidCheckout (с обёрнутой причиной) при любой проблеме.
func NewCheckoutValidator() *CheckoutValidator { return &CheckoutValidator{} }

// Validate — проверяет корректность запроса оформления.
func (v *CheckoutValidator) Validate(_ context.Context, req *domain.CheckoutRequest) error {
	if req == nil {
		return fmt.Errorf("%w: запрос не может быть nil", ErrInvalidCheckout)
	}
	if req.AddressID == "" {
		return fmt.Errorf("%w: address_id обязателен", ErrInvalidCheckout)
	}
	if err := v.validateEmail(req.Email); err != nil {
		return err
	}
	if err := v.validatePayment(req.PaymentMethod); err != nil {
		return err
	}
	return v.validateItems(req.Items)
}

func (v *CheckoutValidator) validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email обязателен", ErrInvalidCheckout)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email некорректен", ErrInvalidCheckout)
	}
	return nil
}

func (v *CheckoutValidator) validatePayment(method string) error {
	switch method {
	case domain.PaymentMethodCard, domain.PaymentMethodCOD:
		return nil
	default:
		return fmt.Errorf("%w: payment_method должен быть card или cod", ErrInvalidCheckout)
	}
}

func (v *CheckoutValidator) validateItems(items []domain.CheckoutItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items не должен быть пустым", ErrInvalidCheckout)
	}
	for i := range items {
		item := &items[i]
		idx := strconv.Itoa(i)

		if item.ProductID == "" {
			return fmt.Errorf("%w: items[%s].product_id обязателен", ErrInvalidCheckout, idx)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: items[%s].quantity должен быть положительным", ErrInvalidCheckout, idx)
		}
	}
	return nil
}
