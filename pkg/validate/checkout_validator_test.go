package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velmark/shopfront/internal/domain"
)

func validCheckout() *domain.CheckoutRequest {
	return &domain.CheckoutRequest{
		Items: []domain.CheckoutItem{
			{ProductID: "p1", Quantity: 2, Color: "black", Size: "M"},
		},
		AddressID:     "a1",
		Email:         "buyer@example.com",
		PaymentMethod: domain.PaymentMethodCard,
	}
}

func TestCheckoutValidator_Valid(t *testing.T) {
	v := NewCheckoutValidator()
	require.NoError(t, v.Validate(context.Background(), validCheckout()))
}

func TestCheckoutValidator_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.CheckoutRequest)
	}{
		{"пустые items", func(r *domain.CheckoutRequest) { r.Items = nil }},
		{"нулевое количество", func(r *domain.CheckoutRequest) { r.Items[0].Quantity = 0 }},
		{"отрицательное количество", func(r *domain.CheckoutRequest) { r.Items[0].Quantity = -3 }},
		{"без product_id", func(r *domain.CheckoutRequest) { r.Items[0].ProductID = "" }},
		{"без адреса", func(r *domain.CheckoutRequest) { r.AddressID = "" }},
		{"без email", func(r *domain.CheckoutRequest) { r.Email = "" }},
		{"кривой email", func(r *domain.CheckoutRequest) { r.Email = "not-an-email" }},
		{"неизвестный способ оплаты", func(r *domain.CheckoutRequest) { r.PaymentMethod = "crypto" }},
	}

	v := NewCheckoutValidator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCheckout()
			tc.mutate(req)
			err := v.Validate(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidCheckout)
		})
	}
}

func TestCheckoutValidator_NilRequest(t *testing.T) {
	v := NewCheckoutValidator()
	require.ErrorIs(t, v.Validate(context.Background(), nil), ErrInvalidCheckout)
}
