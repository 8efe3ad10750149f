//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/velmark/shopfront/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// Мини-генератор валидного товара
func MakeProduct(opts ...func(*domain.Product)) domain.Product {
	now := time.Now().UTC().Truncate(time.Second)

	p := domain.Product{
		ID:          "prod-" + UniqSuffix(),
		Name:        "Tee " + UniqSuffix(),
		Description: "Plain cotton tee",
		Category:    "T-Shirts",
		SKU:         "SKU-" + UniqSuffix(),
		Price:       1990,
		Images:      []string{"https://cdn.example.com/tee.jpg"},
		Colors:      []string{"black", "white"},
		Sizes:       []string{"S", "M", "L"},
		Featured:    false,
		Active:      true,
		CreatedAt:   now,
	}

	for _, fn := range opts {
		fn(&p)
	}
	return p
}

func WithCategory(cat string) func(*domain.Product) {
	return func(p *domain.Product) { p.Category = cat }
}

func WithSKU(sku string) func(*domain.Product) {
	return func(p *domain.Product) { p.SKU = sku }
}

func WithInactive() func(*domain.Product) {
	return func(p *domain.Product) { p.Active = false }
}

// Мини-генератор валидного заказа
func MakeOrder(opts ...func(*domain.Order)) domain.Order {
	id := "ord-" + UniqSuffix()
	now := time.Now().UTC().Truncate(time.Second)

	o := domain.Order{
		ID:            id,
		OrderNumber:   fmt.Sprintf("SHP-%s-%s", now.Format("20060102"), UniqSuffix()),
		UserID:        "user-" + UniqSuffix(),
		Status:        domain.StatusPending,
		TotalAmount:   3980,
		PaymentMethod: domain.PaymentMethodCard,
		PaymentStatus: domain.PaymentStatusPaid,
		CreatedAt:     now,
		Items: []domain.OrderItem{
			{
				ProductID: "prod-" + UniqSuffix(),
				Name:      "Tee",
				Price:     1990,
				Quantity:  2,
				Color:     "black",
				Size:      "M",
			},
		},
	}

	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func WithUser(userID string) func(*domain.Order) {
	return func(o *domain.Order) { o.UserID = userID }
}

func WithStatus(st domain.Status) func(*domain.Order) {
	return func(o *domain.Order) { o.Status = st }
}

func WithCreatedAt(ts time.Time) func(*domain.Order) {
	return func(o *domain.Order) { o.CreatedAt = ts }
}

func WithOrderItems(n int) func(*domain.Order) {
	return func(o *domain.Order) {
		o.Items = make([]domain.OrderItem, 0, n)
		total := int64(0)
		for i := 0; i < n; i++ {
			price := int64(500 * (i + 1))
			o.Items = append(o.Items, domain.OrderItem{
				ProductID: "prod-" + UniqSuffix(),
				Name:      fmt.Sprintf("Item %d", i+1),
				Price:     price,
				Quantity:  1,
				Color:     "black",
				Size:      "M",
			})
			total += price
		}
		o.TotalAmount = total
	}
}

// Мини-генератор адреса доставки
func MakeAddress(userID string, opts ...func(*domain.Address)) domain.Address {
	a := domain.Address{
		ID:         "addr-" + UniqSuffix(),
		UserID:     userID,
		Recipient:  "John Smith",
		Phone:      "+1-202-555-01",
		Line1:      "Main st 1",
		City:       "Metropolis",
		Region:     "NA",
		PostalCode: "000000",
		IsDefault:  false,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	for _, fn := range opts {
		fn(&a)
	}
	return a
}

func AsDefault() func(*domain.Address) {
	return func(a *domain.Address) { a.IsDefault = true }
}
