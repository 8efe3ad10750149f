package domain

import "time"

// Способы оплаты (оплата симулируется, интеграции с реальным шлюзом нет).
const (
	PaymentMethodCard = "card"
	PaymentMethodCOD  = "cod"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Order — заказ пользователя.
type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"order_number"`
	UserID        string      `json:"user_id"`
	Status        Status      `json:"status"`
	TotalAmount   int64       `json:"total_amount"`
	PaymentMethod string      `json:"payment_method"`
	PaymentStatus string      `json:"payment_status"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `json:"order_items"`

	// Progress заполняется на выдаче профиля (см. rest), в БД не хранится.
	Progress *Progress `json:"progress,omitempty"`
}

// OrderItem — позиция заказа. Цена фиксируется на момент оформления.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// OrderPage — страница коллекции заказов для профиля/админки.
// HasMore по умолчанию выводится из размера страницы (см. store.Orders).
type OrderPage struct {
	Items       []*Order `json:"items"`
	TotalCount  int      `json:"total_count"`
	HasMore     bool     `json:"has_more"`
	CurrentPage int      `json:"current_page"`
}

// OrderStats — агрегат для админки.
type OrderStats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
	Revenue  int64          `json:"revenue"`
}
