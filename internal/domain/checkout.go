package domain

// CheckoutRequest — запрос оформления заказа. Корзина живёт на клиенте,
// сервер получает готовый список позиций; цены пересчитываются по каталогу.
type CheckoutRequest struct {
	Items         []CheckoutItem `json:"items"`
	AddressID     string         `json:"address_id"`
	Email         string         `json:"email"`
	PaymentMethod string         `json:"payment_method"`
}

// CheckoutItem — позиция корзины: ссылка на товар и выбранные атрибуты.
type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}
