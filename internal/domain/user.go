package domain

import "time"

// Роли пользователей.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User — профиль пользователя. Аутентификация выполняется выше по стеку,
// сервис доверяет идентификатору из шлюза.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
