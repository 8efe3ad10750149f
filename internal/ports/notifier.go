package ports

import "context"

// Виды уведомлений.
const (
	NotifyError   = "error"
	NotifySuccess = "success"
)

// Notifier — сток пользовательских уведомлений (toast).
// Вызов fire-and-forget: ошибки доставки уведомления никого не интересуют.
// Кэш-слой дёргает его на путях деградации (stale fallback, недоступный источник).
type Notifier interface {
	Notify(ctx context.Context, kind, message string)
}
