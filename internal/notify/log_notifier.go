// Пакет notify — сток пользовательских уведомлений (toast).
// Сам показ уведомлений — забота фронтенда; сервис лишь фиксирует событие
// в логе, чтобы деградации чтения были видны в эксплуатации.
package notify

import (
	"context"

	"github.com/velmark/shopfront/internal/ports"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier — реализация Notifier поверх логгера.
type LogNotifier struct {
	log ports.Logger
}

func NewLogNotifier(log ports.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify — fire-and-forget: ошибки показа никого не интересуют.
func (n *LogNotifier) Notify(ctx context.Context, kind, message string) {
	switch kind {
	case ports.NotifyError:
		n.log.Warnf(ctx, "toast kind=%s message=%q", kind, message)
	default:
		n.log.Infof(ctx, "toast kind=%s message=%q", kind, message)
	}
}
