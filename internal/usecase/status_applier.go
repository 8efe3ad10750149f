package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
	"github.com/velmark/shopfront/pkg/validate"
)

// StatusApplier — применение сообщений о смене статуса заказа из Kafka.
// Невалидные сообщения заворачиваются в validate.ErrInvalidStatusUpdate:
// консьюмер коммитит и пропускает их навсегда, переходные ошибки (БД)
// возвращаются как есть и уходят в ретрай.
type StatusApplier struct {
	orders ports.OrderRepository
	inval  OrdersInvalidator
	log    ports.Logger
}

func NewStatusApplier(orders ports.OrderRepository, inval OrdersInvalidator, log ports.Logger) *StatusApplier {
	return &StatusApplier{orders: orders, inval: inval, log: log}
}

// statusUpdate — контракт топика order-status.
type statusUpdate struct {
	OrderID string        `json:"order_id"`
	Status  domain.Status `json:"status"`
}

// ApplyFromMessage — применить сообщение (raw JSON).
// Шаги:
//  1. строгий парсинг JSON (DisallowUnknownFields);
//  2. проверка принадлежности статуса множеству; легальность перехода
//     не проверяется — любой валидный статус записывается как есть;
//  3. обновление в БД; отсутствующий заказ — тоже невалидное сообщение;
//  4. оптовый сброс кэша заказов.
func (a *StatusApplier) ApplyFromMessage(ctx context.Context, raw []byte) error {
	var upd statusUpdate
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&upd); err != nil {
		a.log.Warnf(ctx, "invalid status update json err=%v", err)
		return fmt.Errorf("%w: %v", validate.ErrInvalidStatusUpdate, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		a.log.Warnf(ctx, "invalid status update: trailing data")
		return fmt.Errorf("%w: trailing data", validate.ErrInvalidStatusUpdate)
	}

	if upd.OrderID == "" {
		return fmt.Errorf("%w: order_id обязателен", validate.ErrInvalidStatusUpdate)
	}
	if !domain.ValidStatus(upd.Status) {
		a.log.Warnf(ctx, "unknown order status order_id=%s status=%q", upd.OrderID, upd.Status)
		return fmt.Errorf("%w: неизвестный статус %q", validate.ErrInvalidStatusUpdate, upd.Status)
	}

	if err := a.orders.UpdateStatus(ctx, upd.OrderID, upd.Status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.log.Warnf(ctx, "status update for unknown order order_id=%s", upd.OrderID)
			return fmt.Errorf("%w: заказ %s не найден", validate.ErrInvalidStatusUpdate, upd.OrderID)
		}
		return err
	}

	a.log.Infof(ctx, "order status applied order_id=%s status=%s", upd.OrderID, upd.Status)
	a.inval.InvalidateAll()
	return nil
}
