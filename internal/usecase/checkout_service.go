// Пакет usecase — прикладная логика без знаний о транспорте.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
	"github.com/velmark/shopfront/pkg/validate"
)

// OrdersInvalidator — сброс кэша заказов после мутаций.
type OrdersInvalidator interface {
	InvalidateUser(userID string)
	InvalidateAll()
}

var _ ports.CheckoutPlacer = (*CheckoutService)(nil)

// CheckoutService — оформление заказа: валидация, пересчёт цен по каталогу,
// симуляция оплаты, транзакционное сохранение, сброс кэша заказов.
type CheckoutService struct {
	orders    ports.OrderRepository
	catalog   ports.CatalogReader
	validator ports.CheckoutValidator
	inval     OrdersInvalidator
	log       ports.Logger
	now       func() time.Time
}

// NewCheckoutService — DI-конструктор.
func NewCheckoutService(
	orders ports.OrderRepository,
	catalog ports.CatalogReader,
	validator ports.CheckoutValidator,
	inval OrdersInvalidator,
	log ports.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		catalog:   catalog,
		validator: validator,
		inval:     inval,
		log:       log,
		now:       time.Now,
	}
}

// PlaceOrder — оформить заказ. Цены берутся из каталога на момент
// оформления, клиентским ценам сервер не доверяет. Оплата симулируется:
// card считается оплаченной сразу, cod остаётся pending до доставки.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, req *domain.CheckoutRequest) (*domain.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: пользователь не определён", validate.ErrInvalidCheckout)
	}
	if err := s.validator.Validate(ctx, req); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	var total int64
	for i := range req.Items {
		line := &req.Items[i]
		product, err := s.catalog.ByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve product %s: %w", line.ProductID, err)
		}
		if product == nil || !product.Active {
			return nil, fmt.Errorf("%w: товар %s недоступен", validate.ErrInvalidCheckout, line.ProductID)
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Color:     line.Color,
			Size:      line.Size,
		})
		total += product.Price * int64(line.Quantity)
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		OrderNumber:   s.orderNumber(),
		UserID:        userID,
		Status:        domain.StatusPending,
		TotalAmount:   total,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: simulatePayment(req.PaymentMethod),
		CreatedAt:     s.now().UTC(),
		Items:         items,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.log.Errorf(ctx, "orders.Create failed order_id=%s err=%v", order.ID, err)
		return nil, err
	}
	s.log.Infof(ctx, "order placed order_id=%s user_id=%s total=%d", order.ID, userID, total)

	// Кэш профиля больше не актуален — следующая загрузка перечитает из БД.
	s.inval.InvalidateUser(userID)
	return order, nil
}

// orderNumber — человекочитаемый номер вида SHP-YYYYMMDD-XXXXXX.
func (s *CheckoutService) orderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("SHP-%s-%s", s.now().UTC().Format("20060102"), suffix)
}

// simulatePayment — интеграции с платёжным шлюзом нет.
func simulatePayment(method string) string {
	if method == domain.PaymentMethodCard {
		return domain.PaymentStatusPaid
	}
	return domain.PaymentStatusPending
}
