package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/velmark/shopfront/internal/cache"
	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
)

// profileTTL — TTL страниц заказов и адресов профиля.
const profileTTL = 5 * time.Minute

// DefaultPageSize — размер страницы заказов профиля.
const DefaultPageSize = 10

var _ ports.OrderReader = (*Orders)(nil)

// Orders — стор заказов профиля: ячейка кэша на каждую пару
// (пользователь, страница) плюс накопленная коллекция для режима "load more".
type Orders struct {
	repo     ports.OrderRepository
	cache    *cache.Store[[]*domain.Order]
	log      ports.Logger
	pageSize int

	// strictHasMore — выводить HasMore из общего количества вместо
	// приближения «страница заполнена целиком». Приближение ошибается,
	// когда общее число заказов кратно размеру страницы; по умолчанию
	// сохраняем исходное поведение.
	strictHasMore bool

	mu     sync.Mutex
	held   map[string][]*domain.Order // собранная коллекция пользователя
	totals map[string]int             // общее количество (получено на странице 0)
}

type ordersConfig struct {
	clock         func() time.Time
	ttl           time.Duration
	pageSize      int
	strictHasMore bool
}

type OrdersOption func(*ordersConfig)

func WithOrdersClock(now func() time.Time) OrdersOption {
	return func(c *ordersConfig) { c.clock = now }
}

func WithOrdersPageSize(n int) OrdersOption {
	return func(c *ordersConfig) { c.pageSize = n }
}

func WithOrdersTTL(ttl time.Duration) OrdersOption {
	return func(c *ordersConfig) { c.ttl = ttl }
}

// WithStrictHasMore — включает корректный расчёт HasMore по total_count.
func WithStrictHasMore() OrdersOption {
	return func(c *ordersConfig) { c.strictHasMore = true }
}

func NewOrders(repo ports.OrderRepository, log ports.Logger, notify ports.Notifier, opts ...OrdersOption) *Orders {
	cfg := ordersConfig{clock: time.Now, ttl: profileTTL, pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Orders{
		repo:          repo,
		cache:         cache.New[[]*domain.Order]("orders", cfg.ttl, log, notify, cache.WithClock[[]*domain.Order](cfg.clock)),
		log:           log,
		pageSize:      cfg.pageSize,
		strictHasMore: cfg.strictHasMore,
		held:          make(map[string][]*domain.Order),
		totals:        make(map[string]int),
	}
}

func pageKey(userID string, page int) string {
	return fmt.Sprintf("user:%s:page:%d", userID, page)
}

// Page — страница заказов пользователя. На странице 0 параллельно
// выполняется лёгкий запрос общего количества. При appendTo страница
// доклеивается к накопленной коллекции (инфинит-скролл), иначе коллекция
// начинается заново с этой страницы.
func (o *Orders) Page(ctx context.Context, userID string, page int, appendTo bool) (domain.OrderPage, error) {
	if page < 0 {
		page = 0
	}

	items, err := o.cache.Load(ctx, pageKey(userID, page), false, func(fctx context.Context) ([]*domain.Order, error) {
		return o.fetchPage(fctx, userID, page)
	})
	if err != nil {
		return domain.OrderPage{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if appendTo {
		// ретрай той же страницы не должен дублировать заказы в коллекции
		held := o.held[userID]
		seen := make(map[string]struct{}, len(held))
		for _, ord := range held {
			seen[ord.ID] = struct{}{}
		}
		for _, it := range items {
			if _, ok := seen[it.ID]; ok {
				continue
			}
			held = append(held, it)
		}
		o.held[userID] = held
	} else {
		o.held[userID] = append([]*domain.Order(nil), items...)
	}

	return domain.OrderPage{
		Items:       append([]*domain.Order(nil), o.held[userID]...),
		TotalCount:  o.totals[userID],
		HasMore:     o.hasMore(userID, page, len(items)),
		CurrentPage: page,
	}, nil
}

// fetchPage — страница из репозитория; на странице 0 — плюс количество.
func (o *Orders) fetchPage(ctx context.Context, userID string, page int) ([]*domain.Order, error) {
	var (
		items []*domain.Order
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = o.repo.ListByUser(gctx, userID, o.pageSize, page*o.pageSize)
		return err
	})
	if page == 0 {
		g.Go(func() error {
			var err error
			total, err = o.repo.CountByUser(gctx, userID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if page == 0 {
		o.mu.Lock()
		o.totals[userID] = total
		o.mu.Unlock()
	}
	return items, nil
}

// hasMore — приближение «последняя страница заполнена целиком».
// Известное ограничение: даёт true и для последней страницы, когда общее
// число заказов кратно размеру страницы. strictHasMore исправляет это по
// total_count и позиции страницы (не по накопленной коллекции: при прямом
// переходе на позднюю страницу без доклейки коллекция короче total).
// Вызывается под o.mu.
func (o *Orders) hasMore(userID string, page, returned int) bool {
	if o.strictHasMore {
		if total, ok := o.totals[userID]; ok {
			return page*o.pageSize+returned < total
		}
	}
	return returned == o.pageSize
}

// Cancel — отмена заказа, скоуп по (id, user_id) в самом запросе: чужой
// заказ не отменить даже зная его id. На успех — оптовый сброс кэша и
// перезагрузка коллекции вместо локальной правки: простота согласованности
// ценой отзывчивости.
func (o *Orders) Cancel(ctx context.Context, userID, orderID string) (domain.OrderPage, error) {
	if err := o.repo.Cancel(ctx, orderID, userID); err != nil {
		return domain.OrderPage{}, err
	}

	o.InvalidateUser(userID)
	return o.Page(ctx, userID, 0, false)
}

// InvalidateUser — оптовая инвалидация при смене пользователя/мутации.
func (o *Orders) InvalidateUser(userID string) {
	o.cache.InvalidateAll()
	o.mu.Lock()
	delete(o.held, userID)
	delete(o.totals, userID)
	o.mu.Unlock()
}

// InvalidateAll — сброс всего (выход из аккаунта, событие из Kafka).
func (o *Orders) InvalidateAll() {
	o.cache.InvalidateAll()
	o.mu.Lock()
	o.held = make(map[string][]*domain.Order)
	o.totals = make(map[string]int)
	o.mu.Unlock()
}
