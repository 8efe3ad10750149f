package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/velmark/shopfront/internal/cache"
	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
)

var _ ports.AddressManager = (*Addresses)(nil)

// Addresses — стор адресов доставки. Чтение через кэш, мутации по схеме
// «сервер первым»: сначала репозиторий, затем инвалидация и перечитывание.
// Никакого оптимистичного применения — вызывающий всегда видит состояние сервера.
type Addresses struct {
	repo  ports.AddressRepository
	cache *cache.Store[[]domain.Address]
	now   func() time.Time
}

type addressesConfig struct {
	clock func() time.Time
	ttl   time.Duration
}

type AddressesOption func(*addressesConfig)

func WithAddressesClock(now func() time.Time) AddressesOption {
	return func(c *addressesConfig) { c.clock = now }
}

func WithAddressesTTL(ttl time.Duration) AddressesOption {
	return func(c *addressesConfig) { c.ttl = ttl }
}

func NewAddresses(repo ports.AddressRepository, log ports.Logger, notify ports.Notifier, opts ...AddressesOption) *Addresses {
	cfg := addressesConfig{clock: time.Now, ttl: profileTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Addresses{
		repo:  repo,
		cache: cache.New[[]domain.Address]("addresses", cfg.ttl, log, notify, cache.WithClock[[]domain.Address](cfg.clock)),
		now:   cfg.clock,
	}
}

func addrKey(userID string) string { return "addr:" + userID }

func (a *Addresses) All(ctx context.Context, userID string) ([]domain.Address, error) {
	return a.cache.Load(ctx, addrKey(userID), false, func(fctx context.Context) ([]domain.Address, error) {
		return a.repo.ListByUser(fctx, userID)
	})
}

// Create — новый адрес; ошибка записи доходит до вызывающего всегда,
// в отличие от чтений с fallback.
func (a *Addresses) Create(ctx context.Context, addr *domain.Address) ([]domain.Address, error) {
	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}
	if addr.CreatedAt.IsZero() {
		addr.CreatedAt = a.now().UTC()
	}
	if err := a.repo.Create(ctx, addr); err != nil {
		return nil, err
	}
	return a.reload(ctx, addr.UserID)
}

func (a *Addresses) Update(ctx context.Context, addr *domain.Address) ([]domain.Address, error) {
	if err := a.repo.Update(ctx, addr); err != nil {
		return nil, err
	}
	return a.reload(ctx, addr.UserID)
}

func (a *Addresses) Delete(ctx context.Context, id, userID string) ([]domain.Address, error) {
	if err := a.repo.Delete(ctx, id, userID); err != nil {
		return nil, err
	}
	return a.reload(ctx, userID)
}

// reload — безусловная инвалидация плюс свежее чтение после мутации.
func (a *Addresses) reload(ctx context.Context, userID string) ([]domain.Address, error) {
	a.cache.Invalidate(addrKey(userID))
	return a.cache.Load(ctx, addrKey(userID), true, func(fctx context.Context) ([]domain.Address, error) {
		return a.repo.ListByUser(fctx, userID)
	})
}

// Invalidate — сброс кэша адресов пользователя.
func (a *Addresses) Invalidate(userID string) {
	a.cache.Invalidate(addrKey(userID))
}
