// Пакет store — доменные сторы поверх общего кэша: каталог товаров,
// заказы и адреса профиля. Стор владеет ключами и производными индексами,
// репозиторий — только источником данных.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/velmark/shopfront/internal/cache"
	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
)

// catalogTTL — каталог меняется редко, держим дольше профиля.
const catalogTTL = 10 * time.Minute

const catalogKey = "catalog"

var _ ports.CatalogReader = (*Products)(nil)

// Products — стор каталога: одна ячейка на весь каталог плюс производные
// индексы (список категорий, id → товар), пересобираемые на каждом успешном фетче.
type Products struct {
	repo  ports.ProductRepository
	cache *cache.Store[[]domain.Product]
	log   ports.Logger

	mu         sync.Mutex
	categories []string
	byID       map[string]*domain.Product
	cancelPrev context.CancelFunc
}

// ProductsOption — настройка стора (часы пробрасываются в кэш).
type ProductsOption func(*productsConfig)

type productsConfig struct {
	clock func() time.Time
	ttl   time.Duration
}

func WithProductsClock(now func() time.Time) ProductsOption {
	return func(c *productsConfig) { c.clock = now }
}

func WithProductsTTL(ttl time.Duration) ProductsOption {
	return func(c *productsConfig) { c.ttl = ttl }
}

func NewProducts(repo ports.ProductRepository, log ports.Logger, notify ports.Notifier, opts ...ProductsOption) *Products {
	cfg := productsConfig{clock: time.Now, ttl: catalogTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Products{
		repo:  repo,
		cache: cache.New[[]domain.Product]("products", cfg.ttl, log, notify, cache.WithClock[[]domain.Product](cfg.clock)),
		log:   log,
		byID:  make(map[string]*domain.Product),
	}
}

// All — каталог целиком: из кэша при валидной ячейке, иначе один
// коалесцированный фетч. forceRefresh пропускает TTL.
func (p *Products) All(ctx context.Context, forceRefresh bool) ([]domain.Product, error) {
	return p.cache.Load(ctx, catalogKey, forceRefresh, p.fetch)
}

// fetch — обращение к репозиторию + пересборка производных индексов.
// Контекст фетча отменяемый и запоминается: Refresh снимает им предыдущий
// незавершённый фетч, в том числе начатый через All. Индексы обновляются
// только на успешном фетче: при деградации на устаревшую копию они
// соответствуют именно ей.
func (p *Products) fetch(ctx context.Context) ([]domain.Product, error) {
	fctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancelPrev = cancel
	p.mu.Unlock()
	defer cancel()

	list, err := p.repo.List(fctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Product, len(list))
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for i := range list {
		prod := &list[i]
		byID[prod.ID] = prod
		if prod.Category == "" {
			continue
		}
		if _, ok := seen[prod.Category]; !ok {
			seen[prod.Category] = struct{}{}
			categories = append(categories, prod.Category)
		}
	}
	sort.Strings(categories)

	p.mu.Lock()
	p.categories = categories
	p.byID = byID
	p.mu.Unlock()

	return list, nil
}

// Categories — отсортированный список различных категорий каталога.
func (p *Products) Categories(ctx context.Context) ([]string, error) {
	if _, err := p.All(ctx, false); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.categories...), nil
}

// ByCategory — трёхступенчатый поиск: точное совпадение → без учёта
// регистра → подстрока в любую сторону. Имена категорий — свободный текст,
// в исторических данных регистр и форма числа неконсистентны, поэтому
// поздние, более щедрые ступени не должны перекрывать точное совпадение.
func (p *Products) ByCategory(ctx context.Context, name string) ([]domain.Product, error) {
	all, err := p.All(ctx, false)
	if err != nil {
		return nil, err
	}

	// 1: точное совпадение
	exact := filterProducts(all, func(prod *domain.Product) bool {
		return prod.Category == name
	})
	if len(exact) > 0 {
		return exact, nil
	}

	// 2: без учёта регистра
	folded := filterProducts(all, func(prod *domain.Product) bool {
		return strings.EqualFold(prod.Category, name)
	})
	if len(folded) > 0 {
		return folded, nil
	}

	// 3: подстрока в любую сторону ("T-Shirts" ~ "shirt")
	needle := strings.ToLower(name)
	return filterProducts(all, func(prod *domain.Product) bool {
		hay := strings.ToLower(prod.Category)
		return hay != "" && (strings.Contains(hay, needle) || strings.Contains(needle, hay))
	}), nil
}

// ByID — точечный доступ по индексу. (nil, nil), если товара нет.
func (p *Products) ByID(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := p.All(ctx, false); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	prod, ok := p.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *prod
	return &cp, nil
}

// Refresh — принудительное обновление каталога независимо от TTL.
// Предыдущий незавершённый фетч отменяется; его очистка в реестре всё равно
// выполнится, после чего Load заходит на собственный фетч.
func (p *Products) Refresh(ctx context.Context) ([]domain.Product, error) {
	p.mu.Lock()
	if p.cancelPrev != nil {
		p.cancelPrev()
	}
	p.mu.Unlock()

	return p.cache.Load(ctx, catalogKey, true, p.fetch)
}

// Invalidate — сброс кэша каталога (после админских мутаций товаров).
func (p *Products) Invalidate() {
	p.cache.InvalidateAll()
}

func filterProducts(list []domain.Product, keep func(*domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0)
	for i := range list {
		if keep(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}
