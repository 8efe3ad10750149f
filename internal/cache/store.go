// Пакет cache — общий read-through кэш доменных сторов: ячейки с TTL,
// реестр in-flight запросов (N одновременных обращений к одному ключу —
// один фактический фетч) и деградация на устаревшие данные при недоступном
// источнике. Один дженерик вместо трёх рукописных копий паттерна.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/velmark/shopfront/internal/ports"
	"github.com/velmark/shopfront/pkg/metrics"
)

// ErrUnavailable — источник недоступен и запасной (устаревшей) копии нет.
// Текст после двоеточия пригоден для показа пользователю.
var ErrUnavailable = errors.New("data source unavailable")

// FetchFunc — фактическое обращение к источнику данных.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// cell — одна ячейка кэша: данные и момент последнего успешного фетча.
// Заменяется целиком, частичных записей нет.
type cell[T any] struct {
	data      T
	fetchedAt time.Time
}

// call — in-flight запрос. Все коалесцированные ожидающие читают val/err
// только после закрытия done.
type call[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Store — ячейки TTL + реестр in-flight запросов для одного домена данных.
// Потокобезопасен; зависимостями (часы, TTL, нотификатор) управляет вызывающий.
type Store[T any] struct {
	name string
	ttl  time.Duration
	now  func() time.Time

	mu     sync.Mutex
	cells  map[string]cell[T]
	flight map[string]*call[T]

	log    ports.Logger
	notify ports.Notifier
}

// Option — настройка стора.
type Option[T any] func(*Store[T])

// WithClock — подмена источника времени (тесты TTL без time.Sleep).
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) { s.now = now }
}

// New — стор с именем (метка метрик) и TTL. ttl <= 0 — записи не устаревают.
func New[T any](name string, ttl time.Duration, log ports.Logger, notify ports.Notifier, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		name:   name,
		ttl:    ttl,
		now:    time.Now,
		cells:  make(map[string]cell[T]),
		flight: make(map[string]*call[T]),
		log:    log,
		notify: notify,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get — данные из валидной ячейки; (zero, false) при отсутствии или
// истечении TTL. Чтение кэша никогда не ошибается.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cells[key]
	if !ok || !s.valid(c) {
		var zero T
		return zero, false
	}
	return c.data, true
}

// Load — основной цикл: валидная ячейка → синхронный ответ; иначе
// присоединяемся к in-flight запросу либо регистрируем свой и фетчим.
// forceRefresh пропускает проверку ячейки и всегда делает собственный фетч
// (дождавшись завершения чужого, чтобы не дублировать обращения к источнику).
func (s *Store[T]) Load(ctx context.Context, key string, forceRefresh bool, fetch FetchFunc[T]) (T, error) {
	for {
		s.mu.Lock()

		if !forceRefresh {
			if c, ok := s.cells[key]; ok && s.valid(c) {
				s.mu.Unlock()
				metrics.CacheOps.WithLabelValues(s.name, "hit").Inc()
				return c.data, nil
			}
		}

		if fl, ok := s.flight[key]; ok {
			s.mu.Unlock()
			if !forceRefresh {
				// Доверяем in-flight результату: не перепроверяем ячейку,
				// не оборачиваем повторно.
				metrics.CacheOps.WithLabelValues(s.name, "coalesced").Inc()
				select {
				case <-fl.done:
					return fl.val, fl.err
				case <-ctx.Done():
					var zero T
					return zero, ctx.Err()
				}
			}
			// Принудительное обновление: дожидаемся чужого запроса и
			// заходим на новый круг за собственным фетчем.
			select {
			case <-fl.done:
			case <-ctx.Done():
				var zero T
				return zero, ctx.Err()
			}
			continue
		}

		// Регистрируем in-flight синхронно, до первой точки ожидания:
		// окно гонки между «ячейка устарела» и «фетч завершён» закрыто.
		fl := &call[T]{done: make(chan struct{})}
		s.flight[key] = fl
		s.mu.Unlock()

		fl.val, fl.err = s.fetchInto(ctx, key, fetch)
		close(fl.done)
		return fl.val, fl.err
	}
}

// fetchInto — фетч с записью в ячейку при успехе и откатом на устаревшие
// данные при ошибке. Запись в реестр снимается на любом исходе до того,
// как проснутся ожидающие.
func (s *Store[T]) fetchInto(ctx context.Context, key string, fetch FetchFunc[T]) (T, error) {
	defer func() {
		s.mu.Lock()
		delete(s.flight, key)
		s.mu.Unlock()
	}()

	data, err := fetch(ctx)
	if err == nil {
		s.mu.Lock()
		s.cells[key] = cell[T]{data: data, fetchedAt: s.now()}
		size := len(s.cells)
		s.mu.Unlock()

		metrics.CacheOps.WithLabelValues(s.name, "miss").Inc()
		metrics.CacheSize.WithLabelValues(s.name).Set(float64(size))
		return data, nil
	}

	// Ошибка источника: любая существующая ячейка (даже просроченная) —
	// запасной вариант. Отметку времени не трогаем, чтобы не продлевать
	// жизнь данным, которые реально не обновились.
	s.mu.Lock()
	prev, ok := s.cells[key]
	s.mu.Unlock()

	if ok {
		metrics.CacheOps.WithLabelValues(s.name, "stale_fallback").Inc()
		s.log.Warnf(ctx, "%s: fetch failed key=%s, serving stale copy: %v", s.name, key, err)
		s.notify.Notify(ctx, ports.NotifyError, "Данные могли устареть: источник временно недоступен")
		return prev.data, nil
	}

	s.notify.Notify(ctx, ports.NotifyError, "Не удалось загрузить данные, попробуйте позже")
	var zero T
	return zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Invalidate — удалить ячейку ключа.
func (s *Store[T]) Invalidate(key string) {
	s.mu.Lock()
	delete(s.cells, key)
	size := len(s.cells)
	s.mu.Unlock()

	metrics.CacheOps.WithLabelValues(s.name, "invalidated").Inc()
	metrics.CacheSize.WithLabelValues(s.name).Set(float64(size))
}

// InvalidateAll — оптовый сброс (смена пользователя, мутация коллекции).
func (s *Store[T]) InvalidateAll() {
	s.mu.Lock()
	s.cells = make(map[string]cell[T])
	s.mu.Unlock()

	metrics.CacheOps.WithLabelValues(s.name, "invalidated").Inc()
	metrics.CacheSize.WithLabelValues(s.name).Set(0)
}

// InFlight — есть ли незавершённый запрос по ключу. Инвариант: после
// завершения любого цикла Load (успех или ошибка) — false.
func (s *Store[T]) InFlight(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.flight[key]
	return ok
}

// Len — число ячеек (включая просроченные, их выметает только перезапись
// или инвалидация: LRU и фоновой уборки в этом кэше нет).
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cells)
}

func (s *Store[T]) valid(c cell[T]) bool {
	if s.ttl <= 0 {
		return true
	}
	return s.now().Sub(c.fetchedAt) < s.ttl
}
