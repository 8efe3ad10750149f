//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
	pgrepo "github.com/velmark/shopfront/internal/repo/postgres"
	"github.com/velmark/shopfront/internal/testutil"
)

// поднимает контейнер, применяет миграции и отдаёт пул + контекст на операции
func newPGEnv(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()

	// длинный контекст — только на подъём контейнера
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancelStart)

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })

	// миграции
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	// короткий контекст — на сами БД-операции
	ctxTest, cancelTest := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancelTest)

	pool, err := pgxpool.New(ctxTest, pg.DSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool, ctxTest
}

// 1) Сохранение и получение заказа вместе с позициями
func TestOrderRepo_CreateAndGet_TC(t *testing.T) {
	t.Parallel()

	pool, ctx := newPGEnv(t)
	repo := pgrepo.NewOrderRepository(pool)

	ord := testutil.MakeOrder(testutil.WithOrderItems(3))
	require.NoError(t, repo.Create(ctx, &ord))

	got, err := repo.GetByID(ctx, ord.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, ord.OrderNumber, got.OrderNumber)
	require.Equal(t, ord.TotalAmount, got.TotalAmount)
	require.Len(t, got.Items, 3)
	require.Equal(t, "Item 1", got.Items[0].Name)

	// отсутствующий id — (nil, nil)
	missing, err := repo.GetByID(ctx, "no-such-order")
	require.NoError(t, err)
	require.Nil(t, missing)
}

// 2) Постраничное чтение и счётчик по пользователю
func TestOrderRepo_ListAndCountByUser_TC(t *testing.T) {
	t.Parallel()

	pool, ctx := newPGEnv(t)
	repo := pgrepo.NewOrderRepository(pool)

	const user = "user-paging"
	base := time.Now().UTC().Truncate(time.Second).Add(-time.Hour)
	for i := 0; i < 5; i++ {
		ord := testutil.MakeOrder(
			testutil.WithUser(user),
			testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Minute)),
		)
		require.NoError(t, repo.Create(ctx, &ord))
	}
	// чужой заказ не должен попасть в выборку
	other := testutil.MakeOrder(testutil.WithUser("someone-else"))
	require.NoError(t, repo.Create(ctx, &other))

	total, err := repo.CountByUser(ctx, user)
	require.NoError(t, err)
	require.Equal(t, 5, total)

	page, err := repo.ListByUser(ctx, user, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	// сортировка — новые первыми
	require.True(t, page[0].CreatedAt.After(page[1].CreatedAt) || page[0].CreatedAt.Equal(page[1].CreatedAt))

	rest, err := repo.ListByUser(ctx, user, 10, 4)
	require.NoError(t, err)
	require.Len(t, rest, 1)
}

// 3) Cancel строго в паре (order_id, user_id)
func TestOrderRepo_CancelScoped_TC(t *testing.T) {
	t.Parallel()

	pool, ctx := newPGEnv(t)
	repo := pgrepo.NewOrderRepository(pool)

	ord := testutil.MakeOrder(testutil.WithUser("owner"))
	require.NoError(t, repo.Create(ctx, &ord))

	// чужой пользователь — ErrNotFound, статус не тронут
	err := repo.Cancel(ctx, ord.ID, "intruder")
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := repo.GetByID(ctx, ord.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, got.Status)

	// владелец — отменяет
	require.NoError(t, repo.Cancel(ctx, ord.ID, "owner"))
	got, err = repo.GetByID(ctx, ord.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, got.Status)
}

// 4) AdminList: фильтр по статусу, сортировка по сумме и общий счётчик
func TestOrderRepo_AdminListAndStats_TC(t *testing.T) {
	t.Parallel()

	pool, ctx := newPGEnv(t)
	repo := pgrepo.NewOrderRepository(pool)

	mk := func(st domain.Status, amount int64) {
		ord := testutil.MakeOrder(testutil.WithStatus(st))
		ord.TotalAmount = amount
		require.NoError(t, repo.Create(ctx, &ord))
	}
	mk(domain.StatusPending, 100)
	mk(domain.StatusDelivered, 300)
	mk(domain.StatusDelivered, 200)
	mk(domain.StatusShipped, 700)

	items, total, err := repo.AdminList(ctx, ports.AdminOrderFilter{
		Status:  domain.StatusDelivered,
		SortBy:  "total_amount",
		SortDir: "desc",
		Limit:   10,
	})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, items, 2)
	require.Equal(t, int64(300), items[0].TotalAmount)
	require.Equal(t, int64(200), items[1].TotalAmount)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, stats.Total)
	require.Equal(t, 2, stats.ByStatus[domain.StatusDelivered])
	// выручка считается только по доставленным
	require.Equal(t, int64(500), stats.Revenue)
}

// 5) UpdateStatus: произвольный валидный статус, отсутствующий заказ → ErrNotFound
func TestOrderRepo_UpdateStatus_TC(t *testing.T) {
	t.Parallel()

	pool, ctx := newPGEnv(t)
	repo := pgrepo.NewOrderRepository(pool)

	ord := testutil.MakeOrder()
	require.NoError(t, repo.Create(ctx, &ord))

	require.NoError(t, repo.UpdateStatus(ctx, ord.ID, domain.StatusShipped))
	got, err := repo.GetByID(ctx, ord.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, got.Status)

	err = repo.UpdateStatus(ctx, "no-such-order", domain.StatusShipped)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// 6) Дубликат SKU товара — ConflictError, который разворачивается в domain.ErrConflict
func TestProductRepo_ConflictOnSKU_TC(t *testing.T) {
	t.Parallel()

	pool, ctx := newPGEnv(t)
	repo := pgrepo.NewProductRepository(pool)

	p1 := testutil.MakeProduct(testutil.WithSKU("SKU-SAME"))
	require.NoError(t, repo.Create(ctx, &p1))

	p2 := testutil.MakeProduct(testutil.WithSKU("SKU-SAME"))
	err := repo.Create(ctx, &p2)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrConflict)

	var conflict *pgrepo.ConflictError
	require.True(t, errors.As(err, &conflict))
	require.NotEmpty(t, conflict.Detail)
}

// 7) Адреса: is_default=true снимает флаг с предыдущего адреса по умолчанию
func TestAddressRepo_DefaultFlagSwap_TC(t *testing.T) {
	t.Parallel()

	pool, ctx := newPGEnv(t)
	repo := pgrepo.NewAddressRepository(pool)

	const user = "user-addr"
	first := testutil.MakeAddress(user, testutil.AsDefault())
	require.NoError(t, repo.Create(ctx, &first))

	second := testutil.MakeAddress(user, testutil.AsDefault())
	require.NoError(t, repo.Create(ctx, &second))

	addrs, err := repo.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, addrs, 2)

	defaults := 0
	for _, a := range addrs {
		if a.IsDefault {
			defaults++
			require.Equal(t, second.ID, a.ID)
		}
	}
	require.Equal(t, 1, defaults)

	// удаление чужим пользователем — ErrNotFound
	err = repo.Delete(ctx, second.ID, "intruder")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
