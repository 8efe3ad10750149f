package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velmark/shopfront/internal/domain"
)

type fakeAddressRepo struct {
	mu        sync.Mutex
	byUser    map[string][]domain.Address
	listCalls int
	writeErr  error
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{byUser: make(map[string][]domain.Address)}
}

func (r *fakeAddressRepo) ListByUser(_ context.Context, userID string) ([]domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	return append([]domain.Address(nil), r.byUser[userID]...), nil
}

func (r *fakeAddressRepo) Create(_ context.Context, a *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.byUser[a.UserID] = append(r.byUser[a.UserID], *a)
	return nil
}

func (r *fakeAddressRepo) Update(_ context.Context, a *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	list := r.byUser[a.UserID]
	for i := range list {
		if list[i].ID == a.ID {
			list[i] = *a
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAddressRepo) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	list := r.byUser[userID]
	for i := range list {
		if list[i].ID == id {
			r.byUser[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAddressRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls
}

func TestAddresses_AllCached(t *testing.T) {
	repo := newFakeAddressRepo()
	repo.byUser["u1"] = []domain.Address{{ID: "a1", UserID: "u1", City: "Казань"}}
	a := NewAddresses(repo, nopLog{}, nopNotify{})
	ctx := context.Background()

	first, err := a.All(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = a.All(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls())

	// разные пользователи — разные ключи
	other, err := a.All(ctx, "u2")
	require.NoError(t, err)
	require.Empty(t, other)
	require.Equal(t, 2, repo.calls())
}

func TestAddresses_CreateReloads(t *testing.T) {
	repo := newFakeAddressRepo()
	a := NewAddresses(repo, nopLog{}, nopNotify{})
	ctx := context.Background()

	_, err := a.All(ctx, "u1")
	require.NoError(t, err)

	list, err := a.Create(ctx, &domain.Address{ID: "a1", UserID: "u1", Recipient: "Мария"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Мария", list[0].Recipient)

	// после мутации кэш содержит свежую копию
	again, err := a.All(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, list, again)
}

func TestAddresses_WriteErrorPropagates(t *testing.T) {
	repo := newFakeAddressRepo()
	repo.byUser["u1"] = []domain.Address{{ID: "a1", UserID: "u1"}}
	a := NewAddresses(repo, nopLog{}, nopNotify{})
	ctx := context.Background()

	_, err := a.All(ctx, "u1")
	require.NoError(t, err)
	before := repo.calls()

	boom := errors.New("insert failed")
	repo.mu.Lock()
	repo.writeErr = boom
	repo.mu.Unlock()

	_, err = a.Create(ctx, &domain.Address{ID: "a2", UserID: "u1"})
	require.ErrorIs(t, err, boom)
	// неудачная запись не инвалидирует и не перечитывает
	require.Equal(t, before, repo.calls())
}

func TestAddresses_UpdateAndDelete(t *testing.T) {
	repo := newFakeAddressRepo()
	repo.byUser["u1"] = []domain.Address{
		{ID: "a1", UserID: "u1", City: "Москва"},
		{ID: "a2", UserID: "u1", City: "Тверь"},
	}
	a := NewAddresses(repo, nopLog{}, nopNotify{})
	ctx := context.Background()

	list, err := a.Update(ctx, &domain.Address{ID: "a1", UserID: "u1", City: "Сочи"})
	require.NoError(t, err)
	require.Equal(t, "Сочи", list[0].City)

	list, err = a.Delete(ctx, "a2", "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	// чужой адрес не удалить
	_, err = a.Delete(ctx, "a1", "u2")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
