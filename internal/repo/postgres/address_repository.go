package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
)

var _ ports.AddressRepository = (*AddressRepository)(nil)

// AddressRepository — адреса доставки на Postgres (pgxpool).
// Все операции скоупятся по user_id на уровне запроса.
type AddressRepository struct {
	pool *pgxpool.Pool
}

func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

// ListByUser — адреса пользователя: дефолтный первым, далее свежие.
func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, recipient, phone, line1, line2,
			city, region, postal_code, is_default, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select addresses: %w", err)
	}
	defer rows.Close()

	addrs := make([]domain.Address, 0)
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Recipient, &a.Phone, &a.Line1, &a.Line2,
			&a.City, &a.Region, &a.PostalCode, &a.IsDefault, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addrs = append(addrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("addresses rows: %w", err)
	}
	return addrs, nil
}

// Create — вставка; is_default=true снимает флаг с прочих адресов
// пользователя в той же транзакции.
func (r *AddressRepository) Create(ctx context.Context, a *domain.Address) error {
	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	if a.IsDefault {
		if err := unsetDefault(ctx, transaction, a.UserID); err != nil {
			return err
		}
	}

	if _, err := transaction.Exec(ctx, `
		INSERT INTO addresses (
			id, user_id, recipient, phone, line1, line2,
			city, region, postal_code, is_default, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		a.ID, a.UserID, a.Recipient, a.Phone, a.Line1, a.Line2,
		a.City, a.Region, a.PostalCode, a.IsDefault, a.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert address: %w", err)
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Update — обновление; чужой или отсутствующий адрес → domain.ErrNotFound.
func (r *AddressRepository) Update(ctx context.Context, a *domain.Address) error {
	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	if a.IsDefault {
		if err := unsetDefault(ctx, transaction, a.UserID); err != nil {
			return err
		}
	}

	tag, err := transaction.Exec(ctx, `
		UPDATE addresses SET
			recipient = $3, phone = $4, line1 = $5, line2 = $6,
			city = $7, region = $8, postal_code = $9, is_default = $10
		WHERE id = $1 AND user_id = $2
	`,
		a.ID, a.UserID, a.Recipient, a.Phone, a.Line1, a.Line2,
		a.City, a.Region, a.PostalCode, a.IsDefault,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete — удаление; чужой или отсутствующий адрес → domain.ErrNotFound.
func (r *AddressRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func unsetDefault(ctx context.Context, tx pgx.Tx, userID string) error {
	if _, err := tx.Exec(ctx,
		`UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default`, userID); err != nil {
		return fmt.Errorf("unset default address: %w", err)
	}
	return nil
}
