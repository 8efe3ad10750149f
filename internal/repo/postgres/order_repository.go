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

var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository — заказы на Postgres (pgxpool).
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

// Create — транзакционно сохраняет заказ вместе с позициями.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order == nil || order.ID == "" {
		return errors.New("order is empty or id is required")
	}
	if order.UserID == "" {
		return errors.New("user_id is required")
	}

	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	if _, err = transaction.Exec(ctx, `
		INSERT INTO orders (
			id, order_number, user_id, status, total_amount,
			payment_method, payment_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		order.ID, order.OrderNumber, order.UserID, order.Status, order.TotalAmount,
		order.PaymentMethod, order.PaymentStatus, order.CreatedAt,
	); err != nil {
		return asConflict(fmt.Errorf("insert order: %w", err))
	}

	if len(order.Items) > 0 {
		if err = copyOrderItems(ctx, transaction, order.ID, order.Items); err != nil {
			return err
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// copyOrderItems — массовая вставка позиций через CopyFrom.
func copyOrderItems(ctx context.Context, tx pgx.Tx, orderID string, items []domain.OrderItem) error {
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{
			orderID, it.ProductID, it.Name, it.Price, it.Quantity, it.Color, it.Size,
		})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_id", "product_id", "name", "price", "quantity", "color", "size"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy order items: %w", err)
	}
	return nil
}

const orderColumns = `
	id, order_number, user_id, status, total_amount,
	payment_method, payment_status, created_at`

// GetByID — точечное чтение с позициями. (nil, nil), если записи нет.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.pool.QueryRow(ctx, `
		SELECT`+orderColumns+`
		FROM orders WHERE id = $1
	`, id).Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &order.Status, &order.TotalAmount,
		&order.PaymentMethod, &order.PaymentStatus, &order.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}

	itemsByOrder, err := r.itemsFor(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = itemsByOrder[order.ID]
	return &order, nil
}

// ListByUser — страница заказов пользователя, свежие первыми.
// Два запроса на страницу: база заказов + позиции одним ANY по всем id.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select user orders: %w", err)
	}
	defer rows.Close()

	orders, byID, ids, err := scanOrderRows(rows, limit)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil // пустая страница
	}

	itemsByOrder, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, items := range itemsByOrder {
		if order := byID[id]; order != nil {
			order.Items = items
		}
	}
	return orders, nil
}

// CountByUser — лёгкий запрос для total_count первой страницы.
func (r *OrderRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count user orders: %w", err)
	}
	return n, nil
}

// Cancel — отмена, скоуп по (id, user_id) в самом UPDATE: чужой заказ
// не отменить. Ноль затронутых строк → domain.ErrNotFound.
func (r *OrderRepository) Cancel(ctx context.Context, orderID, userID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = $3
		WHERE id = $1 AND user_id = $2
	`, orderID, userID, domain.StatusCancelled)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus — выставить статус без проверки легальности перехода.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdminList — страница всех заказов с фильтром по статусу и сортировкой,
// плюс общее число под тот же фильтр.
func (r *OrderRepository) AdminList(ctx context.Context, f ports.AdminOrderFilter) ([]*domain.Order, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{limit, offset}
	if f.Status != "" {
		where = "WHERE status = $3"
		args = append(args, f.Status)
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT`+orderColumns+`
		FROM orders
		%s
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`, where, adminOrderBy(f)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select admin orders: %w", err)
	}
	defer rows.Close()

	orders, byID, ids, err := scanOrderRows(rows, limit)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if f.Status != "" {
		err = r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM orders WHERE status = $1`, f.Status).Scan(&total)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("count admin orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, total, nil
	}

	itemsByOrder, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for id, items := range itemsByOrder {
		if order := byID[id]; order != nil {
			order.Items = items
		}
	}
	return orders, total, nil
}

// adminOrderBy — белый список сортировок; сырой ввод в ORDER BY не попадает.
func adminOrderBy(f ports.AdminOrderFilter) string {
	col := "created_at"
	if f.SortBy == "total_amount" {
		col = "total_amount"
	}
	dir := "DESC"
	if f.SortDir == "asc" {
		dir = "ASC"
	}
	return col + " " + dir + ", id DESC"
}

// Stats — агрегат для дашборда: всего, по статусам, выручка доставленных.
func (r *OrderRepository) Stats(ctx context.Context) (domain.OrderStats, error) {
	stats := domain.OrderStats{ByStatus: make(map[domain.Status]int)}

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*),
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'delivered'), 0)
		FROM orders
		GROUP BY status
	`)
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("select order stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status  domain.Status
			count   int
			revenue int64
		)
		if err := rows.Scan(&status, &count, &revenue); err != nil {
			return domain.OrderStats{}, fmt.Errorf("scan order stats: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
		stats.Revenue += revenue
	}
	if err := rows.Err(); err != nil {
		return domain.OrderStats{}, fmt.Errorf("order stats rows: %w", err)
	}
	return stats, nil
}

// itemsFor — позиции всех заказов страницы одним запросом.
func (r *OrderRepository) itemsFor(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT order_id, product_id, name, price, quantity, color, size
		FROM order_items
		WHERE order_id = ANY($1::text[])
		ORDER BY id
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID string
			item    domain.OrderItem
		)
		if err := rows.Scan(
			&orderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Color, &item.Size,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		byOrder[orderID] = append(byOrder[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order items rows: %w", err)
	}
	return byOrder, nil
}

func scanOrderRows(rows pgx.Rows, capHint int) ([]*domain.Order, map[string]*domain.Order, []string, error) {
	orders := make([]*domain.Order, 0, capHint)
	byID := make(map[string]*domain.Order, capHint)
	ids := make([]string, 0, capHint)

	for rows.Next() {
		order := &domain.Order{}
		if err := rows.Scan(
			&order.ID, &order.OrderNumber, &order.UserID, &order.Status, &order.TotalAmount,
			&order.PaymentMethod, &order.PaymentStatus, &order.CreatedAt,
		); err != nil {
			return nil, nil, nil, fmt.Errorf("scan order base: %w", err)
		}
		orders = append(orders, order)
		byID[order.ID] = order
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("orders rows: %w", err)
	}
	return orders, byID, ids, nil
}
