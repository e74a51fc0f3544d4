package postgres

import (
	"context"
	"fmt"

	"github.com/Table-Side/Order/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, for_user, for_restaurant, created_at)
VALUES ($1, $2, $3, $4)`

	_, err := r.exec(ctx, stmt, order.ID, order.ForUser, order.ForRestaurant, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetOrder loads the order with its items (in insertion order) and its
// transaction, if any.
func (r *Repository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, for_user, for_restaurant, created_at
FROM orders
WHERE id = $1`

	var o domain.Order
	err := r.queryRow(ctx, query, orderID).
		Scan(&o.ID, &o.ForUser, &o.ForRestaurant, &o.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	if o.Items, err = r.ListOrderItems(ctx, orderID); err != nil {
		return domain.Order{}, err
	}
	if o.Transaction, err = r.FindTransactionByOrderID(ctx, orderID); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// GetOrderForUpdate locks the order row for the duration of the surrounding
// transaction. It returns the bare row without items or transaction.
func (r *Repository) GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, for_user, for_restaurant, created_at
FROM orders
WHERE id = $1
FOR UPDATE`

	var o domain.Order
	err := r.queryRow(ctx, query, orderID).
		Scan(&o.ID, &o.ForUser, &o.ForRestaurant, &o.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order for update: %w", err)
	}
	return o, nil
}

// ListOrdersForUser returns the user's orders, partitioned by transaction
// existence: checkedOut=false gives open orders, true gives history.
func (r *Repository) ListOrdersForUser(ctx context.Context, userID string, checkedOut bool) ([]domain.Order, error) {
	query := `
SELECT id, for_user, for_restaurant, created_at
FROM orders
WHERE for_user = $1
  AND NOT EXISTS (SELECT 1 FROM transactions t WHERE t.order_id = orders.id)
ORDER BY created_at DESC`
	if checkedOut {
		query = `
SELECT id, for_user, for_restaurant, created_at
FROM orders
WHERE for_user = $1
  AND EXISTS (SELECT 1 FROM transactions t WHERE t.order_id = orders.id)
ORDER BY created_at DESC`
	}

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.ForUser, &o.ForRestaurant, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	for i := range orders {
		if orders[i].Items, err = r.ListOrderItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
		if orders[i].Transaction, err = r.FindTransactionByOrderID(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// DeleteOrder removes the order; its items go with it by cascade.
func (r *Repository) DeleteOrder(ctx context.Context, orderID string) error {
	const stmt = `DELETE FROM orders WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
