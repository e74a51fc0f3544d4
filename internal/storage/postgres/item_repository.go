package postgres

import (
	"context"
	"fmt"

	"github.com/Table-Side/Order/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (r *Repository) GetOrderItem(ctx context.Context, orderItemID string) (domain.OrderItem, error) {
	const query = `
SELECT id, order_id, item_id, quantity, price, created_at
FROM order_items
WHERE id = $1`

	var it domain.OrderItem
	err := r.queryRow(ctx, query, orderItemID).
		Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Quantity, &it.Price, &it.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.OrderItem{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.OrderItem{}, domain.ErrOrderItemNotFound
		}
		return domain.OrderItem{}, fmt.Errorf("get order item: %w", err)
	}
	return it, nil
}

// ListOrderItems returns the order's items in insertion order.
func (r *Repository) ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const query = `
SELECT id, order_id, item_id, quantity, price, created_at
FROM order_items
WHERE order_id = $1
ORDER BY created_at, id`

	rows, err := r.query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Quantity, &it.Price, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}

func (r *Repository) CreateOrderItem(ctx context.Context, item domain.OrderItem) error {
	const stmt = `
INSERT INTO order_items (id, order_id, item_id, quantity, price, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt, item.ID, item.OrderID, item.ItemID, item.Quantity, item.Price, item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateItem
		}
		return fmt.Errorf("create order item: %w", err)
	}
	return nil
}

func (r *Repository) UpdateOrderItemQuantity(ctx context.Context, orderItemID string, quantity int) error {
	const stmt = `UPDATE order_items SET quantity = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderItemID, quantity)
	if err != nil {
		return fmt.Errorf("update order item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderItemNotFound
	}
	return nil
}

func (r *Repository) UpdateOrderItemPrice(ctx context.Context, orderItemID string, price decimal.Decimal) error {
	const stmt = `UPDATE order_items SET price = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderItemID, price)
	if err != nil {
		return fmt.Errorf("update order item price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderItemNotFound
	}
	return nil
}

func (r *Repository) DeleteOrderItem(ctx context.Context, orderItemID string) error {
	const stmt = `DELETE FROM order_items WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderItemID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderItemNotFound
	}
	return nil
}
