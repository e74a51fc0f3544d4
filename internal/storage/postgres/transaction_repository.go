package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Table-Side/Order/internal/domain"
	"github.com/jackc/pgx/v5"
)

// FindTransactionByOrderID returns nil without error when the order has no
// transaction; absence means the order is open.
func (r *Repository) FindTransactionByOrderID(ctx context.Context, orderID string) (*domain.Transaction, error) {
	const query = `
SELECT id, order_id, amount, currency, dispatch_status, created_at
FROM transactions
WHERE order_id = $1`

	var t domain.Transaction
	err := r.queryRow(ctx, query, orderID).
		Scan(&t.ID, &t.OrderID, &t.Amount, &t.Currency, &t.DispatchStatus, &t.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return &t, nil
}

// CreateTransaction inserts the transaction row. The unique constraint on
// order_id makes concurrent checkouts resolve to exactly one winner; the
// loser gets domain.ErrAlreadyCheckedOut.
func (r *Repository) CreateTransaction(ctx context.Context, txn domain.Transaction) error {
	const stmt = `
INSERT INTO transactions (id, order_id, amount, currency, dispatch_status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt, txn.ID, txn.OrderID, txn.Amount, txn.Currency, txn.DispatchStatus, txn.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyCheckedOut
		}
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *Repository) ConfirmTransactionDispatch(ctx context.Context, txnID string) error {
	const stmt = `UPDATE transactions SET dispatch_status = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, txnID, domain.DispatchConfirmed)
	if err != nil {
		return fmt.Errorf("confirm transaction dispatch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("confirm transaction dispatch: transaction %s not found", txnID)
	}
	return nil
}

// DeleteTransaction is the compensation step; it returns the owning order
// to Open.
func (r *Repository) DeleteTransaction(ctx context.Context, txnID string) error {
	const stmt = `DELETE FROM transactions WHERE id = $1`

	tag, err := r.exec(ctx, stmt, txnID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete transaction: transaction %s not found", txnID)
	}
	return nil
}

// ListStalePendingTransactions returns pending transactions created before
// the cutoff, oldest first. These are checkout attempts that died between
// commit and dispatch confirmation.
func (r *Repository) ListStalePendingTransactions(ctx context.Context, before time.Time) ([]domain.Transaction, error) {
	const query = `
SELECT id, order_id, amount, currency, dispatch_status, created_at
FROM transactions
WHERE dispatch_status = $1 AND created_at < $2
ORDER BY created_at`

	rows, err := r.query(ctx, query, domain.DispatchPending, before)
	if err != nil {
		return nil, fmt.Errorf("list stale pending transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.OrderID, &t.Amount, &t.Currency, &t.DispatchStatus, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stale pending transactions: %w", err)
	}
	return txns, nil
}
