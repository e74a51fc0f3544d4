package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Table-Side/Order/internal/clock"
	"github.com/Table-Side/Order/internal/domain"
	"github.com/shopspring/decimal"
)

// KitchenDispatcher sends a finalized order to the fulfillment service.
// Dispatch is not idempotent on the kitchen side, so it must only ever be
// called once per committed transaction.
type KitchenDispatcher interface {
	Dispatch(ctx context.Context, snapshot domain.OrderSnapshot) error
}

type CheckoutRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	FindTransactionByOrderID(ctx context.Context, orderID string) (*domain.Transaction, error)
	ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	UpdateOrderItemPrice(ctx context.Context, orderItemID string, price decimal.Decimal) error
	DeleteOrderItem(ctx context.Context, orderItemID string) error
	// CreateTransaction returns domain.ErrAlreadyCheckedOut when a
	// transaction already exists for the order; the unique constraint on
	// order_id is what serializes concurrent checkouts.
	CreateTransaction(ctx context.Context, txn domain.Transaction) error
	ConfirmTransactionDispatch(ctx context.Context, txnID string) error
	DeleteTransaction(ctx context.Context, txnID string) error
	ListStalePendingTransactions(ctx context.Context, before time.Time) ([]domain.Transaction, error)
}

// CheckoutService drives the checkout saga: reconcile prices against the
// catalog, commit a transaction, dispatch to the kitchen, and compensate by
// deleting the transaction when dispatch fails.
type CheckoutService struct {
	repo     CheckoutRepository
	catalog  CatalogResolver
	kitchen  KitchenDispatcher
	clock    clock.Clock
	logger   *slog.Logger
	currency string
}

const defaultCurrency = "GBP"

func NewCheckoutService(repo CheckoutRepository, catalog CatalogResolver, kitchen KitchenDispatcher, clk clock.Clock, logger *slog.Logger, opts ...CheckoutServiceOption) *CheckoutService {
	svc := &CheckoutService{
		repo:     repo,
		catalog:  catalog,
		kitchen:  kitchen,
		clock:    clk,
		logger:   logger,
		currency: defaultCurrency,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CheckoutServiceOption func(*CheckoutService)

// WithCurrency overrides the deployment currency recorded on transactions.
func WithCurrency(currency string) CheckoutServiceOption {
	return func(s *CheckoutService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// Checkout moves an order from Open to CheckedOut exactly once.
//
// Everything before CreateTransaction has no persisted side effect and is
// safe to retry. CreateTransaction is the point of no return: after it
// lands, a concurrent or retried call can only fail with
// ErrAlreadyCheckedOut, and only a failed dispatch (or the recovery sweep)
// removes the transaction again.
func (s *CheckoutService) Checkout(ctx context.Context, orderID, callerUserID string) (domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.ForUser != callerUserID {
		return domain.Order{}, domain.ErrNotOrderOwner
	}
	if order.CheckedOut() {
		return domain.Order{}, domain.ErrAlreadyCheckedOut
	}
	// An order with nothing on it is treated as nonexistent for checkout;
	// ErrEmptyOrder is reserved for a set emptied by reconciliation.
	if len(order.Items) == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	itemIDs := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		itemIDs = append(itemIDs, it.ItemID)
	}

	// One catalog call per checkout, before any mutation. A failure here
	// aborts with nothing written.
	resolved, err := s.catalog.ResolveItems(ctx, order.ForRestaurant, itemIDs)
	if err != nil {
		return domain.Order{}, err
	}
	byItemID := make(map[string]domain.CatalogItem, len(resolved))
	for _, it := range resolved {
		byItemID[it.ID] = it
	}

	var (
		txn      domain.Transaction
		snapshot domain.OrderSnapshot
	)
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetOrderForUpdate(txCtx, orderID); err != nil {
			return err
		}
		if existing, err := s.repo.FindTransactionByOrderID(txCtx, orderID); err != nil {
			return err
		} else if existing != nil {
			return domain.ErrAlreadyCheckedOut
		}

		// Re-read under the lock; the set may have changed since the
		// unlocked read. Items added since the catalog call keep their
		// add-time snapshot price.
		items, err := s.repo.ListOrderItems(txCtx, orderID)
		if err != nil {
			return err
		}

		survivors := make([]domain.OrderItem, 0, len(items))
		for _, item := range items {
			current, ok := byItemID[item.ItemID]
			if !ok {
				survivors = append(survivors, item)
				continue
			}
			if !current.IsAvailable {
				if err := s.repo.DeleteOrderItem(txCtx, item.ID); err != nil {
					return err
				}
				continue
			}
			if !current.Price.Equal(item.Price) {
				if err := s.repo.UpdateOrderItemPrice(txCtx, item.ID, current.Price); err != nil {
					return err
				}
				item.Price = current.Price
			}
			survivors = append(survivors, item)
		}

		// Rolling back here also rolls back the reconciliation, leaving the
		// order exactly as the owner left it.
		if len(survivors) == 0 {
			return domain.ErrEmptyOrder
		}

		total := decimal.Zero
		snapshot = domain.OrderSnapshot{
			RestaurantID: order.ForRestaurant,
			OrderID:      orderID,
			UserID:       callerUserID,
		}
		for _, item := range survivors {
			total = total.Add(item.Subtotal())
			snapshot.Items = append(snapshot.Items, domain.SnapshotItem{
				ItemID:   item.ItemID,
				Quantity: item.Quantity,
			})
		}

		txn = domain.Transaction{
			ID:             newID(),
			OrderID:        orderID,
			Amount:         total,
			Currency:       s.currency,
			DispatchStatus: domain.DispatchPending,
			CreatedAt:      s.clock.Now(),
		}
		return s.repo.CreateTransaction(txCtx, txn)
	})
	if err != nil {
		return domain.Order{}, err
	}

	// The transaction is committed; a caller disconnect from here on must
	// not cancel the compensation or confirmation writes.
	postCommit := context.WithoutCancel(ctx)

	if err := s.kitchen.Dispatch(ctx, snapshot); err != nil {
		return domain.Order{}, s.compensate(postCommit, txn, err)
	}

	if err := s.repo.ConfirmTransactionDispatch(postCommit, txn.ID); err != nil {
		// The kitchen has the order, so compensating now would charge it
		// back while food is being made. Keep the success and make the
		// condition loud; the sweep cutoff gives an operator time to fix
		// the row before it is treated as abandoned.
		s.logger.Error("failed to confirm dispatch on transaction",
			"order_id", orderID, "transaction_id", txn.ID, "error", err)
	}

	completed, err := s.repo.GetOrder(postCommit, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	s.logger.Info("order checked out",
		"order_id", orderID, "transaction_id", txn.ID, "amount", txn.Amount.String(), "currency", txn.Currency)
	return completed, nil
}

// compensate deletes the transaction created by a checkout whose dispatch
// failed, returning the order to Open. The dispatch error is returned so the
// caller sees the upstream failure; a failed delete is surfaced as an
// orphaned transaction instead, which an operator must resolve.
func (s *CheckoutService) compensate(ctx context.Context, txn domain.Transaction, dispatchErr error) error {
	if err := s.repo.DeleteTransaction(ctx, txn.ID); err != nil {
		s.logger.Error("compensation failed, transaction orphaned",
			"order_id", txn.OrderID, "transaction_id", txn.ID, "error", err, "dispatch_error", dispatchErr)
		return fmt.Errorf("%w (order %s, transaction %s): %v", domain.ErrOrphanedTransaction, txn.OrderID, txn.ID, err)
	}
	s.logger.Warn("dispatch failed, transaction compensated",
		"order_id", txn.OrderID, "transaction_id", txn.ID, "error", dispatchErr)
	return dispatchErr
}

// CompensateStalePending deletes pending transactions older than the cutoff.
// A pending row past the cutoff means the process died between commit and
// dispatch confirmation, so the order is returned to Open and the owner can
// retry. Returns the number of transactions compensated.
func (s *CheckoutService) CompensateStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	before := s.clock.Now().Add(-olderThan)
	stale, err := s.repo.ListStalePendingTransactions(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("list stale pending transactions: %w", err)
	}

	compensated := 0
	for _, txn := range stale {
		if err := s.repo.DeleteTransaction(ctx, txn.ID); err != nil {
			s.logger.Error("sweep failed to compensate stale transaction",
				"order_id", txn.OrderID, "transaction_id", txn.ID, "error", err)
			continue
		}
		compensated++
		s.logger.Warn("sweep compensated stale pending transaction",
			"order_id", txn.OrderID, "transaction_id", txn.ID, "created_at", txn.CreatedAt)
	}
	return compensated, nil
}
