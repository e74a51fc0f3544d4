package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/Table-Side/Order/internal/domain"
	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore implements the repository interfaces of all three services over
// maps. WithTx snapshots state and restores it when fn fails, mirroring the
// rollback behavior the services rely on.
type fakeStore struct {
	orders map[string]domain.Order
	items  map[string]domain.OrderItem
	txns   map[string]domain.Transaction

	itemSeq map[string]int
	nextSeq int

	createTransactionErr error
	deleteTransactionErr error

	inTx bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:  make(map[string]domain.Order),
		items:   make(map[string]domain.OrderItem),
		txns:    make(map[string]domain.Transaction),
		itemSeq: make(map[string]int),
	}
}

func (f *fakeStore) addOrder(order domain.Order) {
	f.orders[order.ID] = order
}

func (f *fakeStore) addItem(item domain.OrderItem) {
	f.items[item.ID] = item
	f.itemSeq[item.ID] = f.nextSeq
	f.nextSeq++
}

func (f *fakeStore) addTransaction(txn domain.Transaction) {
	f.txns[txn.ID] = txn
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.inTx {
		return fn(ctx)
	}
	f.inTx = true
	defer func() { f.inTx = false }()

	orders := copyMap(f.orders)
	items := copyMap(f.items)
	txns := copyMap(f.txns)
	seqs := copyMap(f.itemSeq)

	if err := fn(ctx); err != nil {
		f.orders, f.items, f.txns, f.itemSeq = orders, items, txns, seqs
		return err
	}
	return nil
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (f *fakeStore) CreateOrder(_ context.Context, order domain.Order) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeStore) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	var err error
	if order.Items, err = f.ListOrderItems(ctx, orderID); err != nil {
		return domain.Order{}, err
	}
	if order.Transaction, err = f.FindTransactionByOrderID(ctx, orderID); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (f *fakeStore) GetOrderForUpdate(_ context.Context, orderID string) (domain.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeStore) ListOrdersForUser(ctx context.Context, userID string, checkedOut bool) ([]domain.Order, error) {
	out := make([]domain.Order, 0)
	for id, order := range f.orders {
		if order.ForUser != userID {
			continue
		}
		txn, _ := f.FindTransactionByOrderID(ctx, id)
		if (txn != nil) != checkedOut {
			continue
		}
		full, err := f.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, full)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) DeleteOrder(_ context.Context, orderID string) error {
	if _, ok := f.orders[orderID]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(f.orders, orderID)
	for id, item := range f.items {
		if item.OrderID == orderID {
			delete(f.items, id)
			delete(f.itemSeq, id)
		}
	}
	return nil
}

func (f *fakeStore) FindTransactionByOrderID(_ context.Context, orderID string) (*domain.Transaction, error) {
	for _, txn := range f.txns {
		if txn.OrderID == orderID {
			t := txn
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetOrderItem(_ context.Context, orderItemID string) (domain.OrderItem, error) {
	item, ok := f.items[orderItemID]
	if !ok {
		return domain.OrderItem{}, domain.ErrOrderItemNotFound
	}
	return item, nil
}

func (f *fakeStore) ListOrderItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0)
	for _, item := range f.items {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return f.itemSeq[items[i].ID] < f.itemSeq[items[j].ID] })
	return items, nil
}

func (f *fakeStore) CreateOrderItem(_ context.Context, item domain.OrderItem) error {
	for _, existing := range f.items {
		if existing.OrderID == item.OrderID && existing.ItemID == item.ItemID {
			return domain.ErrDuplicateItem
		}
	}
	f.addItem(item)
	return nil
}

func (f *fakeStore) UpdateOrderItemQuantity(_ context.Context, orderItemID string, quantity int) error {
	item, ok := f.items[orderItemID]
	if !ok {
		return domain.ErrOrderItemNotFound
	}
	item.Quantity = quantity
	f.items[orderItemID] = item
	return nil
}

func (f *fakeStore) UpdateOrderItemPrice(_ context.Context, orderItemID string, price decimal.Decimal) error {
	item, ok := f.items[orderItemID]
	if !ok {
		return domain.ErrOrderItemNotFound
	}
	item.Price = price
	f.items[orderItemID] = item
	return nil
}

func (f *fakeStore) DeleteOrderItem(_ context.Context, orderItemID string) error {
	if _, ok := f.items[orderItemID]; !ok {
		return domain.ErrOrderItemNotFound
	}
	delete(f.items, orderItemID)
	delete(f.itemSeq, orderItemID)
	return nil
}

func (f *fakeStore) CreateTransaction(_ context.Context, txn domain.Transaction) error {
	if f.createTransactionErr != nil {
		return f.createTransactionErr
	}
	// Emulates the unique constraint on order_id.
	for _, existing := range f.txns {
		if existing.OrderID == txn.OrderID {
			return domain.ErrAlreadyCheckedOut
		}
	}
	f.txns[txn.ID] = txn
	return nil
}

func (f *fakeStore) ConfirmTransactionDispatch(ctx context.Context, txnID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txn, ok := f.txns[txnID]
	if !ok {
		return errors.New("transaction not found")
	}
	txn.DispatchStatus = domain.DispatchConfirmed
	f.txns[txnID] = txn
	return nil
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, txnID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.deleteTransactionErr != nil {
		return f.deleteTransactionErr
	}
	if _, ok := f.txns[txnID]; !ok {
		return errors.New("transaction not found")
	}
	delete(f.txns, txnID)
	return nil
}

func (f *fakeStore) ListStalePendingTransactions(_ context.Context, before time.Time) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, 0)
	for _, txn := range f.txns {
		if txn.DispatchStatus == domain.DispatchPending && txn.CreatedAt.Before(before) {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeCatalog struct {
	items map[string]domain.CatalogItem
	err   error

	calls         int
	gotRestaurant string
	gotItemIDs    []string
}

func (f *fakeCatalog) ResolveItems(_ context.Context, restaurantID string, itemIDs []string) ([]domain.CatalogItem, error) {
	f.calls++
	f.gotRestaurant = restaurantID
	f.gotItemIDs = itemIDs
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.CatalogItem, 0, len(itemIDs))
	for _, id := range itemIDs {
		if item, ok := f.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeKitchen struct {
	err        error
	onDispatch func()

	calls        int
	lastSnapshot domain.OrderSnapshot
}

func (f *fakeKitchen) Dispatch(_ context.Context, snapshot domain.OrderSnapshot) error {
	f.calls++
	f.lastSnapshot = snapshot
	if f.onDispatch != nil {
		f.onDispatch()
	}
	return f.err
}
