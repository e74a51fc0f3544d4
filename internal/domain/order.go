package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer's basket against a single restaurant. An order with a
// non-nil Transaction is checked out and its item set is frozen.
type Order struct {
	ID            string
	ForUser       string
	ForRestaurant string
	Items         []OrderItem
	Transaction   *Transaction
	CreatedAt     time.Time
}

// CheckedOut reports whether the order has been committed. Transaction
// existence is the sole signal; there is no separate status column.
func (o Order) CheckedOut() bool {
	return o.Transaction != nil
}

// OrderItem is one catalog item on an order. Price is a snapshot of the
// catalog price at add time, overwritten during checkout reconciliation.
type OrderItem struct {
	ID        string
	OrderID   string
	ItemID    string
	Quantity  int
	Price     decimal.Decimal
	CreatedAt time.Time
}

// Subtotal is price times quantity in exact decimal arithmetic.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
