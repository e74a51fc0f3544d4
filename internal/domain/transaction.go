package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DispatchStatus string

const (
	// DispatchPending is set when the transaction row is created, before the
	// kitchen has acknowledged the order. A crash leaves the row pending; the
	// recovery sweep compensates it after a cutoff.
	DispatchPending DispatchStatus = "pending"
	// DispatchConfirmed means the kitchen accepted the order. Terminal.
	DispatchConfirmed DispatchStatus = "confirmed"
)

// Transaction is the financial record created by checkout. Exactly one per
// order, enforced by a unique constraint on order_id. Amount is always
// computed from the reconciled item set, never caller-supplied.
type Transaction struct {
	ID             string
	OrderID        string
	Amount         decimal.Decimal
	Currency       string
	DispatchStatus DispatchStatus
	CreatedAt      time.Time
}
