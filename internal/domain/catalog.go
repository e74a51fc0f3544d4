package domain

import "github.com/shopspring/decimal"

// CatalogItem is the catalog service's view of a menu item, scoped to one
// restaurant.
type CatalogItem struct {
	ID          string
	Price       decimal.Decimal
	IsAvailable bool
}

// OrderSnapshot is the finalized order sent to the kitchen service at
// dispatch time.
type OrderSnapshot struct {
	RestaurantID string
	OrderID      string
	UserID       string
	Items        []SnapshotItem
}

type SnapshotItem struct {
	ItemID   string
	Quantity int
}
