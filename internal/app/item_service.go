package app

import (
	"context"

	"github.com/Table-Side/Order/internal/clock"
	"github.com/Table-Side/Order/internal/domain"
)

// CatalogResolver resolves item ids to current price and availability for a
// restaurant. The catalog is the only source of prices; callers never
// supply one.
type CatalogResolver interface {
	ResolveItems(ctx context.Context, restaurantID string, itemIDs []string) ([]domain.CatalogItem, error)
}

type ItemRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	FindTransactionByOrderID(ctx context.Context, orderID string) (*domain.Transaction, error)
	GetOrderItem(ctx context.Context, orderItemID string) (domain.OrderItem, error)
	// CreateOrderItem returns domain.ErrDuplicateItem when the order already
	// holds the same catalog item.
	CreateOrderItem(ctx context.Context, item domain.OrderItem) error
	UpdateOrderItemQuantity(ctx context.Context, orderItemID string, quantity int) error
	DeleteOrderItem(ctx context.Context, orderItemID string) error
}

// ItemService mutates the item set of open orders. Every mutation takes the
// order row lock and re-checks that no transaction exists, so a mutation can
// never interleave with a checkout commit.
type ItemService struct {
	repo    ItemRepository
	catalog CatalogResolver
	clock   clock.Clock
}

func NewItemService(repo ItemRepository, catalog CatalogResolver, clk clock.Clock) *ItemService {
	return &ItemService{
		repo:    repo,
		catalog: catalog,
		clock:   clk,
	}
}

// AddItem puts a catalog item on an open order with the catalog's current
// price. The item must belong to the order's restaurant and be available.
func (s *ItemService) AddItem(ctx context.Context, orderID, itemID string, quantity int) (domain.Order, error) {
	if quantity < 1 {
		return domain.Order{}, domain.ErrInvalidQuantity
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.CheckedOut() {
		return domain.Order{}, domain.ErrAlreadyCheckedOut
	}

	resolved, err := s.catalog.ResolveItems(ctx, order.ForRestaurant, []string{itemID})
	if err != nil {
		return domain.Order{}, err
	}
	var catalogItem *domain.CatalogItem
	for i := range resolved {
		if resolved[i].ID == itemID {
			catalogItem = &resolved[i]
			break
		}
	}
	if catalogItem == nil {
		return domain.Order{}, domain.ErrItemNotFound
	}
	if !catalogItem.IsAvailable {
		return domain.Order{}, domain.ErrItemUnavailable
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetOrderForUpdate(txCtx, orderID); err != nil {
			return err
		}
		// Re-check under the lock: a checkout may have committed since the
		// unlocked read above.
		txn, err := s.repo.FindTransactionByOrderID(txCtx, orderID)
		if err != nil {
			return err
		}
		if txn != nil {
			return domain.ErrAlreadyCheckedOut
		}
		return s.repo.CreateOrderItem(txCtx, domain.OrderItem{
			ID:        newID(),
			OrderID:   orderID,
			ItemID:    itemID,
			Quantity:  quantity,
			Price:     catalogItem.Price,
			CreatedAt: s.clock.Now(),
		})
	})
	if err != nil {
		return domain.Order{}, err
	}

	return s.repo.GetOrder(ctx, orderID)
}

// UpdateQuantity changes the quantity of an existing order item in place.
// It does not re-check the catalog price; that happens at checkout.
func (s *ItemService) UpdateQuantity(ctx context.Context, orderID, orderItemID string, quantity int) (domain.Order, error) {
	if quantity < 1 {
		return domain.Order{}, domain.ErrInvalidQuantity
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		item, err := s.repo.GetOrderItem(txCtx, orderItemID)
		if err != nil {
			return err
		}
		// The item must belong to the order the caller was authorized
		// against; an item id from another order does not exist here.
		if item.OrderID != orderID {
			return domain.ErrOrderItemNotFound
		}

		if _, err := s.repo.GetOrderForUpdate(txCtx, item.OrderID); err != nil {
			return err
		}
		txn, err := s.repo.FindTransactionByOrderID(txCtx, item.OrderID)
		if err != nil {
			return err
		}
		if txn != nil {
			return domain.ErrAlreadyCheckedOut
		}
		return s.repo.UpdateOrderItemQuantity(txCtx, orderItemID, quantity)
	})
	if err != nil {
		return domain.Order{}, err
	}

	return s.repo.GetOrder(ctx, orderID)
}

// RemoveItem deletes an order item. Removal is the only path that takes a
// quantity to zero.
func (s *ItemService) RemoveItem(ctx context.Context, orderID, orderItemID string) (domain.Order, error) {
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		item, err := s.repo.GetOrderItem(txCtx, orderItemID)
		if err != nil {
			return err
		}
		if item.OrderID != orderID {
			return domain.ErrOrderItemNotFound
		}

		if _, err := s.repo.GetOrderForUpdate(txCtx, item.OrderID); err != nil {
			return err
		}
		txn, err := s.repo.FindTransactionByOrderID(txCtx, item.OrderID)
		if err != nil {
			return err
		}
		if txn != nil {
			return domain.ErrAlreadyCheckedOut
		}
		return s.repo.DeleteOrderItem(txCtx, orderItemID)
	})
	if err != nil {
		return domain.Order{}, err
	}

	return s.repo.GetOrder(ctx, orderID)
}
