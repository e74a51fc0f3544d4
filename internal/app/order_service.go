package app

import (
	"context"

	"github.com/Table-Side/Order/internal/clock"
	"github.com/Table-Side/Order/internal/domain"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateOrder(ctx context.Context, order domain.Order) error
	// GetOrder loads the order with its items and transaction.
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	// GetOrderForUpdate locks the bare order row for the current transaction.
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	FindTransactionByOrderID(ctx context.Context, orderID string) (*domain.Transaction, error)
	ListOrdersForUser(ctx context.Context, userID string, checkedOut bool) ([]domain.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

type OrderService struct {
	repo  OrderRepository
	clock clock.Clock
}

func NewOrderService(repo OrderRepository, clk clock.Clock) *OrderService {
	return &OrderService{
		repo:  repo,
		clock: clk,
	}
}

type CreateOrderInput struct {
	UserID       string
	RestaurantID string
}

// CreateOrder opens an empty order for a user against one restaurant. The
// restaurant never changes afterwards.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if in.RestaurantID == "" {
		return domain.Order{}, domain.ErrRestaurantRequired
	}

	order := domain.Order{
		ID:            newID(),
		ForUser:       in.UserID,
		ForRestaurant: in.RestaurantID,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

// ListActive returns the user's open orders (no transaction).
func (s *OrderService) ListActive(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListOrdersForUser(ctx, userID, false)
}

// ListHistory returns the user's checked-out orders.
func (s *OrderService) ListHistory(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListOrdersForUser(ctx, userID, true)
}

// AbandonOrder deletes an open order and, by cascade, its items. Checked-out
// orders cannot be abandoned; the transaction is a permanent record.
func (s *OrderService) AbandonOrder(ctx context.Context, orderID string) (domain.Order, error) {
	var abandoned domain.Order

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		txn, err := s.repo.FindTransactionByOrderID(txCtx, orderID)
		if err != nil {
			return err
		}
		if txn != nil {
			return domain.ErrAlreadyCheckedOut
		}
		if err := s.repo.DeleteOrder(txCtx, orderID); err != nil {
			return err
		}
		abandoned = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return abandoned, nil
}
