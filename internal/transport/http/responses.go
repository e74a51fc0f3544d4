package http

import (
	"time"

	"github.com/Table-Side/Order/internal/domain"
)

// JSON shapes match the original service's contract (camelCase, decimal
// money rendered as strings, transaction null until checkout).

type orderResponse struct {
	ID            string               `json:"id"`
	ForUser       string               `json:"forUser"`
	ForRestaurant string               `json:"forRestaurant"`
	Items         []orderItemResponse  `json:"items"`
	Transaction   *transactionResponse `json:"transaction"`
	CreatedAt     time.Time            `json:"createdAt"`
}

type orderItemResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	ItemID    string    `json:"itemId"`
	Quantity  int       `json:"quantity"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

type transactionResponse struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"orderId"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	DispatchStatus string    `json:"dispatchStatus"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		ForUser:       o.ForUser,
		ForRestaurant: o.ForRestaurant,
		Items:         make([]orderItemResponse, 0, len(o.Items)),
		CreatedAt:     o.CreatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ID:        it.ID,
			OrderID:   it.OrderID,
			ItemID:    it.ItemID,
			Quantity:  it.Quantity,
			Price:     it.Price.String(),
			CreatedAt: it.CreatedAt,
		})
	}
	if o.Transaction != nil {
		resp.Transaction = &transactionResponse{
			ID:             o.Transaction.ID,
			OrderID:        o.Transaction.OrderID,
			Amount:         o.Transaction.Amount.String(),
			Currency:       o.Transaction.Currency,
			DispatchStatus: string(o.Transaction.DispatchStatus),
			CreatedAt:      o.Transaction.CreatedAt,
		}
	}
	return resp
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
