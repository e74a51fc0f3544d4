// Package kitchen is the client for the fulfillment service. Dispatch is the
// only operation: it hands a finalized order to the kitchen.
package kitchen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Table-Side/Order/internal/domain"
)

const requestFromHeader = "tableside-order"

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type dispatchRequest struct {
	RestaurantID string         `json:"restaurantId"`
	OrderID      string         `json:"orderId"`
	UserID       string         `json:"userId"`
	Items        []dispatchItem `json:"items"`
}

type dispatchItem struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Dispatch sends the order snapshot to the kitchen. Any transport failure,
// timeout, or non-2xx response is returned as a *domain.UpstreamError
// wrapping domain.ErrKitchenUnavailable with the upstream body attached;
// the caller compensates on all of them alike.
func (c *Client) Dispatch(ctx context.Context, snapshot domain.OrderSnapshot) error {
	payload := dispatchRequest{
		RestaurantID: snapshot.RestaurantID,
		OrderID:      snapshot.OrderID,
		UserID:       snapshot.UserID,
		Items:        make([]dispatchItem, 0, len(snapshot.Items)),
	}
	for _, it := range snapshot.Items {
		payload.Items = append(payload.Items, dispatchItem{ItemID: it.ItemID, Quantity: it.Quantity})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal dispatch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/internal/orders/receive", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-From", requestFromHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.UpstreamError{Kind: domain.ErrKitchenUnavailable, Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.UpstreamError{
			Kind:       domain.ErrKitchenUnavailable,
			StatusCode: resp.StatusCode,
			Body:       readBody(resp.Body),
		}
	}
	return nil
}

func readBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	return string(b)
}
