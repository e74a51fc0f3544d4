// Package catalog is the client for the restaurant catalog service. It
// resolves item ids to the authoritative price and availability for one
// restaurant.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Table-Side/Order/internal/domain"
	"github.com/shopspring/decimal"
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

type resolveRequest struct {
	RestaurantID string   `json:"restaurantId"`
	ItemIDs      []string `json:"itemIds"`
}

type resolveResponse struct {
	Data []resolvedItem `json:"data"`
}

type resolvedItem struct {
	ID          string          `json:"id"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"isAvailable"`
}

// ResolveItems fetches price and availability for the given item ids, scoped
// to the restaurant. Transport failures and non-2xx responses surface as a
// *domain.UpstreamError wrapping domain.ErrCatalogUnavailable.
func (c *Client) ResolveItems(ctx context.Context, restaurantID string, itemIDs []string) ([]domain.CatalogItem, error) {
	body, err := json.Marshal(resolveRequest{RestaurantID: restaurantID, ItemIDs: itemIDs})
	if err != nil {
		return nil, fmt.Errorf("marshal resolve request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/internal/items", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build resolve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-From", requestFromHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Kind: domain.ErrCatalogUnavailable, Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{
			Kind:       domain.ErrCatalogUnavailable,
			StatusCode: resp.StatusCode,
			Body:       readBody(resp.Body),
		}
	}

	var parsed resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &domain.UpstreamError{Kind: domain.ErrCatalogUnavailable, Body: fmt.Sprintf("decode response: %v", err)}
	}

	items := make([]domain.CatalogItem, 0, len(parsed.Data))
	for _, it := range parsed.Data {
		items = append(items, domain.CatalogItem{
			ID:          it.ID,
			Price:       it.Price,
			IsAvailable: it.IsAvailable,
		})
	}
	return items, nil
}

func readBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	return string(b)
}
