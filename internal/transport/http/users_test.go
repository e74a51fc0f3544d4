package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Table-Side/Order/internal/domain"
)

type fakeLister struct {
	active  []domain.Order
	history []domain.Order
}

func (f *fakeLister) ListActive(context.Context, string) ([]domain.Order, error) {
	return f.active, nil
}

func (f *fakeLister) ListHistory(context.Context, string) ([]domain.Order, error) {
	return f.history, nil
}

func TestHandleListOrders(t *testing.T) {
	t.Parallel()

	svc := &fakeLister{
		active:  []domain.Order{{ID: "order-1", ForUser: "user-1"}},
		history: []domain.Order{},
	}

	t.Run("lists own active orders", func(t *testing.T) {
		handler := HandleListActive(GatewayAuthorizer{}, svc)

		r := httptest.NewRequest(http.MethodGet, "/users/user-1/orders/active", nil)
		r.SetPathValue("id", "user-1")
		r.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		handler(rec, r)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp.Data) != 1 || resp.Data[0].ID != "order-1" {
			t.Fatalf("unexpected orders: %+v", resp.Data)
		}
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		handler := HandleListHistory(GatewayAuthorizer{}, svc)

		r := httptest.NewRequest(http.MethodGet, "/users/user-1/orders/history", nil)
		r.SetPathValue("id", "user-1")
		r.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		handler(rec, r)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if string(resp.Data) != "[]" {
			t.Fatalf("expected empty array, got %s", resp.Data)
		}
	})

	t.Run("another user's orders are forbidden", func(t *testing.T) {
		handler := HandleListActive(GatewayAuthorizer{}, svc)

		r := httptest.NewRequest(http.MethodGet, "/users/user-2/orders/active", nil)
		r.SetPathValue("id", "user-2")
		r.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		handler(rec, r)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("unauthenticated is rejected", func(t *testing.T) {
		handler := HandleListActive(GatewayAuthorizer{}, svc)

		r := httptest.NewRequest(http.MethodGet, "/users/user-1/orders/active", nil)
		r.SetPathValue("id", "user-1")
		rec := httptest.NewRecorder()
		handler(rec, r)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
