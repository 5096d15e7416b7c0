package api

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/domain"
)

type CheckoutService struct {
	c *Client
}

// PlaceOrder turns the caller's cart into an order.
func (s *CheckoutService) PlaceOrder(ctx context.Context, token string, req domain.PlaceOrderRequest) (*domain.PlaceOrderResponse, error) {
	var out domain.PlaceOrderResponse
	if err := s.c.doJSON(ctx, http.MethodPost, "/checkout/place-order", token, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type OrderService struct {
	c *Client
}

// Mine lists the caller's orders, newest first as the backend returns them.
func (s *OrderService) Mine(ctx context.Context, token string) ([]domain.Order, error) {
	var out []domain.Order
	if err := s.c.doJSON(ctx, http.MethodGet, "/orders/", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, token string, id int64) (*domain.Order, error) {
	var out domain.Order
	if err := s.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkPaid records the customer's claim that the transfer was made.
func (s *OrderService) MarkPaid(ctx context.Context, token string, id int64) error {
	return s.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/mark-paid", id), token, nil, nil, nil)
}

func (s *OrderService) ClearHistory(ctx context.Context, token string) error {
	return s.c.doJSON(ctx, http.MethodDelete, "/orders/clear-history", token, nil, nil, nil)
}
