package api

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/domain"
)

// CartService wraps the signed-in user's cart. Every call needs a token.
type CartService struct {
	c *Client
}

type cartItemRequest struct {
	ProductID int64 `json:"product_id,omitempty"`
	Quantity  int   `json:"quantity"`
}

func (s *CartService) Get(ctx context.Context, token string) (*domain.Cart, error) {
	var out domain.Cart
	if err := s.c.doJSON(ctx, http.MethodGet, "/cart", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CartService) AddItem(ctx context.Context, token string, productID int64, quantity int) (*domain.CartItem, error) {
	var out domain.CartItem
	body := cartItemRequest{ProductID: productID, Quantity: quantity}
	if err := s.c.doJSON(ctx, http.MethodPost, "/cart/items", token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CartService) UpdateItem(ctx context.Context, token string, itemID int64, quantity int) (*domain.CartItem, error) {
	var out domain.CartItem
	body := cartItemRequest{Quantity: quantity}
	if err := s.c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CartService) RemoveItem(ctx context.Context, token string, itemID int64) error {
	return s.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), token, nil, nil, nil)
}

func (s *CartService) Clear(ctx context.Context, token string) error {
	return s.c.doJSON(ctx, http.MethodDelete, "/cart", token, nil, nil, nil)
}
