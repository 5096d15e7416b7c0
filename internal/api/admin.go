package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/domain"
)

// AdminService wraps the /admin back-office endpoints. The backend
// rejects non-admin tokens with 403.
type AdminService struct {
	c *Client
}

func (s *AdminService) Stats(ctx context.Context, token string) (*domain.DashboardStats, error) {
	var out domain.DashboardStats
	if err := s.c.doJSON(ctx, http.MethodGet, "/admin/stats", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func pageQuery(skip, limit int, key, value string) url.Values {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	if value != "" {
		q.Set(key, value)
	}
	return q
}

func (s *AdminService) Users(ctx context.Context, token string, skip, limit int, search string) (*domain.UserPage, error) {
	var out domain.UserPage
	if err := s.c.doJSON(ctx, http.MethodGet, "/admin/users", token, pageQuery(skip, limit, "search", search), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) RecentUsers(ctx context.Context, token string, limit int) ([]domain.User, error) {
	var out []domain.User
	if err := s.c.doJSON(ctx, http.MethodGet, "/admin/users/recent", token, limitQuery(limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type userUpdate struct {
	Role string `json:"role"`
}

func (s *AdminService) UpdateUser(ctx context.Context, token string, id int64, role string) (*domain.User, error) {
	var out domain.User
	if err := s.c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d", id), token, nil, userUpdate{Role: role}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, token string, id int64) error {
	return s.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), token, nil, nil, nil)
}

func (s *AdminService) Orders(ctx context.Context, token string, skip, limit int, status string) (*domain.OrderPage, error) {
	var out domain.OrderPage
	if err := s.c.doJSON(ctx, http.MethodGet, "/admin/orders", token, pageQuery(skip, limit, "status", status), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) RecentOrders(ctx context.Context, token string, limit int) ([]domain.Order, error) {
	var out []domain.Order
	if err := s.c.doJSON(ctx, http.MethodGet, "/admin/orders/recent", token, limitQuery(limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AdminService) Order(ctx context.Context, token string, id int64) (*domain.Order, error) {
	var out domain.Order
	if err := s.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/admin/orders/%d", id), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type statusUpdate struct {
	Status             domain.OrderStatus `json:"status"`
	CancellationReason string             `json:"cancellation_reason,omitempty"`
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, token string, id int64, status domain.OrderStatus, reason string) (*domain.Order, error) {
	var out domain.Order
	body := statusUpdate{Status: status, CancellationReason: reason}
	if err := s.c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/orders/%d/status", id), token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmPayment marks a bank transfer as received.
func (s *AdminService) ConfirmPayment(ctx context.Context, token string, id int64) error {
	return s.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/admin/orders/%d/confirm-payment", id), token, nil, struct{}{}, nil)
}
