package api

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/domain"
)

type ContactService struct {
	c *Client
}

// Send is public; the contact form works without signing in.
func (s *ContactService) Send(ctx context.Context, in domain.ContactInput) (*domain.ContactMessage, error) {
	var out domain.ContactMessage
	if err := s.c.doJSON(ctx, http.MethodPost, "/contact/", "", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ContactService) List(ctx context.Context, token string) ([]domain.ContactMessage, error) {
	var out []domain.ContactMessage
	if err := s.c.doJSON(ctx, http.MethodGet, "/contact/", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ContactService) MarkRead(ctx context.Context, token string, id int64) error {
	return s.c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/contact/%d/read", id), token, nil, struct{}{}, nil)
}
