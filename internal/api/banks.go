package api

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/domain"
)

type BankService struct {
	c *Client
}

// Active lists the accounts customers may pay into. No token needed.
func (s *BankService) Active(ctx context.Context) ([]domain.BankAccount, error) {
	var out []domain.BankAccount
	if err := s.c.doJSON(ctx, http.MethodGet, "/banks/", "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BankService) All(ctx context.Context, token string) ([]domain.BankAccount, error) {
	var out []domain.BankAccount
	if err := s.c.doJSON(ctx, http.MethodGet, "/banks/all", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BankService) Create(ctx context.Context, token string, in domain.BankAccountInput) (*domain.BankAccount, error) {
	var out domain.BankAccount
	if err := s.c.doJSON(ctx, http.MethodPost, "/banks", token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BankService) Update(ctx context.Context, token string, id int64, in domain.BankAccountInput) (*domain.BankAccount, error) {
	var out domain.BankAccount
	if err := s.c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/banks/%d", id), token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BankService) Delete(ctx context.Context, token string, id int64) error {
	return s.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/banks/%d", id), token, nil, nil, nil)
}
