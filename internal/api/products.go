package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

type ProductService struct {
	c *Client
}

// List returns the catalog, optionally narrowed by category and search.
func (s *ProductService) List(ctx context.Context, category, search string) ([]domain.Product, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if search != "" {
		q.Set("search", search)
	}
	var out []domain.Product
	if err := s.c.doJSON(ctx, http.MethodGet, "/products", "", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var out domain.Product
	if err := s.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), "", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductService) Popular(ctx context.Context, limit int) ([]domain.Product, error) {
	return s.featured(ctx, "popular", limit)
}

func (s *ProductService) Special(ctx context.Context, limit int) ([]domain.Product, error) {
	return s.featured(ctx, "special", limit)
}

func (s *ProductService) Offers(ctx context.Context, limit int) ([]domain.Product, error) {
	return s.featured(ctx, "offers", limit)
}

func (s *ProductService) featured(ctx context.Context, kind string, limit int) ([]domain.Product, error) {
	var out []domain.Product
	if err := s.c.doJSON(ctx, http.MethodGet, "/products/"+kind, "", limitQuery(limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProductService) Create(ctx context.Context, token string, in domain.ProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := s.c.doJSON(ctx, http.MethodPost, "/products", token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductService) Update(ctx context.Context, token string, id int64, in domain.ProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := s.c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductService) Delete(ctx context.Context, token string, id int64) error {
	return s.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), token, nil, nil, nil)
}
