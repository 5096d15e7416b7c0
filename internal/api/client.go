package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func init() {
	// The backend validates prices as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Client talks to the ordering backend. Calls are never retried.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger

	Products *ProductService
	Cart     *CartService
	Checkout *CheckoutService
	Orders   *OrderService
	Banks    *BankService
	Contact  *ContactService
	Admin    *AdminService
	Upload   *UploadService
	Auth     *AuthService
}

// New builds a Client for baseURL (e.g. http://localhost:8000/api).
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, logger)
}

// NewWithHTTPClient is New with a caller-supplied *http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client, logger zerolog.Logger) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  logger,
	}
	c.Products = &ProductService{c: c}
	c.Cart = &CartService{c: c}
	c.Checkout = &CheckoutService{c: c}
	c.Orders = &OrderService{c: c}
	c.Banks = &BankService{c: c}
	c.Contact = &ContactService{c: c}
	c.Admin = &AdminService{c: c}
	c.Upload = &UploadService{c: c}
	c.Auth = &AuthService{c: c}
	return c
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the backend answers at all; any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/popular?limit=1", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

type request struct {
	method      string
	path        string
	token       string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path, token string, payload interface{}) (request, error) {
	r := request{method: method, path: path, token: token}
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return r, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		r.body = bytes.NewReader(buf)
		r.contentType = "application/json"
	}
	return r, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, query url.Values, payload, out interface{}) error {
	r, err := jsonRequest(method, path, token, payload)
	if err != nil {
		return err
	}
	r.query = query
	return c.do(ctx, r, out)
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", r.method).Str("path", r.path).Msg("backend request failed")
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(r.method, r.path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

func limitQuery(limit int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	return q
}
