package httpserver

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/events"
)

func TestMenuRendersProducts(t *testing.T) {
	f := newFixture(t)
	f.products.products = []domain.Product{
		{ID: 1, Name: "Jollof Rice", Price: decimal.NewFromInt(3500), IsActive: true, StockQuantity: 4},
		{ID: 2, Name: "Zobo", Price: decimal.NewFromInt(800), IsActive: true},
	}

	rec := f.do(http.MethodGet, "/menu?category=main", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Jollof Rice") || !strings.Contains(body, "₦3,500") {
		t.Fatalf("expected product card in body")
	}
	if !strings.Contains(body, "Out of stock") {
		t.Fatalf("expected out of stock marker for product without stock")
	}
}

func TestMenuShowsLoadError(t *testing.T) {
	f := newFixture(t)
	f.products.err = &api.Error{Status: http.StatusInternalServerError}

	rec := f.do(http.MethodGet, "/menu", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to load products") {
		t.Fatalf("expected load error in body")
	}
}

func TestAddToCartSignedOut(t *testing.T) {
	f := newFixture(t)
	s := f.signIn(customer)
	// Drop the user to simulate an anonymous browser that still holds a cookie.
	stored := f.session(s)
	stored.SignOut()
	if err := f.store.Save(t.Context(), stored); err != nil {
		t.Fatalf("save session: %v", err)
	}

	rec := f.do(http.MethodPost, "/cart/items", s, url.Values{"product_id": {"7"}, "next": {"/"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if f.cart.added != 0 {
		t.Fatalf("cart should not be called for anonymous visitors")
	}
	if !hasFlash(f.session(s), "Please login to add items to cart") {
		t.Fatalf("expected login notice, got %v", flashMessages(f.session(s)))
	}
}

func TestAddToCartSignedIn(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(customer)
	f.cart.cart = &domain.Cart{TotalItems: 3, Items: []domain.CartItem{{ID: 1, Quantity: 3}}}

	rec := f.do(http.MethodPost, "/cart/items", id, url.Values{"product_id": {"7"}, "quantity": {"2"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/menu" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if f.cart.added != 7 {
		t.Fatalf("expected product 7 added, got %d", f.cart.added)
	}
	s := f.session(id)
	if s.CartCount != 3 {
		t.Fatalf("expected cart count 3, got %d", s.CartCount)
	}
	if !hasFlash(s, "Item added to cart successfully!") {
		t.Fatalf("expected success notice, got %v", flashMessages(s))
	}
	if got := f.events.types(); len(got) != 1 || got[0] != events.CartItemAdded {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestAddToCartBackendError(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(customer)
	f.cart.addErr = &api.Error{Status: http.StatusBadRequest, Detail: "Insufficient stock"}

	f.do(http.MethodPost, "/cart/items", id, url.Values{"product_id": {"7"}})
	if !hasFlash(f.session(id), "Error: Insufficient stock") {
		t.Fatalf("unexpected notices %v", flashMessages(f.session(id)))
	}
}

func TestCartQuantityBelowOneRemovesItem(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(customer)

	rec := f.do(http.MethodPost, "/cart/items/4/update", id, url.Values{"quantity": {"0"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/cart" {
		t.Fatalf("unexpected redirect %q", loc)
	}
}

func TestCartPageRendersLines(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(customer)
	f.cart.cart = &domain.Cart{
		TotalItems: 2,
		Subtotal:   decimal.NewFromInt(7000),
		Items: []domain.CartItem{{
			ID: 1, ProductID: 1, Quantity: 2, PriceAtAddition: decimal.NewFromInt(3500),
			Product: &domain.Product{ID: 1, Name: "Jollof Rice"},
		}},
	}

	rec := f.do(http.MethodGet, "/cart", id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "₦7,000") {
		t.Fatalf("expected subtotal in body")
	}
}
