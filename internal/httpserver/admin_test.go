package httpserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/session"
)

func TestAdminCannotChangeOwnRole(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)

	rec := f.do(http.MethodPost, "/admin/users/2/role", id, url.Values{"role": {domain.RoleUser}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if f.admin.roleCalls != 0 {
		t.Fatalf("backend must not be called for a self role change")
	}
	if !hasFlash(f.session(id), "You cannot change your own role.") {
		t.Fatalf("unexpected notices %v", flashMessages(f.session(id)))
	}
}

func TestAdminChangesAnotherUsersRole(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)

	rec := f.do(http.MethodPost, "/admin/users/7/role", id, url.Values{"role": {domain.RoleAdmin}})
	if loc := rec.Header().Get("Location"); loc != "/admin?tab=users" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if f.admin.roleCalls != 1 {
		t.Fatalf("expected one role update, got %d", f.admin.roleCalls)
	}
	if got := f.events.types(); len(got) != 1 || got[0] != events.UserRoleChanged {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestAdminRoleFailureUsesBackendDetail(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)
	f.admin.err = &api.Error{Status: http.StatusBadRequest, Detail: "Cannot demote the last admin"}

	f.do(http.MethodPost, "/admin/users/7/role", id, url.Values{"role": {domain.RoleUser}})
	if !hasFlash(f.session(id), "Cannot demote the last admin") {
		t.Fatalf("unexpected notices %v", flashMessages(f.session(id)))
	}
}

func TestAdminDeleteUserFailureMessage(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)
	f.admin.err = &api.Error{Status: http.StatusBadRequest, Detail: "User has orders"}

	f.do(http.MethodPost, "/admin/users/7/delete", id, nil)
	if !hasFlash(f.session(id), "Failed to delete user: User has orders") {
		t.Fatalf("unexpected notices %v", flashMessages(f.session(id)))
	}
}

func TestAdminCancelRequiresReason(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)

	rec := f.do(http.MethodPost, "/admin/orders/42/status", id, url.Values{"status": {"cancelled"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if f.admin.statusCalls != 0 {
		t.Fatalf("backend must not be called without a reason")
	}
	if !hasFlash(f.session(id), "Please provide a reason for cancellation") {
		t.Fatalf("unexpected notices %v", flashMessages(f.session(id)))
	}
}

func TestAdminCancelWithReason(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)

	rec := f.do(http.MethodPost, "/admin/orders/42/status", id, url.Values{
		"status":              {"cancelled"},
		"cancellation_reason": {"Out of stock"},
		"next":                {"/admin/orders/42"},
	})
	if loc := rec.Header().Get("Location"); loc != "/admin/orders/42" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if f.admin.status != domain.OrderCancelled || f.admin.reason != "Out of stock" {
		t.Fatalf("unexpected update %q %q", f.admin.status, f.admin.reason)
	}
	if !hasFlash(f.session(id), "Order marked as cancelled") {
		t.Fatalf("unexpected notices %v", flashMessages(f.session(id)))
	}
}

func TestAdminStatusDropsReasonUnlessCancelling(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)

	f.do(http.MethodPost, "/admin/orders/42/status", id, url.Values{
		"status":              {"delivered"},
		"cancellation_reason": {"left over"},
	})
	if f.admin.status != domain.OrderDelivered || f.admin.reason != "" {
		t.Fatalf("unexpected update %q %q", f.admin.status, f.admin.reason)
	}
}

func TestAdminRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)

	f.do(http.MethodPost, "/admin/orders/42/status", id, url.Values{"status": {"shipped"}})
	if f.admin.statusCalls != 0 {
		t.Fatalf("unknown status must not reach the backend")
	}
}

func TestAdminCreateProduct(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)

	rec := f.do(http.MethodPost, "/admin/products", id, url.Values{
		"name":       {"Plantain Chips"},
		"sku":        {"SNK-001"},
		"price":      {"1200.50"},
		"category":   {"not-a-category"},
		"is_popular": {"on"},
		"is_active":  {"on"},
	})
	if loc := rec.Header().Get("Location"); loc != "/admin?tab=products" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	in := f.products.created
	if in == nil {
		t.Fatalf("expected product to be created")
	}
	if !in.Price.Equal(decimal.RequireFromString("1200.50")) {
		t.Fatalf("unexpected price %s", in.Price)
	}
	if in.Category != domain.DefaultProductCategory {
		t.Fatalf("expected default category, got %q", in.Category)
	}
	if !in.IsPopular || !in.IsActive || in.IsOffer {
		t.Fatalf("unexpected flags %+v", in)
	}
	if !hasFlash(f.session(id), "Product created successfully") {
		t.Fatalf("unexpected notices %v", flashMessages(f.session(id)))
	}
}

func TestAdminProductInvalidPriceKeepsForm(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)
	f.products.products = []domain.Product{{ID: 3, Name: "Chips", Price: decimal.NewFromInt(500)}}

	rec := f.do(http.MethodPost, "/admin/products/3", id, url.Values{
		"name":                {"Plantain Chips"},
		"sku":                 {"SNK-009"},
		"description":         {"Crunchy, lightly salted"},
		"price":               {"cheap"},
		"discount_percentage": {"10"},
		"category":            {"snacks"},
		"is_offer":            {"on"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	if f.products.updated != nil {
		t.Fatalf("product must not be saved with an invalid price")
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Please enter a valid price",
		"Edit Product",
		`action="/admin/products/3"`,
		`value="Plantain Chips"`,
		`value="SNK-009"`,
		"Crunchy, lightly salted",
		`value="cheap"`,
		`value="10"`,
		`name="is_offer" checked`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in re-rendered form", want)
		}
	}
}

func TestAdminProductBackendErrorKeepsForm(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)
	f.products.err = &api.Error{Status: http.StatusBadRequest, Detail: "SKU already exists"}

	rec := f.do(http.MethodPost, "/admin/products", id, url.Values{
		"name":  {"Zobo Drink"},
		"sku":   {"DRK-001"},
		"price": {"800"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"SKU already exists", "Add Product", `value="Zobo Drink"`, `value="800"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in re-rendered form", want)
		}
	}
}

func TestAdminProductEditFormPrefilled(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)
	f.products.products = []domain.Product{{ID: 3, Name: "Suya Spice", Price: decimal.NewFromInt(900), Category: "sauces", IsActive: true}}

	rec := f.do(http.MethodGet, "/admin?tab=products&edit=3", id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Edit Product") || !strings.Contains(body, `value="Suya Spice"`) {
		t.Fatalf("expected edit form for product 3")
	}
}

func TestAdminUploadReturnsURL(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "chips.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("png-bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: id})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res api.UploadResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if res.URL != "/uploads/chips.png" || f.upload.body != "png-bytes" {
		t.Fatalf("unexpected upload result %+v body %q", res, f.upload.body)
	}
}

func TestAdminCreateBankRequiresFields(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)

	f.do(http.MethodPost, "/admin/banks", id, url.Values{"bank_name": {"GTBank"}})
	if f.banks.created != nil {
		t.Fatalf("incomplete bank must not be created")
	}

	f.do(http.MethodPost, "/admin/banks", id, url.Values{
		"bank_name":      {"GTBank"},
		"account_number": {"0123456789"},
		"account_name":   {"Urban Grille"},
	})
	if f.banks.created == nil || f.banks.created.IsActive == nil || !*f.banks.created.IsActive {
		t.Fatalf("expected active bank to be created, got %+v", f.banks.created)
	}
	if !hasFlash(f.session(id), "Bank account added successfully") {
		t.Fatalf("unexpected notices %v", flashMessages(f.session(id)))
	}
}

func TestAdminMessagesTabCountsUnread(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)
	f.contact.messages = []domain.ContactMessage{
		{ID: 1, Name: "Ada", Email: "ada@example.com", Message: "Hello"},
		{ID: 2, Name: "Bayo", Email: "bayo@example.com", Message: "Thanks", IsRead: true},
	}

	rec := f.do(http.MethodGet, "/admin?tab=messages", id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "1 unread") {
		t.Fatalf("expected unread count in body")
	}
}

func TestAdminOrderDetail(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)
	f.admin.order = sampleOrder(domain.OrderConfirmed)
	f.admin.order.User = &domain.OrderUser{ID: 1, FirstName: "Ada", LastName: "Obi", Email: "ada@example.com"}

	rec := f.do(http.MethodGet, "/admin/orders/42", id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Ada Obi") || !strings.Contains(body, "Confirm Payment") {
		t.Fatalf("expected customer and payment action in body")
	}
}

func TestAdminTabsRender(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(admin)
	for _, tab := range adminTabs {
		rec := f.do(http.MethodGet, "/admin?tab="+tab, id, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("tab %s: expected status 200, got %d: %s", tab, rec.Code, rec.Body.String())
		}
	}
}
