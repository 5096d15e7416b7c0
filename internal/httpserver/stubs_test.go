package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/session"
)

type stubProducts struct {
	products []domain.Product
	err      error
	created  *domain.ProductInput
	updated  *domain.ProductInput
	deleted  int64
}

func (s *stubProducts) List(_ context.Context, _, _ string) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProducts) Get(_ context.Context, id int64) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProducts) Popular(context.Context, int) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProducts) Special(context.Context, int) ([]domain.Product, error) {
	return nil, s.err
}

func (s *stubProducts) Offers(context.Context, int) ([]domain.Product, error) {
	return nil, s.err
}

func (s *stubProducts) Create(_ context.Context, _ string, in domain.ProductInput) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &in
	return &domain.Product{ID: 99, SKU: in.SKU, Name: in.Name}, nil
}

func (s *stubProducts) Update(_ context.Context, _ string, id int64, in domain.ProductInput) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updated = &in
	return &domain.Product{ID: id, SKU: in.SKU, Name: in.Name}, nil
}

func (s *stubProducts) Delete(_ context.Context, _ string, id int64) error {
	s.deleted = id
	return s.err
}

type stubCart struct {
	cart   *domain.Cart
	err    error
	addErr error
	added  int64
}

func (s *stubCart) Get(context.Context, string) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cart == nil {
		return &domain.Cart{}, nil
	}
	return s.cart, nil
}

func (s *stubCart) AddItem(_ context.Context, _ string, productID int64, quantity int) (*domain.CartItem, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.added = productID
	return &domain.CartItem{ProductID: productID, Quantity: quantity}, nil
}

func (s *stubCart) UpdateItem(_ context.Context, _ string, itemID int64, quantity int) (*domain.CartItem, error) {
	return &domain.CartItem{ID: itemID, Quantity: quantity}, s.err
}

func (s *stubCart) RemoveItem(context.Context, string, int64) error { return s.err }

func (s *stubCart) Clear(context.Context, string) error { return s.err }

type stubCheckout struct {
	req  *domain.PlaceOrderRequest
	resp *domain.PlaceOrderResponse
	err  error
}

func (s *stubCheckout) PlaceOrder(_ context.Context, _ string, req domain.PlaceOrderRequest) (*domain.PlaceOrderResponse, error) {
	s.req = &req
	return s.resp, s.err
}

type stubOrders struct {
	order *domain.Order
	err   error
	// fetches, when set, receives the id of every Get call.
	fetches  chan int64
	markPaid int64
}

func (s *stubOrders) Mine(context.Context, string) ([]domain.Order, error) {
	if s.order == nil {
		return nil, s.err
	}
	return []domain.Order{*s.order}, s.err
}

func (s *stubOrders) Get(_ context.Context, _ string, id int64) (*domain.Order, error) {
	if s.fetches != nil {
		select {
		case s.fetches <- id:
		default:
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrders) MarkPaid(_ context.Context, _ string, id int64) error {
	s.markPaid = id
	return s.err
}

func (s *stubOrders) ClearHistory(context.Context, string) error { return s.err }

type stubBanks struct {
	banks   []domain.BankAccount
	err     error
	created *domain.BankAccountInput
}

func (s *stubBanks) Active(context.Context) ([]domain.BankAccount, error) {
	return s.banks, s.err
}

func (s *stubBanks) All(context.Context, string) ([]domain.BankAccount, error) {
	return s.banks, s.err
}

func (s *stubBanks) Create(_ context.Context, _ string, in domain.BankAccountInput) (*domain.BankAccount, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &in
	return &domain.BankAccount{ID: 5, BankName: in.BankName}, nil
}

func (s *stubBanks) Delete(context.Context, string, int64) error { return s.err }

type stubContact struct {
	sent     *domain.ContactInput
	messages []domain.ContactMessage
	err      error
}

func (s *stubContact) Send(_ context.Context, in domain.ContactInput) (*domain.ContactMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = &in
	return &domain.ContactMessage{ID: 1, Name: in.Name, Email: in.Email, Message: in.Message}, nil
}

func (s *stubContact) List(context.Context, string) ([]domain.ContactMessage, error) {
	return s.messages, s.err
}

func (s *stubContact) MarkRead(context.Context, string, int64) error { return s.err }

type stubAdmin struct {
	err         error
	roleCalls   int
	statusCalls int
	status      domain.OrderStatus
	reason      string
	order       *domain.Order
}

func (s *stubAdmin) Stats(context.Context, string) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{TotalUsers: 3}, s.err
}

func (s *stubAdmin) Users(context.Context, string, int, int, string) (*domain.UserPage, error) {
	return &domain.UserPage{}, s.err
}

func (s *stubAdmin) RecentUsers(context.Context, string, int) ([]domain.User, error) {
	return nil, s.err
}

func (s *stubAdmin) UpdateUser(_ context.Context, _ string, id int64, role string) (*domain.User, error) {
	s.roleCalls++
	return &domain.User{ID: id, Role: role}, s.err
}

func (s *stubAdmin) DeleteUser(context.Context, string, int64) error { return s.err }

func (s *stubAdmin) Orders(context.Context, string, int, int, string) (*domain.OrderPage, error) {
	return &domain.OrderPage{}, s.err
}

func (s *stubAdmin) RecentOrders(context.Context, string, int) ([]domain.Order, error) {
	return nil, s.err
}

func (s *stubAdmin) Order(context.Context, string, int64) (*domain.Order, error) {
	if s.order == nil {
		return nil, domain.ErrNotFound
	}
	return s.order, s.err
}

func (s *stubAdmin) UpdateOrderStatus(_ context.Context, _ string, id int64, status domain.OrderStatus, reason string) (*domain.Order, error) {
	s.statusCalls++
	s.status = status
	s.reason = reason
	return &domain.Order{ID: id, Status: status}, s.err
}

func (s *stubAdmin) ConfirmPayment(context.Context, string, int64) error { return s.err }

type stubUpload struct {
	err  error
	body string
}

func (s *stubUpload) Image(_ context.Context, _, filename, _ string, r io.Reader) (*api.UploadResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	b, _ := io.ReadAll(r)
	s.body = string(b)
	return &api.UploadResult{URL: "/uploads/" + filename, Filename: filename}, nil
}

type stubAuth struct {
	token     *domain.Token
	user      *domain.User
	err       error
	verified  string
	resentFor string
}

func (s *stubAuth) Signup(_ context.Context, in domain.SignupInput) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: 10, Email: in.Email, FirstName: in.FirstName}, nil
}

func (s *stubAuth) Signin(context.Context, string, string) (*domain.Token, error) {
	return s.token, s.err
}

func (s *stubAuth) Me(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubAuth) VerifyOTP(_ context.Context, email, _ string) error {
	s.verified = email
	return s.err
}

func (s *stubAuth) ResendOTP(_ context.Context, email string) error {
	s.resentFor = email
	return s.err
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// fixture is a router over stub services with an in-memory session store.
type fixture struct {
	t        *testing.T
	router   *gin.Engine
	store    *session.MemoryStore
	products *stubProducts
	cart     *stubCart
	checkout *stubCheckout
	orders   *stubOrders
	banks    *stubBanks
	contact  *stubContact
	admin    *stubAdmin
	upload   *stubUpload
	auth     *stubAuth
	events   *recordingPublisher
	backend  stubPinger
	deps     Deps
}

func newFixture(t *testing.T, tweak ...func(*Deps)) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &fixture{
		t:        t,
		store:    session.NewMemoryStore(),
		products: &stubProducts{},
		cart:     &stubCart{},
		checkout: &stubCheckout{},
		orders:   &stubOrders{},
		banks:    &stubBanks{},
		contact:  &stubContact{},
		admin:    &stubAdmin{},
		upload:   &stubUpload{},
		auth:     &stubAuth{},
		events:   &recordingPublisher{},
	}
	deps := Deps{
		Products:     f.products,
		Cart:         f.cart,
		Checkout:     f.checkout,
		Orders:       f.orders,
		Banks:        f.banks,
		Contact:      f.contact,
		Admin:        f.admin,
		Upload:       f.upload,
		Auth:         f.auth,
		Sessions:     session.NewManager(f.store, nil, session.Options{}, zerolog.Nop()),
		Events:       f.events,
		Backend:      &f.backend,
		PollInterval: 10 * time.Millisecond,
	}
	for _, fn := range tweak {
		fn(&deps)
	}
	f.deps = deps
	router, err := buildRouter(zerolog.Nop(), deps, nil)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	f.router = router
	return f
}

// signIn stores a signed-in session and returns its id.
func (f *fixture) signIn(u domain.User) string {
	f.t.Helper()
	s := session.New(time.Hour)
	s.SetTokens(domain.Token{AccessToken: "opaque-token", RefreshToken: "refresh"})
	s.SetUser(&u)
	if err := f.store.Save(context.Background(), s); err != nil {
		f.t.Fatalf("save session: %v", err)
	}
	return s.ID
}

func (f *fixture) session(id string) *session.Session {
	f.t.Helper()
	s, err := f.store.Get(context.Background(), id)
	if err != nil {
		f.t.Fatalf("load session %s: %v", id, err)
	}
	return s
}

func (f *fixture) do(method, target, sessionID string, form url.Values) *httptest.ResponseRecorder {
	f.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: sessionID})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func flashMessages(s *session.Session) []string {
	out := make([]string, 0, len(s.Flashes))
	for _, fl := range s.Flashes {
		out = append(out, fl.Message)
	}
	return out
}

func hasFlash(s *session.Session, msg string) bool {
	for _, m := range flashMessages(s) {
		if m == msg {
			return true
		}
	}
	return false
}

var (
	customer = domain.User{ID: 1, Email: "ada@example.com", FirstName: "Ada", Role: domain.RoleUser, Phone: "08012345678"}
	admin    = domain.User{ID: 2, Email: "admin@example.com", FirstName: "Root", Role: domain.RoleAdmin}
)
