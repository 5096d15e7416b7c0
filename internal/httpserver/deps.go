package httpserver

import (
	"context"
	"io"
	"time"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/session"
)

// The interfaces below are the slices of the backend client each screen
// needs. *api.Client's services satisfy them.

type ProductService interface {
	List(ctx context.Context, category, search string) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Popular(ctx context.Context, limit int) ([]domain.Product, error)
	Special(ctx context.Context, limit int) ([]domain.Product, error)
	Offers(ctx context.Context, limit int) ([]domain.Product, error)
	Create(ctx context.Context, token string, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, token string, id int64, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, token string, id int64) error
}

type CartService interface {
	Get(ctx context.Context, token string) (*domain.Cart, error)
	AddItem(ctx context.Context, token string, productID int64, quantity int) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, token string, itemID int64, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, token string, itemID int64) error
	Clear(ctx context.Context, token string) error
}

type CheckoutService interface {
	PlaceOrder(ctx context.Context, token string, req domain.PlaceOrderRequest) (*domain.PlaceOrderResponse, error)
}

type OrderService interface {
	Mine(ctx context.Context, token string) ([]domain.Order, error)
	Get(ctx context.Context, token string, id int64) (*domain.Order, error)
	MarkPaid(ctx context.Context, token string, id int64) error
	ClearHistory(ctx context.Context, token string) error
}

type BankService interface {
	Active(ctx context.Context) ([]domain.BankAccount, error)
	All(ctx context.Context, token string) ([]domain.BankAccount, error)
	Create(ctx context.Context, token string, in domain.BankAccountInput) (*domain.BankAccount, error)
	Delete(ctx context.Context, token string, id int64) error
}

type ContactService interface {
	Send(ctx context.Context, in domain.ContactInput) (*domain.ContactMessage, error)
	List(ctx context.Context, token string) ([]domain.ContactMessage, error)
	MarkRead(ctx context.Context, token string, id int64) error
}

type AdminService interface {
	Stats(ctx context.Context, token string) (*domain.DashboardStats, error)
	Users(ctx context.Context, token string, skip, limit int, search string) (*domain.UserPage, error)
	RecentUsers(ctx context.Context, token string, limit int) ([]domain.User, error)
	UpdateUser(ctx context.Context, token string, id int64, role string) (*domain.User, error)
	DeleteUser(ctx context.Context, token string, id int64) error
	Orders(ctx context.Context, token string, skip, limit int, status string) (*domain.OrderPage, error)
	RecentOrders(ctx context.Context, token string, limit int) ([]domain.Order, error)
	Order(ctx context.Context, token string, id int64) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, token string, id int64, status domain.OrderStatus, reason string) (*domain.Order, error)
	ConfirmPayment(ctx context.Context, token string, id int64) error
}

type UploadService interface {
	Image(ctx context.Context, token, filename, contentType string, r io.Reader) (*api.UploadResult, error)
}

type AuthService interface {
	Signup(ctx context.Context, in domain.SignupInput) (*domain.User, error)
	Signin(ctx context.Context, email, password string) (*domain.Token, error)
	Me(ctx context.Context, token string) (*domain.User, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router needs.
type Deps struct {
	Products ProductService
	Cart     CartService
	Checkout CheckoutService
	Orders   OrderService
	Banks    BankService
	Contact  ContactService
	Admin    AdminService
	Upload   UploadService
	Auth     AuthService

	Sessions *session.Manager
	Events   events.Publisher
	// Backend is pinged by /readyz.
	Backend Pinger

	CORSOrigins  []string
	PollInterval time.Duration
}

// DepsFromClient fills the service fields from a backend client.
func DepsFromClient(c *api.Client) Deps {
	return Deps{
		Products: c.Products,
		Cart:     c.Cart,
		Checkout: c.Checkout,
		Orders:   c.Orders,
		Banks:    c.Banks,
		Contact:  c.Contact,
		Admin:    c.Admin,
		Upload:   c.Upload,
		Auth:     c.Auth,
		Backend:  c,
	}
}
