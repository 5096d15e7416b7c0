package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderPreparing  OrderStatus = "preparing"
	OrderDelivering OrderStatus = "delivering"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses is the admin status dropdown order.
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderConfirmed,
	OrderPreparing,
	OrderDelivering,
	OrderDelivered,
	OrderCancelled,
}

// ParseOrderStatus accepts only the enumerated statuses.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// PaymentMethodBankTransfer is the only method the storefront offers.
const PaymentMethodBankTransfer = "bank_transfer"

type DeliveryAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

type OrderItem struct {
	ID           int64           `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderUser is the customer summary embedded in admin order responses.
type OrderUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type Order struct {
	ID                 int64           `json:"id"`
	UserID             int64           `json:"user_id"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Status             OrderStatus     `json:"status"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentStatus      PaymentStatus   `json:"payment_status"`
	DeliveryAddress    DeliveryAddress `json:"delivery_address"`
	Notes              string          `json:"notes,omitempty"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Items              []OrderItem     `json:"items"`
	User               *OrderUser      `json:"user,omitempty"`
}

// IsCancelled compares case-insensitively since older rows used upper case.
func (o Order) IsCancelled() bool {
	return equalFold(string(o.Status), string(OrderCancelled))
}

// PlaceOrderRequest is the checkout payload built from the wizard form.
type PlaceOrderRequest struct {
	DeliveryAddress DeliveryAddress `json:"delivery_address"`
	PaymentMethod   string          `json:"payment_method"`
	Notes           string          `json:"notes,omitempty"`
}

// PlaceOrderResponse carries the id of the created order.
type PlaceOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

// OrderPage is a paginated admin order listing.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Skip   int     `json:"skip"`
	Limit  int     `json:"limit"`
}
