package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the signed-in user's cart as computed by the backend.
type Cart struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	Items      []CartItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

// CartItem is one line of a cart.
type CartItem struct {
	ID              int64           `json:"id"`
	CartID          int64           `json:"cart_id"`
	ProductID       int64           `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtAddition decimal.Decimal `json:"price_at_addition"`
	Product         *Product        `json:"product,omitempty"`
}

// LineTotal is price at addition times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.PriceAtAddition.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsEmpty reports whether the cart has no lines. A nil cart is empty.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
