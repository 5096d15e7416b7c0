package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product mirrors the backend product response.
type Product struct {
	ID                 int64           `json:"id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	Price              decimal.Decimal `json:"price"`
	ImageURL           string          `json:"image_url,omitempty"`
	Category           string          `json:"category"`
	IsPopular          bool            `json:"is_popular"`
	IsSpecial          bool            `json:"is_special"`
	IsOffer            bool            `json:"is_offer"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	StockQuantity      int             `json:"stock_quantity"`
	IsActive           bool            `json:"is_active"`
	Rating             float64         `json:"rating"`
	ReviewCount        int             `json:"review_count"`
	Weight             *float64        `json:"weight,omitempty"`
	Tags               string          `json:"tags,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          *time.Time      `json:"updated_at,omitempty"`
}

// DiscountedPrice applies DiscountPercentage when the product is on offer.
func (p Product) DiscountedPrice() decimal.Decimal {
	if !p.IsOffer || !p.DiscountPercentage.IsPositive() {
		return p.Price
	}
	off := p.Price.Mul(p.DiscountPercentage).Div(decimal.NewFromInt(100))
	return p.Price.Sub(off).Round(2)
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool {
	return p.IsActive && p.StockQuantity > 0
}

// ProductInput is the payload for admin create/update calls.
type ProductInput struct {
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	Price              decimal.Decimal `json:"price"`
	ImageURL           string          `json:"image_url,omitempty"`
	Category           string          `json:"category"`
	IsPopular          bool            `json:"is_popular"`
	IsSpecial          bool            `json:"is_special"`
	IsOffer            bool            `json:"is_offer"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	StockQuantity      int             `json:"stock_quantity"`
	IsActive           bool            `json:"is_active"`
}

// InputFromProduct prefills an edit form from an existing product.
func InputFromProduct(p Product) ProductInput {
	return ProductInput{
		SKU:                p.SKU,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		ImageURL:           p.ImageURL,
		Category:           p.Category,
		IsPopular:          p.IsPopular,
		IsSpecial:          p.IsSpecial,
		IsOffer:            p.IsOffer,
		DiscountPercentage: p.DiscountPercentage,
		StockQuantity:      p.StockQuantity,
		IsActive:           p.IsActive,
	}
}
