// Package seed fills a fresh backend with demo bank accounts and products
// through the admin API.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type BankStore interface {
	All(ctx context.Context, token string) ([]domain.BankAccount, error)
	Create(ctx context.Context, token string, in domain.BankAccountInput) (*domain.BankAccount, error)
}

type ProductStore interface {
	List(ctx context.Context, category, search string) ([]domain.Product, error)
	Create(ctx context.Context, token string, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, token string, id int64, in domain.ProductInput) (*domain.Product, error)
}

// Result counts the writes made by Apply.
type Result struct {
	Banks   int
	Created int
	Updated int
	Skipped int
}

var banks = []domain.BankAccountInput{
	{BankName: "GTBank", AccountNumber: "0123456789", AccountName: "Urban Grille Ltd"},
	{BankName: "Access Bank", AccountNumber: "0987654321", AccountName: "Urban Grille Ltd"},
}

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var products = []domain.ProductInput{
	{SKU: "MAIN-JOLLOF", Name: "Party Jollof Rice", Description: "Smoky jollof with fried plantain", Price: price("3500"), Category: "main", IsPopular: true, StockQuantity: 50},
	{SKU: "MAIN-EGUSI", Name: "Egusi Soup & Pounded Yam", Description: "Melon seed soup with assorted meat", Price: price("4500"), Category: "main", IsSpecial: true, StockQuantity: 30},
	{SKU: "APP-SUYA", Name: "Beef Suya", Description: "Grilled spiced beef skewers", Price: price("2500"), Category: "appetizers", IsPopular: true, StockQuantity: 40},
	{SKU: "SEA-PEPPERSOUP", Name: "Catfish Pepper Soup", Description: "Fresh catfish in peppery broth", Price: price("5200"), Category: "seafood", IsSpecial: true, StockQuantity: 20},
	{SKU: "DES-PUFF", Name: "Puff-Puff", Description: "Sweet fried dough balls", Price: price("1000"), Category: "desserts", IsOffer: true, DiscountPercentage: price("10"), StockQuantity: 60},
	{SKU: "BEV-ZOBO", Name: "Chilled Zobo", Description: "Hibiscus drink with ginger", Price: price("800"), Category: "beverages", IsPopular: true, StockQuantity: 100},
	{SKU: "VEG-UGU", Name: "Ugu Leaves", Description: "Fresh fluted pumpkin leaves, per bunch", Price: price("500"), Category: "vegetables", StockQuantity: 80},
	{SKU: "GRO-GARRI", Name: "Ijebu Garri 2kg", Description: "Crisp white garri", Price: price("2200"), Category: "grocery", IsOffer: true, DiscountPercentage: price("5"), StockQuantity: 45},
}

// Apply seeds banks and products. It is idempotent: banks are matched by
// account number and products by SKU.
func Apply(ctx context.Context, bankStore BankStore, productStore ProductStore, token string) (Result, error) {
	var res Result

	have, err := bankStore.All(ctx, token)
	if err != nil {
		return res, fmt.Errorf("list banks: %w", err)
	}
	known := make(map[string]bool, len(have))
	for _, b := range have {
		known[b.AccountNumber] = true
	}
	for _, b := range banks {
		if known[b.AccountNumber] {
			continue
		}
		active := true
		b.IsActive = &active
		if _, err := bankStore.Create(ctx, token, b); err != nil {
			return res, fmt.Errorf("create bank %s: %w", b.BankName, err)
		}
		res.Banks++
	}

	current, err := productStore.List(ctx, "", "")
	if err != nil {
		return res, fmt.Errorf("list products: %w", err)
	}
	bySKU := make(map[string]domain.Product, len(current))
	for _, p := range current {
		bySKU[p.SKU] = p
	}
	for _, p := range products {
		p.IsActive = true
		existing, ok := bySKU[p.SKU]
		switch {
		case !ok:
			if _, err := productStore.Create(ctx, token, p); err != nil {
				return res, fmt.Errorf("create product %s: %w", p.SKU, err)
			}
			res.Created++
		case existing.Name == p.Name && existing.Price.Equal(p.Price):
			res.Skipped++
		default:
			if _, err := productStore.Update(ctx, token, existing.ID, p); err != nil {
				return res, fmt.Errorf("update product %s: %w", p.SKU, err)
			}
			res.Updated++
		}
	}
	return res, nil
}
