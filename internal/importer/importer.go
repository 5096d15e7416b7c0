// Package importer loads product catalogues from CSV into the backend
// through the admin product endpoints.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// ProductStore is the slice of the product API the importer needs.
type ProductStore interface {
	List(ctx context.Context, category, search string) ([]domain.Product, error)
	Create(ctx context.Context, token string, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, token string, id int64, in domain.ProductInput) (*domain.Product, error)
}

// Result counts what a run did.
type Result struct {
	Created int
	Updated int
}

func (r Result) Total() int { return r.Created + r.Updated }

// CSVImporter reads product rows and creates or updates them by SKU.
type CSVImporter struct {
	reader   *csv.Reader
	products ProductStore
	token    string
	// DryRun validates rows without calling the backend.
	DryRun bool
}

func NewCSVImporter(r io.Reader, products ProductStore, token string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:   csvr,
		products: products,
		token:    token,
	}
}

var requiredHeaders = []string{"sku", "name", "price"}

// Run parses every row and writes it to the backend. Rows whose SKU already
// exists update that product; the rest are created.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, h := range requiredHeaders {
		if _, ok := index[h]; !ok {
			return res, fmt.Errorf("missing column %q", h)
		}
	}

	existing := map[string]int64{}
	if !i.DryRun {
		current, err := i.products.List(ctx, "", "")
		if err != nil {
			return res, fmt.Errorf("list existing products: %w", err)
		}
		for _, p := range current {
			if p.SKU != "" {
				existing[p.SKU] = p.ID
			}
		}
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		in, err := parseRow(record, index)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}
		if i.DryRun {
			res.Created++
			continue
		}

		if id, ok := existing[in.SKU]; ok {
			if _, err := i.products.Update(ctx, i.token, id, in); err != nil {
				return res, fmt.Errorf("update product %q: %w", in.SKU, err)
			}
			res.Updated++
			continue
		}
		p, err := i.products.Create(ctx, i.token, in)
		if err != nil {
			return res, fmt.Errorf("create product %q: %w", in.SKU, err)
		}
		existing[in.SKU] = p.ID
		res.Created++
	}

	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.ProductInput, error) {
	in := domain.ProductInput{
		SKU:         pick(record, index, "sku"),
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		ImageURL:    pick(record, index, "image_url"),
		Category:    strings.ToLower(pick(record, index, "category")),
		IsPopular:   flag(pick(record, index, "is_popular"), false),
		IsSpecial:   flag(pick(record, index, "is_special"), false),
		IsOffer:     flag(pick(record, index, "is_offer"), false),
		IsActive:    flag(pick(record, index, "is_active"), true),
	}
	if in.SKU == "" || in.Name == "" {
		return in, errors.New("sku and name are required")
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || price.IsNegative() {
		return in, fmt.Errorf("invalid price for %q", in.SKU)
	}
	in.Price = price

	if raw := pick(record, index, "discount_percentage"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
			return in, fmt.Errorf("invalid discount for %q", in.SKU)
		}
		in.DiscountPercentage = d
	}
	if raw := pick(record, index, "stock_quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return in, fmt.Errorf("invalid stock for %q", in.SKU)
		}
		in.StockQuantity = n
	}

	if in.Category == "" {
		in.Category = domain.DefaultProductCategory
	} else if !domain.IsProductCategory(in.Category) {
		return in, fmt.Errorf("unknown category %q for %q", in.Category, in.SKU)
	}
	return in, nil
}

func flag(v string, def bool) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	}
	return def
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
