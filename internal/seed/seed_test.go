package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type memoryBanks struct {
	items []domain.BankAccount
}

func (m *memoryBanks) All(context.Context, string) ([]domain.BankAccount, error) {
	return m.items, nil
}

func (m *memoryBanks) Create(_ context.Context, _ string, in domain.BankAccountInput) (*domain.BankAccount, error) {
	b := domain.BankAccount{ID: int64(len(m.items) + 1), BankName: in.BankName, AccountNumber: in.AccountNumber, IsActive: *in.IsActive}
	m.items = append(m.items, b)
	return &b, nil
}

type memoryProducts struct {
	items   []domain.Product
	updates int
}

func (m *memoryProducts) List(context.Context, string, string) ([]domain.Product, error) {
	return m.items, nil
}

func (m *memoryProducts) Create(_ context.Context, _ string, in domain.ProductInput) (*domain.Product, error) {
	p := domain.Product{ID: int64(len(m.items) + 1), SKU: in.SKU, Name: in.Name, Price: in.Price, IsActive: in.IsActive}
	m.items = append(m.items, p)
	return &p, nil
}

func (m *memoryProducts) Update(_ context.Context, _ string, id int64, in domain.ProductInput) (*domain.Product, error) {
	m.updates++
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Name = in.Name
			m.items[i].Price = in.Price
			return &m.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	bankStore := &memoryBanks{}
	productStore := &memoryProducts{}

	first, err := Apply(ctx, bankStore, productStore, "tok")
	require.NoError(t, err)
	assert.Equal(t, len(banks), first.Banks)
	assert.Equal(t, len(products), first.Created)
	for _, b := range bankStore.items {
		assert.True(t, b.IsActive)
	}

	second, err := Apply(ctx, bankStore, productStore, "tok")
	require.NoError(t, err)
	assert.Zero(t, second.Banks)
	assert.Zero(t, second.Created)
	assert.Equal(t, len(products), second.Skipped)
	assert.Len(t, productStore.items, len(products))
}

func TestApplyUpdatesDriftedProducts(t *testing.T) {
	productStore := &memoryProducts{items: []domain.Product{{ID: 1, SKU: products[0].SKU, Name: "Old name"}}}

	res, err := Apply(context.Background(), &memoryBanks{}, productStore, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, productStore.updates)
	assert.Equal(t, products[0].Name, productStore.items[0].Name)
}
