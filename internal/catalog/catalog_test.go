package catalog

import (
	"testing"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := New()

	assert.Equal(t, []models.Category{
		models.CategoryFruitsVegetables,
		models.CategoryDairyEggs,
		models.CategoryBakery,
		models.CategoryMeatSeafood,
		models.CategoryBeverages,
	}, c.Categories())
	assert.Len(t, c.Products(Filter{}), 23)

	milk, ok := c.Product("D001")
	require.True(t, ok)
	assert.Equal(t, "Fresh Milk", milk.Name)
	assert.True(t, decimal.RequireFromString("4.99").Equal(milk.Price))
	assert.Equal(t, 100, milk.Stock)
}

func TestProductsFilterCombinesWithAnd(t *testing.T) {
	c, err := NewFromProducts(
		[]models.Category{models.CategoryBakery, "Fruits"},
		[]models.Product{
			{ID: "B002", Name: "Croissants", Category: models.CategoryBakery},
			{ID: "X001", Name: "Crowberries", Category: "Fruits"},
			{ID: "B001", Name: "Bread", Category: models.CategoryBakery},
		},
	)
	require.NoError(t, err)

	got := c.Products(Filter{Category: models.CategoryBakery, Search: "cro"})
	assert.Equal(t, []string{"Croissants"}, names(got))

	got = c.Products(Filter{Search: "CRO"})
	assert.Equal(t, []string{"Croissants", "Crowberries"}, names(got))

	got = c.Products(Filter{Category: models.CategoryBakery})
	assert.Equal(t, []string{"Croissants", "Bread"}, names(got))
}

func TestProductsNoMatchIsEmpty(t *testing.T) {
	c := New()

	got := c.Products(Filter{Search: "durian"})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = c.Products(Filter{Category: "Frozen"})
	assert.Empty(t, got)
}

func TestProductsReturnsCopies(t *testing.T) {
	c := New()
	got := c.Products(Filter{})
	got[0].Name = "changed"

	p, _ := c.Product(got[0].ID)
	assert.Equal(t, "Fresh Apples", p.Name)

	cats := c.Categories()
	cats[0] = "changed"
	assert.Equal(t, models.CategoryFruitsVegetables, c.Categories()[0])
}

func TestProductUnknownID(t *testing.T) {
	_, ok := New().Product("NOPE")
	assert.False(t, ok)
}

func TestHasCategory(t *testing.T) {
	c := New()
	assert.True(t, c.HasCategory(models.CategoryBeverages))
	assert.False(t, c.HasCategory("Frozen"))
}

func TestNewFromProductsRejectsBadData(t *testing.T) {
	cats := []models.Category{models.CategoryBakery}
	tests := []struct {
		name     string
		products []models.Product
	}{
		{"duplicate id", []models.Product{
			{ID: "B1", Category: models.CategoryBakery},
			{ID: "B1", Category: models.CategoryBakery},
		}},
		{"missing id", []models.Product{{Category: models.CategoryBakery}}},
		{"negative price", []models.Product{{ID: "B1", Price: decimal.NewFromInt(-1), Category: models.CategoryBakery}}},
		{"negative stock", []models.Product{{ID: "B1", Stock: -1, Category: models.CategoryBakery}}},
		{"unknown category", []models.Product{{ID: "B1", Category: "Frozen"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFromProducts(cats, tt.products)
			assert.Error(t, err)
		})
	}

	_, err := NewFromProducts([]models.Category{"A", "A"}, nil)
	assert.Error(t, err)
}
