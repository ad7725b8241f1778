package catalog

import (
	"fmt"
	"strings"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Catalog is the fixed, read-only set of purchasable products
type Catalog struct {
	categories []models.Category
	products   []models.Product
	byID       map[string]int
}

// Filter narrows a product listing. Zero values match everything.
type Filter struct {
	Category models.Category
	Search   string
}

// New returns the built-in FreshMart catalog
func New() *Catalog {
	c, err := NewFromProducts(defaultCategories, defaultProducts())
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in data is invalid: %v", err))
	}
	return c
}

// NewFromProducts builds a catalog from the given categories and products
func NewFromProducts(categories []models.Category, products []models.Product) (*Catalog, error) {
	known := make(map[models.Category]bool, len(categories))
	for _, cat := range categories {
		if known[cat] {
			return nil, fmt.Errorf("duplicate category: %s", cat)
		}
		known[cat] = true
	}

	byID := make(map[string]int, len(products))
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product at index %d has no id", i)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id: %s", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %s has negative price", p.ID)
		}
		if p.Stock < 0 {
			return nil, fmt.Errorf("product %s has negative stock", p.ID)
		}
		if !known[p.Category] {
			return nil, fmt.Errorf("product %s has unknown category: %s", p.ID, p.Category)
		}
		byID[p.ID] = i
	}

	c := &Catalog{
		categories: append([]models.Category(nil), categories...),
		products:   append([]models.Product(nil), products...),
		byID:       byID,
	}
	return c, nil
}

// Categories returns category names in definition order
func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Products returns the products matching f, in catalog order. Category is an
// exact match and Search a case-insensitive substring match on the name.
func (c *Catalog) Products(f Filter) []models.Product {
	search := strings.ToLower(f.Search)
	out := make([]models.Product, 0)
	for _, p := range c.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Product looks a product up by id
func (c *Catalog) Product(id string) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// HasCategory reports whether cat is part of the catalog
func (c *Catalog) HasCategory(cat models.Category) bool {
	for _, known := range c.categories {
		if known == cat {
			return true
		}
	}
	return false
}

var defaultCategories = []models.Category{
	models.CategoryFruitsVegetables,
	models.CategoryDairyEggs,
	models.CategoryBakery,
	models.CategoryMeatSeafood,
	models.CategoryBeverages,
}

func product(id, name, price, unit string, stock int, cat models.Category, icon string) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Unit:     unit,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: cat,
		Icon:     icon,
	}
}

func defaultProducts() []models.Product {
	fv := models.CategoryFruitsVegetables
	de := models.CategoryDairyEggs
	bk := models.CategoryBakery
	ms := models.CategoryMeatSeafood
	bv := models.CategoryBeverages

	return []models.Product{
		product("F001", "Fresh Apples", "3.99", "per kg", 50, fv, "🍎"),
		product("F002", "Bananas", "2.49", "per kg", 80, fv, "🍌"),
		product("F003", "Oranges", "4.29", "per kg", 60, fv, "🍊"),
		product("F004", "Fresh Tomatoes", "3.49", "per kg", 45, fv, "🍅"),
		product("F005", "Carrots", "2.99", "per kg", 70, fv, "🥕"),
		product("F006", "Broccoli", "3.79", "per kg", 35, fv, "🥦"),

		product("D001", "Fresh Milk", "4.99", "per liter", 100, de, "🥛"),
		product("D002", "Cheddar Cheese", "6.99", "per 500g", 40, de, "🧀"),
		product("D003", "Greek Yogurt", "3.49", "per 500g", 60, de, "🥛"),
		product("D004", "Fresh Eggs", "5.99", "per dozen", 120, de, "🥚"),
		product("D005", "Butter", "4.49", "per 250g", 55, de, "🧈"),

		product("B001", "Whole Wheat Bread", "2.99", "per loaf", 75, bk, "🍞"),
		product("B002", "Croissants", "4.99", "per pack of 6", 30, bk, "🥐"),
		product("B003", "Bagels", "3.99", "per pack of 6", 45, bk, "🥯"),
		product("B004", "Muffins", "5.49", "per pack of 4", 40, bk, "🧁"),

		product("M001", "Chicken Breast", "8.99", "per kg", 50, ms, "🍗"),
		product("M002", "Ground Beef", "10.99", "per kg", 45, ms, "🥩"),
		product("M003", "Fresh Salmon", "15.99", "per kg", 25, ms, "🐟"),
		product("M004", "Shrimp", "12.99", "per kg", 30, ms, "🦐"),

		product("BEV001", "Orange Juice", "4.49", "per liter", 80, bv, "🧃"),
		product("BEV002", "Green Tea", "3.99", "per box", 60, bv, "🍵"),
		product("BEV003", "Coffee Beans", "9.99", "per 500g", 40, bv, "☕"),
		product("BEV004", "Mineral Water", "2.99", "per 6-pack", 150, bv, "💧"),
	}
}
