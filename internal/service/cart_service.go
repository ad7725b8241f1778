package service

import (
	"errors"
	"fmt"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/util"

	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrExceedsStock    = errors.New("requested quantity exceeds stock")
)

// CartService resolves catalog products into cart lines. Quantities are capped
// at the product's listed stock per request, the way the storefront's quantity
// picker is; the cart itself enforces no stock bound.
type CartService struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(catalog *catalog.Catalog) *CartService {
	return &CartService{
		catalog: catalog,
		logger:  util.GetLogger(),
	}
}

// AddProduct adds quantity units of a catalog product, copying its current name
// and price into the line.
func (s *CartService) AddProduct(c *cart.Cart, productID string, quantity int) error {
	product, ok := s.catalog.Product(productID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if quantity > product.Stock {
		return fmt.Errorf("%w: %s has %d in stock", ErrExceedsStock, productID, product.Stock)
	}

	if err := c.Add(product.ID, product.Name, product.Price, quantity); err != nil {
		return err
	}

	util.CartOperationsTotal.WithLabelValues("add").Inc()
	s.logger.Debug("Added to cart",
		zap.String("product_id", product.ID),
		zap.Int("quantity", quantity))
	return nil
}

// RemoveProduct drops a product's line; absent products are ignored
func (s *CartService) RemoveProduct(c *cart.Cart, productID string) {
	c.Remove(productID)
	util.CartOperationsTotal.WithLabelValues("remove").Inc()
}

// Clear empties the cart
func (s *CartService) Clear(c *cart.Cart) {
	c.Clear()
	util.CartOperationsTotal.WithLabelValues("clear").Inc()
}
