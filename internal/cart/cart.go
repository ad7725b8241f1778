package cart

import (
	"errors"
	"math"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidProduct   = errors.New("product id is required")
	ErrInvalidPrice     = errors.New("unit price must not be negative")
	ErrQuantityOverflow = errors.New("quantity exceeds the largest supported line quantity")
)

// Cart maps product ids to line items. Lines keep the order in which products
// were first added. A Cart is not safe for concurrent use.
type Cart struct {
	lines map[string]*models.CartLine
	order []string
}

// New creates an empty cart
func New() *Cart {
	return &Cart{lines: make(map[string]*models.CartLine)}
}

// Add puts quantity units of a product in the cart. Adding a product that is
// already present only increases its quantity; the name and unit price from
// the first add are kept.
func (c *Cart) Add(productID, name string, unitPrice decimal.Decimal, quantity int) error {
	if productID == "" {
		return ErrInvalidProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return ErrInvalidPrice
	}

	if line, ok := c.lines[productID]; ok {
		if quantity > math.MaxInt-line.Quantity {
			return ErrQuantityOverflow
		}
		line.Quantity += quantity
		return nil
	}

	c.lines[productID] = &models.CartLine{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	}
	c.order = append(c.order, productID)
	return nil
}

// Remove deletes a product's line. Removing an absent product does nothing.
func (c *Cart) Remove(productID string) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = make(map[string]*models.CartLine)
	c.order = nil
}

// Total sums unit price times quantity over all lines
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Line returns the line for a product, if present
func (c *Cart) Line(productID string) (models.CartLine, bool) {
	line, ok := c.lines[productID]
	if !ok {
		return models.CartLine{}, false
	}
	return *line, true
}

// Lines returns copies of all lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Snapshot returns a copy of the cart contents that later cart mutations
// cannot reach.
func (c *Cart) Snapshot() []models.CartLine {
	return c.Lines()
}
