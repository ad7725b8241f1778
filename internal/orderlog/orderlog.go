package orderlog

import (
	"fmt"

	"storefront/internal/models"
)

// Ordering selects how List projects the log
type Ordering int

const (
	NewestFirst Ordering = iota
	Chronological
)

// ParseOrdering maps "newest" (or empty) and "chronological" to an Ordering
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "", "newest", "newest_first":
		return NewestFirst, nil
	case "chronological", "oldest":
		return Chronological, nil
	default:
		return NewestFirst, fmt.Errorf("unknown ordering: %q", s)
	}
}

// Log is an append-only sequence of placed orders stored in placement order.
// A Log is not safe for concurrent use.
type Log struct {
	orders []models.Order
}

func New() *Log {
	return &Log{}
}

// Append adds an order at the end of the log
func (l *Log) Append(order models.Order) {
	l.orders = append(l.orders, order.Clone())
}

// Len returns the number of orders placed so far
func (l *Log) Len() int {
	return len(l.orders)
}

// List returns copies of all orders. Storage order is never changed.
func (l *Log) List(ordering Ordering) []models.Order {
	out := make([]models.Order, len(l.orders))
	for i, o := range l.orders {
		if ordering == NewestFirst {
			out[len(l.orders)-1-i] = o.Clone()
		} else {
			out[i] = o.Clone()
		}
	}
	return out
}

// Get looks an order up by id
func (l *Log) Get(orderID string) (models.Order, bool) {
	for _, o := range l.orders {
		if o.OrderID == orderID {
			return o.Clone(), true
		}
	}
	return models.Order{}, false
}
