package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products in the catalog
type Category string

const (
	CategoryFruitsVegetables Category = "Fruits & Vegetables"
	CategoryDairyEggs        Category = "Dairy & Eggs"
	CategoryBakery           Category = "Bakery"
	CategoryMeatSeafood      Category = "Meat & Seafood"
	CategoryBeverages        Category = "Beverages"
)

// Product represents a product in the catalog
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Category Category        `json:"category"`
	Icon     string          `json:"icon"`
}

// CartLine is a single cart entry. UnitPrice is captured when the line is created.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price times quantity
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CustomerInfo holds the delivery details entered at checkout
type CustomerInfo struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}

// Normalize returns a copy with surrounding whitespace trimmed from every field
func (c CustomerInfo) Normalize() CustomerInfo {
	return CustomerInfo{
		Name:       strings.TrimSpace(c.Name),
		Email:      strings.TrimSpace(c.Email),
		Phone:      strings.TrimSpace(c.Phone),
		Address:    strings.TrimSpace(c.Address),
		City:       strings.TrimSpace(c.City),
		PostalCode: strings.TrimSpace(c.PostalCode),
	}
}

// PaymentMethod is how the customer intends to pay
type PaymentMethod string

// Payment methods
const (
	PaymentCard           PaymentMethod = "Credit/Debit Card"
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentPayPal         PaymentMethod = "PayPal"
	PaymentBankTransfer   PaymentMethod = "Bank Transfer"
)

var paymentMethods = []PaymentMethod{
	PaymentCard,
	PaymentCashOnDelivery,
	PaymentPayPal,
	PaymentBankTransfer,
}

// PaymentMethods lists the accepted payment methods in display order
func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(paymentMethods))
	copy(out, paymentMethods)
	return out
}

// Valid reports whether m is one of the accepted payment methods
func (m PaymentMethod) Valid() bool {
	for _, pm := range paymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Order statuses
const (
	OrderStatusConfirmed = "Confirmed"
)

// TimestampLayout is the fixed rendering of an order's placement time
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a point in time rendered with TimestampLayout
type Timestamp time.Time

// NewTimestamp truncates t to whole seconds
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.Truncate(time.Second))
}

// Time returns the underlying time
func (ts Timestamp) Time() time.Time {
	return time.Time(ts)
}

func (ts Timestamp) String() string {
	return time.Time(ts).Format(TimestampLayout)
}

// MarshalJSON renders the timestamp as a quoted TimestampLayout string
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.String() + `"`), nil
}

// UnmarshalJSON parses a quoted TimestampLayout string in local time
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	t, err := time.ParseInLocation(`"`+TimestampLayout+`"`, string(data), time.Local)
	if err != nil {
		return err
	}
	*ts = Timestamp(t)
	return nil
}

// Order is a frozen snapshot of a cart plus customer and payment data
type Order struct {
	OrderID       string          `json:"order_id"`
	PlacedAt      Timestamp       `json:"placed_at"`
	Customer      CustomerInfo    `json:"customer"`
	Items         []CartLine      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        string          `json:"status"`
}

// Clone returns a copy that shares no mutable state with o
func (o Order) Clone() Order {
	out := o
	out.Items = make([]CartLine, len(o.Items))
	copy(out.Items, o.Items)
	return out
}
