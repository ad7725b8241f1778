package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/orderlog"
	"storefront/internal/util"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingFields        = errors.New("please fill in all required fields")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// ValidationError reports checkout input that must be corrected by the customer
type ValidationError struct {
	Err    error
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// OrderNotifier is told about every order after it has been placed
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order *models.Order) error
}

// CheckoutService turns a cart into an order
type CheckoutService struct {
	notifier OrderNotifier
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

// NewCheckoutService creates a checkout service. notifier may be nil.
func NewCheckoutService(notifier OrderNotifier) *CheckoutService {
	return &CheckoutService{
		notifier: notifier,
		validate: newValidator(),
		now:      time.Now,
		logger:   util.GetLogger(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Submit places an order for the cart's current contents. On success the order
// is appended to orders and the cart is cleared; on failure neither changes.
func (s *CheckoutService) Submit(
	ctx context.Context,
	orders *orderlog.Log,
	c *cart.Cart,
	customer models.CustomerInfo,
	method models.PaymentMethod,
) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Submit")
	defer span.End()

	if c.IsEmpty() {
		util.CheckoutRejectedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	customer = customer.Normalize()
	if err := s.validateCustomer(customer); err != nil {
		util.CheckoutRejectedTotal.WithLabelValues("missing_fields").Inc()
		return nil, err
	}

	if !method.Valid() {
		util.CheckoutRejectedTotal.WithLabelValues("invalid_payment_method").Inc()
		return nil, &ValidationError{Err: ErrInvalidPaymentMethod, Fields: []string{"payment_method"}}
	}

	order := &models.Order{
		OrderID:       formatOrderID(orders.Len() + 1),
		PlacedAt:      models.NewTimestamp(s.now()),
		Customer:      customer,
		Items:         c.Snapshot(),
		Total:         c.Total(),
		PaymentMethod: method,
		Status:        models.OrderStatusConfirmed,
	}

	orders.Append(*order)
	c.Clear()

	total, _ := order.Total.Float64()
	util.OrdersPlacedTotal.Inc()
	util.OrderValue.Observe(total)
	span.SetAttributes(
		attribute.String("order.id", order.OrderID),
		attribute.Int("order.items", len(order.Items)),
	)

	s.logger.Info("Order placed",
		zap.String("order_id", order.OrderID),
		zap.String("total", order.Total.StringFixed(2)),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.Int("items", len(order.Items)))

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, order); err != nil {
			s.logger.Error("Failed to publish OrderPlaced event",
				zap.String("order_id", order.OrderID),
				zap.Error(err))
		}
	}

	return order, nil
}

// validateCustomer requires every field of an already trimmed CustomerInfo
func (s *CheckoutService) validateCustomer(customer models.CustomerInfo) error {
	err := s.validate.Struct(customer)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Err: fmt.Errorf("%w: %v", ErrMissingFields, err)}
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Err: ErrMissingFields, Fields: fields}
}

func formatOrderID(seq int) string {
	return fmt.Sprintf("ORD%04d", seq)
}
