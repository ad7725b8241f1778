package store

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type orderRow struct {
	SessionID     string          `db:"session_id"`
	OrderID       string          `db:"order_id"`
	PlacedAt      time.Time       `db:"placed_at"`
	CustomerName  string          `db:"customer_name"`
	Email         string          `db:"email"`
	Phone         string          `db:"phone"`
	Address       string          `db:"address"`
	City          string          `db:"city"`
	PostalCode    string          `db:"postal_code"`
	PaymentMethod string          `db:"payment_method"`
	Status        string          `db:"status"`
	Total         decimal.Decimal `db:"total"`
	ArchivedAt    time.Time       `db:"archived_at"`
}

type itemRow struct {
	SessionID string          `db:"session_id"`
	OrderID   string          `db:"order_id"`
	LineNo    int             `db:"line_no"`
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Quantity  int             `db:"quantity"`
}

func toRows(sessionID string, order *models.Order) (orderRow, []itemRow) {
	o := orderRow{
		SessionID:     sessionID,
		OrderID:       order.OrderID,
		PlacedAt:      order.PlacedAt.Time(),
		CustomerName:  order.Customer.Name,
		Email:         order.Customer.Email,
		Phone:         order.Customer.Phone,
		Address:       order.Customer.Address,
		City:          order.Customer.City,
		PostalCode:    order.Customer.PostalCode,
		PaymentMethod: string(order.PaymentMethod),
		Status:        order.Status,
		Total:         order.Total,
	}

	items := make([]itemRow, 0, len(order.Items))
	for i, line := range order.Items {
		items = append(items, itemRow{
			SessionID: sessionID,
			OrderID:   order.OrderID,
			LineNo:    i + 1,
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return o, items
}

func fromRows(o orderRow, items []itemRow) models.Order {
	order := models.Order{
		OrderID:  o.OrderID,
		PlacedAt: models.NewTimestamp(o.PlacedAt),
		Customer: models.CustomerInfo{
			Name:       o.CustomerName,
			Email:      o.Email,
			Phone:      o.Phone,
			Address:    o.Address,
			City:       o.City,
			PostalCode: o.PostalCode,
		},
		Items:         make([]models.CartLine, 0, len(items)),
		Total:         o.Total,
		PaymentMethod: models.PaymentMethod(o.PaymentMethod),
		Status:        o.Status,
	}
	for _, it := range items {
		order.Items = append(order.Items, models.CartLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return order
}

// ArchiveOrder stores an order and its lines in one transaction. It returns
// false without error when the order was already archived.
func (s *Store) ArchiveOrder(ctx context.Context, sessionID string, order *models.Order) (bool, error) {
	o, items := toRows(sessionID, order)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.NamedExecContext(ctx, `
		INSERT INTO archived_orders (session_id, order_id, placed_at, customer_name, email, phone,
			address, city, postal_code, payment_method, status, total)
		VALUES (:session_id, :order_id, :placed_at, :customer_name, :email, :phone,
			:address, :city, :postal_code, :payment_method, :status, :total)
		ON CONFLICT (session_id, order_id) DO NOTHING`, o)
	if err != nil {
		return false, fmt.Errorf("failed to insert order: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if inserted == 0 {
		return false, nil
	}

	if len(items) > 0 {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO archived_order_items (session_id, order_id, line_no, product_id, name, unit_price, quantity)
			VALUES (:session_id, :order_id, :line_no, :product_id, :name, :unit_price, :quantity)`, items)
		if err != nil {
			return false, fmt.Errorf("failed to insert order items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// ListArchivedOrders returns a session's archived orders, oldest first
func (s *Store) ListArchivedOrders(ctx context.Context, sessionID string) ([]models.Order, error) {
	var orders []orderRow
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM archived_orders WHERE session_id = $1 ORDER BY placed_at, order_id", sessionID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []models.Order{}, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.OrderID
	}

	query, args, err := sqlx.In(
		"SELECT * FROM archived_order_items WHERE session_id = ? AND order_id IN (?) ORDER BY order_id, line_no",
		sessionID, ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var items []itemRow
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}

	byOrder := make(map[string][]itemRow, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, fromRows(o, byOrder[o.OrderID]))
	}
	return out, nil
}
