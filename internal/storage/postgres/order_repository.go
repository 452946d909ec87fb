package postgres

import (
	"context"
	"fmt"

	"github.com/cimillas/ticketline/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (order_id, user_id, event_id, quantity, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, stmt,
		order.ID, order.UserID, order.EventID, order.Quantity, order.Status, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// ConfirmOrder sets the order status to confirmed. The guard is existence:
// re-applying the update to an already-confirmed order writes the same value
// again, which makes confirmation idempotent under redelivery.
func (r *OrderRepository) ConfirmOrder(ctx context.Context, orderID string) error {
	const stmt = `UPDATE orders SET status = $2 WHERE order_id = $1`

	tag, err := r.pool.Exec(ctx, stmt, orderID, domain.OrderStatusConfirmed)
	if err != nil {
		return fmt.Errorf("confirm order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT order_id, user_id, event_id, quantity, status, created_at
FROM orders
WHERE order_id = $1`

	var o domain.Order
	err := r.pool.QueryRow(ctx, query, orderID).
		Scan(&o.ID, &o.UserID, &o.EventID, &o.Quantity, &o.Status, &o.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ListOrdersByUser returns the user's orders newest first, each joined with
// its catalog event. A deleted event leaves Event nil rather than failing.
func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]domain.OrderWithEvent, error) {
	const query = `
SELECT o.order_id, o.user_id, o.event_id, o.quantity, o.status, o.created_at,
	e.event_id, e.name, e.description, e.image_url, e.performer,
	e.venue, e.city, e.date, e.price, e.category, e.remaining_tickets
FROM orders o
LEFT JOIN events e ON e.event_id = o.event_id
WHERE o.user_id = $1
ORDER BY o.created_at DESC, o.order_id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.OrderWithEvent
	for rows.Next() {
		var o domain.OrderWithEvent
		var (
			eventID, name, description, imageURL, performer *string
			venue, city, date, category                     *string
			price, remaining                                *int
		)
		err := rows.Scan(
			&o.ID, &o.UserID, &o.EventID, &o.Quantity, &o.Status, &o.CreatedAt,
			&eventID, &name, &description, &imageURL, &performer,
			&venue, &city, &date, &price, &category, &remaining,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if eventID != nil {
			o.Event = &domain.Event{
				ID:               *eventID,
				Name:             *name,
				Description:      *description,
				ImageURL:         *imageURL,
				Performer:        *performer,
				Venue:            *venue,
				City:             *city,
				Date:             *date,
				Price:            *price,
				Category:         *category,
				RemainingTickets: *remaining,
			}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
