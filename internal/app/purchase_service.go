package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cimillas/ticketline/internal/clock"
	"github.com/cimillas/ticketline/internal/domain"
)

// InventoryStore is the conditional-decrement contract of the event store.
// The implementation must reject the decrement atomically when fewer than
// quantity tickets remain.
type InventoryStore interface {
	DecrementRemainingTickets(ctx context.Context, eventID string, quantity int) error
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, order domain.Order) error
}

type MessagePublisher interface {
	Publish(ctx context.Context, body []byte) error
}

// PurchaseService coordinates the synchronous purchase path: reserve
// inventory, persist a pending order, publish the order-created message.
// The three steps run against two stores and a queue with no enclosing
// transaction; a crash between them can strand a decremented counter. That
// gap is accepted and not compensated here.
type PurchaseService struct {
	inventory InventoryStore
	orders    OrderCreator
	publisher MessagePublisher
	clock     clock.Clock
}

func NewPurchaseService(inventory InventoryStore, orders OrderCreator, publisher MessagePublisher, clk clock.Clock) *PurchaseService {
	return &PurchaseService{
		inventory: inventory,
		orders:    orders,
		publisher: publisher,
		clock:     clk,
	}
}

type PurchaseInput struct {
	UserID   string
	EventID  string
	Quantity int
}

func (s *PurchaseService) Purchase(ctx context.Context, in PurchaseInput) (domain.Order, error) {
	if in.UserID == "" {
		return domain.Order{}, domain.ErrUserIDRequired
	}
	if in.EventID == "" {
		return domain.Order{}, domain.ErrEventIDRequired
	}
	if in.Quantity <= 0 {
		return domain.Order{}, domain.ErrInvalidQuantity
	}

	if err := s.inventory.DecrementRemainingTickets(ctx, in.EventID, in.Quantity); err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:        newOrderID(),
		UserID:    in.UserID,
		EventID:   in.EventID,
		Quantity:  in.Quantity,
		Status:    domain.OrderStatusPending,
		CreatedAt: s.clock.Now(),
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	body, err := json.Marshal(domain.OrderCreated{
		OrderID:   order.ID,
		UserID:    order.UserID,
		EventID:   order.EventID,
		Quantity:  order.Quantity,
		CreatedAt: order.CreatedAt,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("encode order message: %w", err)
	}
	if err := s.publisher.Publish(ctx, body); err != nil {
		return domain.Order{}, fmt.Errorf("publish order message: %w", err)
	}

	return order, nil
}
