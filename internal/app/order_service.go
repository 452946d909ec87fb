package app

import (
	"context"

	"github.com/cimillas/ticketline/internal/domain"
)

type OrderRepository interface {
	ConfirmOrder(ctx context.Context, orderID string) error
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.OrderWithEvent, error)
}

type OrderService struct {
	repo OrderRepository
}

func NewOrderService(repo OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// ConfirmOrder applies the pending → confirmed transition. Repeating it for
// an already-confirmed order is a no-op, so redelivered messages are safe.
func (s *OrderService) ConfirmOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return domain.ErrOrderNotFound
	}
	return s.repo.ConfirmOrder(ctx, orderID)
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.OrderWithEvent, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	return s.repo.ListOrdersByUser(ctx, userID)
}

// GetOrder returns an order owned by userID. Another user's order is
// reported as not found rather than forbidden.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.UserID != userID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}
