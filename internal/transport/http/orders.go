package http

import (
	"context"
	"net/http"

	"github.com/cimillas/ticketline/internal/auth"
	"github.com/cimillas/ticketline/internal/domain"
)

// createdAtLayout is the human-readable rendering used on order reads; the
// stored value stays a full UTC timestamp.
const createdAtLayout = "2006-01-02 15:04:05"

// OrderReader is the minimal interface needed to serve order reads.
type OrderReader interface {
	ListOrders(ctx context.Context, userID string) ([]domain.OrderWithEvent, error)
	GetOrder(ctx context.Context, userID, orderID string) (domain.Order, error)
}

// HandleListOrders returns the HTTP handler for GET /orders.
func HandleListOrders(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}

		userID, err := auth.VerifyRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		orders, err := svc.ListOrders(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, msgInternalError)
			return
		}

		out := make([]orderListItem, 0, len(orders))
		for _, o := range orders {
			item := orderListItem{
				OrderID:   o.ID,
				EventID:   o.EventID,
				Quantity:  o.Quantity,
				CreatedAt: o.CreatedAt.UTC().Format(createdAtLayout),
			}
			if o.Event != nil {
				ev := toEventResponse(*o.Event)
				item.Event = &ev
			}
			out = append(out, item)
		}
		writeData(w, http.StatusOK, out)
	}
}

// HandleOrderDetail returns the HTTP handler for GET /orders/{orderId}.
func HandleOrderDetail(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}

		userID, err := auth.VerifyRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		orderID, ok := parseDetailPath(r.URL.Path, "orders")
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		order, err := svc.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			switch err {
			case domain.ErrOrderNotFound:
				writeError(w, http.StatusNotFound, "Order not found")
			default:
				writeError(w, http.StatusInternalServerError, msgInternalError)
			}
			return
		}

		writeData(w, http.StatusOK, orderDetailResponse{
			OrderID:   order.ID,
			UserID:    order.UserID,
			EventID:   order.EventID,
			Quantity:  order.Quantity,
			Status:    string(order.Status),
			CreatedAt: order.CreatedAt.UTC().Format(createdAtLayout),
		})
	}
}

type orderListItem struct {
	OrderID   string         `json:"orderId"`
	EventID   string         `json:"eventId"`
	Quantity  int            `json:"quantity"`
	CreatedAt string         `json:"createdAt"`
	Event     *eventResponse `json:"event"`
}

type orderDetailResponse struct {
	OrderID   string `json:"orderId"`
	UserID    string `json:"userId"`
	EventID   string `json:"eventId"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}
