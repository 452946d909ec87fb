package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cimillas/ticketline/internal/app"
	"github.com/cimillas/ticketline/internal/auth"
	"github.com/cimillas/ticketline/internal/domain"
)

// Purchaser is the minimal interface needed to buy tickets.
type Purchaser interface {
	Purchase(ctx context.Context, in app.PurchaseInput) (domain.Order, error)
}

// HandlePurchase returns the HTTP handler for POST /purchase.
func HandlePurchase(svc Purchaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}

		userID, err := auth.VerifyRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		var req purchaseRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		if req.EventID == "" || req.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "eventId and quantity (positive) are required")
			return
		}

		order, err := svc.Purchase(r.Context(), app.PurchaseInput{
			UserID:   userID,
			EventID:  req.EventID,
			Quantity: req.Quantity,
		})
		if err != nil {
			switch err {
			case domain.ErrUserIDRequired, domain.ErrEventIDRequired, domain.ErrInvalidQuantity:
				writeError(w, http.StatusBadRequest, err.Error())
			case domain.ErrInsufficientTickets:
				writeError(w, http.StatusBadRequest, "Not enough tickets available")
			case domain.ErrEventNotFound:
				writeError(w, http.StatusNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, msgInternalError)
			}
			return
		}

		writeData(w, http.StatusOK, purchaseResponse{OrderID: order.ID})
	}
}

type purchaseRequest struct {
	EventID  string `json:"eventId"`
	Quantity int    `json:"quantity"`
}

type purchaseResponse struct {
	OrderID string `json:"orderId"`
}
