package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/cimillas/ticketline/internal/domain"
)

// EventReader is the minimal interface needed to serve the catalog.
type EventReader interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

// HandleListEvents returns the HTTP handler for GET /events.
func HandleListEvents(svc EventReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}

		events, err := svc.ListEvents(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, msgInternalError)
			return
		}

		out := make([]eventResponse, 0, len(events))
		for _, e := range events {
			out = append(out, toEventResponse(e))
		}
		writeData(w, http.StatusOK, out)
	}
}

// HandleEventDetail returns the HTTP handler for GET /events/{eventId}.
func HandleEventDetail(svc EventReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}

		eventID, ok := parseDetailPath(r.URL.Path, "events")
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		event, err := svc.GetEvent(r.Context(), eventID)
		if err != nil {
			switch err {
			case domain.ErrEventNotFound:
				writeError(w, http.StatusNotFound, "Event not found")
			default:
				writeError(w, http.StatusInternalServerError, msgInternalError)
			}
			return
		}

		writeData(w, http.StatusOK, toEventResponse(event))
	}
}

// parseDetailPath matches /<resource>/<id> and returns the id.
func parseDetailPath(path, resource string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] != resource || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type eventResponse struct {
	EventID          string `json:"eventId"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	ImageURL         string `json:"imageUrl"`
	Performer        string `json:"performer"`
	Venue            string `json:"venue"`
	City             string `json:"city"`
	Date             string `json:"date"`
	Price            int    `json:"price"`
	Category         string `json:"category"`
	RemainingTickets int    `json:"remainingTickets"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		EventID:          e.ID,
		Name:             e.Name,
		Description:      e.Description,
		ImageURL:         e.ImageURL,
		Performer:        e.Performer,
		Venue:            e.Venue,
		City:             e.City,
		Date:             e.Date,
		Price:            e.Price,
		Category:         e.Category,
		RemainingTickets: e.RemainingTickets,
	}
}
