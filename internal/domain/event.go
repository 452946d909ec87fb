package domain

// Event represents a ticketed event in the catalog. The only field this
// service ever mutates is RemainingTickets, and only through the conditional
// decrement in the event repository.
type Event struct {
	ID               string
	Name             string
	Description      string
	ImageURL         string
	Performer        string
	Venue            string
	City             string
	Date             string
	Price            int
	Category         string
	RemainingTickets int
}
