package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// Order represents a purchase. It is created as pending by the purchase
// service and moves to confirmed at most once; confirmed is terminal.
type Order struct {
	ID        string
	UserID    string
	EventID   string
	Quantity  int
	Status    OrderStatus
	CreatedAt time.Time
}

// OrderWithEvent pairs an order with its catalog event for listings. Event
// is nil when the referenced event no longer exists.
type OrderWithEvent struct {
	Order
	Event *Event
}

// OrderCreated is the message published to the order queue after a
// successful purchase.
type OrderCreated struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	EventID   string    `json:"eventId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}
