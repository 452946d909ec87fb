// Package queue defines the message-channel contract between the purchase
// side and the confirmation worker: at-least-once delivery with a visibility
// timeout, a bounded receive count, and a dead-letter path beyond it.
package queue

import (
	"context"
	"time"
)

// Message is a single delivery. The same message may be delivered more than
// once; ReceiveCount reports how many times it has been claimed so far.
type Message struct {
	ID           int64
	Body         []byte
	ReceiveCount int
}

// DeadLetter is a message that exhausted its receive budget and was removed
// from normal delivery for manual inspection.
type DeadLetter struct {
	MessageID    int64
	Body         []byte
	EnqueuedAt   time.Time
	ReceiveCount int
	DeadAt       time.Time
}

// Publisher enqueues messages for later delivery.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// Receiver claims batches of visible messages and acknowledges handled ones.
// A claimed message that is never deleted becomes visible again once its
// visibility timeout expires; the receiver does nothing to trigger that.
type Receiver interface {
	Receive(ctx context.Context, max int) ([]Message, error)
	Delete(ctx context.Context, id int64) error
}
