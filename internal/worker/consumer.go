// Package worker runs the asynchronous confirmation consumer: it drains the
// order-created queue in bounded batches and confirms each order.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cimillas/ticketline/internal/domain"
	"github.com/cimillas/ticketline/internal/queue"
	"go.uber.org/zap"
)

// MessageSource is the slice of the queue contract the consumer needs.
type MessageSource interface {
	Receive(ctx context.Context, max int) ([]queue.Message, error)
	Delete(ctx context.Context, id int64) error
}

type OrderConfirmer interface {
	ConfirmOrder(ctx context.Context, orderID string) error
}

const (
	defaultBatchSize    = 10
	defaultPollInterval = time.Second
)

// Consumer polls the queue and confirms orders. Each message in a batch is
// evaluated on its own: a handled message is deleted, a failed one is left
// untouched so the queue redelivers it after the visibility timeout, and one
// message's failure never blocks its siblings. Several consumers may run
// concurrently; the queue hands them disjoint batches.
type Consumer struct {
	source MessageSource
	orders OrderConfirmer
	logger *zap.Logger

	batchSize    int
	pollInterval time.Duration
}

type ConsumerOption func(*Consumer)

func WithBatchSize(n int) ConsumerOption {
	return func(c *Consumer) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

func WithPollInterval(d time.Duration) ConsumerOption {
	return func(c *Consumer) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

func NewConsumer(source MessageSource, orders OrderConfirmer, logger *zap.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		source:       source,
		orders:       orders,
		logger:       logger,
		batchSize:    defaultBatchSize,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run polls until ctx is cancelled. Receive errors are logged and retried
// after the poll interval; they never stop the loop.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		n, err := c.ProcessBatch(ctx)
		if err != nil {
			c.logger.Error("receive batch", zap.Error(err))
		}
		if err == nil && n > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// ProcessBatch receives one batch and reports how many messages it saw.
func (c *Consumer) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := c.source.Receive(ctx, c.batchSize)
	if err != nil {
		return 0, err
	}

	for _, msg := range messages {
		if c.handle(ctx, msg) {
			if err := c.source.Delete(ctx, msg.ID); err != nil {
				// The queue redelivers and the confirm is idempotent.
				c.logger.Error("delete message", zap.Int64("messageId", msg.ID), zap.Error(err))
			}
		}
	}
	return len(messages), nil
}

// handle processes one message and reports whether it is finished. Malformed
// payloads and references to orders that do not exist are conditions that
// redelivery cannot fix, so they count as handled rather than looping until
// the dead-letter path.
func (c *Consumer) handle(ctx context.Context, msg queue.Message) bool {
	var event domain.OrderCreated
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Error("malformed order message, dropping",
			zap.Int64("messageId", msg.ID), zap.Error(err))
		return true
	}
	if event.OrderID == "" {
		c.logger.Error("order message without orderId, dropping",
			zap.Int64("messageId", msg.ID))
		return true
	}

	err := c.orders.ConfirmOrder(ctx, event.OrderID)
	switch {
	case err == nil:
		c.logger.Info("order confirmed", zap.String("orderId", event.OrderID))
		return true
	case err == domain.ErrOrderNotFound:
		c.logger.Warn("order not found, dropping message",
			zap.String("orderId", event.OrderID), zap.Int64("messageId", msg.ID))
		return true
	default:
		c.logger.Error("confirm order",
			zap.String("orderId", event.OrderID),
			zap.Int("receiveCount", msg.ReceiveCount),
			zap.Error(err))
		return false
	}
}
