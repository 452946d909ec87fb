package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cimillas/ticketline/internal/queue"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultVisibilityTimeout = 30 * time.Second
	defaultMaxReceives       = 3
)

// Queue is a named at-least-once message queue backed by the queue_messages
// table. Receiving a message leases it: visible_at is pushed past the
// visibility timeout and receive_count is incremented, so an unacknowledged
// message is redelivered once the lease expires. A message whose receive
// count reaches MaxReceives is moved to dead_letters instead of being
// delivered again.
type Queue struct {
	pool        *pgxpool.Pool
	name        string
	visibility  time.Duration
	maxReceives int
}

type Options struct {
	VisibilityTimeout time.Duration
	MaxReceives       int
}

func New(pool *pgxpool.Pool, name string, opts Options) *Queue {
	q := &Queue{
		pool:        pool,
		name:        name,
		visibility:  defaultVisibilityTimeout,
		maxReceives: defaultMaxReceives,
	}
	if opts.VisibilityTimeout > 0 {
		q.visibility = opts.VisibilityTimeout
	}
	if opts.MaxReceives > 0 {
		q.maxReceives = opts.MaxReceives
	}
	return q
}

func (q *Queue) Publish(ctx context.Context, body []byte) error {
	const stmt = `INSERT INTO queue_messages (queue, body) VALUES ($1, $2)`

	if _, err := q.pool.Exec(ctx, stmt, q.name, string(body)); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Receive claims up to max visible messages. Messages that already used up
// their receive budget are dead-lettered first, then the claim itself uses
// FOR UPDATE SKIP LOCKED so concurrent workers receive disjoint batches.
func (q *Queue) Receive(ctx context.Context, max int) ([]queue.Message, error) {
	const deadLetterStmt = `
WITH dead AS (
	DELETE FROM queue_messages
	WHERE queue = $1 AND visible_at <= NOW() AND receive_count >= $2
	RETURNING id, queue, body, enqueued_at, receive_count
)
INSERT INTO dead_letters (message_id, queue, body, enqueued_at, receive_count)
SELECT id, queue, body, enqueued_at, receive_count FROM dead`

	const claimStmt = `
UPDATE queue_messages
SET visible_at = NOW() + make_interval(secs => $3), receive_count = receive_count + 1
WHERE id IN (
	SELECT id FROM queue_messages
	WHERE queue = $1 AND visible_at <= NOW()
	ORDER BY id
	LIMIT $2
	FOR UPDATE SKIP LOCKED
)
RETURNING id, body, receive_count`

	tx, err := q.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin receive: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deadLetterStmt, q.name, q.maxReceives); err != nil {
		return nil, fmt.Errorf("dead-letter exhausted messages: %w", err)
	}

	rows, err := tx.Query(ctx, claimStmt, q.name, max, q.visibility.Seconds())
	if err != nil {
		return nil, fmt.Errorf("claim messages: %w", err)
	}

	var messages []queue.Message
	for rows.Next() {
		var m queue.Message
		var body string
		if err := rows.Scan(&m.ID, &body, &m.ReceiveCount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Body = []byte(body)
		messages = append(messages, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("claim messages: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit receive: %w", err)
	}
	return messages, nil
}

// Delete acknowledges a handled message so it is never delivered again.
func (q *Queue) Delete(ctx context.Context, id int64) error {
	const stmt = `DELETE FROM queue_messages WHERE id = $1`

	if _, err := q.pool.Exec(ctx, stmt, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// ListDeadLetters returns dead-lettered messages for this queue, oldest
// first. Intended for operator inspection.
func (q *Queue) ListDeadLetters(ctx context.Context, limit int) ([]queue.DeadLetter, error) {
	const query = `
SELECT message_id, body, enqueued_at, receive_count, dead_at
FROM dead_letters
WHERE queue = $1
ORDER BY dead_at, message_id
LIMIT $2`

	rows, err := q.pool.Query(ctx, query, q.name, limit)
	if err != nil {
		return nil, fmt.Errorf("list dead letters: %w", err)
	}
	defer rows.Close()

	var letters []queue.DeadLetter
	for rows.Next() {
		var d queue.DeadLetter
		var body string
		if err := rows.Scan(&d.MessageID, &body, &d.EnqueuedAt, &d.ReceiveCount, &d.DeadAt); err != nil {
			return nil, fmt.Errorf("scan dead letter: %w", err)
		}
		d.Body = []byte(body)
		letters = append(letters, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dead letters: %w", err)
	}
	return letters, nil
}
