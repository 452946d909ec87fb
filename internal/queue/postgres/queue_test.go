package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/cimillas/ticketline/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)

	t.Run("publish receive delete", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		q := New(pool, "orders-test", Options{})

		require.NoError(t, q.Publish(ctx, []byte(`{"orderId":"o1"}`)))
		require.NoError(t, q.Publish(ctx, []byte(`{"orderId":"o2"}`)))

		messages, err := q.Receive(ctx, 10)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		require.Equal(t, `{"orderId":"o1"}`, string(messages[0].Body))
		require.Equal(t, 1, messages[0].ReceiveCount)

		for _, m := range messages {
			require.NoError(t, q.Delete(ctx, m.ID))
		}

		messages, err = q.Receive(ctx, 10)
		require.NoError(t, err)
		require.Empty(t, messages)
	})

	t.Run("leased messages are invisible until the timeout", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		q := New(pool, "orders-test", Options{VisibilityTimeout: time.Minute})

		require.NoError(t, q.Publish(ctx, []byte(`one`)))

		first, err := q.Receive(ctx, 10)
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := q.Receive(ctx, 10)
		require.NoError(t, err)
		require.Empty(t, second)
	})

	t.Run("unacknowledged messages are redelivered", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		q := New(pool, "orders-test", Options{VisibilityTimeout: 100 * time.Millisecond})

		require.NoError(t, q.Publish(ctx, []byte(`one`)))

		first, err := q.Receive(ctx, 10)
		require.NoError(t, err)
		require.Len(t, first, 1)

		time.Sleep(200 * time.Millisecond)

		second, err := q.Receive(ctx, 10)
		require.NoError(t, err)
		require.Len(t, second, 1)
		require.Equal(t, first[0].ID, second[0].ID)
		require.Equal(t, 2, second[0].ReceiveCount)
	})

	t.Run("exhausted messages move to the dead letter table", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		q := New(pool, "orders-test", Options{
			VisibilityTimeout: 10 * time.Millisecond,
			MaxReceives:       2,
		})

		require.NoError(t, q.Publish(ctx, []byte(`poison`)))

		for i := 0; i < 2; i++ {
			messages, err := q.Receive(ctx, 10)
			require.NoError(t, err)
			require.Len(t, messages, 1)
			time.Sleep(50 * time.Millisecond)
		}

		messages, err := q.Receive(ctx, 10)
		require.NoError(t, err)
		require.Empty(t, messages)

		letters, err := q.ListDeadLetters(ctx, 10)
		require.NoError(t, err)
		require.Len(t, letters, 1)
		require.Equal(t, `poison`, string(letters[0].Body))
		require.Equal(t, 2, letters[0].ReceiveCount)
	})

	t.Run("queues are isolated by name", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		a := New(pool, "queue-a", Options{})
		b := New(pool, "queue-b", Options{})

		require.NoError(t, a.Publish(ctx, []byte(`for-a`)))

		messages, err := b.Receive(ctx, 10)
		require.NoError(t, err)
		require.Empty(t, messages)

		messages, err = a.Receive(ctx, 10)
		require.NoError(t, err)
		require.Len(t, messages, 1)
	})

	t.Run("receive respects max", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		q := New(pool, "orders-test", Options{})

		for i := 0; i < 5; i++ {
			require.NoError(t, q.Publish(ctx, []byte(`msg`)))
		}

		messages, err := q.Receive(ctx, 3)
		require.NoError(t, err)
		require.Len(t, messages, 3)
	})
}
