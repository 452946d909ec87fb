package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cimillas/ticketline/internal/domain"
	"github.com/cimillas/ticketline/internal/queue"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	messages   []queue.Message
	receiveErr error
	deleted    []int64
	deleteErr  error
}

func (f *fakeSource) Receive(_ context.Context, max int) ([]queue.Message, error) {
	if f.receiveErr != nil {
		return nil, f.receiveErr
	}
	if len(f.messages) > max {
		return f.messages[:max], nil
	}
	return f.messages, nil
}

func (f *fakeSource) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeConfirmer struct {
	confirmed []string
	errs      map[string]error
}

func (f *fakeConfirmer) ConfirmOrder(_ context.Context, orderID string) error {
	if err, ok := f.errs[orderID]; ok {
		return err
	}
	f.confirmed = append(f.confirmed, orderID)
	return nil
}

func orderMessage(id int64, orderID string) queue.Message {
	return queue.Message{
		ID:   id,
		Body: []byte(`{"orderId":"` + orderID + `","userId":"alice","eventId":"e001","quantity":1}`),
	}
}

func TestConsumer_ProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("confirms and deletes each message", func(t *testing.T) {
		source := &fakeSource{messages: []queue.Message{
			orderMessage(1, "o1"),
			orderMessage(2, "o2"),
		}}
		confirmer := &fakeConfirmer{}
		c := NewConsumer(source, confirmer, zap.NewNop())

		n, err := c.ProcessBatch(context.Background())
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Equal(t, []string{"o1", "o2"}, confirmer.confirmed)
		require.Equal(t, []int64{1, 2}, source.deleted)
	})

	t.Run("order not found is deleted, not retried", func(t *testing.T) {
		source := &fakeSource{messages: []queue.Message{orderMessage(7, "ghost")}}
		confirmer := &fakeConfirmer{errs: map[string]error{"ghost": domain.ErrOrderNotFound}}
		c := NewConsumer(source, confirmer, zap.NewNop())

		n, err := c.ProcessBatch(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.Equal(t, []int64{7}, source.deleted)
	})

	t.Run("malformed payloads are deleted", func(t *testing.T) {
		source := &fakeSource{messages: []queue.Message{
			{ID: 3, Body: []byte(`{not json`)},
			{ID: 4, Body: []byte(`{"userId":"alice"}`)},
		}}
		confirmer := &fakeConfirmer{}
		c := NewConsumer(source, confirmer, zap.NewNop())

		n, err := c.ProcessBatch(context.Background())
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Empty(t, confirmer.confirmed)
		require.Equal(t, []int64{3, 4}, source.deleted)
	})

	t.Run("storage failure leaves the message for redelivery", func(t *testing.T) {
		source := &fakeSource{messages: []queue.Message{orderMessage(5, "o5")}}
		confirmer := &fakeConfirmer{errs: map[string]error{"o5": errors.New("db down")}}
		c := NewConsumer(source, confirmer, zap.NewNop())

		n, err := c.ProcessBatch(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.Empty(t, source.deleted)
	})

	t.Run("one failure does not block the rest of the batch", func(t *testing.T) {
		source := &fakeSource{messages: []queue.Message{
			orderMessage(1, "o1"),
			orderMessage(2, "bad"),
			orderMessage(3, "o3"),
		}}
		confirmer := &fakeConfirmer{errs: map[string]error{"bad": errors.New("db down")}}
		c := NewConsumer(source, confirmer, zap.NewNop())

		n, err := c.ProcessBatch(context.Background())
		require.NoError(t, err)
		require.Equal(t, 3, n)
		require.Equal(t, []string{"o1", "o3"}, confirmer.confirmed)
		require.Equal(t, []int64{1, 3}, source.deleted)
	})

	t.Run("receive error is returned", func(t *testing.T) {
		source := &fakeSource{receiveErr: errors.New("connection reset")}
		c := NewConsumer(source, &fakeConfirmer{}, zap.NewNop())

		_, err := c.ProcessBatch(context.Background())
		require.Error(t, err)
	})

	t.Run("respects batch size", func(t *testing.T) {
		source := &fakeSource{messages: []queue.Message{
			orderMessage(1, "o1"),
			orderMessage(2, "o2"),
			orderMessage(3, "o3"),
		}}
		confirmer := &fakeConfirmer{}
		c := NewConsumer(source, confirmer, zap.NewNop(), WithBatchSize(2))

		n, err := c.ProcessBatch(context.Background())
		require.NoError(t, err)
		require.Equal(t, 2, n)
	})
}

func TestConsumer_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	source := &fakeSource{}
	c := NewConsumer(source, &fakeConfirmer{}, zap.NewNop(), WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}
