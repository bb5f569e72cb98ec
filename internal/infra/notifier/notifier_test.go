//go:build unit

package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"gamezone-booking/internal/usecase/shared"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHub_Publish(t *testing.T) {
	ctx := context.Background()
	typeA, typeB := uuid.New(), uuid.New()
	at := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	t.Run("filters by station type", func(t *testing.T) {
		h := NewHub(discardLogger())
		all := h.Subscribe(uuid.Nil)
		onlyA := h.Subscribe(typeA)
		onlyB := h.Subscribe(typeB)

		require.NoError(t, h.Publish(ctx, shared.Event{
			Name:       shared.EventQueueUpdated,
			OccurredAt: at,
			Payload:    shared.QueuePayload{StationTypeID: typeA, Waiting: 2},
		}))

		assert.Len(t, all.Send, 1)
		assert.Len(t, onlyA.Send, 1)
		assert.Len(t, onlyB.Send, 0)

		var got map[string]any
		require.NoError(t, json.Unmarshal(<-onlyA.Send, &got))
		assert.Equal(t, "queue_updated", got["event"])
	})

	t.Run("slow client drops instead of blocking", func(t *testing.T) {
		h := NewHub(discardLogger())
		c := h.Subscribe(uuid.Nil)
		for i := 0; i < clientBuffer+5; i++ {
			require.NoError(t, h.Publish(ctx, shared.Event{Name: shared.EventSessionEnded, OccurredAt: at}))
		}
		assert.Len(t, c.Send, clientBuffer)
	})

	t.Run("unsubscribe closes the channel once", func(t *testing.T) {
		h := NewHub(discardLogger())
		c := h.Subscribe(uuid.Nil)
		h.Unsubscribe(c)
		h.Unsubscribe(c)

		_, open := <-c.Send
		assert.False(t, open)
		assert.Equal(t, 0, h.ClientCount())
	})
}

type failingSink struct{}

func (failingSink) Publish(context.Context, shared.Event) error {
	return errors.New("broker down")
}

func TestFanout_DeliversToAllSinks(t *testing.T) {
	first, second := &Recorder{}, &Recorder{}
	f := NewFanout(first, failingSink{}, second)

	err := f.Publish(context.Background(), shared.Event{Name: shared.EventBookingCreated})

	require.Error(t, err)
	assert.Equal(t, []shared.EventName{shared.EventBookingCreated}, first.Names())
	assert.Equal(t, []shared.EventName{shared.EventBookingCreated}, second.Names())
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "booking.queue_assigned", RoutingKey(shared.EventQueueAssigned))
}
