package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const clientBuffer = 64

// Client is one realtime subscriber. StationTypeID narrows the stream to one
// station type; uuid.Nil receives everything.
type Client struct {
	ID            string
	StationTypeID uuid.UUID
	Send          chan []byte
}

// Hub fans committed events out to connected realtime clients. A client that
// is not keeping up loses messages instead of blocking publishers.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{clients: make(map[string]*Client), logger: logger}
}

func (h *Hub) Subscribe(typeID uuid.UUID) *Client {
	c := &Client{ID: uuid.NewString(), StationTypeID: typeID, Send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	return c
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		close(c.Send)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Publish(_ context.Context, event shared.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "encode event")
	}
	typeID := stationTypeOf(event)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.StationTypeID != uuid.Nil && c.StationTypeID != typeID {
			continue
		}
		select {
		case c.Send <- body:
		default:
			h.logger.Warn("dropping realtime message for slow client", "client_id", c.ID, "event", event.Name)
		}
	}
	return nil
}

func stationTypeOf(event shared.Event) uuid.UUID {
	switch p := event.Payload.(type) {
	case shared.BookingPayload:
		return p.StationTypeID
	case shared.QueuePayload:
		return p.StationTypeID
	case shared.SessionPayload:
		return p.StationTypeID
	default:
		return uuid.Nil
	}
}
