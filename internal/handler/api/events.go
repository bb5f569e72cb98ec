package api

import (
	"io"
	"time"

	"gamezone-booking/internal/handler/httperr"
	"gamezone-booking/internal/infra/notifier"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const heartbeatInterval = 15 * time.Second

type EventSubscriber interface {
	Subscribe(typeID uuid.UUID) *notifier.Client
	Unsubscribe(c *notifier.Client)
}

type EventsHandler struct {
	subscriber EventSubscriber
}

func NewEventsHandler(subscriber EventSubscriber) *EventsHandler {
	return &EventsHandler{subscriber: subscriber}
}

// @Summary Realtime booking events
// @Description Server-sent event stream of booking, queue and session events
// @Tags events
// @Produce text/event-stream
// @Security BearerAuth
// @Param station_type_id query string false "Only events for this station type"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} httperr.Response
// @Router /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	typeID := uuid.Nil
	if raw := c.Query("station_type_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httperr.AbortBadRequest(c, err, "Invalid station type ID format")
			return
		}
		typeID = parsed
	}

	client := h.subscriber.Subscribe(typeID)
	defer h.subscriber.Unsubscribe(client)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case msg, ok := <-client.Send:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", "{}")
			return true
		}
	})
}
