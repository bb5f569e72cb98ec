//go:build unit

package api_test

import (
	"context"
	"net/http"
	nethttptest "net/http/httptest"
	"strings"
	"sync"
	"time"

	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// streamRecorder is safe to read while the handler is still streaming and
// satisfies the CloseNotifier gin's Stream needs.
type streamRecorder struct {
	*nethttptest.ResponseRecorder
	mu     sync.Mutex
	closed chan bool
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{ResponseRecorder: nethttptest.NewRecorder(), closed: make(chan bool, 1)}
}

func (r *streamRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Write(b)
}

func (r *streamRecorder) WriteString(s string) (int, error) {
	return r.Write([]byte(s))
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func (r *streamRecorder) body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Body.String()
}

func (s *HandlerSuite) openStream(query string) (*streamRecorder, context.CancelFunc, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	req := nethttptest.NewRequest(http.MethodGet, "/api/events"+query, nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+s.customerToken())

	rec := newStreamRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.router.ServeHTTP(rec, req)
	}()
	return rec, cancel, done
}

func (s *HandlerSuite) TestEventStream() {
	typeID := uuid.New()

	s.Run("delivers events for the subscribed station type only", func() {
		rec, cancel, done := s.openStream("?station_type_id=" + typeID.String())
		s.Eventually(func() bool { return s.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

		ctx := context.Background()
		s.Require().NoError(s.hub.Publish(ctx, shared.Event{
			Name:    shared.EventQueueUpdated,
			Payload: shared.QueuePayload{StationTypeID: uuid.New(), Waiting: 9},
		}))
		s.Require().NoError(s.hub.Publish(ctx, shared.Event{
			Name:    shared.EventSessionStarted,
			Payload: shared.SessionPayload{SessionID: uuid.New(), StationTypeID: typeID, Status: "active"},
		}))

		s.Eventually(func() bool { return strings.Contains(rec.body(), "session_started") }, time.Second, 5*time.Millisecond)
		cancel()
		<-done

		body := rec.body()
		s.Contains(body, "event:message")
		s.NotContains(body, "queue_updated")
		s.Equal("text/event-stream", rec.Header().Get("Content-Type"))
		s.Zero(s.hub.ClientCount())
	})

	s.Run("rejects a malformed station type filter", func() {
		req := nethttptest.NewRequest(http.MethodGet, "/api/events?station_type_id=nope", nil)
		req.Header.Set("Authorization", "Bearer "+s.customerToken())
		rec := nethttptest.NewRecorder()

		s.router.ServeHTTP(rec, req)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Zero(s.hub.ClientCount())
	})

	s.Run("requires authentication", func() {
		req := nethttptest.NewRequest(http.MethodGet, "/api/events", nil)
		rec := nethttptest.NewRecorder()

		s.router.ServeHTTP(rec, req)

		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}
