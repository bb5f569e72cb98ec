package notifier

import (
	"context"
	"log/slog"
	"sync"

	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/shared"
)

// Fanout delivers each event to every sink. Sinks are independent: one
// failing does not stop the others, and the first error is returned.
type Fanout struct {
	sinks []shared.EventPublisher
}

func NewFanout(sinks ...shared.EventPublisher) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Publish(ctx context.Context, event shared.Event) error {
	var first error
	for _, s := range f.sinks {
		if err := s.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	if first != nil {
		return errs.Wrap(first, "fanout")
	}
	return nil
}

// LogSink records events in the structured log.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, event shared.Event) error {
	s.logger.InfoContext(ctx, "event", "name", event.Name, "occurred_at", event.OccurredAt, "payload", event.Payload)
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []shared.Event
}

func (r *Recorder) Publish(_ context.Context, event shared.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Events() []shared.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.Event(nil), r.events...)
}

func (r *Recorder) Names() []shared.EventName {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]shared.EventName, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Name)
	}
	return names
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
