package audit

import (
	"context"
	"log/slog"

	id "taskgate/pkg/domain"
	"taskgate/pkg/requestcontext"
)

// Sink receives audit events. Implementations must be safe for concurrent use.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a sink that also supports reading events back, used by the memory
// implementation and by tests.
type Store interface {
	Sink
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Publisher captures structured audit events and fans them out to sinks.
// It is append-only; sink failures are logged, never propagated, so an audit
// outage cannot fail the business operation it describes.
type Publisher struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewPublisher creates a publisher over the given sinks.
func NewPublisher(logger *slog.Logger, sinks ...Sink) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{sinks: sinks, logger: logger}
}

// Emit enriches the event from context (timestamp, request ID, device) and
// appends it to every sink.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Device == "" {
		event.Device = requestcontext.DeviceName(ctx)
	}

	for _, sink := range p.sinks {
		if err := sink.Append(ctx, event); err != nil {
			p.logger.ErrorContext(ctx, "audit append failed",
				"error", err,
				"action", string(event.Action),
				"user_id", event.UserID.String(),
			)
		}
	}
}
