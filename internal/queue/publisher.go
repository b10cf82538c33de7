package queue

import "context"

// Publisher pushes domain events to the message broker. Publishing is
// fire-and-forget from the handlers; failures are logged by implementations
// and never surfaced to the caller.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any, requestID string)
	Close() error
}

type noop struct{}

// NewNoop returns a publisher that drops everything. Used when no broker is
// configured and in tests.
func NewNoop() Publisher { return noop{} }

func (noop) Publish(context.Context, string, any, string) {}
func (noop) Close() error                                 { return nil }
