package interfaces

import "context"

// EventPublisher ships domain events to whatever broker is configured.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event any) error
}
