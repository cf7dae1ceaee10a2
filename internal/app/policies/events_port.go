package policies

import "context"

// EventsPort publishes domain events to the broker. Publishing is
// fire-and-forget from the services' point of view.
type EventsPort interface {
	Publish(ctx context.Context, name, key string, payload []byte) error
}
