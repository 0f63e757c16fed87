package queue

import "context"

// EventsQueue is the durable queue downstream channels (email digests,
// mobile push) consume notification events from.
const EventsQueue = "notification.events"

// Publisher publishes notification events to the broker.
type Publisher interface {
	PublishCreated(ctx context.Context, event NotificationEvent) error
	Close() error
}
