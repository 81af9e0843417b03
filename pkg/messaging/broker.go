package messaging

import "context"

// Broker is the interface domain events are relayed through. Channels are
// named by event type.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
