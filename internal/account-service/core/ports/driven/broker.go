package driven

import "context"

type IAccountBroker interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, msg any) error
	IsAlive() bool
	Close() error
}

// IEventPublisher is the narrow surface the service layer publishes through.
type IEventPublisher interface {
	Publish(routingKey string, msg any) error
}
