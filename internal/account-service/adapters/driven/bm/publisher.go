package bm

import (
	"context"

	ports "ride-hail-accounts/internal/account-service/core/ports/driven"
	"ride-hail-accounts/internal/mylogger"
)

// Publisher binds the broker to the account_topic exchange.
type Publisher struct {
	ctx    context.Context
	log    mylogger.Logger
	broker ports.IAccountBroker
}

func NewPublisher(ctx context.Context, broker ports.IAccountBroker, log mylogger.Logger) *Publisher {
	return &Publisher{
		ctx:    ctx,
		broker: broker,
		log:    log,
	}
}

var _ ports.IEventPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(routingKey string, msg any) error {
	err := p.broker.PublishJSON(p.ctx, accountExchangeName, routingKey, msg)
	if err != nil {
		p.log.Action("publish").Error("failed to publish message", err)
		return err
	}
	p.log.Action("publish").Debug("message published", "routing_key", routingKey)
	return nil
}
