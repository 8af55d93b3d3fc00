package kafka

import (
	"context"
	"errors"

	"github.com/IBM/sarama"
)

// MessageHandler processes one consumed message. Returning an error
// leaves the offset unmarked, so the message is redelivered on the next
// group session.
type MessageHandler interface {
	Handle(ctx context.Context, msg *sarama.ConsumerMessage) error
}

// Consumer runs a consumer-group session for the chat relay.
type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
}

func NewConsumer(brokers []string, groupID string, cfg *sarama.Config, handler MessageHandler) (*Consumer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
		cfg.Version = sarama.V2_5_0_0
		// a fresh relay serves live feeds only, no point replaying history
		cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{group: group, handler: handler}, nil
}

// Run consumes until the context is cancelled or the group is closed,
// rejoining after each rebalance.
func (c *Consumer) Run(ctx context.Context, topics []string) error {
	for {
		err := c.group.Consume(ctx, topics, relayGroupHandler{handler: c.handler})
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type relayGroupHandler struct {
	handler MessageHandler
}

func (h relayGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h relayGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h relayGroupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if err := h.handler.Handle(sess.Context(), msg); err != nil {
			continue
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
