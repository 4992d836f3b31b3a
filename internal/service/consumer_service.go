package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-coursechat-be/pkg/events"
	pktNats "ai-coursechat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService bridges the in-process bus to the NATS event stream.
// Each internal topic is forwarded as subject events.<topic>. With no NATS
// connection the events are dropped with a warning; the chat flow itself
// never depends on the bridge.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topics    []string
	publisher *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topics []string,
	publisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topics:    topics,
		publisher: publisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	for _, topic := range cs.topics {
		messages, err := cs.pubSub.Subscribe(ctx, topic)
		if err != nil {
			return err
		}

		go func(topic string, messages <-chan *message.Message) {
			for msg := range messages {
				cs.processMessage(ctx, topic, msg)
			}
		}(topic, messages)
	}

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, topic string, msg *message.Message) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal %s message: %v", topic, err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if cs.publisher == nil {
		log.Printf("[WARN] Event stream unavailable, dropping %s event", topic)
		msg.Ack()
		return
	}

	evt := events.BaseEvent{
		Type:       topic,
		Data:       payload,
		OccurredAt: time.Now(),
	}

	if err := cs.publisher.Publish(ctx, evt); err != nil {
		log.Printf("[ERROR] Failed to forward %s event: %v", topic, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
