package service

import (
	"context"
	"strings"

	"ai-coursechat-be/internal/constant"
	"ai-coursechat-be/internal/pkg/logger"
	"ai-coursechat-be/pkg/events"
	pktNats "ai-coursechat-be/pkg/nats"
)

// SessionEventDelivery defines how to push real-time session updates.
// Typically implemented by the WebSocket Hub.
type SessionEventDelivery interface {
	SessionCleared(sessionID string)
}

// ChatNotifierService turns bus events back into client-facing pushes, so
// connected websocket clients learn when their session was wiped regardless
// of which instance handled the delete.
type ChatNotifierService struct {
	subscriber *pktNats.Subscriber
	delivery   SessionEventDelivery
	logger     logger.ILogger
}

func NewChatNotifierService(sub *pktNats.Subscriber, delivery SessionEventDelivery, log logger.ILogger) *ChatNotifierService {
	return &ChatNotifierService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *ChatNotifierService) Start() {
	err := s.subscriber.Subscribe("events.>", "coursechat-notifier", s.handleEvent)
	if err != nil {
		s.logger.Error("NOTIFIER", "Failed to start event subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NOTIFIER", "Chat notifier started, listening to events.>", nil)
}

func (s *ChatNotifierService) handleEvent(_ context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	switch typeCode {
	case constant.TopicSessionDeleted:
		sessionID, _ := event.Payload()["session_id"].(string)
		if sessionID == "" {
			s.logger.Warn("NOTIFIER", "Session deletion event without session_id", nil)
			return nil
		}
		s.delivery.SessionCleared(sessionID)
		s.logger.Info("NOTIFIER", "Session cleared broadcast sent", map[string]interface{}{
			"session_id": sessionID,
		})

	case constant.TopicChatCompleted:
		s.logger.Debug("NOTIFIER", "Chat completed", map[string]interface{}{
			"payload": event.Payload(),
		})
	}

	return nil
}
