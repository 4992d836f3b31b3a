package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-coursechat-be/internal/constant"
	"ai-coursechat-be/internal/dto"
	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/pkg/logger"
	"ai-coursechat-be/pkg/rag/pipeline"
	"ai-coursechat-be/pkg/session"
)

type IChatService interface {
	// PrepareStream resolves the request defaults and runs every stage up
	// to generation. The caller must Stream or Close the returned value.
	PrepareStream(ctx context.Context, req *dto.StreamChatRequest) (*pipeline.Generation, error)

	// CompleteStream records a finished exchange on the event bus.
	CompleteStream(ctx context.Context, sessionID string, result *pipeline.Result)

	GetHistory(ctx context.Context, sessionID string) (*dto.SessionHistoryResponse, error)
	DeleteSession(ctx context.Context, sessionID string) (*dto.DeleteChatSessionResponse, error)
}

type chatService struct {
	executor         *pipeline.Executor
	store            session.Store
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewChatService(
	executor *pipeline.Executor,
	store session.Store,
	publisherService IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		executor:         executor,
		store:            store,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *chatService) PrepareStream(ctx context.Context, req *dto.StreamChatRequest) (*pipeline.Generation, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = constant.DefaultSessionID
	}

	systemPrompt := constant.ChatDefaultSystemPromptV1
	if req.SystemPromptText != "" {
		systemPrompt = req.SystemPromptText
	}

	return s.executor.Prepare(ctx, pipeline.Request{
		SessionID:    sessionID,
		Query:        req.Message,
		SystemPrompt: systemPrompt,
		Filter: entity.RetrievalFilter{
			DocPath: req.DocPath,
			Pages:   req.Pages,
		},
	})
}

func (s *chatService) CompleteStream(ctx context.Context, sessionID string, result *pipeline.Result) {
	if sessionID == "" {
		sessionID = constant.DefaultSessionID
	}

	payload, err := json.Marshal(map[string]interface{}{
		"session_id":   sessionID,
		"turns":        result.Turns,
		"answer_chars": len(result.Answer),
		"passages":     len(result.Passages),
		"persisted":    result.Persisted,
	})
	if err != nil {
		s.logger.Warn("CHAT", "Failed to marshal completion event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}

	// The exchange already succeeded from the user's point of view; a bus
	// failure only costs the downstream event.
	if err := s.publisherService.Publish(ctx, constant.TopicChatCompleted, payload); err != nil {
		s.logger.Warn("CHAT", "Failed to publish completion event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func (s *chatService) GetHistory(ctx context.Context, sessionID string) (*dto.SessionHistoryResponse, error) {
	history, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.logger.Error("CHAT", "Failed to load session history", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}

	turns := make([]dto.SessionTurnDTO, 0, len(history.Turns))
	for _, turn := range history.Turns {
		turns = append(turns, dto.SessionTurnDTO{
			Role:    turn.Role,
			Content: turn.Content,
			Seq:     turn.Seq,
		})
	}

	return &dto.SessionHistoryResponse{
		SessionID: sessionID,
		Turns:     turns,
	}, nil
}

func (s *chatService) DeleteSession(ctx context.Context, sessionID string) (*dto.DeleteChatSessionResponse, error) {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.Error("CHAT", "Failed to delete session", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("CHAT", "Session deleted", map[string]interface{}{
		"session_id": sessionID,
	})

	payload, err := json.Marshal(map[string]interface{}{
		"session_id": sessionID,
	})
	if err == nil {
		if err := s.publisherService.Publish(ctx, constant.TopicSessionDeleted, payload); err != nil {
			s.logger.Warn("CHAT", "Failed to publish session deletion event", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	return &dto.DeleteChatSessionResponse{
		Status:    "deleted",
		SessionID: sessionID,
	}, nil
}
