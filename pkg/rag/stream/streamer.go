package stream

import (
	"context"
	"fmt"
	"strings"

	"ai-coursechat-be/internal/constant"
	"ai-coursechat-be/pkg/llm"
	"ai-coursechat-be/pkg/session"
)

// ChunkFunc receives each answer fragment as it arrives. Returning an error
// stops the stream; fragments already delivered stand.
type ChunkFunc func(content string) error

// Streamer drives the answer model. The prompt carries the retrieved context
// as a second system message and closes with the user's raw query, so the
// model answers the question as the user actually phrased it.
type Streamer struct {
	provider    llm.LLMProvider
	temperature float64
	maxTokens   int
}

func NewStreamer(provider llm.LLMProvider, temperature float64, maxTokens int) *Streamer {
	return &Streamer{
		provider:    provider,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Stream generates the answer, forwarding each fragment to onChunk before
// taking the next from the model. It returns the full delivered text; on a
// mid-stream failure the text delivered so far is returned with the error.
func (s *Streamer) Stream(ctx context.Context, systemPrompt, contextBlock string, history *session.History, rawQuery string, onChunk ChunkFunc) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	turns := 0
	if history != nil {
		turns = len(history.Turns)
	}

	messages := make([]llm.Message, 0, turns+3)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, llm.Message{Role: "system", Content: constant.ChatContextMessagePrefix + contextBlock})
	if history != nil {
		for _, turn := range history.Turns {
			messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
		}
	}
	messages = append(messages, llm.Message{Role: "user", Content: rawQuery})

	opts := []llm.Option{llm.WithTemperature(s.temperature)}
	if s.maxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(s.maxTokens))
	}

	out, err := s.provider.ChatStream(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to start answer stream: %w", err)
	}

	var answer strings.Builder
	for chunk := range out {
		if chunk.Err != nil {
			return answer.String(), fmt.Errorf("answer stream failed: %w", chunk.Err)
		}
		if chunk.Done {
			break
		}
		if chunk.Content == "" {
			continue
		}
		if err := onChunk(chunk.Content); err != nil {
			return answer.String(), fmt.Errorf("failed to deliver chunk: %w", err)
		}
		answer.WriteString(chunk.Content)
	}

	return answer.String(), nil
}
