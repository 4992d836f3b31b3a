package reformulate

import (
	"context"
	"fmt"
	"strings"

	"ai-coursechat-be/pkg/llm"
	"ai-coursechat-be/pkg/session"
)

// Reformulator rewrites a follow-up question into a standalone query using
// the conversation so far. The rewrite feeds retrieval only; generation
// always sees the user's original wording.
type Reformulator struct {
	provider    llm.LLMProvider
	instruction string
}

func NewReformulator(provider llm.LLMProvider, instruction string) *Reformulator {
	return &Reformulator{
		provider:    provider,
		instruction: instruction,
	}
}

// Standalone returns a self-contained version of rawQuery. With no prior
// turns the raw query is already standalone and no model call is made.
func (r *Reformulator) Standalone(ctx context.Context, history *session.History, rawQuery string) (string, error) {
	if history == nil || len(history.Turns) == 0 {
		return rawQuery, nil
	}

	messages := make([]llm.Message, 0, len(history.Turns)+2)
	messages = append(messages, llm.Message{Role: "system", Content: r.instruction})
	for _, turn := range history.Turns {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: rawQuery})

	out, err := r.provider.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to reformulate query: %w", err)
	}

	standalone := strings.TrimSpace(out)
	if standalone == "" {
		// An empty rewrite retrieves nothing; the raw query is the better search.
		return rawQuery, nil
	}
	return standalone, nil
}
