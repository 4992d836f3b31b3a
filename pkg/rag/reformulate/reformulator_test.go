package reformulate

import (
	"context"
	"errors"
	"testing"

	"ai-coursechat-be/pkg/llm"
	"ai-coursechat-be/pkg/session"
)

type fakeChatProvider struct {
	reply    string
	err      error
	calls    int
	messages []llm.Message
}

func (f *fakeChatProvider) Chat(_ context.Context, messages []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

func (f *fakeChatProvider) ChatStream(_ context.Context, _ []llm.Message, _ ...llm.Option) (<-chan llm.StreamChunk, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeChatProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func TestStandaloneEmptyHistorySkipsModel(t *testing.T) {
	provider := &fakeChatProvider{reply: "should never be used"}
	r := NewReformulator(provider, "rewrite instruction")

	got, err := r.Standalone(context.Background(), &session.History{}, "What is a derivative?")
	if err != nil {
		t.Fatalf("Standalone failed: %v", err)
	}
	if got != "What is a derivative?" {
		t.Errorf("query = %q, want raw query unchanged", got)
	}
	if provider.calls != 0 {
		t.Errorf("model calls = %d, want 0 for empty history", provider.calls)
	}
}

func TestStandaloneUsesHistoryAndRawQuery(t *testing.T) {
	provider := &fakeChatProvider{reply: "  What is the derivative of x squared?  "}
	r := NewReformulator(provider, "rewrite instruction")

	history := &session.History{}
	history.Append("user", "Tell me about x squared")
	history.Append("assistant", "It is a parabola.")

	got, err := r.Standalone(context.Background(), history, "And its derivative?")
	if err != nil {
		t.Fatalf("Standalone failed: %v", err)
	}
	if got != "What is the derivative of x squared?" {
		t.Errorf("query = %q, want trimmed model output", got)
	}
	if provider.calls != 1 {
		t.Fatalf("model calls = %d, want 1", provider.calls)
	}

	msgs := provider.messages
	if len(msgs) != 4 {
		t.Fatalf("messages = %d, want 4 (instruction, two turns, raw query)", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != "rewrite instruction" {
		t.Errorf("messages[0] = %+v, want system instruction", msgs[0])
	}
	if msgs[1].Role != "user" || msgs[2].Role != "assistant" {
		t.Errorf("history roles = %s/%s, want user/assistant", msgs[1].Role, msgs[2].Role)
	}
	if msgs[3].Role != "user" || msgs[3].Content != "And its derivative?" {
		t.Errorf("messages[3] = %+v, want raw query as final user message", msgs[3])
	}
}

func TestStandaloneModelFailure(t *testing.T) {
	provider := &fakeChatProvider{err: errors.New("upstream timeout")}
	r := NewReformulator(provider, "rewrite instruction")

	history := &session.History{}
	history.Append("user", "earlier question")

	if _, err := r.Standalone(context.Background(), history, "follow-up"); err == nil {
		t.Error("Standalone should propagate model failure")
	}
}

func TestStandaloneEmptyModelOutputKeepsRawQuery(t *testing.T) {
	provider := &fakeChatProvider{reply: "   "}
	r := NewReformulator(provider, "rewrite instruction")

	history := &session.History{}
	history.Append("user", "earlier question")

	got, err := r.Standalone(context.Background(), history, "follow-up")
	if err != nil {
		t.Fatalf("Standalone failed: %v", err)
	}
	if got != "follow-up" {
		t.Errorf("query = %q, want raw query when the rewrite is empty", got)
	}
}
