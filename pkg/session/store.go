package session

import "context"

// Turn is a single message in a conversation. Seq is assigned in append
// order starting at 0 and is never reused within a session.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Seq     int    `json:"seq"`
}

// History is the ordered conversation for one session id. The store does
// not enforce role alternation; any appended sequence is accepted.
type History struct {
	Turns []Turn `json:"turns"`
}

// Append adds a turn with the next sequence number.
func (h *History) Append(role, content string) {
	next := 0
	if n := len(h.Turns); n > 0 {
		next = h.Turns[n-1].Seq + 1
	}
	h.Turns = append(h.Turns, Turn{Role: role, Content: content, Seq: next})
}

// Store persists conversation history keyed by session id.
//
// Load returns an empty history for an unknown session id; only transport
// or record-decode failures return an error. Delete is idempotent, so
// deleting an absent session succeeds.
type Store interface {
	Load(ctx context.Context, sessionID string) (*History, error)
	Save(ctx context.Context, sessionID string, history *History) error
	Delete(ctx context.Context, sessionID string) error
}
