package session

import (
	"context"
	"testing"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	history := &History{}
	history.Append("user", "Explain the water cycle")
	history.Append("assistant", "Water evaporates, condenses, and falls as precipitation.")

	if err := store.Save(ctx, "session-1", history); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Turns) != 2 {
		t.Fatalf("Turns = %d, want 2", len(loaded.Turns))
	}
	if loaded.Turns[0].Role != "user" || loaded.Turns[1].Role != "assistant" {
		t.Errorf("roles = %s/%s, want user/assistant", loaded.Turns[0].Role, loaded.Turns[1].Role)
	}
}

func TestMemoryStoreLoadUnknownSession(t *testing.T) {
	store := NewMemoryStore()

	loaded, err := store.Load(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Load of unknown session should not error, got: %v", err)
	}
	if len(loaded.Turns) != 0 {
		t.Errorf("Turns = %d, want 0", len(loaded.Turns))
	}
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	history := &History{}
	history.Append("user", "hello")
	if err := store.Save(ctx, "session-2", history); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Delete(ctx, "session-2"); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "session-2"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	loaded, err := store.Load(ctx, "session-2")
	if err != nil {
		t.Fatalf("Load after delete failed: %v", err)
	}
	if len(loaded.Turns) != 0 {
		t.Errorf("Turns after delete = %d, want 0", len(loaded.Turns))
	}
}

func TestMemoryStoreLoadedHistoryIsIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	history := &History{}
	history.Append("user", "original")
	if err := store.Save(ctx, "session-3", history); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	first, err := store.Load(ctx, "session-3")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	first.Append("assistant", "mutation that must not leak")

	second, err := store.Load(ctx, "session-3")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if len(second.Turns) != 1 {
		t.Errorf("Turns = %d, want 1; loaded histories should not share state", len(second.Turns))
	}
}
