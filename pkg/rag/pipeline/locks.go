package pipeline

import "sync"

// sessionLocks serializes requests per session id so concurrent chats for
// the same session cannot interleave history reads and writes. Entries are
// reference counted and removed once the last holder releases, so idle
// sessions leave nothing behind.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{
		entries: make(map[string]*lockEntry),
	}
}

func (l *sessionLocks) acquire(sessionID string) *lockEntry {
	l.mu.Lock()
	entry, ok := l.entries[sessionID]
	if !ok {
		entry = &lockEntry{}
		l.entries[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return entry
}

func (l *sessionLocks) release(sessionID string, entry *lockEntry) {
	entry.mu.Unlock()

	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, sessionID)
	}
	l.mu.Unlock()
}
