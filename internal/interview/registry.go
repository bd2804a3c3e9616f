package interview

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry owns all live ConversationState values, keyed by session id.
// It is safe for concurrent use: the map itself is guarded by an RWMutex, and
// each session carries its own exclusive lock so one exchange can span the
// completion call without blocking other sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	// mu serializes exchanges: it is held for a whole ask, including the
	// suspend point on the completion call. stateMu guards state itself and
	// is only held for short copies, so lookups and the idle sweeper never
	// block on an in-flight exchange.
	mu      sync.Mutex
	stateMu sync.Mutex
	state   ConversationState
}

// NewRegistry creates an empty session registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*sessionEntry),
	}
}

// Create generates a fresh session id, synthesizes the system turn from the
// source document, and stores the initial conversation state. Ids are UUIDv4
// and are never reused within the process lifetime.
func (r *Registry) Create(sourceDocument string) (string, error) {
	systemPrompt, err := buildSystemPrompt(sourceDocument)
	if err != nil {
		return "", fmt.Errorf("failed to build system prompt: %w", err)
	}

	id := uuid.New().String()
	entry := &sessionEntry{
		state: ConversationState{
			SessionID:      id,
			Messages:       []Turn{{Role: RoleSystem, Content: systemPrompt}},
			SourceDocument: sourceDocument,
			LastActiveAt:   time.Now(),
		},
	}

	r.mu.Lock()
	r.sessions[id] = entry
	r.mu.Unlock()

	return id, nil
}

// Get returns a copy of the stored state for the given id, or false if the id
// is unknown
func (r *Registry) Get(id string) (ConversationState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[id]
	if !ok {
		return ConversationState{}, false
	}
	entry.stateMu.Lock()
	defer entry.stateMu.Unlock()
	return entry.state.Clone(), true
}

// Update replaces the stored state for the given id. It fails with
// ErrSessionNotFound if the id is absent, including when the session was
// deleted while the caller held its lock.
func (r *Registry) Update(id string, state ConversationState) error {
	// The registry lock is held across the presence check and the write, so
	// a Delete cannot land in between and leave the write on an orphaned
	// entry reported as success
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	entry.stateMu.Lock()
	defer entry.stateMu.Unlock()
	entry.state = state.Clone()
	return nil
}

// Delete removes the session. Deleting an absent id is not an error.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Lock acquires the per-session exclusive lock, blocking while another
// exchange on the same session is in flight. It returns false if the id is
// unknown. The caller must invoke the returned release function when the
// exchange completes.
func (r *Registry) Lock(id string) (release func(), ok bool) {
	r.mu.RLock()
	entry, found := r.sessions[id]
	r.mu.RUnlock()
	if !found {
		return nil, false
	}
	entry.mu.Lock()
	return entry.mu.Unlock, true
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle removes every session whose LastActiveAt is before the cutoff and
// returns the evicted ids. Sessions with an exchange in flight are skipped;
// they will be reconsidered on the next sweep with a fresh LastActiveAt.
func (r *Registry) EvictIdle(cutoff time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for id, entry := range r.sessions {
		entry.stateMu.Lock()
		lastActiveAt := entry.state.LastActiveAt
		entry.stateMu.Unlock()
		if !lastActiveAt.Before(cutoff) {
			continue
		}
		if !entry.mu.TryLock() {
			continue
		}
		delete(r.sessions, id)
		entry.mu.Unlock()
		evicted = append(evicted, id)
	}
	return evicted
}
