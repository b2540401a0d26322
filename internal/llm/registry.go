package llm

import "sync"

const (
	DefaultMaxSessions = 100
	DefaultEvictBatch  = 10
)

// Registry maps user ids to sessions. Once it holds more than maxSessions it
// drops the oldest sessions in insertion order, evictBatch below the cap.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	order       []string
	maxSessions int
	evictBatch  int
	completer   Completer
}

func NewRegistry(completer Completer, maxSessions, evictBatch int) *Registry {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if evictBatch < 0 {
		evictBatch = DefaultEvictBatch
	}
	return &Registry{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		evictBatch:  evictBatch,
		completer:   completer,
	}
}

// Acquire returns the user's session, creating an empty one if needed.
func (r *Registry) Acquire(userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[userID]; ok {
		return s
	}

	s := NewSession(r.completer)
	r.sessions[userID] = s
	r.order = append(r.order, userID)

	if len(r.order) > r.maxSessions {
		n := min(len(r.order)-r.maxSessions+r.evictBatch, len(r.order)-1)
		for _, id := range r.order[:n] {
			delete(r.sessions, id)
		}
		r.order = append([]string(nil), r.order[n:]...)
	}
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
