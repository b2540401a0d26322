package llm

import (
	"context"
	"sync"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a conversation transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is the in-memory transcript of one user, sent as context on every
// completion. The mutex only protects the slice; overlapping Chat calls from
// the same user are not serialised and may interleave their turns.
type Session struct {
	mu        sync.Mutex
	turns     []Turn
	completer Completer
}

func NewSession(completer Completer) *Session {
	return &Session{completer: completer}
}

// Reset drops every turn.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}

// Open resets the session and starts it with a system turn.
func (s *Session) Open(systemPrompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = []Turn{{Role: RoleSystem, Content: systemPrompt}}
}

// SetSystemPrompt overwrites the leading system turn, inserting one if the
// transcript does not start with it.
func (s *Session) SetSystemPrompt(systemPrompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := Turn{Role: RoleSystem, Content: systemPrompt}
	if len(s.turns) > 0 && s.turns[0].Role == RoleSystem {
		s.turns[0] = turn
		return
	}
	s.turns = append([]Turn{turn}, s.turns...)
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Turns returns a copy of the transcript.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns...)
}

// Chat appends the user turn, requests one completion over the whole
// transcript and appends the assistant reply. On failure the user turn stays.
func (s *Session) Chat(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	s.turns = append(s.turns, Turn{Role: RoleUser, Content: text})
	history := append([]Turn(nil), s.turns...)
	s.mu.Unlock()

	reply, err := s.completer.Complete(ctx, history)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.turns = append(s.turns, Turn{Role: RoleAssistant, Content: reply})
	s.mu.Unlock()
	return reply, nil
}
