package storage

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/eldric/internal/models"
)

// MemoryStorage keeps everything in process memory. It backs the "memory"
// driver and the controller tests.
type MemoryStorage struct {
	mu            sync.RWMutex
	users         map[string]*models.User
	states        map[string]models.TestState
	knowledge     []models.KnowledgeChunk
	conversations []models.ConversationEntry
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:  make(map[string]*models.User),
		states: make(map[string]models.TestState),
	}
}

func (s *MemoryStorage) GetTestState(ctx context.Context, userID string) (*models.TestState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, exists := s.states[userID]
	if !exists {
		return nil, ErrNotFound
	}
	return &state, nil
}

func (s *MemoryStorage) SaveTestState(ctx context.Context, state *models.TestState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.Language == "" {
		state.Language = "es"
	}
	state.UpdatedAt = time.Now().UTC()
	s.states[state.UserID] = *state
	return nil
}

func (s *MemoryStorage) SearchKnowledge(ctx context.Context, tags []string, limit int) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	var matches []string
	for _, chunk := range s.knowledge {
		lowered := strings.ToLower(chunk.Tags)
		for _, tag := range tags {
			if strings.Contains(lowered, strings.ToLower(tag)) {
				matches = append(matches, chunk.Content)
				break
			}
		}
	}
	s.mu.RUnlock()

	rand.Shuffle(len(matches), func(i, j int) {
		matches[i], matches[j] = matches[j], matches[i]
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *MemoryStorage) InsertKnowledge(ctx context.Context, chunk *models.KnowledgeChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunk.ID = int64(len(s.knowledge) + 1)
	s.knowledge = append(s.knowledge, *chunk)
	return nil
}

func (s *MemoryStorage) CountKnowledge(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.knowledge)), nil
}

func (s *MemoryStorage) AppendConversation(ctx context.Context, entry *models.ConversationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	s.conversations = append(s.conversations, *entry)
	return nil
}

// Conversations returns the audit rows written for userID, oldest first.
func (s *MemoryStorage) Conversations(userID string) []models.ConversationEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ConversationEntry
	for _, e := range s.conversations {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func (s *MemoryStorage) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return ErrDuplicate
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *MemoryStorage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, exists := s.users[userID]; exists {
		u := *user
		return &u, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
