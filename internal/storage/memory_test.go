package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/xaenox/eldric/internal/models"
)

func TestMemoryStorageKnowledge(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		s.InsertKnowledge(ctx, &models.KnowledgeChunk{Content: "a", Tags: "Anxious,trust"})
	}
	s.InsertKnowledge(ctx, &models.KnowledgeChunk{Content: "b", Tags: "avoidant"})

	got, _ := s.SearchKnowledge(ctx, []string{"anxious"}, 5)
	if len(got) != 5 {
		t.Errorf("expected 5 rows, got %d", len(got))
	}
	got, _ = s.SearchKnowledge(ctx, []string{"avoidant"}, 5)
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("got %v", got)
	}
	got, _ = s.SearchKnowledge(ctx, []string{"secure"}, 5)
	if len(got) != 0 {
		t.Errorf("got %v", got)
	}
}

func TestMemoryStorageStateIsCopied(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	st := &models.TestState{UserID: "u", State: models.StageQ1}
	s.SaveTestState(ctx, st)
	st.State = models.StageQ3

	got, err := s.GetTestState(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != models.StageQ1 {
		t.Errorf("stored state aliased caller value: %q", got.State)
	}
	if got.Language != "es" {
		t.Errorf("language = %q", got.Language)
	}
}

func TestMemoryStorageUsers(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	if err := s.CreateUser(ctx, &models.User{ID: "u", PasswordHash: "h"}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateUser(ctx, &models.User{ID: "u"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	if _, err := s.GetUser(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
