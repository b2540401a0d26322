package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xaenox/eldric/internal/models"
	"go.uber.org/zap"
)

func testStorage(t *testing.T) *SQLStorage {
	t.Helper()
	s, err := NewSQLiteStorage(context.Background(), filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTestStateRoundTrip(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	if _, err := s.GetTestState(ctx, "ana"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	st := &models.TestState{UserID: "ana", State: models.StageGreeting}
	if err := s.SaveTestState(ctx, st); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetTestState(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != models.StageGreeting || got.Q1 != "" || got.LastChoice != "" {
		t.Errorf("unexpected state: %+v", got)
	}
	if got.Language != "es" {
		t.Errorf("language = %q, want es", got.Language)
	}

	// Upsert clears back to NULL.
	st = &models.TestState{UserID: "ana", State: models.StageNone, LastChoice: "B", Q1: "A", Q2: "C", Q3: "B", Language: "en"}
	if err := s.SaveTestState(ctx, st); err != nil {
		t.Fatal(err)
	}
	got, err = s.GetTestState(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != models.StageNone || got.LastChoice != "B" || got.Q1 != "A" || got.Q2 != "C" || got.Q3 != "B" || got.Language != "en" {
		t.Errorf("unexpected state after upsert: %+v", got)
	}

	v, err := s.Database().FetchVal(ctx, `SELECT COUNT(*) FROM test_state WHERE state IS NULL`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := toInt64(v); n != 1 {
		t.Errorf("expected NULL state row, count = %v", v)
	}
}

func TestSearchKnowledge(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	chunks := []models.KnowledgeChunk{
		{Content: "anxious one", Tags: "Anxious,relationship"},
		{Content: "avoidant one", Tags: "avoidant"},
		{Content: "trust one", Tags: "trust,communication"},
	}
	for i := range chunks {
		if err := s.InsertKnowledge(ctx, &chunks[i]); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 6; i++ {
		if err := s.InsertKnowledge(ctx, &models.KnowledgeChunk{Content: "conflict chunk", Tags: "conflict"}); err != nil {
			t.Fatal(err)
		}
	}

	count, err := s.CountKnowledge(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 9 {
		t.Errorf("count = %d, want 9", count)
	}

	got, err := s.SearchKnowledge(ctx, []string{"anxious"}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "anxious one" {
		t.Errorf("case-insensitive search got %v", got)
	}

	got, err = s.SearchKnowledge(ctx, []string{"avoidant", "trust"}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("disjunctive search got %v", got)
	}

	got, err = s.SearchKnowledge(ctx, []string{"conflict"}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Errorf("limit not applied: %d rows", len(got))
	}

	got, err = s.SearchKnowledge(ctx, []string{"secure"}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows, got %v", got)
	}

	got, err = s.SearchKnowledge(ctx, nil, 5)
	if err != nil || got != nil {
		t.Errorf("empty tags should return nil, got %v, %v", got, err)
	}
}

func TestAppendConversationAndUsers(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	entry := &models.ConversationEntry{UserID: "ana", Role: "user", Content: "hola"}
	if err := s.AppendConversation(ctx, entry); err != nil {
		t.Fatal(err)
	}
	if entry.ID == "" || entry.Timestamp.IsZero() {
		t.Errorf("id and timestamp should be assigned: %+v", entry)
	}
	rows, err := s.Database().FetchAll(ctx, `SELECT role, content FROM conversations WHERE user_id = :u`, Params{"u": "ana"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].String("content") != "hola" {
		t.Errorf("unexpected conversation rows: %v", rows)
	}

	if err := s.CreateUser(ctx, &models.User{ID: "ana", PasswordHash: "h"}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateUser(ctx, &models.User{ID: "ana", PasswordHash: "h2"}); err == nil {
		t.Error("expected unique violation")
	}
	u, err := s.GetUser(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if u.PasswordHash != "h" {
		t.Errorf("hash = %q", u.PasswordHash)
	}
	if _, err := s.GetUser(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenMemoryDriver(t *testing.T) {
	st, err := Open(context.Background(), DatabaseConfig{Driver: DriverMemory}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(*MemoryStorage); !ok {
		t.Errorf("expected *MemoryStorage, got %T", st)
	}
	if _, err := Open(context.Background(), DatabaseConfig{Driver: "oracle"}, zap.NewNop()); err == nil {
		t.Error("expected error for unknown driver")
	}
}
