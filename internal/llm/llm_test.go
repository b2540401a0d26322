package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type echoCompleter struct {
	mu    sync.Mutex
	calls [][]Turn
	err   error
}

func (c *echoCompleter) Complete(ctx context.Context, turns []Turn) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, turns)
	if c.err != nil {
		return "", c.err
	}
	return "eco: " + turns[len(turns)-1].Content, nil
}

func TestSessionChat(t *testing.T) {
	c := &echoCompleter{}
	s := NewSession(c)
	s.Open("sistema")

	reply, err := s.Chat(context.Background(), "hola")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "eco: hola" {
		t.Errorf("reply = %q", reply)
	}

	turns := s.Turns()
	want := []Turn{
		{RoleSystem, "sistema"},
		{RoleUser, "hola"},
		{RoleAssistant, "eco: hola"},
	}
	if len(turns) != len(want) {
		t.Fatalf("turns = %v", turns)
	}
	for i := range want {
		if turns[i] != want[i] {
			t.Errorf("turn %d = %v, want %v", i, turns[i], want[i])
		}
	}
	if len(c.calls) != 1 || len(c.calls[0]) != 2 {
		t.Errorf("completer should see system+user, got %v", c.calls)
	}
}

func TestSessionChatError(t *testing.T) {
	c := &echoCompleter{err: errors.New("boom")}
	s := NewSession(c)
	if _, err := s.Chat(context.Background(), "hola"); err == nil {
		t.Fatal("expected error")
	}
	if s.Len() != 1 {
		t.Errorf("user turn should remain, len = %d", s.Len())
	}
}

func TestSessionSystemPrompt(t *testing.T) {
	s := NewSession(&echoCompleter{})

	s.SetSystemPrompt("uno")
	if turns := s.Turns(); len(turns) != 1 || turns[0].Content != "uno" {
		t.Fatalf("insert into empty: %v", turns)
	}

	s.SetSystemPrompt("dos")
	if turns := s.Turns(); len(turns) != 1 || turns[0].Content != "dos" {
		t.Fatalf("overwrite: %v", turns)
	}

	s.Reset()
	s.Chat(context.Background(), "hola")
	s.SetSystemPrompt("tres")
	turns := s.Turns()
	if len(turns) != 3 || turns[0].Role != RoleSystem || turns[1].Role != RoleUser {
		t.Errorf("insert before user turn: %v", turns)
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("reset left %d turns", s.Len())
	}
}

func TestRegistryAcquire(t *testing.T) {
	r := NewRegistry(&echoCompleter{}, 5, 2)
	a := r.Acquire("a")
	if r.Acquire("a") != a {
		t.Error("expected the same session for the same user")
	}
	if r.Acquire("b") == a {
		t.Error("expected distinct sessions for distinct users")
	}
}

func TestRegistryEviction(t *testing.T) {
	r := NewRegistry(&echoCompleter{}, DefaultMaxSessions, DefaultEvictBatch)

	first := r.Acquire("user-0")
	for i := 1; i <= DefaultMaxSessions; i++ {
		r.Acquire(fmt.Sprintf("user-%d", i))
		if r.Len() > DefaultMaxSessions+9 {
			t.Fatalf("registry grew to %d", r.Len())
		}
	}

	// 101 sessions -> drop the oldest 11.
	if got := r.Len(); got != DefaultMaxSessions-DefaultEvictBatch {
		t.Errorf("len = %d, want %d", got, DefaultMaxSessions-DefaultEvictBatch)
	}
	if r.Acquire("user-0") == first {
		t.Error("oldest session should have been evicted")
	}
	r.mu.Lock()
	_, kept := r.sessions["user-100"]
	_, evicted := r.sessions["user-10"]
	r.mu.Unlock()
	if !kept || evicted {
		t.Errorf("eviction order wrong: kept newest=%v, evicted user-10=%v", kept, !evicted)
	}
}

func TestRegistryConcurrentAcquire(t *testing.T) {
	r := NewRegistry(&echoCompleter{}, 50, 10)
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Acquire(fmt.Sprintf("u%d", i))
		}(i)
	}
	wg.Wait()
	if r.Len() > 50 {
		t.Errorf("len = %d", r.Len())
	}
}

func TestOpenAIClientComplete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"  Hola, ¿cómo estás?  "},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "gpt-4o-mini", MaxTokens: 100}, zap.NewNop())
	reply, err := c.Complete(context.Background(), []Turn{{RoleSystem, "sys"}, {RoleUser, "hola"}})
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Hola, ¿cómo estás?" {
		t.Errorf("reply = %q", reply)
	}
	if got.Model != "gpt-4o-mini" || len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "hola" {
		t.Errorf("unexpected request: %+v", got)
	}
}

func TestOpenAIClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "Bearer empty" {
			fmt.Fprint(w, `{"id":"c1","object":"chat.completion","choices":[]}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"upstream down","type":"server_error"}}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "m"}, zap.NewNop())
	if _, err := c.Complete(context.Background(), []Turn{{RoleUser, "x"}}); err == nil {
		t.Error("expected error on 500")
	}

	c = NewOpenAIClient(OpenAIConfig{APIKey: "empty", BaseURL: srv.URL + "/v1", Model: "m"}, zap.NewNop())
	if _, err := c.Complete(context.Background(), []Turn{{RoleUser, "x"}}); !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("expected ErrEmptyCompletion, got %v", err)
	}
}
