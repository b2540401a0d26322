// Package dialogue decides, for every inbound message, whether it advances
// the scripted attachment test, restarts it, or goes to the LLM with
// retrieved knowledge.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xaenox/eldric/internal/classifier"
	"github.com/xaenox/eldric/internal/llm"
	"github.com/xaenox/eldric/internal/models"
	"github.com/xaenox/eldric/internal/prompt"
	"github.com/xaenox/eldric/internal/storage"
	"go.uber.org/zap"
)

// DefaultGuestUserID is never written to the conversations audit table.
const DefaultGuestUserID = "invitado"

// Store is the persistence the controller needs.
type Store interface {
	storage.TestStateStorage
	storage.ConversationStorage
}

// Retriever returns a formatted knowledge block for tags, or "".
type Retriever interface {
	Retrieve(ctx context.Context, tags []string) string
}

type Request struct {
	UserID   string
	Message  string
	Language string
}

type ReplyKind int

const (
	// Scripted replies are HTML fragments produced without an LLM call.
	Scripted ReplyKind = iota
	// FreeForm replies are raw LLM text.
	FreeForm
)

type Reply struct {
	Text string
	Kind ReplyKind
}

type Options struct {
	GuestUserID     string
	DefaultLanguage string
	BasePrompt      string
	Scorer          classifier.Scorer
}

type Controller struct {
	store           Store
	retriever       Retriever
	sessions        *llm.Registry
	scorer          classifier.Scorer
	guestUserID     string
	defaultLanguage string
	basePrompt      string
	logger          *zap.Logger
}

func New(store Store, retriever Retriever, sessions *llm.Registry, opts Options, logger *zap.Logger) *Controller {
	if opts.GuestUserID == "" {
		opts.GuestUserID = DefaultGuestUserID
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "es"
	}
	if opts.BasePrompt == "" {
		opts.BasePrompt = prompt.Base
	}
	if opts.Scorer == nil {
		opts.Scorer = classifier.LastQuestionScorer{}
	}
	return &Controller{
		store:           store,
		retriever:       retriever,
		sessions:        sessions,
		scorer:          opts.Scorer,
		guestUserID:     opts.GuestUserID,
		defaultLanguage: opts.DefaultLanguage,
		basePrompt:      opts.BasePrompt,
		logger:          logger,
	}
}

// HandleMessage produces the reply for one user message. Knowledge lookup
// and audit failures are logged and ignored; every other failure is returned.
func (c *Controller) HandleMessage(ctx context.Context, req Request) (Reply, error) {
	state, err := c.loadState(ctx, req.UserID)
	if err != nil {
		return Reply{}, err
	}

	reply, err := c.dispatch(ctx, req, state)
	if err != nil {
		return Reply{}, err
	}

	if req.UserID != c.guestUserID {
		c.audit(ctx, req.UserID, llm.RoleUser, req.Message)
		c.audit(ctx, req.UserID, llm.RoleAssistant, reply.Text)
	}
	return reply, nil
}

func (c *Controller) loadState(ctx context.Context, userID string) (*models.TestState, error) {
	state, err := c.store.GetTestState(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return &models.TestState{UserID: userID, Language: c.defaultLanguage}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading test state: %w", err)
	}
	return state, nil
}

// dispatch applies the rules in priority order: restart phrases, idle
// greeting, scripted answers, then the free-form fallback.
func (c *Controller) dispatch(ctx context.Context, req Request, state *models.TestState) (Reply, error) {
	trimmed := strings.TrimSpace(req.Message)
	lower := strings.ToLower(trimmed)
	upper := strings.ToUpper(trimmed)

	if restartPhrases[lower] {
		c.sessions.Acquire(req.UserID).Open(c.basePrompt)

		state.State = models.StageGreeting
		state.LastChoice = ""
		state.Q1 = ""
		state.Q2 = ""
		state.Q3 = ""
		if err := c.saveState(ctx, req, state); err != nil {
			return Reply{}, err
		}
		if lower == greetingPhrase {
			return Reply{Text: welcomeHTML, Kind: Scripted}, nil
		}
		return Reply{Text: restartHTML, Kind: Scripted}, nil
	}

	if state.State == models.StageNone && containsAnyWord(lower, helloWords) {
		return Reply{Text: helloHTML, Kind: Scripted}, nil
	}

	if t, ok := transitions[transitionKey{state.State, upper}]; ok {
		t.apply(state, upper)
		html := t.reply(c, state)
		if err := c.saveState(ctx, req, state); err != nil {
			return Reply{}, err
		}
		return Reply{Text: html, Kind: Scripted}, nil
	}

	return c.freeForm(ctx, req)
}

func (c *Controller) freeForm(ctx context.Context, req Request) (Reply, error) {
	keywords := classifier.ExtractKeywords(req.Message)
	knowledge := c.retriever.Retrieve(ctx, keywords)

	session := c.sessions.Acquire(req.UserID)
	switch {
	case knowledge != "" && session.Len() == 0:
		session.Open(prompt.Assemble(c.basePrompt, knowledge))
	case knowledge != "":
		session.SetSystemPrompt(prompt.Assemble(c.basePrompt, knowledge))
	case session.Len() == 0:
		session.Open(c.basePrompt)
	}

	c.logger.Debug("Free-form turn",
		zap.String("user_id", req.UserID),
		zap.Strings("keywords", keywords),
		zap.Bool("knowledge", knowledge != ""))

	text, err := session.Chat(ctx, req.Message)
	if err != nil {
		c.logger.Error("Failed to get LLM reply",
			zap.Error(err),
			zap.String("user_id", req.UserID))
		return Reply{}, fmt.Errorf("llm reply: %w", err)
	}
	return Reply{Text: text, Kind: FreeForm}, nil
}

func (c *Controller) saveState(ctx context.Context, req Request, state *models.TestState) error {
	state.UserID = req.UserID
	if req.Language != "" {
		state.Language = req.Language
	}
	if state.Language == "" {
		state.Language = c.defaultLanguage
	}
	if err := c.store.SaveTestState(ctx, state); err != nil {
		return fmt.Errorf("saving test state: %w", err)
	}
	return nil
}

func (c *Controller) audit(ctx context.Context, userID string, role llm.Role, content string) {
	entry := &models.ConversationEntry{
		UserID:  userID,
		Role:    string(role),
		Content: content,
	}
	if err := c.store.AppendConversation(ctx, entry); err != nil {
		c.logger.Error("Failed to save conversation",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("role", string(role)))
	}
}

func containsAnyWord(s string, words []string) bool {
	for _, w := range words {
		if containsWord(s, w) {
			return true
		}
	}
	return false
}

// containsWord reports whether w occurs in s delimited by non-letters.
func containsWord(s, w string) bool {
	for offset := 0; offset <= len(s); {
		i := strings.Index(s[offset:], w)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(w)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if !unicode.IsLetter(before) && !unicode.IsLetter(after) {
			return true
		}
		offset = start + 1
	}
	return false
}
