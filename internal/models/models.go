package models

import "time"

// TestState is the per-user cursor of the scripted attachment questionnaire.
// Empty strings stand for SQL NULL.
type TestState struct {
	UserID     string    `json:"user_id"`
	State      Stage     `json:"state"`
	LastChoice string    `json:"last_choice"`
	Q1         string    `json:"q1"`
	Q2         string    `json:"q2"`
	Q3         string    `json:"q3"`
	Language   string    `json:"language"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Stage is the value of test_state.state.
type Stage string

const (
	StageNone     Stage = ""
	StageGreeting Stage = "greeting"
	StageQ1       Stage = "q1"
	StageQ2       Stage = "q2"
	StageQ3       Stage = "q3"
)

// KnowledgeChunk is one row of eldric_knowledge.
type KnowledgeChunk struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// ConversationEntry is an audit row; it is written but never read back by the controller.
type ConversationEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// User represents a registered account.
type User struct {
	ID           string    `json:"user_id"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
