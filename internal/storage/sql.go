package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/eldric/internal/models"
	"go.uber.org/zap"
)

//go:embed schema/*.sql
var schemas embed.FS

// SQLStorage implements Storage on top of the Database facade. The same
// queries run on Postgres and SQLite; only ILIKE and placeholders differ.
type SQLStorage struct {
	db     *Database
	logger *zap.Logger
}

func newSQLStorage(ctx context.Context, db *sql.DB, dialect Dialect, logger *zap.Logger) (*SQLStorage, error) {
	s := &SQLStorage{db: NewDatabase(db, dialect), logger: logger}
	if err := s.initializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}
	return s, nil
}

func (s *SQLStorage) initializeSchema(ctx context.Context) error {
	file := "schema/postgres.sql"
	if s.db.Dialect() == DialectSQLite {
		file = "schema/sqlite.sql"
	}
	schemaSQL, err := schemas.ReadFile(file)
	if err != nil {
		return fmt.Errorf("error reading schema file: %w", err)
	}
	if _, err := s.db.db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("error executing schema: %w", err)
	}
	return nil
}

// Database exposes the underlying facade for ad-hoc queries.
func (s *SQLStorage) Database() *Database {
	return s.db
}

func (s *SQLStorage) GetTestState(ctx context.Context, userID string) (*models.TestState, error) {
	rec, err := s.db.FetchOne(ctx, `
		SELECT user_id, state, last_choice, q1, q2, q3, language
		FROM test_state
		WHERE user_id = :user_id`,
		Params{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("error fetching test state: %w", err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return &models.TestState{
		UserID:     rec.String("user_id"),
		State:      models.Stage(rec.String("state")),
		LastChoice: rec.String("last_choice"),
		Q1:         rec.String("q1"),
		Q2:         rec.String("q2"),
		Q3:         rec.String("q3"),
		Language:   rec.String("language"),
	}, nil
}

func (s *SQLStorage) SaveTestState(ctx context.Context, state *models.TestState) error {
	if state.Language == "" {
		state.Language = "es"
	}
	state.UpdatedAt = time.Now().UTC()

	_, err := s.db.Execute(ctx, `
		INSERT INTO test_state (user_id, state, last_choice, q1, q2, q3, language, updated_at)
		VALUES (:user_id, :state, :last_choice, :q1, :q2, :q3, :language, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			state = excluded.state,
			last_choice = excluded.last_choice,
			q1 = excluded.q1,
			q2 = excluded.q2,
			q3 = excluded.q3,
			language = excluded.language,
			updated_at = excluded.updated_at`,
		Params{
			"user_id":     state.UserID,
			"state":       nullable(string(state.State)),
			"last_choice": nullable(state.LastChoice),
			"q1":          nullable(state.Q1),
			"q2":          nullable(state.Q2),
			"q3":          nullable(state.Q3),
			"language":    state.Language,
			"updated_at":  state.UpdatedAt,
		})
	if err != nil {
		return fmt.Errorf("error saving test state: %w", err)
	}
	return nil
}

func (s *SQLStorage) SearchKnowledge(ctx context.Context, tags []string, limit int) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	params := Params{"limit": limit}
	conds := make([]string, len(tags))
	for i, tag := range tags {
		name := fmt.Sprintf("tag%d", i)
		conds[i] = fmt.Sprintf("tags %s :%s", s.db.Dialect().ILike(), name)
		params[name] = "%" + tag + "%"
	}

	query := fmt.Sprintf(`
		SELECT content
		FROM eldric_knowledge
		WHERE %s
		ORDER BY RANDOM()
		LIMIT :limit`, strings.Join(conds, " OR "))

	records, err := s.db.FetchAll(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("error searching knowledge: %w", err)
	}

	contents := make([]string, 0, len(records))
	for _, rec := range records {
		contents = append(contents, rec.String("content"))
	}
	return contents, nil
}

func (s *SQLStorage) InsertKnowledge(ctx context.Context, chunk *models.KnowledgeChunk) error {
	_, err := s.db.Execute(ctx, `
		INSERT INTO eldric_knowledge (content, tags)
		VALUES (:content, :tags)`,
		Params{"content": chunk.Content, "tags": chunk.Tags})
	if err != nil {
		return fmt.Errorf("error inserting knowledge: %w", err)
	}
	return nil
}

func (s *SQLStorage) CountKnowledge(ctx context.Context) (int64, error) {
	v, err := s.db.FetchVal(ctx, `SELECT COUNT(*) FROM eldric_knowledge`, nil)
	if err != nil {
		return 0, fmt.Errorf("error counting knowledge: %w", err)
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
	return n, nil
}

func (s *SQLStorage) AppendConversation(ctx context.Context, entry *models.ConversationEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err := s.db.Execute(ctx, `
		INSERT INTO conversations (id, user_id, role, content, timestamp)
		VALUES (:id, :user_id, :role, :content, :timestamp)`,
		Params{
			"id":        entry.ID,
			"user_id":   entry.UserID,
			"role":      entry.Role,
			"content":   entry.Content,
			"timestamp": entry.Timestamp,
		})
	if err != nil {
		return fmt.Errorf("error appending conversation: %w", err)
	}
	return nil
}

func (s *SQLStorage) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Execute(ctx, `
		INSERT INTO users (user_id, password_hash, created_at)
		VALUES (:user_id, :password_hash, :created_at)`,
		Params{
			"user_id":       user.ID,
			"password_hash": user.PasswordHash,
			"created_at":    user.CreatedAt,
		})
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (s *SQLStorage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	rec, err := s.db.FetchOne(ctx, `
		SELECT user_id, password_hash, created_at
		FROM users
		WHERE user_id = :user_id`,
		Params{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	user := &models.User{
		ID:           rec.String("user_id"),
		PasswordHash: rec.String("password_hash"),
	}
	if t, ok := rec["created_at"].(time.Time); ok {
		user.CreatedAt = t
	}
	return user, nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}
