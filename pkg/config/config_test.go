package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("missing.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8000" || cfg.Database.Driver != "postgres" || cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Sessions.MaxSessions != 100 || cfg.Sessions.EvictBatch != 10 {
		t.Errorf("unexpected session defaults: %+v", cfg.Sessions)
	}
	if cfg.Dialogue.GuestUserID != "invitado" || cfg.Dialogue.WeightedScoring {
		t.Errorf("unexpected dialogue defaults: %+v", cfg.Dialogue)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	yaml := `
database:
  driver: sqlite
  path: data/eldric.db
openai:
  model: gpt-4.1-mini
dialogue:
  weighted_scoring: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SESSIONS_MAX_SESSIONS", "20")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "data/eldric.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.OpenAI.Model != "gpt-4.1-mini" || cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("openai = %+v", cfg.OpenAI)
	}
	if !cfg.Dialogue.WeightedScoring {
		t.Error("weighted scoring should be enabled")
	}
	if cfg.Sessions.MaxSessions != 20 {
		t.Errorf("env override ignored: %d", cfg.Sessions.MaxSessions)
	}
}

func TestDatabaseURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://eldric:pw@db.internal:6543/coach?sslmode=require")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	want := DatabaseConfig{Driver: "postgres", Host: "db.internal", Port: 6543, User: "eldric", Password: "pw", DBName: "coach", SSLMode: "require"}
	if cfg.Database != want {
		t.Errorf("database = %+v, want %+v", cfg.Database, want)
	}
}
