package testsupport

import (
	"path/filepath"
	"testing"

	"sublens/internal/config"
	"sublens/internal/vocab"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SocketPath = filepath.Join(base, "sublens.sock")
	cfg.Vocab.Enabled = true
	cfg.Vocab.Path = filepath.Join(base, "state", "vocab.db")
	cfg.Subtitles.SourceLanguage = "fr"
	cfg.Subtitles.TargetLanguage = "en"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithVocabDisabled turns off phrase persistence for the test.
func WithVocabDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Vocab.Enabled = false
		cfg.Vocab.Path = ""
	}
}

// WithLanguages overrides the default subtitle language pair.
func WithLanguages(source, target string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Subtitles.SourceLanguage = source
		cfg.Subtitles.TargetLanguage = target
	}
}

// MustOpenVocab opens a vocab store for tests and registers cleanup.
func MustOpenVocab(t testing.TB, cfg *config.Config) *vocab.Store {
	t.Helper()

	store, err := vocab.Open(cfg.Vocab.Path)
	if err != nil {
		t.Fatalf("vocab.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
