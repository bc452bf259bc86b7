package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and socket configuration.
type Paths struct {
	StateDir   string `toml:"state_dir"`
	LogDir     string `toml:"log_dir"`
	SocketPath string `toml:"socket_path"`
}

// Player contains playback clock and display settings.
type Player struct {
	// TimeOffset is added to every resolved playback time, in seconds.
	TimeOffset float64 `toml:"time_offset"`
	// Placeholder fills untranslated dual cues until translation lands.
	Placeholder string `toml:"placeholder"`
	// NotifyDelayMillis debounces content-change notifications.
	NotifyDelayMillis int `toml:"notify_delay_ms"`
}

// Subtitles contains default track selection.
type Subtitles struct {
	SourceLanguage     string `toml:"source_language"`
	TargetLanguage     string `toml:"target_language"`
	PreferNativeTarget bool   `toml:"prefer_native_target"`
}

// Persistence contains selection snapshot thresholds.
type Persistence struct {
	SnapshotMaxAgeSeconds     int `toml:"snapshot_max_age_seconds"`
	SnapshotRefreshAgeSeconds int `toml:"snapshot_refresh_age_seconds"`
	RetryDelayMillis          int `toml:"retry_delay_ms"`
	VisualPassDelayMillis     int `toml:"visual_pass_delay_ms"`
}

// Analysis contains the word-analysis request policy.
type Analysis struct {
	MaxAttempts    int      `toml:"max_attempts"`
	ContextTypes   []string `toml:"context_types"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Translation contains fill-queue batching settings.
type Translation struct {
	Enabled          bool `toml:"enabled"`
	PassDelaySeconds int  `toml:"pass_delay_seconds"`
	BatchSize        int  `toml:"batch_size"`
}

// Vocab contains saved-phrase storage settings.
type Vocab struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for sublens.
//
// Configuration sections by subsystem:
//   - Paths: state directory, log directory, and the IPC socket
//   - Player: playback clock offset and display policy
//   - Subtitles: default language pair and native-target preference
//   - Persistence: selection snapshot age and retry thresholds
//   - Analysis: word-analysis retry budget and context types
//   - Translation: fill-queue batching for placeholder cues
//   - Vocab: saved-phrase database
//   - Logging: log format, level, and retention
type Config struct {
	Paths       Paths       `toml:"paths"`
	Player      Player      `toml:"player"`
	Subtitles   Subtitles   `toml:"subtitles"`
	Persistence Persistence `toml:"persistence"`
	Analysis    Analysis    `toml:"analysis"`
	Translation Translation `toml:"translation"`
	Vocab       Vocab       `toml:"vocab"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sublens/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/sublens/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sublens.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir, c.Paths.LogDir}
	if c.Vocab.Enabled && strings.TrimSpace(c.Vocab.Path) != "" {
		dirs = append(dirs, filepath.Dir(c.Vocab.Path))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// NotifyDelay returns the content-change debounce window.
func (c *Config) NotifyDelay() time.Duration {
	return time.Duration(c.Player.NotifyDelayMillis) * time.Millisecond
}

// SnapshotMaxAge returns the snapshot expiry threshold.
func (c *Config) SnapshotMaxAge() time.Duration {
	return time.Duration(c.Persistence.SnapshotMaxAgeSeconds) * time.Second
}

// SnapshotRefreshAge returns the visibility-bump threshold.
func (c *Config) SnapshotRefreshAge() time.Duration {
	return time.Duration(c.Persistence.SnapshotRefreshAgeSeconds) * time.Second
}

// RestoreRetryDelay returns the signature-mismatch retry debounce window.
func (c *Config) RestoreRetryDelay() time.Duration {
	return time.Duration(c.Persistence.RetryDelayMillis) * time.Millisecond
}

// VisualPassDelay returns the deferred highlight pass delay.
func (c *Config) VisualPassDelay() time.Duration {
	return time.Duration(c.Persistence.VisualPassDelayMillis) * time.Millisecond
}

// TranslationPassDelay returns the fill-queue reschedule delay.
func (c *Config) TranslationPassDelay() time.Duration {
	return time.Duration(c.Translation.PassDelaySeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
