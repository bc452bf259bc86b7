package config

import (
	"fmt"
	"strings"

	"sublens/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlayer()
	c.normalizeSubtitles()
	c.normalizePersistence()
	c.normalizeAnalysis()
	c.normalizeTranslation()
	if err := c.normalizeVocab(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.SocketPath, err = expandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	return nil
}

func (c *Config) normalizePlayer() {
	if strings.TrimSpace(c.Player.Placeholder) == "" {
		c.Player.Placeholder = defaultPlaceholder
	}
	if c.Player.NotifyDelayMillis <= 0 {
		c.Player.NotifyDelayMillis = defaultNotifyDelayMillis
	}
}

func (c *Config) normalizeSubtitles() {
	if normalized := language.Normalize(c.Subtitles.SourceLanguage); normalized != "" {
		c.Subtitles.SourceLanguage = normalized
	} else {
		c.Subtitles.SourceLanguage = strings.ToLower(strings.TrimSpace(c.Subtitles.SourceLanguage))
	}
	if normalized := language.Normalize(c.Subtitles.TargetLanguage); normalized != "" {
		c.Subtitles.TargetLanguage = normalized
	} else {
		c.Subtitles.TargetLanguage = strings.ToLower(strings.TrimSpace(c.Subtitles.TargetLanguage))
	}
}

func (c *Config) normalizePersistence() {
	if c.Persistence.SnapshotMaxAgeSeconds <= 0 {
		c.Persistence.SnapshotMaxAgeSeconds = defaultSnapshotMaxAgeSeconds
	}
	if c.Persistence.SnapshotRefreshAgeSeconds <= 0 {
		c.Persistence.SnapshotRefreshAgeSeconds = defaultSnapshotRefreshAgeSeconds
	}
	if c.Persistence.RetryDelayMillis <= 0 {
		c.Persistence.RetryDelayMillis = defaultRetryDelayMillis
	}
	if c.Persistence.VisualPassDelayMillis <= 0 {
		c.Persistence.VisualPassDelayMillis = defaultVisualPassDelayMillis
	}
}

func (c *Config) normalizeAnalysis() {
	if c.Analysis.MaxAttempts <= 0 {
		c.Analysis.MaxAttempts = defaultAnalysisMaxAttempts
	}
	if c.Analysis.TimeoutSeconds <= 0 {
		c.Analysis.TimeoutSeconds = defaultAnalysisTimeoutSeconds
	}
	if len(c.Analysis.ContextTypes) == 0 {
		c.Analysis.ContextTypes = []string{"definition", "usage"}
	}
	for i, ct := range c.Analysis.ContextTypes {
		c.Analysis.ContextTypes[i] = strings.ToLower(strings.TrimSpace(ct))
	}
}

func (c *Config) normalizeTranslation() {
	if c.Translation.PassDelaySeconds <= 0 {
		c.Translation.PassDelaySeconds = defaultTranslationPassSeconds
	}
	if c.Translation.BatchSize <= 0 {
		c.Translation.BatchSize = defaultTranslationBatchSize
	}
}

func (c *Config) normalizeVocab() error {
	if strings.TrimSpace(c.Vocab.Path) == "" {
		c.Vocab.Path = defaultVocabPath
	}
	var err error
	if c.Vocab.Path, err = expandPath(c.Vocab.Path); err != nil {
		return fmt.Errorf("vocab.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays <= 0 {
		c.Logging.RetentionDays = defaultLogRetentionDays
	}
}
