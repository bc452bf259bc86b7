package config

import (
	"errors"
	"fmt"

	"sublens/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if c.Subtitles.TargetLanguage == "" {
		return errors.New("subtitles.target_language must be set")
	}
	if language.Normalize(c.Subtitles.TargetLanguage) == "" {
		return fmt.Errorf("subtitles.target_language: unrecognized language %q", c.Subtitles.TargetLanguage)
	}
	if c.Subtitles.SourceLanguage != "" && language.Normalize(c.Subtitles.SourceLanguage) == "" {
		return fmt.Errorf("subtitles.source_language: unrecognized language %q", c.Subtitles.SourceLanguage)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.MaxAttempts > 10 {
		return errors.New("analysis.max_attempts must be at most 10")
	}
	for _, ct := range c.Analysis.ContextTypes {
		if ct == "" {
			return errors.New("analysis.context_types must not contain empty entries")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
