package config

const (
	defaultStateDir                  = "~/.local/share/sublens"
	defaultLogDir                    = "~/.local/share/sublens/logs"
	defaultSocketPath                = "~/.local/share/sublens/sublens.sock"
	defaultPlaceholder               = "Translating…"
	defaultNotifyDelayMillis         = 150
	defaultTargetLanguage            = "en"
	defaultSnapshotMaxAgeSeconds     = 30
	defaultSnapshotRefreshAgeSeconds = 10
	defaultRetryDelayMillis          = 250
	defaultVisualPassDelayMillis     = 50
	defaultAnalysisMaxAttempts       = 3
	defaultAnalysisTimeoutSeconds    = 30
	defaultTranslationPassSeconds    = 1
	defaultTranslationBatchSize      = 10
	defaultVocabPath                 = "~/.local/share/sublens/vocab.db"
	defaultLogFormat                 = "console"
	defaultLogLevel                  = "info"
	defaultLogRetentionDays          = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
			SocketPath: defaultSocketPath,
		},
		Player: Player{
			Placeholder:       defaultPlaceholder,
			NotifyDelayMillis: defaultNotifyDelayMillis,
		},
		Subtitles: Subtitles{
			TargetLanguage:     defaultTargetLanguage,
			PreferNativeTarget: true,
		},
		Persistence: Persistence{
			SnapshotMaxAgeSeconds:     defaultSnapshotMaxAgeSeconds,
			SnapshotRefreshAgeSeconds: defaultSnapshotRefreshAgeSeconds,
			RetryDelayMillis:          defaultRetryDelayMillis,
			VisualPassDelayMillis:     defaultVisualPassDelayMillis,
		},
		Analysis: Analysis{
			MaxAttempts:    defaultAnalysisMaxAttempts,
			ContextTypes:   []string{"definition", "usage"},
			TimeoutSeconds: defaultAnalysisTimeoutSeconds,
		},
		Translation: Translation{
			Enabled:          true,
			PassDelaySeconds: defaultTranslationPassSeconds,
			BatchSize:        defaultTranslationBatchSize,
		},
		Vocab: Vocab{
			Enabled: true,
			Path:    defaultVocabPath,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
