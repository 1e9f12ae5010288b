// Package config loads scribe's YAML configuration and resolves its
// per-user data directories.
package config

import "fmt"

// Config is the root configuration for scribe.
type Config struct {
	Provider   ProviderConfig   `yaml:"provider,omitempty"`
	History    HistoryConfig    `yaml:"history,omitempty"`
	Compaction CompactionConfig `yaml:"compaction,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// ProviderConfig selects the AI backend.
type ProviderConfig struct {
	Name      string `yaml:"name,omitempty"`   // currently "anthropic"
	Model     string `yaml:"model,omitempty"`  // model identifier
	APIKey    string `yaml:"apiKey,omitempty"` // supports ${ENV_VAR} references
	MaxTokens int    `yaml:"maxTokens,omitempty"`
}

// HistoryConfig bounds in-memory conversation retention.
type HistoryConfig struct {
	MaxMessages int `yaml:"maxMessages,omitempty"`
}

// CompactionConfig controls when the chat loop summarizes old history.
type CompactionConfig struct {
	// Threshold is the message count at which compaction triggers.
	// 0 disables automatic compaction.
	Threshold int `yaml:"threshold,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

// ConfigError reports an invalid or unreadable configuration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Provider: ProviderConfig{
			Name:      "anthropic",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 4096,
		},
		History: HistoryConfig{
			MaxMessages: 100,
		},
		Compaction: CompactionConfig{
			Threshold: 80,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
