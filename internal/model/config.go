package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AccountConfig holds the IMAP connection settings for the mailbox.
// The password is never stored here; it lives in the system keyring
// (or the MAILDIGEST_IMAP_PASSWORD environment variable).
type AccountConfig struct {
	// Host is the IMAP server hostname (e.g., imap.gmail.com).
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the IMAP server port, usually 993 for implicit TLS.
	Port string `mapstructure:"port" yaml:"port"`

	// Username is the login/email address.
	Username string `mapstructure:"username" yaml:"username"`

	// TLS selects implicit TLS; false uses STARTTLS.
	TLS bool `mapstructure:"tls" yaml:"tls"`
}

// FetchConfig controls how many messages the inbox view loads.
type FetchConfig struct {
	// Limit is the maximum number of recent messages to list.
	Limit int `mapstructure:"limit" yaml:"limit"`

	// SinceDays restricts the listing to messages received within the
	// last N days.
	SinceDays int `mapstructure:"since_days" yaml:"since_days"`
}

// OpenAIConfig holds settings for the summarization and entity
// annotation capabilities. The API key lives in the keyring or the
// OPENAI_API_KEY environment variable.
type OpenAIConfig struct {
	Model string `mapstructure:"model" yaml:"model"`

	// SummaryMinWords and SummaryMaxWords bound the requested summary
	// length.
	SummaryMinWords int `mapstructure:"summary_min_words" yaml:"summary_min_words"`
	SummaryMaxWords int `mapstructure:"summary_max_words" yaml:"summary_max_words"`
}

// CleanRule is a single boilerplate-removal rule applied by the text
// cleaner, in order, after HTML tags are stripped. Pattern is a regular
// expression compiled case-insensitively with `.` matching newlines.
type CleanRule struct {
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
	Replace string `mapstructure:"replace" yaml:"replace"`
}

// DigestConfig holds the tunable knobs of the digest pipeline.
type DigestConfig struct {
	// DeadlineKeywords mark a nearby date mention as a deadline.
	DeadlineKeywords []string `mapstructure:"deadline_keywords" yaml:"deadline_keywords"`

	// HorizonDays is the window within which an undecorated future
	// DATE mention still counts as a deadline.
	HorizonDays int `mapstructure:"horizon_days" yaml:"horizon_days"`

	// ActionIndicators mark a sentence as a key point.
	ActionIndicators []string `mapstructure:"action_indicators" yaml:"action_indicators"`

	// AttachmentExtensions are the filename extensions recognized as
	// attachment mentions.
	AttachmentExtensions []string `mapstructure:"attachment_extensions" yaml:"attachment_extensions"`

	// ExtraCleanRules are appended after the built-in boilerplate
	// rules, so deployment-specific footers can be stripped without a
	// code change.
	ExtraCleanRules []CleanRule `mapstructure:"extra_clean_rules" yaml:"extra_clean_rules"`
}

// CacheConfig controls the digest cache database.
type CacheConfig struct {
	// Path is the SQLite DSN. The default ":memory:" keeps digests for
	// the lifetime of the process only; a file path persists them.
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls file logging. The TUI owns the terminal, so logs
// never go to stdout.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Account AccountConfig `mapstructure:"account" yaml:"account"`
	Fetch   FetchConfig   `mapstructure:"fetch" yaml:"fetch"`
	OpenAI  OpenAIConfig  `mapstructure:"openai" yaml:"openai"`
	Digest  DigestConfig  `mapstructure:"digest" yaml:"digest"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/maildigest/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "maildigest", "config.yaml")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "maildigest.log")
	}
	return filepath.Join(home, ".config", "maildigest", "maildigest.log")
}

// DefaultDeadlineKeywords is the context vocabulary that marks a date
// mention as a due date rather than an incidental date.
func DefaultDeadlineKeywords() []string {
	return []string{
		"deadline", "due", "by", "before", "expires",
		"register", "submit", "apply", "on or before", "last date",
	}
}

// DefaultActionIndicators is the phrase list that marks a sentence as
// an action item or crucial information.
func DefaultActionIndicators() []string {
	return []string{
		"please", "kindly", "ensure", "confirm", "submit", "reply by",
		"action required", "must", "should", "need to", "important:",
		"note:", "deadline", "review", "attend", "find attached",
		"see attached",
	}
}

// DefaultAttachmentExtensions lists the filename extensions the
// attachment detector recognizes.
func DefaultAttachmentExtensions() []string {
	return []string{
		"pdf", "docx", "xlsx", "pptx", "jpg", "png", "zip", "rar",
		"txt", "csv", "mp4", "mov", "mp3",
	}
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Account: AccountConfig{
			Port: "993",
			TLS:  true,
		},
		Fetch: FetchConfig{
			Limit:     20,
			SinceDays: 7,
		},
		OpenAI: OpenAIConfig{
			Model:           "gpt-4o-mini",
			SummaryMinWords: 50,
			SummaryMaxWords: 150,
		},
		Digest: DigestConfig{
			DeadlineKeywords:     DefaultDeadlineKeywords(),
			HorizonDays:          30,
			ActionIndicators:     DefaultActionIndicators(),
			AttachmentExtensions: DefaultAttachmentExtensions(),
		},
		Cache: CacheConfig{
			Path: ":memory:",
		},
		Log: LogConfig{
			Path:  DefaultLogPath(),
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns a default
// configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("account.port", "993")
	v.SetDefault("account.tls", true)
	v.SetDefault("fetch.limit", 20)
	v.SetDefault("fetch.since_days", 7)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.summary_min_words", 50)
	v.SetDefault("openai.summary_max_words", 150)
	v.SetDefault("digest.deadline_keywords", DefaultDeadlineKeywords())
	v.SetDefault("digest.horizon_days", 30)
	v.SetDefault("digest.action_indicators", DefaultActionIndicators())
	v.SetDefault(
		"digest.attachment_extensions", DefaultAttachmentExtensions(),
	)
	v.SetDefault("cache.path", ":memory:")
	v.SetDefault("log.path", DefaultLogPath())
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("account", cfg.Account)
	v.Set("fetch", cfg.Fetch)
	v.Set("openai", cfg.OpenAI)
	v.Set("digest", cfg.Digest)
	v.Set("cache", cfg.Cache)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
