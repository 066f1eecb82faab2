package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/hoanghai1803/newsbrief/internal/feeds"
	"github.com/hoanghai1803/newsbrief/internal/pipeline"
)

// Config holds all application configuration.
type Config struct {
	AI       AIConfig       `toml:"ai"`
	Store    StoreConfig    `toml:"store"`
	Fetch    FetchConfig    `toml:"fetch"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// AIConfig holds summarization provider settings.
type AIConfig struct {
	Provider string        `toml:"provider"`
	APIKey   string        `toml:"api_key"`
	Model    string        `toml:"model"`
	BaseURL  string        `toml:"base_url"`
	Timeout  time.Duration `toml:"timeout"`
}

// StoreConfig selects the record store and the collection to process.
type StoreConfig struct {
	Driver      string `toml:"driver"`
	Location    string `toml:"location"`
	Collection  string `toml:"collection"`
	PendingOnly bool   `toml:"pending_only"`
}

// FetchConfig holds content resolver settings.
type FetchConfig struct {
	Timeout   time.Duration `toml:"timeout"`
	Mode      string        `toml:"mode"`
	MaxWords  int           `toml:"max_words"`
	UserAgent string        `toml:"user_agent"`
}

// PipelineConfig holds summarization pacing and prompt settings.
type PipelineConfig struct {
	InterCallDelay      time.Duration `toml:"inter_call_delay"`
	SummaryLanguage     string        `toml:"summary_language"`
	SummaryLines        int           `toml:"summary_lines"`
	Subject             string        `toml:"subject"`
	NotRelevantSentinel string        `toml:"not_relevant_sentinel"`
	NotRelevantPolicy   string        `toml:"not_relevant_policy"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

const (
	defaultProvider        = "openai"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultAnthropicModel  = "claude-haiku-4-5"
	defaultAITimeout       = 60 * time.Second
	defaultDriver          = "sqlite"
	defaultLocation        = "app.db"
	defaultCollection      = "news2"
	defaultFetchTimeout    = 30 * time.Second
	defaultFetchMode       = "raw"
	defaultInterCallDelay  = 10 * time.Second
	defaultSummaryLanguage = "Korean"
	defaultSummaryLines    = 3
	defaultSubject         = "a disaster"
	defaultSentinel        = "-1"
	defaultPolicy          = "sentinel"
	defaultPort            = 8080
	defaultLogLevel        = "info"
)

const defaultConfigContent = `[ai]
provider = "openai"               # "openai" or "anthropic"
api_key = ""                      # Your API key (or set AI_API_KEY env var)
model = "gpt-4o-mini"
base_url = ""                     # Optional compatible gateway
timeout = "60s"

[store]
driver = "sqlite"                 # "sqlite" or "postgres"
location = "app.db"               # File path, or a postgres DSN (or set NEWSBRIEF_STORE_LOCATION)
collection = "news2"
pending_only = false              # Only process records without a summary

[fetch]
timeout = "30s"
mode = "raw"                      # "raw", "text" or "readability"
max_words = 0                     # 0 keeps the whole page

[pipeline]
inter_call_delay = "10s"          # Pause after each successful summarization
summary_language = "Korean"
summary_lines = 3
subject = "a disaster"
not_relevant_sentinel = "-1"
not_relevant_policy = "sentinel"  # "sentinel" stores the marker, "null" leaves the summary empty

[server]
port = 8080

[log]
level = "info"                    # "debug", "info", "warn" or "error"
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown config keys ignored", "keys", fmt.Sprint(undecoded))
	}

	// Validate explicitly-set values before applying defaults, so that
	// explicitly writing "port = 0" is an error rather than silently
	// being replaced with the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
// This catches cases like "port = 0" which would otherwise be silently
// replaced by the default value.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("pipeline", "inter_call_delay") && cfg.Pipeline.InterCallDelay <= 0 {
		return fmt.Errorf("invalid pipeline.inter_call_delay %s: must be positive", cfg.Pipeline.InterCallDelay)
	}
	if md.IsDefined("pipeline", "summary_lines") && cfg.Pipeline.SummaryLines < 1 {
		return fmt.Errorf("invalid pipeline.summary_lines %d: must be >= 1", cfg.Pipeline.SummaryLines)
	}
	if md.IsDefined("ai", "timeout") && cfg.AI.Timeout <= 0 {
		return fmt.Errorf("invalid ai.timeout %s: must be positive", cfg.AI.Timeout)
	}
	if md.IsDefined("fetch", "timeout") && cfg.Fetch.Timeout <= 0 {
		return fmt.Errorf("invalid fetch.timeout %s: must be positive", cfg.Fetch.Timeout)
	}
	if md.IsDefined("pipeline", "not_relevant_sentinel") && strings.TrimSpace(cfg.Pipeline.NotRelevantSentinel) == "" {
		return errors.New("invalid pipeline.not_relevant_sentinel: must not be blank")
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config) {
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = defaultProvider
	}
	if cfg.AI.Model == "" {
		switch cfg.AI.Provider {
		case "anthropic":
			cfg.AI.Model = defaultAnthropicModel
		default:
			cfg.AI.Model = defaultOpenAIModel
		}
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = defaultAITimeout
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = defaultDriver
	}
	if cfg.Store.Location == "" && cfg.Store.Driver == defaultDriver {
		cfg.Store.Location = defaultLocation
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = defaultCollection
	}

	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = defaultFetchTimeout
	}
	if cfg.Fetch.Mode == "" {
		cfg.Fetch.Mode = defaultFetchMode
	}

	if cfg.Pipeline.InterCallDelay == 0 {
		cfg.Pipeline.InterCallDelay = defaultInterCallDelay
	}
	if cfg.Pipeline.SummaryLanguage == "" {
		cfg.Pipeline.SummaryLanguage = defaultSummaryLanguage
	}
	if cfg.Pipeline.SummaryLines == 0 {
		cfg.Pipeline.SummaryLines = defaultSummaryLines
	}
	if cfg.Pipeline.Subject == "" {
		cfg.Pipeline.Subject = defaultSubject
	}
	if cfg.Pipeline.NotRelevantSentinel == "" {
		cfg.Pipeline.NotRelevantSentinel = defaultSentinel
	}
	if cfg.Pipeline.NotRelevantPolicy == "" {
		cfg.Pipeline.NotRelevantPolicy = defaultPolicy
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
//
// Priority for ai.api_key:
//  1. AI_API_KEY (generic, highest)
//  2. ANTHROPIC_API_KEY (when provider is "anthropic")
//  3. OPENAI_API_KEY (when provider is "openai")
//
// NEWSBRIEF_STORE_LOCATION replaces store.location, so a postgres DSN with
// credentials need not live in the file.
func applyEnvOverrides(cfg *Config) {
	switch cfg.AI.Provider {
	case "anthropic":
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	case "openai":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	}

	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}

	if v := os.Getenv("NEWSBRIEF_STORE_LOCATION"); v != "" {
		cfg.Store.Location = v
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	switch cfg.AI.Provider {
	case "anthropic", "openai":
		// valid
	default:
		return fmt.Errorf("invalid ai.provider %q: must be \"anthropic\" or \"openai\"", cfg.AI.Provider)
	}

	switch cfg.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid store.driver %q: must be \"sqlite\" or \"postgres\"", cfg.Store.Driver)
	}
	if cfg.Store.Location == "" {
		return fmt.Errorf("store.location is required for driver %q: set it in the config file or via NEWSBRIEF_STORE_LOCATION", cfg.Store.Driver)
	}

	mode, err := feeds.ParseMode(cfg.Fetch.Mode)
	if err != nil {
		return fmt.Errorf("invalid fetch.mode: %w", err)
	}
	cfg.Fetch.Mode = string(mode)
	if cfg.Fetch.MaxWords < 0 {
		return fmt.Errorf("invalid fetch.max_words %d: must be >= 0", cfg.Fetch.MaxWords)
	}

	policy, err := pipeline.ParseNotRelevantPolicy(cfg.Pipeline.NotRelevantPolicy)
	if err != nil {
		return fmt.Errorf("invalid pipeline.not_relevant_policy: %w", err)
	}
	cfg.Pipeline.NotRelevantPolicy = string(policy)

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level %q: must be \"debug\", \"info\", \"warn\" or \"error\"", cfg.Log.Level)
	}

	if cfg.AI.APIKey == "" {
		slog.Warn("ai.api_key is empty: set it in the config file or via AI_API_KEY environment variable")
	}

	return nil
}
