package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	Claude      ClaudeConfig     `toml:"claude"`
	Gemini      GeminiConfig     `toml:"gemini"`
	LLM         LLMConfig        `toml:"llm"`
	Generation  GenerationConfig `toml:"generation"`
	Transport   TransportConfig  `toml:"transport"`
	Poller      PollerConfig     `toml:"poller"`
}

type ServerConfig struct {
	Port      int    `toml:"port"`
	Host      string `toml:"host"`
	AuthToken string `toml:"auth_token"` // Bearer token required on API routes; empty disables auth
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key (env: ANTHROPIC_API_KEY)
	Model       string  `toml:"model"`       // Model name (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 4096)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between calls (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google API key (env: GEMINI_API_KEY)
	Model       string  `toml:"model"`       // Model name (default: "gemini-2.0-flash")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between calls (default: "4s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
)

// LLMConfig selects the generative-text provider
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "claude" or "gemini" (default: "claude")
}

// GenerationConfig tunes the per-module content generation run
type GenerationConfig struct {
	DefaultRole   string `toml:"default_role"`    // Role used when no employee context is available (default: "professional")
	MaxModules    int    `toml:"max_modules"`     // Cap on modules generated in one run (default: 12)
	MockOnMissing bool   `toml:"mock_on_missing"` // Synthesize mock content when no API credential is present (default: true)
}

// TransportConfig tunes the client-side transport resolver
type TransportConfig struct {
	ProxyURL       string `toml:"proxy_url"`       // Base URL of the proxy processing endpoint
	DirectURL      string `toml:"direct_url"`      // Base URL of the direct processing endpoint
	RequestTimeout string `toml:"request_timeout"` // Per-request timeout (default: "30s")
}

// PollerConfig tunes the client-side status poller
type PollerConfig struct {
	Interval    string `toml:"interval"`     // Poll interval (default: "3s")
	MaxAttempts int    `toml:"max_attempts"` // Attempt cap before forced timeout (default: 60)
	Deadline    string `toml:"deadline"`     // Absolute wall-clock deadline (default: "3m")
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in doceo.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   4096,
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			Timeout:     "2m",
			RateLimit:   "4s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderClaude,
		},
		Generation: GenerationConfig{
			DefaultRole:   "professional",
			MaxModules:    12,
			MockOnMissing: true,
		},
		Transport: TransportConfig{
			RequestTimeout: "30s",
		},
		Poller: PollerConfig{
			Interval:    "3s",
			MaxAttempts: 60,
			Deadline:    "3m",
		},
	}
}

// LoadFromFile loads configuration from a single TOML file on top of defaults
func LoadFromFile(path string) (*Config, error) {
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration by merging defaults, then each TOML file
// in order (later files override earlier ones), then environment variables.
// Missing files are an error; an empty path list yields defaults + env.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DOCEO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("DOCEO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("DOCEO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if token := os.Getenv("DOCEO_AUTH_TOKEN"); token != "" {
		config.Server.AuthToken = token
	}

	// Storage configuration
	if badgerPath := os.Getenv("DOCEO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("DOCEO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("DOCEO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Provider credentials. The well-known vendor variables take precedence
	// over the DOCEO-prefixed ones so operators can reuse existing secrets.
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	} else if key := os.Getenv("DOCEO_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	} else if key := os.Getenv("DOCEO_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if provider := os.Getenv("DOCEO_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Transport configuration
	if proxyURL := os.Getenv("DOCEO_TRANSPORT_PROXY_URL"); proxyURL != "" {
		config.Transport.ProxyURL = proxyURL
	}
	if directURL := os.Getenv("DOCEO_TRANSPORT_DIRECT_URL"); directURL != "" {
		config.Transport.DirectURL = directURL
	}

	// Poller configuration
	if interval := os.Getenv("DOCEO_POLLER_INTERVAL"); interval != "" {
		if _, err := time.ParseDuration(interval); err == nil {
			config.Poller.Interval = interval
		}
	}
	if attempts := os.Getenv("DOCEO_POLLER_MAX_ATTEMPTS"); attempts != "" {
		if a, err := strconv.Atoi(attempts); err == nil && a > 0 {
			config.Poller.MaxAttempts = a
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// PollInterval returns the parsed poller interval, falling back to 3s
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Poller.Interval)
	if err != nil || d <= 0 {
		return 3 * time.Second
	}
	return d
}

// PollDeadline returns the parsed absolute poller deadline, falling back to 3m
func (c *Config) PollDeadline() time.Duration {
	d, err := time.ParseDuration(c.Poller.Deadline)
	if err != nil || d <= 0 {
		return 3 * time.Minute
	}
	return d
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
