package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
	assert.Equal(t, "professional", config.Generation.DefaultRole)
	assert.True(t, config.Generation.MockOnMissing)
	assert.Equal(t, 60, config.Poller.MaxAttempts)
	assert.Equal(t, 3*time.Second, config.PollInterval())
	assert.Equal(t, 3*time.Minute, config.PollDeadline())
}

func TestLoadFromFiles_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doceo.toml")
	content := `
environment = "production"

[server]
port = 9090

[llm]
default_provider = "gemini"

[poller]
interval = "5s"
max_attempts = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host) // default retained
	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
	assert.Equal(t, 5*time.Second, config.PollInterval())
	assert.Equal(t, 10, config.Poller.MaxAttempts)
	assert.True(t, config.IsProduction())
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "base.toml")
	second := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(first, []byte("[server]\nport = 9090\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("[server]\nport = 7070\n"), 0644))

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, 7070, config.Server.Port)
}

func TestLoadFromFiles_MissingFileFails(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/doceo.toml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOCEO_SERVER_PORT", "6060")
	t.Setenv("DOCEO_LLM_PROVIDER", "gemini")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("DOCEO_POLLER_INTERVAL", "10s")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 6060, config.Server.Port)
	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
	assert.Equal(t, "sk-ant-test", config.Claude.APIKey)
	assert.Equal(t, 10*time.Second, config.PollInterval())
}

func TestEnvOverrides_VendorKeyTakesPrecedence(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-vendor")
	t.Setenv("DOCEO_CLAUDE_API_KEY", "sk-prefixed")

	config, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, "sk-vendor", config.Claude.APIKey)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 5050, "0.0.0.0")
	assert.Equal(t, 5050, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)

	// Zero values leave config untouched
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 5050, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestPollerFallbacks(t *testing.T) {
	config := NewDefaultConfig()
	config.Poller.Interval = "not-a-duration"
	config.Poller.Deadline = ""

	assert.Equal(t, 3*time.Second, config.PollInterval())
	assert.Equal(t, 3*time.Minute, config.PollDeadline())
}
