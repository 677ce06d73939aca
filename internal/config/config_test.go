package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, ":8000", cfg.HTTP.Port)
	assert.Equal(t, []string{"https://astexai.com", "https://www.astexai.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "whitelist_entries.json", cfg.Storage.Path)
	assert.Equal(t, "production", cfg.Notifiers.Mode)
	assert.Equal(t, "smtp.gmail.com", cfg.Notifiers.Email.Host)
	assert.Equal(t, 587, cfg.Notifiers.Email.Port)
	assert.Equal(t, 3, cfg.Notifiers.WhatsApp.MaxRetries)
	assert.Equal(t, time.Second, cfg.Notifiers.WhatsApp.InitialDelay)
	assert.Equal(t, 2.0, cfg.Notifiers.WhatsApp.Multiplier)
	assert.Equal(t, "55", cfg.Notifiers.WhatsApp.CountryCode)
	assert.False(t, cfg.Notifiers.WhatsApp.OnSignup)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_PATH", "/data/entries.json")
	t.Setenv("NOTIFIERS_MODE", "log_only")
	t.Setenv("NOTIFIERS_WHATSAPP_MAX_RETRIES", "5")
	t.Setenv("NOTIFIERS_WHATSAPP_INITIAL_DELAY", "250ms")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "/data/entries.json", cfg.Storage.Path)
	assert.Equal(t, "log_only", cfg.Notifiers.Mode)
	assert.Equal(t, 5, cfg.Notifiers.WhatsApp.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Notifiers.WhatsApp.InitialDelay)
}

func TestNewConfig_LegacyEnvNames(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EMAIL_USER", "team@astexai.com")
	t.Setenv("EMAIL_PASSWORD", "app-password")
	t.Setenv("WHATSAPP_TOKEN", "token")
	t.Setenv("WHATSAPP_PHONE_ID", "12345")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "team@astexai.com", cfg.Notifiers.Email.Username)
	assert.Equal(t, "app-password", cfg.Notifiers.Email.Password)
	assert.Equal(t, "team@astexai.com", cfg.Notifiers.Email.From, "from falls back to the smtp user")
	assert.Equal(t, "token", cfg.Notifiers.WhatsApp.Token)
	assert.Equal(t, "12345", cfg.Notifiers.WhatsApp.PhoneID)
}

func TestNewConfig_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))
	yaml := []byte("logger:\n  level: debug\nnotifiers:\n  email:\n    from: hello@astexai.com\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), yaml, 0o644))

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "hello@astexai.com", cfg.Notifiers.Email.From)
}
