package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main struct that holds all configuration for the application.
// It is built once at startup and only read afterwards.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Notifiers NotifiersConfig `mapstructure:"notifiers"`
}

// LoggerConfig holds logging-specific settings.
type LoggerConfig struct {
	Level string `mapstructure:"level"`
	// Format is "console" or "json".
	Format string `mapstructure:"format"`
}

// HTTPConfig holds HTTP server-specific settings.
type HTTPConfig struct {
	Port           string        `mapstructure:"port"`
	GinMode        string        `mapstructure:"gin_mode"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	MetricsEnabled bool          `mapstructure:"metrics_enabled"`
}

// StorageConfig points at the JSON file holding the entries.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// NotifiersConfig holds configurations for all notification channels.
type NotifiersConfig struct {
	// Mode can be "production" (default) or "log_only".
	// In "production" mode a channel sends for real when its credentials are set.
	// In "log_only" mode, all notifiers are replaced by the LogNotifier.
	Mode     string         `mapstructure:"mode"`
	Email    EmailConfig    `mapstructure:"email"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// EmailConfig holds SMTP settings for the email notifier.
type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// From falls back to Username when empty.
	From    string `mapstructure:"from"`
	Subject string `mapstructure:"subject"`
}

// WhatsAppConfig holds WhatsApp Cloud API settings and the retry policy for sends.
type WhatsAppConfig struct {
	Token        string        `mapstructure:"token"`
	PhoneID      string        `mapstructure:"phone_id"`
	APIURL       string        `mapstructure:"api_url"`
	CountryCode  string        `mapstructure:"country_code"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	Multiplier   float64       `mapstructure:"multiplier"`
	// OnSignup also sends the WhatsApp welcome during registration.
	OnSignup bool `mapstructure:"on_signup"`
}

// TelegramConfig holds settings for the team alert sent on every signup.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// legacyEnv maps config keys to the variable names used by earlier deployments.
var legacyEnv = map[string]string{
	"notifiers.email.host":        "EMAIL_HOST",
	"notifiers.email.port":        "EMAIL_PORT",
	"notifiers.email.username":    "EMAIL_USER",
	"notifiers.email.password":    "EMAIL_PASSWORD",
	"notifiers.email.from":        "FROM_EMAIL",
	"notifiers.whatsapp.token":    "WHATSAPP_TOKEN",
	"notifiers.whatsapp.phone_id": "WHATSAPP_PHONE_ID",
}

// NewConfig loads an optional .env file, the optional configs/config.yaml and environment
// variables, and returns the resulting configuration struct.
func NewConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), legacy); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Notifiers.Email.From == "" {
		cfg.Notifiers.Email.From = cfg.Notifiers.Email.Username
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("http.port", ":8000")
	v.SetDefault("http.gin_mode", "release")
	v.SetDefault("http.allowed_origins", []string{"https://astexai.com", "https://www.astexai.com"})
	v.SetDefault("http.read_timeout", 30*time.Second)
	v.SetDefault("http.metrics_enabled", true)

	v.SetDefault("storage.path", "whitelist_entries.json")

	v.SetDefault("notifiers.mode", "production")

	v.SetDefault("notifiers.email.host", "smtp.gmail.com")
	v.SetDefault("notifiers.email.port", 587)
	v.SetDefault("notifiers.email.username", "")
	v.SetDefault("notifiers.email.password", "")
	v.SetDefault("notifiers.email.from", "")
	v.SetDefault("notifiers.email.subject", "Bem-vindo à Astex AI - Acesso Antecipado")

	v.SetDefault("notifiers.whatsapp.token", "")
	v.SetDefault("notifiers.whatsapp.phone_id", "")
	v.SetDefault("notifiers.whatsapp.api_url", "https://graph.facebook.com/v17.0")
	v.SetDefault("notifiers.whatsapp.country_code", "55")
	v.SetDefault("notifiers.whatsapp.timeout", 10*time.Second)
	v.SetDefault("notifiers.whatsapp.max_retries", 3)
	v.SetDefault("notifiers.whatsapp.initial_delay", time.Second)
	v.SetDefault("notifiers.whatsapp.multiplier", 2.0)
	v.SetDefault("notifiers.whatsapp.on_signup", false)

	v.SetDefault("notifiers.telegram.bot_token", "")
	v.SetDefault("notifiers.telegram.chat_id", 0)
}
