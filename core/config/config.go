package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TwilioConfig holds credentials and addressing for the WhatsApp channel.
type TwilioConfig struct {
	AccountSID     string `yaml:"account_sid" envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken      string `yaml:"auth_token" envconfig:"TWILIO_AUTH_TOKEN"`
	WhatsAppNumber string `yaml:"whatsapp_number" envconfig:"TWILIO_WHATSAPP_NUMBER"`
	// ValidateSignatures enables X-Twilio-Signature verification on the webhook.
	ValidateSignatures bool `yaml:"validate_signatures" envconfig:"TWILIO_VALIDATE_SIGNATURES"`
	// PublicURL is the externally visible webhook URL, required for signature checks.
	PublicURL string `yaml:"public_url" envconfig:"TWILIO_PUBLIC_URL"`
}

// HTTPConfig specifies the inbound webhook listener.
type HTTPConfig struct {
	Listen string `yaml:"listen" envconfig:"HTTP_LISTEN"`
}

// CinemaConfig describes the single configured cinema complex.
type CinemaConfig struct {
	Name     string `yaml:"name" envconfig:"CINEMA_NAME"`
	Location string `yaml:"location" envconfig:"CINEMA_LOCATION"`
	// MoviesFile points at the JSON catalog on disk.
	MoviesFile string `yaml:"movies_file" envconfig:"CINEMA_MOVIES_FILE"`
}

// SessionConfig controls conversation session expiry.
type SessionConfig struct {
	TTLMinutes           int `yaml:"ttl_minutes" envconfig:"SESSION_TTL_MINUTES"`
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes" envconfig:"SESSION_SWEEP_INTERVAL_MINUTES"`
}

// TTL returns the configured inactivity threshold.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// SweepInterval returns the configured period of the background sweep.
func (c SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// RateLimitConfig holds settings for per-sender inbound rate limiting.
type RateLimitConfig struct {
	IntervalMS int `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
}

// Interval returns the minimum spacing between messages from one sender.
func (c RateLimitConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// DatabaseConfig holds Postgres settings for the booking store.
// The database is optional; with Enabled false bookings are only logged.
type DatabaseConfig struct {
	Enabled        bool   `yaml:"enabled" envconfig:"DB_ENABLED"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Config aggregates the full bot configuration.
type Config struct {
	Twilio    TwilioConfig    `yaml:"twilio"`
	HTTP      HTTPConfig      `yaml:"http"`
	Cinema    CinemaConfig    `yaml:"cinema"`
	Session   SessionConfig   `yaml:"session"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Database  DatabaseConfig  `yaml:"database"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.Twilio.AccountSID) == "" {
		return fmt.Errorf("twilio.account_sid is required")
	}
	if strings.TrimSpace(cfg.Twilio.AuthToken) == "" {
		return fmt.Errorf("twilio.auth_token is required")
	}
	if strings.TrimSpace(cfg.Twilio.WhatsAppNumber) == "" {
		cfg.Twilio.WhatsAppNumber = "whatsapp:+14155238886"
	}
	if !strings.HasPrefix(cfg.Twilio.WhatsAppNumber, "whatsapp:") {
		cfg.Twilio.WhatsAppNumber = "whatsapp:" + cfg.Twilio.WhatsAppNumber
	}
	if cfg.Twilio.ValidateSignatures && strings.TrimSpace(cfg.Twilio.PublicURL) == "" {
		return fmt.Errorf("twilio.public_url is required when twilio.validate_signatures is enabled")
	}

	if strings.TrimSpace(cfg.HTTP.Listen) == "" {
		cfg.HTTP.Listen = ":8080"
	}

	if strings.TrimSpace(cfg.Cinema.Name) == "" {
		cfg.Cinema.Name = "Aarthi Grand Cineplex"
	}
	if strings.TrimSpace(cfg.Cinema.Location) == "" {
		cfg.Cinema.Location = "Dindigul"
	}
	if strings.TrimSpace(cfg.Cinema.MoviesFile) == "" {
		cfg.Cinema.MoviesFile = "data/movies.json"
	}

	if cfg.Session.TTLMinutes < 0 {
		return fmt.Errorf("session.ttl_minutes must be >= 0")
	}
	if cfg.Session.TTLMinutes == 0 {
		cfg.Session.TTLMinutes = 30
	}
	if cfg.Session.SweepIntervalMinutes < 0 {
		return fmt.Errorf("session.sweep_interval_minutes must be >= 0")
	}
	if cfg.Session.SweepIntervalMinutes == 0 {
		cfg.Session.SweepIntervalMinutes = 5
	}

	if cfg.RateLimit.IntervalMS < 0 {
		return fmt.Errorf("rate_limit.interval_ms must be >= 0")
	}

	if cfg.Database.Enabled {
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("database.host is required when database.enabled")
		}
		if strings.TrimSpace(cfg.Database.Port) == "" {
			cfg.Database.Port = "5432"
		}
		if strings.TrimSpace(cfg.Database.Name) == "" {
			return fmt.Errorf("database.name is required when database.enabled")
		}
		if strings.TrimSpace(cfg.Database.SSLMode) == "" {
			cfg.Database.SSLMode = "disable"
		}
		if cfg.Database.MaxConnections <= 0 {
			cfg.Database.MaxConnections = 4
		}
	}

	return nil
}
