// Package models defines the data model, error taxonomy and configuration.
package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when --config is not given. It is optional.
const DefaultConfigFile = "drive-digest.yaml"

// Recognized secret keys.
const (
	KeyGeminiAPIKey      = "GEMINI_API_KEY"
	KeyTargetEmail       = "TARGET_EMAIL"
	KeyGoogleCredentials = "GOOGLE_CREDENTIALS"
	KeySMTPServer        = "SMTP_SERVER"
	KeySMTPPort          = "SMTP_PORT"
	KeySMTPUser          = "SMTP_USER"
	KeySMTPPassword      = "SMTP_PASSWORD"
)

type LLMConfig struct {
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SMTPConfig struct {
	Server   string        `yaml:"server"`
	Port     int           `yaml:"port"`
	User     string        `yaml:"user"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

type MailConfig struct {
	Channel string `yaml:"channel"` // smtp or gmail
	Subject string `yaml:"subject"`
}

type SummaryConfig struct {
	DetectLanguage bool `yaml:"detect_language"`
}

type GoogleConfig struct {
	// Subject is the user to impersonate with a delegated service account.
	Subject    string `yaml:"subject"`
	SheetRange string `yaml:"sheet_range"`
}

// Config is resolved once at startup and passed into every constructor.
type Config struct {
	GeminiAPIKey      string        `yaml:"gemini_api_key"`
	TargetEmail       string        `yaml:"target_email"`
	GoogleCredentials string        `yaml:"google_credentials"`
	LLM               LLMConfig     `yaml:"llm"`
	SMTP              SMTPConfig    `yaml:"smtp"`
	Mail              MailConfig    `yaml:"mail"`
	Summary           SummaryConfig `yaml:"summary"`
	Google            GoogleConfig  `yaml:"google"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:   "gemini-2.0-flash",
			BaseURL: "https://generativelanguage.googleapis.com",
		},
		SMTP: SMTPConfig{Port: 587},
		Mail: MailConfig{
			Channel: "smtp",
			Subject: "Automated Google Workspace Summary",
		},
		Google: GoogleConfig{SheetRange: "A1:Z1000"},
	}
}

// LoadConfig reads .env (if present), then the YAML file at path (if
// present), then lets the process environment override both. An explicit
// path that does not exist is an error; the default path is optional.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideFromEnv(cfg *Config) error {
	if v := os.Getenv(KeyGeminiAPIKey); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv(KeyTargetEmail); v != "" {
		cfg.TargetEmail = v
	}
	if v := os.Getenv(KeyGoogleCredentials); v != "" {
		cfg.GoogleCredentials = v
	}
	if v := os.Getenv(KeySMTPServer); v != "" {
		cfg.SMTP.Server = v
	}
	if v := os.Getenv(KeySMTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", KeySMTPPort, err)
		}
		cfg.SMTP.Port = port
	}
	if v := os.Getenv(KeySMTPUser); v != "" {
		cfg.SMTP.User = v
	}
	if v := os.Getenv(KeySMTPPassword); v != "" {
		cfg.SMTP.Password = v
	}
	return nil
}

// Require returns a *MissingConfigurationError naming every key in keys that
// has no value.
func (c *Config) Require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(c.value(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingConfigurationError{Keys: missing}
	}
	return nil
}

func (c *Config) value(key string) string {
	switch key {
	case KeyGeminiAPIKey:
		return c.GeminiAPIKey
	case KeyTargetEmail:
		return c.TargetEmail
	case KeyGoogleCredentials:
		return c.GoogleCredentials
	case KeySMTPServer:
		return c.SMTP.Server
	case KeySMTPPort:
		if c.SMTP.Port <= 0 {
			return ""
		}
		return strconv.Itoa(c.SMTP.Port)
	case KeySMTPUser:
		return c.SMTP.User
	case KeySMTPPassword:
		return c.SMTP.Password
	default:
		return ""
	}
}

// CredentialsJSON returns the Google credential material. GOOGLE_CREDENTIALS
// may hold the JSON itself or a path to a JSON file.
func (c *Config) CredentialsJSON() ([]byte, error) {
	raw := strings.TrimSpace(c.GoogleCredentials)
	if raw == "" {
		return nil, &MissingConfigurationError{Keys: []string{KeyGoogleCredentials}}
	}
	if strings.HasPrefix(raw, "{") {
		return []byte(raw), nil
	}
	data, err := os.ReadFile(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}
