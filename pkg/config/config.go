package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MaxPageSize is the largest page the timeline endpoints will return
const MaxPageSize = 200

// Config holds the tunable settings of twistory. Per-run choices made on the
// command line live in Options instead.
type Config struct {
	// Remote API endpoints and HTTP behaviour
	API APIConfig `yaml:"api" json:"api"`

	// Pagination and recovery settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Where credentials are kept
	Credentials CredentialsConfig `yaml:"credentials" json:"credentials"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds Twitter API configuration
type APIConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	OAuthURL       string        `yaml:"oauth_url" json:"oauth_url"`
	UnwrapEndpoint string        `yaml:"unwrap_endpoint" json:"unwrap_endpoint"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// FetchConfig holds pagination and retry configuration
type FetchConfig struct {
	PageSize int `yaml:"page_size" json:"page_size"`

	// TransientRetryDelay is the fixed pause before re-requesting a page
	// whose read was cut short.
	TransientRetryDelay    time.Duration `yaml:"transient_retry_delay" json:"transient_retry_delay"`
	TransientRetryAttempts int           `yaml:"transient_retry_attempts" json:"transient_retry_attempts"`

	// RateLimitMargin is added to the time left until the quota resets.
	RateLimitMargin time.Duration `yaml:"rate_limit_margin" json:"rate_limit_margin"`
}

// CredentialsConfig holds credential storage configuration
type CredentialsConfig struct {
	File    string `yaml:"file" json:"file"`
	Keyring bool   `yaml:"keyring" json:"keyring"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://api.twitter.com/1.1",
			OAuthURL:       "https://api.twitter.com/oauth",
			UnwrapEndpoint: "https://t.co",
			UserAgent:      "twistory/2.0",
			RequestTimeout: 30 * time.Second,
		},
		Fetch: FetchConfig{
			PageSize:               MaxPageSize,
			TransientRetryDelay:    5 * time.Second,
			TransientRetryAttempts: 5,
			RateLimitMargin:        2 * time.Second,
		},
		Credentials: CredentialsConfig{
			File:    defaultCredentialsFile(),
			Keyring: false,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// defaultCredentialsFile returns ~/.twistory
func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".twistory"
	}
	return filepath.Join(home, ".twistory")
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv("TWISTORY_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("TWISTORY_OAUTH_URL"); v != "" {
		c.API.OAuthURL = v
	}
	if v := os.Getenv("TWISTORY_UNWRAP_ENDPOINT"); v != "" {
		c.API.UnwrapEndpoint = v
	}
	if v := os.Getenv("TWISTORY_USER_AGENT"); v != "" {
		c.API.UserAgent = v
	}
	if v := os.Getenv("TWISTORY_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TWISTORY_REQUEST_TIMEOUT: %w", err))
		} else {
			c.API.RequestTimeout = d
		}
	}

	if v := os.Getenv("TWISTORY_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TWISTORY_PAGE_SIZE: %w", err))
		} else {
			c.Fetch.PageSize = n
		}
	}

	if v := os.Getenv("TWISTORY_CREDENTIALS"); v != "" {
		c.Credentials.File = v
	}
	if v := os.Getenv("TWISTORY_KEYRING"); v != "" {
		c.Credentials.Keyring = strings.ToLower(v) == "true" || v == "1"
	}

	if v := os.Getenv("TWISTORY_LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home, _ := os.UserHomeDir()
	locations := []string{
		filepath.Join(home, ".config", "twistory", "config.yaml"),
		filepath.Join(home, ".config", "twistory", "config.yml"),
		filepath.Join(home, ".twistory.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api base URL is required"))
	}
	if c.API.OAuthURL == "" {
		errs = append(errs, errors.New("oauth URL is required"))
	}
	if c.API.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Fetch.PageSize <= 0 || c.Fetch.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("page size must be between 1 and %d", MaxPageSize))
	}
	if c.Fetch.TransientRetryDelay < 0 {
		errs = append(errs, errors.New("transient retry delay cannot be negative"))
	}
	if c.Fetch.TransientRetryAttempts < 1 {
		errs = append(errs, errors.New("transient retry attempts must be at least 1"))
	}
	if c.Fetch.RateLimitMargin < 0 {
		errs = append(errs, errors.New("rate limit margin cannot be negative"))
	}

	if c.Credentials.File == "" {
		errs = append(errs, errors.New("credentials file is required"))
	}

	return errors.Join(errs...)
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Environment variables > .env file > Config file > Defaults
func Load(configPath string) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".twistory.env"))
	}

	if configPath == "" {
		configPath = os.Getenv("TWISTORY_CONFIG")
	}

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
