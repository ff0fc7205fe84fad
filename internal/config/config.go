package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://localhost:8000"

type Config struct {
	App        AppConfig        `yaml:"app"`
	Backend    BackendConfig    `yaml:"backend"`
	Logging    LoggingConfig    `yaml:"logging"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	Exports    ExportConfig     `yaml:"exports"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type BackendConfig struct {
	BaseURL   string          `yaml:"base_url"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig throttles outbound calls. RPS 0 disables the limiter.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SessionConfig struct {
	Name     string        `yaml:"name"`
	DraftTTL time.Duration `yaml:"draft_ttl"`
	DraftDir string        `yaml:"draft_dir"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type MonitoringConfig struct {
	MetricsTextfile string `yaml:"metrics_textfile"`
}

// envOverrides is the environment surface of the client.
type envOverrides struct {
	BackendURL string `envconfig:"BACKEND_URL"`
}

// Load reads the optional .env file, the YAML file at configPath (missing file
// means defaults) and finally the STUDIO_BACKEND_URL override.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Предварительная замена переменных окружения в YAML
		expandedData := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expandedData, &config); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("studio", &env); err != nil {
		return fmt.Errorf("process env: %w", err)
	}
	if strings.TrimSpace(env.BackendURL) != "" {
		c.Backend.BaseURL = env.BackendURL
	}
	return nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend base url must be http or https, got %q", c.Backend.BaseURL)
	}
	if u.Host == "" {
		return errors.New("backend base url has no host")
	}
	if c.Backend.RateLimit.RPS < 0 {
		return errors.New("backend.rate_limit.rps must not be negative")
	}
	if c.Session.DraftTTL < 0 {
		return errors.New("session.draft_ttl must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Backend.BaseURL = NormalizeBaseURL(c.Backend.BaseURL)
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = DefaultBaseURL
	}
	if c.Backend.RateLimit.RPS > 0 && c.Backend.RateLimit.Burst <= 0 {
		c.Backend.RateLimit.Burst = 1
	}
	if c.App.Name == "" {
		c.App.Name = "studio"
	}
	if c.Session.Name == "" {
		c.Session.Name = "default"
	}
	if c.Session.DraftTTL == 0 {
		c.Session.DraftTTL = 24 * time.Hour
	}
	if c.Session.DraftDir == "" {
		c.Session.DraftDir = DefaultDraftDir()
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// DefaultDraftDir is <user cache dir>/studio/drafts, or .studio/drafts when the
// platform has no cache dir.
func DefaultDraftDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "studio", "drafts")
	}
	return filepath.Join(".studio", "drafts")
}

// NormalizeBaseURL trims whitespace and trailing slashes so paths can be
// appended verbatim.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
