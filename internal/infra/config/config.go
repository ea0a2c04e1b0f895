package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Env var names read by ApplyEnvOverrides and Load.
const (
	EnvPrefix    = "KOORDINATOR_"
	EnvConfigKey = "KOORDINATOR_CONFIG_KEY"
	EnvGeminiKey = "GEMINI_API_KEY"
	EnvLegacyKey = "API_KEY"
)

const (
	ProviderGemini  = "gemini"
	ProviderKeyword = "keyword"

	DefaultModel = "gemini-2.5-flash"
)

// Config is the root configuration.
type Config struct {
	Coordinator CoordinatorConfig `yaml:"coordinator"`
	Dispatch    DispatchConfig    `yaml:"dispatch"`
	Logger      LoggerConfig      `yaml:"logger"`
	Tracer      TracerConfig      `yaml:"tracer"`
}

// CoordinatorConfig configures the intent classifier and the request cycle.
type CoordinatorConfig struct {
	Provider        string               `yaml:"provider"` // gemini | keyword
	Model           string               `yaml:"model"`
	APIKey          string               `yaml:"api_key"`
	BaseURL         string               `yaml:"base_url,omitempty"`
	Temperature     float32              `yaml:"temperature"`
	ClassifyTimeout time.Duration        `yaml:"classify_timeout"` // 0 disables
	CircuitBreaker  CircuitBreakerConfig `yaml:"circuit_breaker"`
	RateLimit       RateLimitConfig      `yaml:"rate_limit"`
}

// CircuitBreakerConfig holds circuit breaker settings for the classifier.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// RateLimitConfig throttles outgoing classification calls.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// DispatchConfig configures the sub-agent executor.
type DispatchConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Coordinator: CoordinatorConfig{
			Provider:        ProviderGemini,
			Model:           DefaultModel,
			Temperature:     0,
			ClassifyTimeout: 60 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
			RateLimit: RateLimitConfig{
				Enabled: false,
				RPS:     1,
				Burst:   3,
			},
		},
		Dispatch: DispatchConfig{
			Delay: 2 * time.Second,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// DefaultPath returns $HOME/.koordinator/config.yaml, or ./koordinator.yaml
// when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "koordinator.yaml"
	}
	return filepath.Join(home, ".koordinator", "config.yaml")
}

// Load reads config from a YAML file, applies env overrides, decrypts
// secrets and validates. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := validatePermissions(path); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := decryptSecrets(cfg, os.Getenv(EnvConfigKey)); err != nil {
		return nil, fmt.Errorf("decrypt secrets: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps KOORDINATOR_* env vars to config fields. The API
// key also falls back to GEMINI_API_KEY and then API_KEY.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "PROVIDER"); v != "" {
		cfg.Coordinator.Provider = v
	}
	if v := os.Getenv(EnvPrefix + "MODEL"); v != "" {
		cfg.Coordinator.Model = v
	}
	if v := os.Getenv(EnvPrefix + "API_KEY"); v != "" {
		cfg.Coordinator.APIKey = v
	} else if cfg.Coordinator.APIKey == "" {
		cfg.Coordinator.APIKey = firstEnv(EnvGeminiKey, EnvLegacyKey)
	}
	if v := os.Getenv(EnvPrefix + "BASE_URL"); v != "" {
		cfg.Coordinator.BaseURL = v
	}
	if v := os.Getenv(EnvPrefix + "CLASSIFY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Coordinator.ClassifyTimeout = d
		}
	}
	if v := os.Getenv(EnvPrefix + "DISPATCH_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Dispatch.Delay = d
		}
	}
	if v := os.Getenv(EnvPrefix + "RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Coordinator.RateLimit.Enabled = f > 0
			cfg.Coordinator.RateLimit.RPS = f
		}
	}
	if v := os.Getenv(EnvPrefix + "LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv(EnvPrefix + "LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv(EnvPrefix + "TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv(EnvPrefix + "TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

// validatePermissions checks the config file is not group or world writable.
func validatePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	if mode := info.Mode().Perm(); mode&0o022 != 0 {
		return fmt.Errorf("config file %s has insecure permissions %o (want 0600 or 0644)", path, mode)
	}
	return nil
}
