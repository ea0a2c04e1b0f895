package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. A missing API key is not
// an error here: the classifier reports it at call time.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateCoordinator(cfg, ve)
	validateDispatch(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateCoordinator(cfg *Config, ve *ValidationError) {
	c := cfg.Coordinator
	switch c.Provider {
	case ProviderGemini:
		if c.Model == "" {
			ve.Add("coordinator.model is required for provider %q", c.Provider)
		}
	case ProviderKeyword:
	default:
		ve.Add("coordinator.provider %q is invalid (want gemini or keyword)", c.Provider)
	}
	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			ve.Add("coordinator.base_url %q is not an absolute URL", c.BaseURL)
		}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		ve.Add("coordinator.temperature must be within [0, 2]")
	}
	if c.ClassifyTimeout < 0 {
		ve.Add("coordinator.classify_timeout must be >= 0")
	}
	if cb := c.CircuitBreaker; cb.Enabled {
		if cb.MaxFailures == 0 {
			ve.Add("coordinator.circuit_breaker.max_failures must be > 0")
		}
		if cb.Timeout <= 0 {
			ve.Add("coordinator.circuit_breaker.timeout must be > 0")
		}
	}
	if rl := c.RateLimit; rl.Enabled {
		if rl.RPS <= 0 {
			ve.Add("coordinator.rate_limit.rps must be > 0")
		}
		if rl.Burst < 1 {
			ve.Add("coordinator.rate_limit.burst must be >= 1")
		}
	}
}

func validateDispatch(cfg *Config, ve *ValidationError) {
	if cfg.Dispatch.Delay < 0 {
		ve.Add("dispatch.delay must be >= 0")
	}
}

func validateLogger(cfg *Config, ve *ValidationError) {
	switch strings.ToLower(cfg.Logger.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		ve.Add("logger.level %q is invalid", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "text", "json":
	default:
		ve.Add("logger.format %q is invalid (want text or json)", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	switch cfg.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		ve.Add("tracer.exporter %q is invalid (want noop or stdout)", cfg.Tracer.Exporter)
	}
}
