package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateDefaultsPass(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("defaults should pass: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"provider", func(c *Config) { c.Coordinator.Provider = "openai" }, "coordinator.provider"},
		{"model", func(c *Config) { c.Coordinator.Model = "" }, "coordinator.model"},
		{"base url", func(c *Config) { c.Coordinator.BaseURL = "not a url" }, "coordinator.base_url"},
		{"temperature", func(c *Config) { c.Coordinator.Temperature = 3 }, "coordinator.temperature"},
		{"classify timeout", func(c *Config) { c.Coordinator.ClassifyTimeout = -1 }, "coordinator.classify_timeout"},
		{"breaker failures", func(c *Config) { c.Coordinator.CircuitBreaker.MaxFailures = 0 }, "max_failures"},
		{"rate limit rps", func(c *Config) {
			c.Coordinator.RateLimit.Enabled = true
			c.Coordinator.RateLimit.RPS = 0
		}, "rate_limit.rps"},
		{"dispatch delay", func(c *Config) { c.Dispatch.Delay = -1 }, "dispatch.delay"},
		{"logger level", func(c *Config) { c.Logger.Level = "verbose" }, "logger.level"},
		{"logger format", func(c *Config) { c.Logger.Format = "xml" }, "logger.format"},
		{"tracer exporter", func(c *Config) { c.Tracer.Exporter = "jaeger" }, "tracer.exporter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := Validate(cfg)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateKeywordNeedsNoModel(t *testing.T) {
	cfg := Defaults()
	cfg.Coordinator.Provider = ProviderKeyword
	cfg.Coordinator.Model = ""
	if err := Validate(cfg); err != nil {
		t.Errorf("keyword provider should not need a model: %v", err)
	}
}

func TestValidateAccumulates(t *testing.T) {
	cfg := Defaults()
	cfg.Logger.Level = "x"
	cfg.Dispatch.Delay = -1
	var ve *ValidationError
	if !errors.As(Validate(cfg), &ve) || len(ve.Errors) != 2 {
		t.Fatalf("want 2 errors, got %v", ve)
	}
}
