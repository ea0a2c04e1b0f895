// Package llm adapts intent-classification backends to domain.Classifier.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"koordinator/internal/domain"
	"koordinator/internal/infra/config"
)

// New builds the classifier named by cfg.Provider with its resilience
// wrappers. A Gemini classifier without an API key is replaced by an
// Unconfigured one; use IsConfigured to detect that case.
func New(ctx context.Context, cfg config.CoordinatorConfig, logger *slog.Logger) (domain.Classifier, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var base domain.Classifier
	switch cfg.Provider {
	case config.ProviderKeyword:
		base = KeywordClassifier{}
	case config.ProviderGemini, "":
		g, err := NewGeminiClassifier(ctx, cfg, NewHTTPClient(), logger)
		if errors.Is(err, domain.ErrConfigMissing) {
			logger.Warn("classifier credentials missing; requests will fail until an API key is set",
				"provider", config.ProviderGemini,
				"env", config.EnvGeminiKey,
			)
			return NewUnconfigured(config.ProviderGemini, err), nil
		}
		if err != nil {
			return nil, err
		}
		base = g
	default:
		return nil, domain.NewDomainError("llm.New", domain.ErrInvalidInput, fmt.Sprintf("unknown provider %q", cfg.Provider))
	}

	classifier := base
	if cfg.CircuitBreaker.Enabled {
		classifier = NewCircuitBreakerClassifier(classifier, cfg.CircuitBreaker, logger)
	}
	if cfg.RateLimit.Enabled {
		classifier = NewRateLimitedClassifier(classifier, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	logger.Info("classifier ready",
		"provider", base.Name(),
		"model", cfg.Model,
		"circuit_breaker", cfg.CircuitBreaker.Enabled,
		"rate_limit", cfg.RateLimit.Enabled,
	)
	return classifier, nil
}

// IsConfigured reports whether c can reach a classification backend.
func IsConfigured(c domain.Classifier) bool {
	_, unconfigured := c.(*Unconfigured)
	return !unconfigured
}
