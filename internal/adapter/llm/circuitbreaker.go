package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"koordinator/internal/domain"
	"koordinator/internal/infra/config"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// CircuitBreakerClassifier wraps a Classifier with circuit breaker
// protection. After repeated failures, calls fail fast with
// domain.ErrCircuitOpen until the breaker half-opens.
type CircuitBreakerClassifier struct {
	inner   domain.Classifier
	breaker *gobreaker.CircuitBreaker[*domain.ClassifierReply]
}

var _ domain.Classifier = (*CircuitBreakerClassifier)(nil)

// NewCircuitBreakerClassifier wraps inner with a circuit breaker. Zero
// fields in cfg fall back to defaults.
func NewCircuitBreakerClassifier(inner domain.Classifier, cfg config.CircuitBreakerConfig, logger *slog.Logger) *CircuitBreakerClassifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[*domain.ClassifierReply](gobreaker.Settings{
		Name:        "classifier:" + inner.Name(),
		MaxRequests: 1,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		// Caller cancellation and missing credentials say nothing about the
		// upstream's health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, domain.ErrConfigMissing)
		},
	})

	return &CircuitBreakerClassifier{inner: inner, breaker: cb}
}

// Classify implements domain.Classifier.
func (c *CircuitBreakerClassifier) Classify(ctx context.Context, utterance string) (*domain.ClassifierReply, error) {
	reply, err := c.breaker.Execute(func() (*domain.ClassifierReply, error) {
		return c.inner.Classify(ctx, utterance)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, domain.NewDomainError("CircuitBreaker.Classify", domain.ErrCircuitOpen, c.inner.Name()+": "+err.Error())
	}
	return reply, err
}

// Name implements domain.Classifier.
func (c *CircuitBreakerClassifier) Name() string { return c.inner.Name() }

// State returns the current breaker state.
func (c *CircuitBreakerClassifier) State() gobreaker.State {
	return c.breaker.State()
}

// Counts returns the breaker's failure and success counts.
func (c *CircuitBreakerClassifier) Counts() gobreaker.Counts {
	return c.breaker.Counts()
}

// Connection pool settings for the classifier's HTTP client: one host,
// one request at a time, long-lived connections.
const (
	defaultMaxIdleConns    = 4
	defaultIdleConnTimeout = 120 * time.Second
	defaultConnTimeout     = 30 * time.Second
	defaultRespTimeout     = 120 * time.Second
)

// NewHTTPClient returns the pooled HTTP client used for classifier calls.
// The overall request deadline is left to the caller's context.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   defaultConnTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: defaultRespTimeout,
			MaxIdleConns:          defaultMaxIdleConns,
			MaxIdleConnsPerHost:   defaultMaxIdleConns,
			IdleConnTimeout:       defaultIdleConnTimeout,
			ForceAttemptHTTP2:     true,
		},
	}
}
