// Package integration holds end-to-end tests that talk to the real
// classification backend. They are compiled only with the integration build
// tag and skip themselves when no credentials are present.
package integration

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"koordinator/internal/adapter/agent"
	"koordinator/internal/adapter/llm"
	"koordinator/internal/domain"
	"koordinator/internal/infra/config"
	"koordinator/internal/usecase/coordinator"
	"koordinator/internal/usecase/dispatch"
	"koordinator/internal/usecase/eventbus"
	"koordinator/internal/usecase/ids"
)

// Config holds integration test configuration from environment
type Config struct {
	GeminiKey   string
	Model       string
	TestTimeout time.Duration
	SkipSlow    bool
}

// LoadConfig loads integration test configuration from environment
func LoadConfig() *Config {
	model := os.Getenv("KOORDINATOR_MODEL")
	if model == "" {
		model = config.Defaults().Coordinator.Model
	}
	return &Config{
		GeminiKey:   os.Getenv(config.EnvGeminiKey),
		Model:       model,
		TestTimeout: 60 * time.Second,
		SkipSlow:    os.Getenv("SKIP_SLOW_TESTS") == "1",
	}
}

// SkipIfNoAPIKey skips the test if the required API key is not set
func SkipIfNoAPIKey(t *testing.T, key, name string) {
	t.Helper()
	if key == "" {
		t.Skipf("Skipping %s integration test: %s not set", name, config.EnvGeminiKey)
	}
}

// SkipIfShort skips integration tests in short mode
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// NewTestContext creates a context with timeout for integration tests
func NewTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// NewOrchestrator wires a coordinator around the live Gemini classifier with
// the simulated handlers and no dispatch delay.
func NewOrchestrator(t *testing.T, ctx context.Context, cfg *Config) *coordinator.Orchestrator {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cc := config.Defaults().Coordinator
	cc.APIKey = cfg.GeminiKey
	cc.Model = cfg.Model
	classifier, err := llm.New(ctx, cc, logger)
	if err != nil {
		t.Fatalf("classifier: %v", err)
	}

	reg := dispatch.NewRegistry(logger)
	if err := agent.RegisterSimulated(reg); err != nil {
		t.Fatalf("handlers: %v", err)
	}
	bus := eventbus.New(logger, eventbus.Synchronous())
	t.Cleanup(bus.Close)

	orch := coordinator.New(coordinator.Deps{
		Classifier: classifier,
		Dispatcher: dispatch.NewExecutor(dispatch.ExecutorDeps{
			Registry: reg,
			IDs:      ids.NewULID("call_"),
			Bus:      bus,
			Logger:   logger,
		}),
		IDs:             ids.NewULID(""),
		ClassifyTimeout: cfg.TestTimeout,
		Bus:             bus,
		Logger:          logger,
	})
	t.Cleanup(orch.Wait)
	return orch
}

// RunCycle submits text and blocks until the cycle it started is done.
func RunCycle(t *testing.T, ctx context.Context, orch *coordinator.Orchestrator, text string) []domain.Entry {
	t.Helper()
	done, err := orch.Submit(ctx, text)
	if err != nil {
		t.Fatalf("submit %q: %v", text, err)
	}
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("cycle for %q did not finish: %v", text, ctx.Err())
	}
	return orch.Snapshot().Entries
}
