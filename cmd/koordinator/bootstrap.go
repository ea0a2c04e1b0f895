package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"koordinator/internal/adapter/agent"
	"koordinator/internal/adapter/llm"
	"koordinator/internal/domain"
	"koordinator/internal/infra/config"
	"koordinator/internal/infra/logger"
	"koordinator/internal/infra/tracer"
	"koordinator/internal/usecase/coordinator"
	"koordinator/internal/usecase/dispatch"
	"koordinator/internal/usecase/eventbus"
	"koordinator/internal/usecase/ids"
)

// app is the wired coordinator and everything it owns.
type app struct {
	cfg          *config.Config
	log          *slog.Logger
	classifier   domain.Classifier
	bus          *eventbus.Bus
	registry     *dispatch.Registry
	orchestrator *coordinator.Orchestrator
	closers      []func()
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// bootOptions tune bootstrap for the calling command.
type bootOptions struct {
	interactive bool      // full-screen UI owns the terminal
	synchronous bool      // deliver events inline, in order
	traceOut    io.Writer // stdout span exporter target; nil = stderr
}

// loadConfig reads the config file and applies the command-line overrides.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	applyFlags(cfg, opts)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// applyFlags overlays non-empty flags onto cfg. Flags win over file and env.
func applyFlags(cfg *config.Config, opts *globalOptions) {
	if opts.Provider != "" {
		cfg.Coordinator.Provider = opts.Provider
	}
	if opts.Model != "" {
		cfg.Coordinator.Model = opts.Model
	}
	if opts.APIKey != "" {
		cfg.Coordinator.APIKey = opts.APIKey
	}
}

// bootstrap wires logger, tracer, classifier, handlers, executor and
// orchestrator from cfg.
func bootstrap(ctx context.Context, cfg *config.Config, bo bootOptions) (*app, error) {
	a := &app{cfg: cfg}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	// 1. Logger. The full-screen UI would be corrupted by records on stderr.
	logCfg := cfg.Logger
	if bo.interactive && (logCfg.Output == "" || logCfg.Output == "stderr" || logCfg.Output == "stdout") {
		logCfg.Output = "discard"
	}
	log, logCloser, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	a.log = log
	a.closers = append(a.closers, func() { _ = logCloser() })

	// 2. Tracer
	shutdown, err := tracer.Setup(ctx, cfg.Tracer, bo.traceOut)
	if err != nil {
		return nil, fmt.Errorf("tracer: %w", err)
	}
	a.closers = append(a.closers, func() { _ = shutdown(context.Background()) })

	// 3. Classifier
	a.classifier, err = llm.New(ctx, cfg.Coordinator, log)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	// 4. Event bus
	var busOpts []eventbus.Option
	if bo.synchronous {
		busOpts = append(busOpts, eventbus.Synchronous())
	}
	a.bus = eventbus.New(log, busOpts...)
	a.closers = append(a.closers, a.bus.Close)

	// 5. Sub-agent handlers and executor
	a.registry = dispatch.NewRegistry(log)
	if err := agent.RegisterSimulated(a.registry); err != nil {
		return nil, fmt.Errorf("handlers: %w", err)
	}
	schemas, err := dispatch.NewSchemaChecker()
	if err != nil {
		return nil, fmt.Errorf("schemas: %w", err)
	}
	executor := dispatch.NewExecutor(dispatch.ExecutorDeps{
		Registry: a.registry,
		IDs:      ids.NewULID("call_"),
		Delay:    cfg.Dispatch.Delay,
		Schemas:  schemas,
		Bus:      a.bus,
		Logger:   log,
	})

	// 6. Orchestrator
	a.orchestrator = coordinator.New(coordinator.Deps{
		Classifier:      a.classifier,
		Dispatcher:      executor,
		IDs:             ids.NewULID(""),
		ClassifyTimeout: cfg.Coordinator.ClassifyTimeout,
		Bus:             a.bus,
		Logger:          log,
	})
	a.closers = append(a.closers, a.orchestrator.Wait)

	ok = true
	return a, nil
}
