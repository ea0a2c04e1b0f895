package main

import (
	"context"

	"koordinator/internal/adapter/llm"
	"koordinator/internal/adapter/tui/chat"
	"koordinator/internal/adapter/tui/uxerror"
)

// runChat starts the full-screen chat.
func runChat(ctx context.Context, opts *globalOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	a, err := bootstrap(ctx, cfg, bootOptions{interactive: true})
	if err != nil {
		return err
	}
	defer a.Close()

	program := chat.NewProgram(chat.ModelDeps{
		Coordinator: a.orchestrator,
		Logger:      a.log,
		Classifier:  a.classifier.Name(),
		ModelName:   modelLabel(a),
		Warning:     startupWarning(a),
	}, a.bus)

	a.log.Info("chat started", "provider", cfg.Coordinator.Provider)
	return program.Run(ctx)
}

// startupWarning returns the banner shown while no classifier credentials are
// configured.
func startupWarning(a *app) string {
	if llm.IsConfigured(a.classifier) {
		return ""
	}
	return uxerror.MissingKeyWarning
}

func modelLabel(a *app) string {
	if a.classifier.Name() == "keyword" {
		return ""
	}
	return a.cfg.Coordinator.Model
}
