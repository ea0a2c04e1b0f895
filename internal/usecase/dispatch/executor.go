// Package dispatch runs the selected sub-agent for a routing decision and
// resolves its result asynchronously.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"koordinator/internal/domain"
	"koordinator/internal/infra/tracer"
)

// DefaultDelay is the simulated processing time of a sub-agent.
const DefaultDelay = 2 * time.Second

// Result is the resolution of one dispatch.
type Result struct {
	CallID   string
	Agent    domain.AgentID
	Text     string
	Err      error
	Duration time.Duration
}

// StartedPayload is the payload of a dispatch.started event.
type StartedPayload struct {
	CallID string         `json:"call_id"`
	Agent  domain.AgentID `json:"agent"`
}

// CompletedPayload is the payload of a dispatch.completed event.
type CompletedPayload struct {
	CallID     string         `json:"call_id"`
	Agent      domain.AgentID `json:"agent"`
	DurationMS int64          `json:"duration_ms"`
	Error      string         `json:"error,omitempty"`
}

// ExecutorDeps holds the executor's collaborators.
type ExecutorDeps struct {
	Registry *Registry
	IDs      domain.IDGenerator
	Delay    time.Duration   // 0 resolves on the next scheduling point
	Schemas  *SchemaChecker  // optional, nil = no argument validation
	Bus      domain.EventBus // optional, nil = no events
	Logger   *slog.Logger
}

// Executor invokes the handler of a routed agent. It holds no state beyond
// its handler registry.
type Executor struct {
	deps ExecutorDeps
}

// NewExecutor creates an executor. Registry and IDs are required.
func NewExecutor(deps ExecutorDeps) *Executor {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Delay < 0 {
		deps.Delay = 0
	}
	return &Executor{deps: deps}
}

// Delay returns the configured processing delay.
func (e *Executor) Delay() time.Duration { return e.deps.Delay }

// Execute starts the handler for agent and returns a channel that receives
// exactly one Result. The channel never resolves before Execute returns.
//
// Canceling ctx during the delay resolves the result with ctx.Err(); it does
// not interrupt a handler that has already started.
func (e *Executor) Execute(ctx context.Context, agent domain.AgentID, args domain.Args) <-chan Result {
	callID := e.deps.IDs.NewID()
	args = args.Clone()
	out := make(chan Result, 1)

	logger := e.deps.Logger.With("call_id", callID, "agent", string(agent))
	if e.deps.Schemas != nil {
		if err := e.deps.Schemas.Check(agent, args); err != nil {
			logger.Warn("dispatch arguments do not match schema", "error", err)
		}
	}
	e.publish(ctx, domain.EventDispatchStarted, StartedPayload{CallID: callID, Agent: agent})
	logger.Info("dispatch started", "delay", e.deps.Delay)

	go func() {
		ctx, span := tracer.StartSpan(ctx, "dispatch.execute",
			trace.WithAttributes(
				tracer.StringAttr("agent.id", string(agent)),
				tracer.StringAttr("dispatch.call_id", callID),
			),
		)
		defer span.End()

		start := time.Now()
		res := Result{CallID: callID, Agent: agent}
		res.Text, res.Err = e.run(ctx, agent, args)
		res.Duration = time.Since(start)

		completed := CompletedPayload{CallID: callID, Agent: agent, DurationMS: res.Duration.Milliseconds()}
		if res.Err != nil {
			tracer.RecordError(span, res.Err)
			completed.Error = res.Err.Error()
			logger.Error("dispatch failed", "error", res.Err, "error_code", domain.ErrorCodeOf(res.Err))
		} else {
			tracer.SetOK(span)
			logger.Info("dispatch completed", "duration", res.Duration)
		}
		e.publish(ctx, domain.EventDispatchCompleted, completed)
		out <- res
		close(out)
	}()
	return out
}

func (e *Executor) run(ctx context.Context, agent domain.AgentID, args domain.Args) (text string, err error) {
	timer := time.NewTimer(e.deps.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return "", domain.WrapOp("Executor.Execute", ctx.Err())
	}

	handler, err := e.deps.Registry.Get(agent)
	if err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			err = domain.NewDomainError("Executor.Execute", domain.ErrProviderError, fmt.Sprintf("handler panicked: %v", r))
		}
	}()
	return handler.Handle(ctx, args)
}

func (e *Executor) publish(ctx context.Context, t domain.EventType, payload any) {
	if e.deps.Bus != nil {
		e.deps.Bus.Publish(ctx, domain.NewEvent(t, "", payload))
	}
}
