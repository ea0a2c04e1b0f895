// Package coordinator drives the request cycle: classify one utterance,
// dispatch it to one sub-agent, and merge the result into the conversation.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"koordinator/internal/domain"
	"koordinator/internal/infra/tracer"
	"koordinator/internal/usecase/conversation"
	"koordinator/internal/usecase/dispatch"
	"koordinator/internal/usecase/routing"
)

// ClassifierFailureText is shown when the classifier cannot be reached.
const ClassifierFailureText = "Maaf, terjadi kesalahan pada koneksi server API."

// Dispatcher starts a sub-agent and resolves its result asynchronously.
type Dispatcher interface {
	Execute(ctx context.Context, agent domain.AgentID, args domain.Args) <-chan dispatch.Result
}

var _ Dispatcher = (*dispatch.Executor)(nil)

// Deps holds the orchestrator's collaborators.
type Deps struct {
	Classifier      domain.Classifier
	Dispatcher      Dispatcher
	IDs             domain.IDGenerator
	ConversationID  string          // optional, defaults to a generated id
	ClassifyTimeout time.Duration   // 0 = no timeout
	Bus             domain.EventBus // optional, nil = no events
	Logger          *slog.Logger
	Now             func() time.Time // optional, defaults to time.Now
}

// Snapshot is a consistent view of the conversation for presentation.
type Snapshot struct {
	ConversationID string
	Entries        []domain.Entry
	ActiveAgent    domain.AgentID // empty when no agent is processing
	State          State
}

// Busy reports whether a request is in progress.
func (s Snapshot) Busy() bool { return s.State.Busy() }

// StatePayload is the payload of a coordinator.state.changed event.
type StatePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CyclePayload is the payload of coordinator.cycle.* events.
type CyclePayload struct {
	UserEntryID string `json:"user_entry_id"`
	Outcome     string `json:"outcome,omitempty"`
	Agent       string `json:"agent,omitempty"`
}

// Orchestrator owns the conversation log and the active-agent tracker and
// enforces that at most one request is in flight. All state transitions,
// log appends and tracker changes happen under one mutex; the classifier
// call and the dispatch wait happen outside it.
type Orchestrator struct {
	deps    Deps
	logger  *slog.Logger
	events  *outbox
	log     *conversation.Log
	tracker *Tracker

	mu    sync.Mutex
	state State
	wg    sync.WaitGroup
}

// New creates an idle orchestrator with an empty conversation.
func New(deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.ConversationID == "" {
		deps.ConversationID = deps.IDs.NewID()
	}
	events := newOutbox(deps.Bus)
	logger := deps.Logger.With("conversation", deps.ConversationID)
	return &Orchestrator{
		deps:    deps,
		logger:  logger,
		events:  events,
		log:     conversation.NewLog(deps.ConversationID, events, logger),
		tracker: NewTracker(deps.ConversationID, events),
	}
}

// Submit starts a request cycle for text. The user entry is appended before
// Submit returns. The returned channel is closed when the cycle is back to
// Idle.
//
// Blank text is rejected with domain.ErrEmptyInput and a submission while a
// cycle is in progress with domain.ErrBusy; neither changes any state.
func (o *Orchestrator) Submit(ctx context.Context, text string) (<-chan struct{}, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewDomainError("Orchestrator.Submit", domain.ErrEmptyInput, "")
	}

	o.mu.Lock()
	if o.state != Idle {
		state := o.state
		o.mu.Unlock()
		o.logger.Warn("submission rejected", "state", state.String())
		return nil, domain.NewDomainError("Orchestrator.Submit", domain.ErrBusy, state.String())
	}
	user := domain.NewUserEntry(o.deps.IDs.NewID(), text)
	if err := o.log.Append(ctx, user); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	o.setState(ctx, AwaitingClassification)
	o.publish(ctx, domain.EventCycleStarted, CyclePayload{UserEntryID: user.ID})
	o.wg.Add(1)
	o.mu.Unlock()
	o.events.flush()

	done := make(chan struct{})
	go func() {
		defer o.wg.Done()
		defer close(done)
		o.runCycle(ctx, user)
	}()
	return done, nil
}

func (o *Orchestrator) runCycle(ctx context.Context, user domain.Entry) {
	ctx, span := tracer.StartSpan(ctx, "coordinator.cycle",
		trace.WithAttributes(tracer.StringAttr("entry.id", user.ID)),
	)
	defer span.End()
	logger := o.logger.With("entry_id", user.ID)

	reply, err := o.classify(ctx, user.Text)
	if err != nil {
		tracer.RecordError(span, err)
		logger.Error("classification failed", "error", err, "error_code", domain.ErrorCodeOf(err))
		o.finish(ctx, user.ID, "error", func() {
			o.publish(ctx, domain.EventClassifierFailed, map[string]string{
				"error":      err.Error(),
				"error_code": string(domain.ErrorCodeOf(err)),
			})
			o.appendEntry(ctx, domain.NewSystemEntry(o.deps.IDs.NewID(), ClassifierFailureText, true))
		})
		return
	}

	outcome := routing.Interpret(reply)
	span.SetAttributes(tracer.StringAttr("routing.outcome", outcome.Kind.String()))
	logger.Info("classifier replied", "outcome", outcome.Kind.String(), "agent", string(outcome.Agent))

	switch outcome.Kind {
	case routing.Unrouted:
		o.finish(ctx, user.ID, outcome.Kind.String(), func() {
			o.appendEntry(ctx, domain.NewSystemEntry(o.deps.IDs.NewID(), outcome.Text, false))
		})
	case routing.Empty:
		o.finish(ctx, user.ID, outcome.Kind.String(), nil)
	case routing.Routed:
		o.dispatch(ctx, logger, user.ID, outcome)
	}
	tracer.SetOK(span)
}

func (o *Orchestrator) classify(ctx context.Context, text string) (*domain.ClassifierReply, error) {
	if o.deps.ClassifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.deps.ClassifyTimeout)
		defer cancel()
	}
	ctx, span := tracer.StartSpan(ctx, "classifier.classify",
		trace.WithAttributes(tracer.StringAttr("classifier.name", o.deps.Classifier.Name())),
	)
	defer span.End()

	reply, err := o.deps.Classifier.Classify(ctx, text)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = domain.NewDomainError("Orchestrator.classify", domain.ErrTimeout, err.Error())
		}
		tracer.RecordError(span, err)
		return nil, err
	}
	tracer.SetOK(span)
	return reply, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, logger *slog.Logger, userID string, outcome routing.Outcome) {
	if len(outcome.Missing) > 0 {
		logger.Warn("routing decision missing required arguments",
			"agent", string(outcome.Agent),
			"missing", outcome.Missing,
		)
	}

	o.mu.Lock()
	o.appendEntry(ctx, domain.NewRoutingEntry(o.deps.IDs.NewID(), outcome.Agent, outcome.Args, o.deps.Now()))
	o.tracker.Set(ctx, outcome.Agent)
	o.setState(ctx, Dispatching)
	o.mu.Unlock()
	o.events.flush()

	res := <-o.deps.Dispatcher.Execute(ctx, outcome.Agent, outcome.Args)

	o.finish(ctx, userID, outcome.Kind.String(), func() {
		if res.Err != nil {
			logger.Error("agent failed", "agent", string(res.Agent), "call_id", res.CallID, "error", res.Err)
			o.appendEntry(ctx, domain.NewSystemEntry(o.deps.IDs.NewID(), agentFailureText(outcome.Agent), true))
		} else {
			o.appendEntry(ctx, domain.NewAgentResultEntry(o.deps.IDs.NewID(), outcome.Agent, res.Text))
		}
		o.tracker.Clear(ctx)
	})
}

// finish runs apply under the lock and returns the machine to Idle.
func (o *Orchestrator) finish(ctx context.Context, userID, outcome string, apply func()) {
	o.mu.Lock()
	if apply != nil {
		apply()
	}
	agent, _ := o.tracker.Current()
	o.setState(ctx, Idle)
	o.publish(ctx, domain.EventCycleCompleted, CyclePayload{UserEntryID: userID, Outcome: outcome, Agent: string(agent)})
	o.mu.Unlock()
	o.events.flush()
}

// appendEntry must be called with o.mu held. Ids come from the generator, so
// a failure here is a defect and is only logged.
func (o *Orchestrator) appendEntry(ctx context.Context, e domain.Entry) {
	if err := o.log.Append(ctx, e); err != nil {
		o.logger.Error("append conversation entry", "entry_id", e.ID, "kind", string(e.Kind), "error", err)
	}
}

// setState must be called with o.mu held.
func (o *Orchestrator) setState(ctx context.Context, to State) {
	from := o.state
	o.state = to
	o.logger.Debug("state changed", "from", from.String(), "state", to.String())
	o.publish(ctx, domain.EventStateChanged, StatePayload{From: from.String(), To: to.String()})
}

func (o *Orchestrator) publish(ctx context.Context, t domain.EventType, payload any) {
	o.events.Publish(ctx, domain.NewEvent(t, o.deps.ConversationID, payload))
}

// Snapshot returns the entries, the active agent and the state as of one
// point in time.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	agent, _ := o.tracker.Current()
	return Snapshot{
		ConversationID: o.deps.ConversationID,
		Entries:        o.log.All(),
		ActiveAgent:    agent,
		State:          o.state,
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Wait blocks until the in-flight cycle, if any, has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func agentFailureText(agent domain.AgentID) string {
	name := string(agent)
	if ident, ok := domain.Identity(agent); ok {
		name = ident.Name
	}
	return fmt.Sprintf("Maaf, %s gagal memproses permintaan Anda.", name)
}
