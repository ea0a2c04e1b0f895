package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"koordinator/internal/domain"
	"koordinator/internal/infra/config"
	"koordinator/internal/infra/tracer"
)

// GeminiClassifier asks a Gemini model to pick one agent through function
// calling. Each call sends only the current utterance.
type GeminiClassifier struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

var _ domain.Classifier = (*GeminiClassifier)(nil)

// NewGeminiClassifier creates a classifier from cfg. It returns
// domain.ErrConfigMissing when no API key is configured.
func NewGeminiClassifier(ctx context.Context, cfg config.CoordinatorConfig, httpClient *http.Client, logger *slog.Logger) (*GeminiClassifier, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.NewDomainError("NewGeminiClassifier", domain.ErrConfigMissing, "api key is empty")
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClassifier{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// Name implements domain.Classifier.
func (g *GeminiClassifier) Name() string { return "gemini" }

// Classify implements domain.Classifier.
func (g *GeminiClassifier) Classify(ctx context.Context, utterance string) (*domain.ClassifierReply, error) {
	ctx, span := tracer.StartSpan(ctx, "llm.generate_content",
		trace.WithAttributes(
			tracer.StringAttr("llm.provider", "gemini"),
			tracer.StringAttr("llm.model", g.model),
		),
	)
	defer span.End()

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(utterance, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr(g.temperature),
			Tools:             []*genai.Tool{{FunctionDeclarations: FunctionDeclarations()}},
		},
	)
	if err != nil {
		err = mapAPIError(err)
		tracer.RecordError(span, err)
		return nil, err
	}

	reply := replyFromResponse(resp)
	g.logger.Debug("gemini classified utterance",
		"model", g.model,
		"function_calls", len(reply.FunctionCalls),
		"has_text", reply.Text != "",
	)
	tracer.SetOK(span)
	return reply, nil
}

// replyFromResponse collects the function calls and text parts of the first
// candidate. Text parts are joined with a space; thought parts are skipped.
func replyFromResponse(resp *genai.GenerateContentResponse) *domain.ClassifierReply {
	reply := &domain.ClassifierReply{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return reply
	}

	var texts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if fc := part.FunctionCall; fc != nil {
			reply.FunctionCalls = append(reply.FunctionCalls, domain.FunctionCall{
				ID:   fc.ID,
				Name: fc.Name,
				Args: domain.Args(fc.Args),
			})
		}
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	reply.Text = strings.Join(texts, " ")
	return reply
}

// mapAPIError maps Gemini API status codes to domain errors so the circuit
// breaker and logs can classify them.
func mapAPIError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return domain.WrapOp("gemini", err)
	}
	detail := fmt.Sprintf("API error %d: %s", apiErr.Code, apiErr.Message)
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimit, detail)
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrAuthInvalid, detail)
	case apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "api key"):
		return fmt.Errorf("%w: %s", domain.ErrAuthInvalid, detail)
	default:
		return fmt.Errorf("%w: %s", domain.ErrProviderError, detail)
	}
}
