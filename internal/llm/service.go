package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"samsara/internal/debug"
	"samsara/internal/observability"
)

// Context keys for operation tracing
type contextKey string

const operationTypeKey contextKey = "operation_type"

const defaultMaxTokens = 600

// Service is the single gateway to the OpenAI chat completion API. Every
// call is wrapped in an OpenTelemetry span carrying GenAI attributes.
type Service struct {
	client *openai.Client
	model  string
	debug  *debug.Logger
	tracer trace.Tracer
}

func NewService(apiKey string, debug *debug.Logger) *Service {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Service{
		client: &client,
		model:  "gpt-5-2025-08-07",
		debug:  debug,
		tracer: otel.Tracer("llm-service"),
	}
}

func (s *Service) Model() string {
	return s.model
}

type TextCompletionRequest struct {
	SystemPrompt    string
	UserPrompt      string
	MaxTokens       int
	Model           string // optional override
	ReasoningEffort string // optional: minimal, low, medium, high
}

// Complete satisfies the game packages' Completer interface: one prompt in,
// one completion out. Evaluator prompts are self-contained so there is no
// separate system message.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	return s.CompleteText(ctx, TextCompletionRequest{
		UserPrompt:      prompt,
		MaxTokens:       defaultMaxTokens,
		ReasoningEffort: "minimal",
	})
}

func (s *Service) CompleteText(ctx context.Context, req TextCompletionRequest) (string, error) {
	operationType := "text_completion"
	if opType := getOperationType(ctx); opType != "" {
		operationType = opType
	}

	model := s.model
	if strings.TrimSpace(req.Model) != "" {
		model = req.Model
	}

	ctx, span := s.tracer.Start(ctx, operationType,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.CreateGenAIAttributes("openai", model, 0, 0)...,
		),
	)
	defer span.End()

	span.SetAttributes(
		attribute.Int("gen_ai.request.max_tokens", req.MaxTokens),
		attribute.String("langfuse.observation.type", "generation"),
		attribute.String("game.operation_type", operationType),
	)

	span.AddEvent("gen_ai.user.message", trace.WithAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("content", req.UserPrompt),
	))

	startTime := time.Now()

	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.UserPrompt))

	openaiReq := openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(int64(req.MaxTokens)),
	}

	if req.ReasoningEffort != "" {
		openaiReq.ReasoningEffort = shared.ReasoningEffort(req.ReasoningEffort)
	}

	if s.debug != nil {
		s.debug.Printf("LLM completion %s - MaxTokens: %d, prompt length: %d", operationType, req.MaxTokens, len(req.UserPrompt))
	}

	resp, err := s.client.Chat.Completions.New(ctx, openaiReq)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "llm_completion_error"))
		span.RecordError(err)
		if s.debug != nil {
			s.debug.Printf("LLM completion error: %v", err)
		}
		return "", fmt.Errorf("text completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no completion choices returned")
		span.RecordError(err)
		return "", err
	}

	content := resp.Choices[0].Message.Content
	duration := time.Since(startTime)

	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
		attribute.Int64("response_time_ms", duration.Milliseconds()),
		attribute.String("langfuse.observation.input", req.UserPrompt),
		attribute.String("langfuse.observation.output", content),
		attribute.String("langfuse.observation.model.name", model),
	)

	span.AddEvent("gen_ai.choice", trace.WithAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("content", content),
	))

	if s.debug != nil {
		s.debug.Printf("LLM completion response length: %d, tokens: %d/%d, duration: %v",
			len(content), resp.Usage.PromptTokens, resp.Usage.CompletionTokens, duration)
	}

	return content, nil
}

// WithOperationType labels the next LLM span so individual pipeline stages
// (health_eval, karma_eval, hazard_verdict, turn_response...) are
// distinguishable in traces.
func WithOperationType(ctx context.Context, opType string) context.Context {
	return context.WithValue(ctx, operationTypeKey, opType)
}

func getOperationType(ctx context.Context) string {
	if opType, ok := ctx.Value(operationTypeKey).(string); ok {
		return opType
	}
	return ""
}
