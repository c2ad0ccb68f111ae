// Package ai talks to the generative provider and turns its free-form output
// into validated domain records, substituting fixed fallbacks when it cannot.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/fairyhunter13/careerboost-api/internal/config"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
)

const providerGemini = "gemini"

// generator is the slice of *genai.GenerativeModel the client uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient implements domain.Completer. Each call is a single attempt
// bounded by the configured timeout and guarded by the provider breaker.
type GeminiClient struct {
	client  *genai.Client
	model   generator
	timeout time.Duration
	guard   *observability.Guard
}

// NewGeminiClient creates a client for cfg.GeminiModel with JSON output requested.
func NewGeminiClient(ctx context.Context, cfg config.Config, guard *observability.Guard) (*GeminiClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("op=ai.NewGeminiClient: %w", domain.Invalid("GEMINI_API_KEY", "GEMINI_API_KEY is required"))
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("op=ai.NewGeminiClient: %w", err)
	}
	model := client.GenerativeModel(cfg.GeminiModel)
	model.SetTemperature(cfg.GeminiTemperature)
	model.ResponseMIMEType = "application/json"

	c := newGeminiClient(model, cfg.GeminiTimeout, guard)
	c.client = client
	return c, nil
}

func newGeminiClient(model generator, timeout time.Duration, guard *observability.Guard) *GeminiClient {
	if guard == nil {
		guard = observability.NewGuard(providerGemini, nil)
	}
	return &GeminiClient{model: model, timeout: timeout, guard: guard}
}

// Complete sends prompt and returns the concatenated text of the first candidate.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	var out string
	err := c.guard.Do(ctx, "generate", c.timeout, func(ctx context.Context) error {
		resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return mapGeminiError(err)
		}
		text, err := responseText(resp)
		if err != nil {
			return domain.NewUpstreamError(providerGemini, "generate", 0, domain.ErrUpstream, err.Error(), err)
		}
		out = text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("op=ai.GeminiClient.Complete: %w", err)
	}
	return out, nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason.String())
		}
		return "", errors.New("no candidates in response")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text parts in response")
	}
	return sb.String(), nil
}

func mapGeminiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		kind := domain.ErrUpstream
		switch gerr.Code {
		case http.StatusTooManyRequests:
			kind = domain.ErrUpstreamRateLimit
		case http.StatusGatewayTimeout, http.StatusRequestTimeout:
			kind = domain.ErrUpstreamTimeout
		}
		msg := gerr.Message
		if msg == "" {
			msg = http.StatusText(gerr.Code)
		}
		return domain.NewUpstreamError(providerGemini, "generate", gerr.Code, kind, msg, err)
	}
	if strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") || strings.Contains(strings.ToLower(err.Error()), "quota") {
		return domain.NewUpstreamError(providerGemini, "generate", http.StatusTooManyRequests, domain.ErrUpstreamRateLimit, "generative provider quota exceeded", err)
	}
	return err
}
