// Package gemini implements llm.Provider on the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/HerbHall/testerhub/pkg/llm"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-3-flash-preview"

// ErrMissingAPIKey is returned by New when no key is supplied.
var ErrMissingAPIKey = errors.New("gemini: API key is required")

// Provider generates content through the Gemini API.
type Provider struct {
	client *genai.Client
	model  string
}

var _ llm.Provider = (*Provider)(nil)

// New creates a Gemini provider. An empty model uses DefaultModel.
func New(ctx context.Context, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Provider{client: client, model: model}, nil
}

func (p *Provider) Name() string  { return "gemini" }
func (p *Provider) Model() string { return p.model }

// Generate sends prompt as a single user turn.
func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.CallOption) (*llm.Response, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), generateConfig(llm.ApplyOptions(opts...)))
	if err != nil {
		return nil, mapError(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, llm.NewProviderError(llm.ErrCodeEmptyResponse, fmt.Sprintf("model %s returned no text", p.model), nil)
	}
	model := p.model
	if resp.ModelVersion != "" {
		model = resp.ModelVersion
	}
	return &llm.Response{Text: text, Model: model, Done: true}, nil
}

func generateConfig(o llm.CallOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: o.Temperature,
		TopP:        o.TopP,
	}
	if o.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(o.MaxTokens)
	}
	return cfg
}

// mapError translates Gen AI SDK errors into typed llm.ProviderError values.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return llm.NewProviderError(llm.ErrCodeTimeout, "request timed out or cancelled", err)
	}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return llm.NewProviderError(llm.ErrCodeServerError, "gemini error", err)
	}

	msg := apiErr.Message
	switch {
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return llm.NewProviderError(llm.ErrCodeAuthentication, msg, err)
	case apiErr.Code == http.StatusTooManyRequests:
		return llm.NewProviderError(llm.ErrCodeRateLimited, msg, err)
	case apiErr.Code == http.StatusNotFound:
		return llm.NewProviderError(llm.ErrCodeModelNotFound, msg, err)
	case apiErr.Code >= 500:
		return llm.NewProviderError(llm.ErrCodeServerError, msg, err)
	case apiErr.Code >= 400:
		return llm.NewProviderError(llm.ErrCodeInvalidRequest, msg, err)
	}
	return llm.NewProviderError(llm.ErrCodeServerError, msg, err)
}
