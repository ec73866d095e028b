// Package ollama implements llm.Provider against a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/HerbHall/testerhub/internal/version"
	"github.com/HerbHall/testerhub/pkg/llm"
)

// DefaultURL is where a local Ollama server listens.
const DefaultURL = "http://localhost:11434"

// Provider sends non-streaming generate requests to Ollama.
type Provider struct {
	baseURL string
	model   string
	client  *http.Client
}

var _ llm.Provider = (*Provider)(nil)

// New creates an Ollama provider. An empty baseURL uses DefaultURL. A nil
// client uses http.DefaultClient; callers bound requests through the context.
func New(baseURL, model string, client *http.Client) *Provider {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  client,
	}
}

func (p *Provider) Name() string  { return "ollama" }
func (p *Provider) Model() string { return p.model }

// Generate runs a single completion through /api/generate.
func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.CallOption) (*llm.Response, error) {
	stream := false
	reqBody := api.GenerateRequest{
		Model:   p.model,
		Prompt:  prompt,
		Stream:  &stream,
		Options: requestOptions(llm.ApplyOptions(opts...)),
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, llm.NewProviderError(llm.ErrCodeInvalidRequest, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return nil, llm.NewProviderError(llm.ErrCodeInvalidRequest, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapError(err)
	}
	if resp.StatusCode != http.StatusOK {
		se := api.StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil {
			se.ErrorMessage = payload.Error
		}
		return nil, mapError(se)
	}

	var out api.GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, llm.NewProviderError(llm.ErrCodeServerError, "decode response", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return nil, llm.NewProviderError(llm.ErrCodeEmptyResponse, fmt.Sprintf("model %s returned no text", p.model), nil)
	}
	return &llm.Response{Text: out.Response, Model: out.Model, Done: out.Done}, nil
}

func requestOptions(o llm.CallOptions) map[string]any {
	opts := map[string]any{}
	if o.Temperature != nil {
		opts["temperature"] = *o.Temperature
	}
	if o.TopP != nil {
		opts["top_p"] = *o.TopP
	}
	if o.MaxTokens > 0 {
		opts["num_predict"] = o.MaxTokens
	}
	return opts
}
