// Package llm defines the provider-neutral interface used to ask a language
// model for text, along with call options and typed provider errors.
package llm

import "context"

// Provider generates text from a prompt.
type Provider interface {
	// Name identifies the backend, e.g. "gemini" or "ollama".
	Name() string
	// Model is the model the provider sends requests to.
	Model() string
	Generate(ctx context.Context, prompt string, opts ...CallOption) (*Response, error)
}

// Response is a single completed generation.
type Response struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	Done  bool   `json:"done"`
}

// CallOptions holds per-request tuning. Nil fields use the provider default.
type CallOptions struct {
	Temperature *float32
	TopP        *float32
	MaxTokens   int
}

// CallOption configures a single Generate call.
type CallOption func(*CallOptions)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) CallOption {
	return func(o *CallOptions) { o.Temperature = &t }
}

// WithTopP sets nucleus sampling.
func WithTopP(p float32) CallOption {
	return func(o *CallOptions) { o.TopP = &p }
}

// WithMaxTokens caps the generated length. Zero leaves it to the provider.
func WithMaxTokens(n int) CallOption {
	return func(o *CallOptions) { o.MaxTokens = n }
}

// ApplyOptions folds opts into a CallOptions value.
func ApplyOptions(opts ...CallOption) CallOptions {
	var o CallOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
