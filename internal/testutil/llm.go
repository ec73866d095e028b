package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/HerbHall/testerhub/pkg/llm"
)

// FakeProvider is a scripted llm.Provider. It returns Text, or Err when set,
// after waiting Delay or until the context ends.
type FakeProvider struct {
	ModelName string
	Text      string
	Err       error
	Delay     time.Duration

	mu      sync.Mutex
	prompts []string
}

var _ llm.Provider = (*FakeProvider)(nil)

func (f *FakeProvider) Name() string { return "fake" }

func (f *FakeProvider) Model() string {
	if f.ModelName == "" {
		return "fake-model"
	}
	return f.ModelName
}

func (f *FakeProvider) Generate(ctx context.Context, prompt string, _ ...llm.CallOption) (*llm.Response, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.Delay > 0 {
		timer := time.NewTimer(f.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, llm.NewProviderError(llm.ErrCodeTimeout, "fake provider timed out", ctx.Err())
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &llm.Response{Text: f.Text, Model: f.Model(), Done: true}, nil
}

// Prompts returns every prompt received so far.
func (f *FakeProvider) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}
