package advice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/HerbHall/testerhub/internal/metrics"
	"github.com/HerbHall/testerhub/internal/testutil"
	"github.com/HerbHall/testerhub/pkg/llm"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingMetrics captures advice outcomes.
type recordingMetrics struct {
	metrics.Noop
	outcomes []string
}

func (r *recordingMetrics) ObserveAdvice(_, outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func TestPrompt(t *testing.T) {
	p := Prompt("Cypress", "React")
	assert.Contains(t, p, `transform the tool "Cypress" into a fully autonomous "Automated Agent"`)
	assert.Contains(t, p, `using the "React" framework`)
	assert.True(t, strings.HasPrefix(p, "As a world-class QA Automation Architect"))
}

func TestAdvise_Success(t *testing.T) {
	fake := &testutil.FakeProvider{Text: "1. Wire it into CI.", ModelName: "m1"}
	rec := &recordingMetrics{}
	s := NewService(fake, testutil.Logger(), WithMetrics(rec))

	res := s.Advise(context.Background(), "Cypress", "React")
	assert.Equal(t, Result{Tool: "Cypress", Framework: "React", Advice: "1. Wire it into CI.", Model: "m1"}, res)
	assert.Equal(t, []string{Prompt("Cypress", "React")}, fake.Prompts())
	assert.Equal(t, []string{metrics.AdviceOK}, rec.outcomes)
}

func TestAdvise_Fallbacks(t *testing.T) {
	tests := []struct {
		name    string
		fake    *testutil.FakeProvider
		want    string
		outcome string
	}{
		{"blank text", &testutil.FakeProvider{Text: "  \n"}, EmptyFallback, metrics.AdviceEmpty},
		{
			"empty response error",
			&testutil.FakeProvider{Err: llm.NewProviderError(llm.ErrCodeEmptyResponse, "none", nil)},
			EmptyFallback, metrics.AdviceEmpty,
		},
		{
			"auth failure",
			&testutil.FakeProvider{Err: llm.NewProviderError(llm.ErrCodeAuthentication, "bad key", nil)},
			OfflineFallback, metrics.AdviceFailed,
		},
		{"untyped failure", &testutil.FakeProvider{Err: errors.New("boom")}, OfflineFallback, metrics.AdviceFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingMetrics{}
			res := NewService(tt.fake, testutil.Logger(), WithMetrics(rec)).Advise(context.Background(), "Mabl", "Jest")
			assert.Equal(t, tt.want, res.Advice)
			assert.True(t, res.Fallback)
			assert.Equal(t, []string{tt.outcome}, rec.outcomes)
		})
	}
}

func TestAdvise_Timeout(t *testing.T) {
	fake := &testutil.FakeProvider{Text: "late", Delay: time.Second}
	s := NewService(fake, testutil.Logger(), WithTimeout(20*time.Millisecond))

	start := time.Now()
	res := s.Advise(context.Background(), "Percy", "Storybook")
	require.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, OfflineFallback, res.Advice)
	assert.True(t, res.Fallback)
}

func TestAdvise_Disabled(t *testing.T) {
	rec := &recordingMetrics{}
	s := NewService(nil, testutil.Logger(), WithMetrics(rec))
	assert.False(t, s.Enabled())

	res := s.Advise(context.Background(), "Ragas", "LangChain")
	assert.Equal(t, OfflineFallback, res.Advice)
	assert.Empty(t, res.Model)
	assert.Equal(t, []string{metrics.AdviceDisabled}, rec.outcomes)
}

func TestAdvise_RateLimited(t *testing.T) {
	fake := &testutil.FakeProvider{Text: "ok"}
	rec := &recordingMetrics{}
	s := NewService(fake, testutil.Logger(), WithRatePerMinute(1), WithMetrics(rec))

	first := s.Advise(context.Background(), "Appium", "Java")
	second := s.Advise(context.Background(), "Appium", "Java")

	assert.False(t, first.Fallback)
	assert.Equal(t, OfflineFallback, second.Advice)
	assert.Len(t, fake.Prompts(), 1)
	assert.Equal(t, []string{metrics.AdviceOK, metrics.AdviceRateLimited}, rec.outcomes)
}
