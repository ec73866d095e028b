// Package advice asks a language model how to turn a catalog tool into an
// autonomous testing agent for a given framework.
package advice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/HerbHall/testerhub/internal/metrics"
	"github.com/HerbHall/testerhub/pkg/llm"
)

// Fallback texts returned in place of model output.
const (
	EmptyFallback   = "Could not generate advice at this time."
	OfflineFallback = "The AI agent is currently offline. Please try again later."
)

const (
	DefaultTimeout = 30 * time.Second

	promptTemplate = `As a world-class QA Automation Architect, explain how a tester can transform the tool "%s" into a fully autonomous "Automated Agent" for a project using the "%s" framework. Provide a step-by-step technical strategy including CI/CD integration and self-healing logic. Keep it concise but highly actionable.`

	temperature = 0.7
	topP        = 0.95
)

// Prompt builds the advice prompt for a tool and framework.
func Prompt(toolName, framework string) string {
	return fmt.Sprintf(promptTemplate, toolName, framework)
}

// Result is the outcome of one advice request. Fallback is true when Advice
// holds one of the fallback texts rather than model output.
type Result struct {
	Tool      string `json:"tool" example:"Playwright AI"`
	Framework string `json:"framework" example:"Node.js"`
	Advice    string `json:"advice"`
	Fallback  bool   `json:"fallback"`
	Model     string `json:"model,omitempty" example:"gemini-3-flash-preview"`
}

// Service generates advice through an llm.Provider. A nil provider disables
// generation and every request gets OfflineFallback.
type Service struct {
	provider llm.Provider
	timeout  time.Duration
	limiter  *rate.Limiter
	metrics  metrics.Metrics
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRatePerMinute limits provider calls. Zero or less means unlimited.
func WithRatePerMinute(n int) Option {
	return func(s *Service) {
		if n <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
}

// WithMetrics records advice outcomes.
func WithMetrics(m metrics.Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService creates an advice service.
func NewService(provider llm.Provider, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		timeout:  DefaultTimeout,
		metrics:  metrics.NewNoop(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s.provider != nil
}

// Advise returns advice for using toolName with framework. It never fails:
// provider errors, timeouts and rate limiting produce OfflineFallback, blank
// model output produces EmptyFallback.
func (s *Service) Advise(ctx context.Context, toolName, framework string) Result {
	res := Result{Tool: toolName, Framework: framework, Advice: OfflineFallback, Fallback: true}
	if s.provider == nil {
		s.metrics.ObserveAdvice("none", metrics.AdviceDisabled, 0)
		return res
	}
	name := s.provider.Name()
	res.Model = s.provider.Model()

	if s.limiter != nil && !s.limiter.Allow() {
		s.logger.Warn("advice rate limited", zap.String("tool", toolName))
		s.metrics.ObserveAdvice(name, metrics.AdviceRateLimited, 0)
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.provider.Generate(ctx, Prompt(toolName, framework),
		llm.WithTemperature(temperature),
		llm.WithTopP(topP),
	)
	elapsed := time.Since(start)

	switch {
	case err != nil && llm.CodeOf(err) == llm.ErrCodeEmptyResponse:
		res.Advice = EmptyFallback
		s.metrics.ObserveAdvice(name, metrics.AdviceEmpty, elapsed)
	case err != nil:
		s.logger.Warn("advice generation failed",
			zap.String("provider", name),
			zap.String("tool", toolName),
			zap.String("code", string(llm.CodeOf(err))),
			zap.Error(err),
		)
		s.metrics.ObserveAdvice(name, metrics.AdviceFailed, elapsed)
	case resp == nil || strings.TrimSpace(resp.Text) == "":
		res.Advice = EmptyFallback
		s.metrics.ObserveAdvice(name, metrics.AdviceEmpty, elapsed)
	default:
		res.Advice = resp.Text
		res.Fallback = false
		if resp.Model != "" {
			res.Model = resp.Model
		}
		s.metrics.ObserveAdvice(name, metrics.AdviceOK, elapsed)
	}
	return res
}
