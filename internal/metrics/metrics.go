// Package metrics defines the service instrumentation points and their
// Prometheus and no-op implementations.
package metrics

import "time"

// Filter surfaces.
const (
	SurfaceHTTP = "http"
	SurfaceLive = "live"
	SurfaceMCP  = "mcp"
)

// Advice outcomes.
const (
	AdviceOK          = "ok"
	AdviceEmpty       = "empty"
	AdviceFailed      = "failed"
	AdviceRateLimited = "rate_limited"
	AdviceDisabled    = "disabled"
)

// Metrics receives observations from the service components.
type Metrics interface {
	ObserveHTTP(method, pattern string, status int, duration time.Duration)
	ObserveFilter(surface string, results int)
	ObserveExport(format string, tools int)
	ObserveAdvice(provider, outcome string, duration time.Duration)
	AddLiveConnections(delta int)
}

// Noop discards every observation.
type Noop struct{}

// NewNoop returns a Metrics that records nothing.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) ObserveHTTP(_, _ string, _ int, _ time.Duration) {}

func (n *Noop) ObserveFilter(_ string, _ int) {}

func (n *Noop) ObserveExport(_ string, _ int) {}

func (n *Noop) ObserveAdvice(_, _ string, _ time.Duration) {}

func (n *Noop) AddLiveConnections(_ int) {}

var _ Metrics = (*Noop)(nil)
