package testutil

import (
	"github.com/google/uuid"

	"github.com/HerbHall/testerhub/pkg/models"
)

// NewTool returns a Tool with sensible defaults, suitable for test fixtures.
// Override individual fields with options or after creation as needed.
func NewTool(opts ...func(*models.Tool)) models.Tool {
	t := models.Tool{
		ID:            uuid.New().String(),
		Name:          "Test Tool",
		Category:      models.CategoryAutomation,
		Description:   "A tool used in tests.",
		URL:           "https://example.com",
		HowToUse:      "Run it.",
		Frameworks:    []string{},
		Tags:          []string{},
		IsOpenSource:  true,
		AgentStrategy: "Let an agent run it.",
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// WithID sets the tool id.
func WithID(id string) func(*models.Tool) {
	return func(t *models.Tool) { t.ID = id }
}

// WithName sets the tool name.
func WithName(name string) func(*models.Tool) {
	return func(t *models.Tool) { t.Name = name }
}

// WithCategory sets the tool category.
func WithCategory(c models.Category) func(*models.Tool) {
	return func(t *models.Tool) { t.Category = c }
}

// WithDescription sets the tool description.
func WithDescription(d string) func(*models.Tool) {
	return func(t *models.Tool) { t.Description = d }
}

// WithTags sets the tool's capability tags.
func WithTags(tags ...string) func(*models.Tool) {
	return func(t *models.Tool) { t.Tags = tags }
}

// WithFrameworks sets the tool's frameworks.
func WithFrameworks(fws ...string) func(*models.Tool) {
	return func(t *models.Tool) { t.Frameworks = fws }
}

// WithPricing sets the paid and open source flags.
func WithPricing(paid, openSource bool) func(*models.Tool) {
	return func(t *models.Tool) {
		t.IsPaid = paid
		t.IsOpenSource = openSource
	}
}

// WithAgentStrategy sets the agent strategy text.
func WithAgentStrategy(s string) func(*models.Tool) {
	return func(t *models.Tool) { t.AgentStrategy = s }
}

// WithVersion sets the optional version.
func WithVersion(v string) func(*models.Tool) {
	return func(t *models.Tool) { t.Version = &v }
}

// ScenarioTools returns the two-tool catalog used by the filter scenario
// tests: an open source Playwright tool and a paid testRigor tool.
func ScenarioTools() []models.Tool {
	return []models.Tool{
		NewTool(
			WithID("a"),
			WithName("Playwright AI"),
			WithTags("Web", "AI-Native"),
			WithFrameworks("Node.js"),
			WithPricing(false, true),
		),
		NewTool(
			WithID("b"),
			WithName("testRigor"),
			WithTags("No-code"),
			WithPricing(true, false),
		),
	}
}
