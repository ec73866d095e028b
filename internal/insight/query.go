// Package insight turns natural language questions about the tool directory
// into filter criteria using a language model.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/HerbHall/testerhub/internal/catalog"
	"github.com/HerbHall/testerhub/pkg/llm"
)

// intentParserPrompt instructs the model to return criteria as JSON.
const intentParserPrompt = `You are a query parser for a directory of software testing tools. Parse the user's question into filter criteria.

Fields (all optional):
- "search": free text matched against tool names, descriptions and strategies.
- "category": one of %s.
- "pricing": one of "All", "Free/OS", "Paid".
- "tags": tags or frameworks every result must have. Known values: %s.

Prefer "tags" and "category" over "search" when the question names a known value.
Return ONLY valid JSON, no explanation:
{"search":"","category":"All","pricing":"All","tags":[]}

Question: %s`

// ErrNoProvider is returned when no model is configured.
var ErrNoProvider = errors.New("insight: no language model configured")

// queryIntent is the structured output of the intent parser.
type queryIntent struct {
	Search   string   `json:"search"`
	Category string   `json:"category"`
	Pricing  string   `json:"pricing"`
	Tags     []string `json:"tags"`
}

// Translator converts questions into catalog criteria.
type Translator struct {
	provider   llm.Provider
	categories []string
	tags       []string
}

// NewTranslator creates a translator that advertises the given facets to the
// model. A nil provider makes every Translate call fail with ErrNoProvider.
func NewTranslator(provider llm.Provider, facets catalog.Facets) *Translator {
	t := &Translator{provider: provider, categories: facets.Categories}
	for _, g := range facets.Groups {
		t.tags = append(t.tags, g.Tags...)
	}
	return t
}

// Translate asks the model for criteria matching question. The criteria are
// validated exactly like user input; an unknown category or pricing from the
// model is an error.
func (t *Translator) Translate(ctx context.Context, question string) (catalog.Criteria, string, error) {
	if t.provider == nil {
		return catalog.Criteria{}, "", ErrNoProvider
	}

	resp, err := t.provider.Generate(ctx, t.prompt(question),
		llm.WithTemperature(0.1),
		llm.WithMaxTokens(256),
	)
	if err != nil {
		return catalog.Criteria{}, "", err
	}

	intent, err := parseIntent(resp.Text)
	if err != nil {
		return catalog.Criteria{}, resp.Model, err
	}
	c, err := catalog.NewCriteria(intent.Search, intent.Category, intent.Pricing, intent.Tags)
	if err != nil {
		return catalog.Criteria{}, resp.Model, fmt.Errorf("model returned unusable criteria: %w", err)
	}
	return c, resp.Model, nil
}

func (t *Translator) prompt(question string) string {
	quoted := func(vals []string) string {
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = fmt.Sprintf("%q", v)
		}
		return strings.Join(out, ", ")
	}
	return fmt.Sprintf(intentParserPrompt, quoted(t.categories), quoted(t.tags), question)
}

// parseIntent decodes the first JSON object in text, tolerating code fences
// and surrounding prose.
func parseIntent(text string) (queryIntent, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return queryIntent{}, errors.New("model returned no JSON object")
	}
	var intent queryIntent
	if err := json.Unmarshal([]byte(text[start:end+1]), &intent); err != nil {
		return queryIntent{}, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return intent, nil
}
