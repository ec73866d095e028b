// Package catalog provides the filter engine and facet extraction over the
// testing tool catalog, plus the HTTP and WebSocket endpoints that expose them.
package catalog

import (
	"strings"
	"sync"

	pkgcatalog "github.com/HerbHall/testerhub/pkg/catalog"
	"github.com/HerbHall/testerhub/pkg/models"
)

// Filter returns the tools matching c, in their original relative order.
// A tool matches when the search, category, pricing and tag predicates all
// hold.
func Filter(tools []models.Tool, c Criteria) []models.Tool {
	m := newMatcher(c)
	result := make([]models.Tool, 0, len(tools))
	for i := range tools {
		if m.matchesSearch(searchFields(&tools[i])) && m.matchesFacets(&tools[i]) {
			result = append(result, tools[i])
		}
	}
	return result
}

// matcher holds criteria in the form the predicates need.
type matcher struct {
	search   string // lowercased
	category models.Category
	pricing  Pricing
	tags     []string
}

func newMatcher(c Criteria) *matcher {
	return &matcher{
		search:   strings.ToLower(c.Search),
		category: c.Category,
		pricing:  c.Pricing,
		tags:     c.SelectedTags,
	}
}

// matchesSearch reports whether the search text is contained in any of the
// lowercased fields.
func (m *matcher) matchesSearch(lowerFields []string) bool {
	if m.search == "" {
		return true
	}
	for _, f := range lowerFields {
		if strings.Contains(f, m.search) {
			return true
		}
	}
	return false
}

func (m *matcher) matchesFacets(t *models.Tool) bool {
	return m.matchesCategory(t) && m.matchesPricing(t) && m.matchesTags(t)
}

func (m *matcher) matchesCategory(t *models.Tool) bool {
	if m.category == "" || m.category == AllCategories {
		return true
	}
	return t.Category == m.category
}

// matchesPricing treats the two flags independently: a tool that is both
// paid and open source matches either choice, one with neither flag only
// matches PricingAll.
func (m *matcher) matchesPricing(t *models.Tool) bool {
	switch m.pricing {
	case "", PricingAll:
		return true
	case PricingFreeOS:
		return t.IsOpenSource
	case PricingPaid:
		return t.IsPaid
	default:
		return false
	}
}

// matchesTags requires every selected tag in the tool's tags or frameworks.
func (m *matcher) matchesTags(t *models.Tool) bool {
	for _, tag := range m.tags {
		if !t.HasTag(tag) {
			return false
		}
	}
	return true
}

// searchFields returns the lowercased searchable fields of t.
func searchFields(t *models.Tool) []string {
	fields := make([]string, 0, 3+len(t.Frameworks)+len(t.Tags))
	fields = append(fields,
		strings.ToLower(t.Name),
		strings.ToLower(t.Description),
		strings.ToLower(t.AgentStrategy),
	)
	for _, fw := range t.Frameworks {
		fields = append(fields, strings.ToLower(fw))
	}
	for _, tag := range t.Tags {
		fields = append(fields, strings.ToLower(tag))
	}
	return fields
}

// Engine runs filters against a catalog. Lowercased search fields and facets
// are computed once on first use; results are identical to Filter.
type Engine struct {
	cat *pkgcatalog.Catalog

	once   sync.Once
	tools  []models.Tool
	index  [][]string
	facets Facets
	err    error
}

// NewEngine creates a new filter engine backed by the given catalog.
func NewEngine(cat *pkgcatalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

func (e *Engine) prepare() {
	tools, err := e.cat.Entries()
	if err != nil {
		e.err = err
		return
	}
	e.tools = tools
	e.index = make([][]string, len(tools))
	for i := range tools {
		e.index[i] = searchFields(&tools[i])
	}
	e.facets = ExtractFacets(tools)
}

// Filter returns the catalog tools matching c in catalog order. Returned
// tools are copies; changing them does not affect the engine.
func (e *Engine) Filter(c Criteria) ([]models.Tool, error) {
	e.once.Do(e.prepare)
	if e.err != nil {
		return nil, e.err
	}

	m := newMatcher(c)
	result := make([]models.Tool, 0, len(e.tools))
	for i := range e.tools {
		if m.matchesSearch(e.index[i]) && m.matchesFacets(&e.tools[i]) {
			result = append(result, e.tools[i].Clone())
		}
	}
	return result, nil
}

// Facets returns the facets extracted from the catalog.
func (e *Engine) Facets() (Facets, error) {
	e.once.Do(e.prepare)
	if e.err != nil {
		return Facets{}, e.err
	}
	return e.facets.clone(), nil
}

// Tools returns every catalog tool in catalog order.
func (e *Engine) Tools() ([]models.Tool, error) {
	e.once.Do(e.prepare)
	if e.err != nil {
		return nil, e.err
	}
	out := make([]models.Tool, len(e.tools))
	for i := range e.tools {
		out[i] = e.tools[i].Clone()
	}
	return out, nil
}

// Lookup returns the tool with the given id.
func (e *Engine) Lookup(id string) (models.Tool, error) {
	return e.cat.Lookup(id)
}
