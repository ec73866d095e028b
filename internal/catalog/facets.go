package catalog

import (
	"slices"

	"github.com/HerbHall/testerhub/pkg/models"
)

// GroupDefinition names a facet group and the tag keywords it collects.
type GroupDefinition struct {
	Name     string
	Keywords []string
}

// DefaultFacetGroups is the ordered table of tag groups shown as filter
// chips. Tags outside every group are still searchable and selectable.
var DefaultFacetGroups = []GroupDefinition{
	{
		Name:     "Platforms",
		Keywords: []string{"Web", "Mobile", "iOS", "Android", "Desktop", "Cross-browser", "Cross-device", "API"},
	},
	{
		Name: "AI Capabilities",
		Keywords: []string{
			"AI-Native", "AI-Enhanced", "Self-healing", "LLM Testing", "RAG", "Generative AI",
			"NLP", "Visual AI", "Hallucination Check", "Red-teaming", "Evaluation",
		},
	},
	{
		Name:     "Core Technologies",
		Keywords: []string{"Python", "JavaScript", "TypeScript", "Java", "C#", "Node.js", "Pytest", "LangChain"},
	},
	{
		Name:     "Workflow",
		Keywords: []string{"CI/CD", "Low-code", "No-code", "Modern", "E2E", "Traditional", "Metrics"},
	},
}

// FacetGroup is a named, alphabetically sorted list of tags present in the
// catalog.
type FacetGroup struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Facets holds every selectable filter value derived from a catalog.
type Facets struct {
	Categories []string     `json:"categories"`
	Pricing    []Pricing    `json:"pricing"`
	Groups     []FacetGroup `json:"groups"`
}

// ExtractFacets derives facets from tools using DefaultFacetGroups.
func ExtractFacets(tools []models.Tool) Facets {
	return ExtractFacetsWith(tools, DefaultFacetGroups)
}

// ExtractFacetsWith derives facets from tools using the given group table.
// Categories are "All" followed by the categories present, in declaration
// order. Groups keep table order and groups with no tags are dropped.
func ExtractFacetsWith(tools []models.Tool, groups []GroupDefinition) Facets {
	universe := TagUniverse(tools)
	present := make(map[string]struct{}, len(universe))
	for _, tag := range universe {
		present[tag] = struct{}{}
	}

	f := Facets{
		Categories: presentCategories(tools),
		Pricing:    PricingOptions(),
		Groups:     []FacetGroup{},
	}
	for _, def := range groups {
		var tags []string
		for _, kw := range def.Keywords {
			if _, ok := present[kw]; ok && !slices.Contains(tags, kw) {
				tags = append(tags, kw)
			}
		}
		if len(tags) == 0 {
			continue
		}
		slices.Sort(tags)
		f.Groups = append(f.Groups, FacetGroup{Name: def.Name, Tags: tags})
	}
	return f
}

// TagUniverse returns the sorted, deduplicated union of every tool's tags
// and frameworks.
func TagUniverse(tools []models.Tool) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range tools {
		for _, list := range [][]string{tools[i].Tags, tools[i].Frameworks} {
			for _, tag := range list {
				if _, ok := seen[tag]; ok {
					continue
				}
				seen[tag] = struct{}{}
				out = append(out, tag)
			}
		}
	}
	slices.Sort(out)
	return out
}

// UngroupedTags returns the tags in the universe that no group claims.
func UngroupedTags(tools []models.Tool, groups []GroupDefinition) []string {
	claimed := make(map[string]struct{})
	for _, def := range groups {
		for _, kw := range def.Keywords {
			claimed[kw] = struct{}{}
		}
	}
	var out []string
	for _, tag := range TagUniverse(tools) {
		if _, ok := claimed[tag]; !ok {
			out = append(out, tag)
		}
	}
	return out
}

func presentCategories(tools []models.Tool) []string {
	present := make(map[models.Category]bool)
	for i := range tools {
		present[tools[i].Category] = true
	}
	out := []string{string(AllCategories)}
	for _, c := range models.Categories() {
		if present[c] {
			out = append(out, string(c))
		}
	}
	return out
}

func (f Facets) clone() Facets {
	out := Facets{
		Categories: slices.Clone(f.Categories),
		Pricing:    slices.Clone(f.Pricing),
		Groups:     make([]FacetGroup, len(f.Groups)),
	}
	for i, g := range f.Groups {
		out.Groups[i] = FacetGroup{Name: g.Name, Tags: slices.Clone(g.Tags)}
	}
	return out
}
