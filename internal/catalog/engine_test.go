package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HerbHall/testerhub/internal/testutil"
	pkgcatalog "github.com/HerbHall/testerhub/pkg/catalog"
	"github.com/HerbHall/testerhub/pkg/models"
)

func ids(tools []models.Tool) []string {
	out := make([]string, len(tools))
	for i := range tools {
		out[i] = tools[i].ID
	}
	return out
}

func embeddedTools(t *testing.T) []models.Tool {
	t.Helper()
	tools, err := pkgcatalog.NewCatalog().Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	return tools
}

// sampleCriteria covers every predicate alone and in combination.
func sampleCriteria() map[string]Criteria {
	withTags := func(c Criteria, tags ...string) Criteria {
		for _, tag := range tags {
			c.AddTag(tag)
		}
		return c
	}
	def := DefaultCriteria()
	return map[string]Criteria{
		"default":        def,
		"zero value":     {},
		"search python":  {Search: "python"},
		"search ai":      {Search: "ai"},
		"category":       {Category: models.CategoryAutomation},
		"paid":           {Pricing: PricingPaid},
		"free":           {Pricing: PricingFreeOS},
		"one tag":        withTags(def, "Web"),
		"two tags":       withTags(def, "Web", "Self-healing"),
		"framework tag":  withTags(def, "Python"),
		"unknown tag":    withTags(def, "Quantum"),
		"combined":       withTags(Criteria{Search: "test", Category: models.CategoryAutomation, Pricing: PricingPaid}, "Web"),
		"no match":       {Search: "zzzz-not-present"},
		"visual + paid":  {Category: models.CategoryVisual, Pricing: PricingPaid},
		"runners + free": {Category: models.CategoryRunners, Pricing: PricingFreeOS},
	}
}

func TestFilter_Identity(t *testing.T) {
	tools := embeddedTools(t)
	got := Filter(tools, DefaultCriteria())
	if diff := cmp.Diff(tools, got); diff != "" {
		t.Errorf("default criteria should return the whole catalog (-want +got):\n%s", diff)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	tools := embeddedTools(t)
	for name, c := range sampleCriteria() {
		t.Run(name, func(t *testing.T) {
			once := Filter(tools, c)
			twice := Filter(once, c)
			if diff := cmp.Diff(ids(once), ids(twice)); diff != "" {
				t.Errorf("filtering twice changed the result (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestFilter_TagMonotonic(t *testing.T) {
	tools := embeddedTools(t)
	universe := TagUniverse(tools)

	for name, c := range sampleCriteria() {
		base := make(map[string]bool)
		for _, id := range ids(Filter(tools, c)) {
			base[id] = true
		}
		for _, tag := range universe {
			narrowed := c
			narrowed.SelectedTags = append(append([]string{}, c.SelectedTags...), tag)
			for _, id := range ids(Filter(tools, narrowed)) {
				if !base[id] {
					t.Errorf("%s: adding tag %q added %q to the result", name, tag, id)
				}
			}
		}
	}
}

func TestFilter_SearchCaseInsensitive(t *testing.T) {
	tools := embeddedTools(t)
	for _, pair := range [][2]string{
		{"PYTHON", "python"},
		{"Self-Healing", "self-healing"},
		{"VISUAL ai", "visual AI"},
	} {
		upper := ids(Filter(tools, Criteria{Search: pair[0]}))
		lower := ids(Filter(tools, Criteria{Search: pair[1]}))
		if diff := cmp.Diff(lower, upper); diff != "" {
			t.Errorf("search %q vs %q differ (-lower +upper):\n%s", pair[1], pair[0], diff)
		}
		if len(lower) == 0 {
			t.Errorf("search %q matched nothing", pair[1])
		}
	}
}

func TestFilter_PricingNonExclusive(t *testing.T) {
	tools := []models.Tool{
		testutil.NewTool(testutil.WithID("both"), testutil.WithPricing(true, true)),
		testutil.NewTool(testutil.WithID("neither"), testutil.WithPricing(false, false)),
		testutil.NewTool(testutil.WithID("paid"), testutil.WithPricing(true, false)),
		testutil.NewTool(testutil.WithID("free"), testutil.WithPricing(false, true)),
	}

	tests := []struct {
		pricing Pricing
		want    []string
	}{
		{PricingAll, []string{"both", "neither", "paid", "free"}},
		{PricingPaid, []string{"both", "paid"}},
		{PricingFreeOS, []string{"both", "free"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.pricing), func(t *testing.T) {
			got := ids(Filter(tools, Criteria{Pricing: tt.pricing}))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("pricing %s (-want +got):\n%s", tt.pricing, diff)
			}
		})
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	tools := embeddedTools(t)
	position := make(map[string]int, len(tools))
	for i := range tools {
		position[tools[i].ID] = i
	}

	for name, c := range sampleCriteria() {
		got := Filter(tools, c)
		for i := 1; i < len(got); i++ {
			if position[got[i-1].ID] >= position[got[i].ID] {
				t.Errorf("%s: %q placed before %q, out of catalog order", name, got[i-1].ID, got[i].ID)
			}
		}
	}
}

func TestFilter_Scenario(t *testing.T) {
	tools := testutil.ScenarioTools()

	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"search ai", Criteria{Search: "ai"}, []string{"a"}},
		{"paid", Criteria{Pricing: PricingPaid}, []string{"b"}},
		{"web and no-code", Criteria{SelectedTags: []string{"Web", "No-code"}}, []string{}},
		{"framework as tag", Criteria{SelectedTags: []string{"Node.js"}}, []string{"a"}},
		{"identity", Criteria{Category: AllCategories, Pricing: PricingAll, SelectedTags: []string{}}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(tools, tt.c))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_SearchFields(t *testing.T) {
	tool := testutil.NewTool(
		testutil.WithID("x"),
		testutil.WithName("Alpha"),
		testutil.WithDescription("Checks the widget"),
		testutil.WithAgentStrategy("Schedule nightly"),
		testutil.WithFrameworks("Pytest"),
		testutil.WithTags("Red-teaming"),
	)
	tools := []models.Tool{tool}

	for _, q := range []string{"alph", "WIDGET", "nightly", "pyte", "red-team"} {
		if got := Filter(tools, Criteria{Search: q}); len(got) != 1 {
			t.Errorf("search %q should match", q)
		}
	}
	// HowToUse and URL are not searchable.
	tool.HowToUse = "secret-step"
	if got := Filter([]models.Tool{tool}, Criteria{Search: "secret-step"}); len(got) != 0 {
		t.Error("howToUse must not be searched")
	}
}

func TestFilter_EmptyResultIsEmptySlice(t *testing.T) {
	got := Filter(embeddedTools(t), Criteria{Search: "zzzz-not-present"})
	if got == nil || len(got) != 0 {
		t.Errorf("Filter = %#v, want empty non-nil slice", got)
	}
}

func TestEngine_MatchesFilter(t *testing.T) {
	cat := pkgcatalog.NewCatalog()
	engine := NewEngine(cat)
	tools := embeddedTools(t)

	for name, c := range sampleCriteria() {
		t.Run(name, func(t *testing.T) {
			got, err := engine.Filter(c)
			if err != nil {
				t.Fatalf("Engine.Filter() error = %v", err)
			}
			if diff := cmp.Diff(Filter(tools, c), got); diff != "" {
				t.Errorf("engine differs from Filter (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_FacetsDeterministic(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())
	first, err := engine.Facets()
	if err != nil {
		t.Fatalf("Facets() error = %v", err)
	}
	first.Groups[0].Tags[0] = "mutated"

	second, err := engine.Facets()
	if err != nil {
		t.Fatalf("Facets() error = %v", err)
	}
	if second.Groups[0].Tags[0] == "mutated" {
		t.Error("Facets must return a copy")
	}
	if diff := cmp.Diff(ExtractFacets(embeddedTools(t)), second); diff != "" {
		t.Errorf("engine facets differ from ExtractFacets (-want +got):\n%s", diff)
	}
}

func TestEngine_Lookup(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())
	tool, err := engine.Lookup("promptfoo")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if tool.Category != models.CategoryEvaluation {
		t.Errorf("Category = %q, want evaluation", tool.Category)
	}
}

func TestEngine_ResultsAreCopies(t *testing.T) {
	cat, err := pkgcatalog.FromTools(testutil.ScenarioTools())
	if err != nil {
		t.Fatalf("FromTools() error = %v", err)
	}
	engine := NewEngine(cat)
	web := DefaultCriteria()
	web.AddTag("Web")

	first, err := engine.Filter(web)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, ids(first)); diff != "" {
		t.Fatalf("Filter(Web) (-want +got):\n%s", diff)
	}
	first[0].Tags[0] = "Mutated"
	first[0].Frameworks[0] = "Mutated"

	all, err := engine.Tools()
	if err != nil {
		t.Fatalf("Tools() error = %v", err)
	}
	all[0].Tags[1] = "Mutated"

	second, err := engine.Filter(web)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, ids(second)); diff != "" {
		t.Fatalf("Filter(Web) after mutation (-want +got):\n%s", diff)
	}
	looked, err := engine.Lookup("a")
	if err != nil {
		t.Fatalf("Lookup(a) error = %v", err)
	}
	if diff := cmp.Diff(looked, second[0]); diff != "" {
		t.Errorf("Filter result differs from Lookup (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Web", "AI-Native"}, second[0].Tags); diff != "" {
		t.Errorf("Tags (-want +got):\n%s", diff)
	}
}
