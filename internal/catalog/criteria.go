package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/HerbHall/testerhub/pkg/models"
)

// AllCategories is the category sentinel meaning "no category filter".
const AllCategories models.Category = "All"

// Pricing selects tools by their pricing flags.
type Pricing string

const (
	PricingAll    Pricing = "All"
	PricingFreeOS Pricing = "Free/OS"
	PricingPaid   Pricing = "Paid"
)

// PricingOptions lists the pricing choices in display order.
func PricingOptions() []Pricing {
	return []Pricing{PricingAll, PricingFreeOS, PricingPaid}
}

// Boundary validation errors.
var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidPricing  = errors.New("invalid pricing")
)

// ParsePricing matches s case-insensitively against the pricing choices.
// An empty string means PricingAll.
func ParsePricing(s string) (Pricing, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PricingAll, nil
	}
	for _, p := range PricingOptions() {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPricing, s)
}

// ParseCategoryFilter accepts "All" (or empty), a category display name or
// a category key.
func ParseCategoryFilter(s string) (models.Category, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(AllCategories)) {
		return AllCategories, nil
	}
	c, err := models.ParseCategory(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Criteria is the live combination of user-selected filter values.
// The zero value matches every tool, same as DefaultCriteria.
type Criteria struct {
	Search       string          `json:"search"`
	Category     models.Category `json:"category"`
	Pricing      Pricing         `json:"pricing"`
	SelectedTags []string        `json:"selectedTags"`
}

// DefaultCriteria returns criteria with every facet unset.
func DefaultCriteria() Criteria {
	return Criteria{
		Category:     AllCategories,
		Pricing:      PricingAll,
		SelectedTags: []string{},
	}
}

// NewCriteria validates raw user input. Unknown categories and pricing
// values are rejected here so the engine never sees them. Search text and
// tags are free-form.
func NewCriteria(search, category, pricing string, tags []string) (Criteria, error) {
	cat, err := ParseCategoryFilter(category)
	if err != nil {
		return Criteria{}, err
	}
	p, err := ParsePricing(pricing)
	if err != nil {
		return Criteria{}, err
	}
	c := DefaultCriteria()
	c.Search = search
	c.Category = cat
	c.Pricing = p
	for _, tag := range tags {
		c.AddTag(tag)
	}
	return c, nil
}

// UnmarshalJSON decodes criteria and applies the same validation as NewCriteria.
func (c *Criteria) UnmarshalJSON(b []byte) error {
	var raw struct {
		Search       string   `json:"search"`
		Category     string   `json:"category"`
		Pricing      string   `json:"pricing"`
		SelectedTags []string `json:"selectedTags"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := NewCriteria(raw.Search, raw.Category, raw.Pricing, raw.SelectedTags)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// HasTag reports whether tag is selected.
func (c *Criteria) HasTag(tag string) bool {
	for _, t := range c.SelectedTags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag selects tag. Selecting an already selected tag is a no-op.
func (c *Criteria) AddTag(tag string) {
	if !c.HasTag(tag) {
		c.SelectedTags = append(c.SelectedTags, tag)
	}
}

// ToggleTag selects tag if it is not selected and deselects it otherwise.
func (c *Criteria) ToggleTag(tag string) {
	for i, t := range c.SelectedTags {
		if t == tag {
			c.SelectedTags = append(c.SelectedTags[:i:i], c.SelectedTags[i+1:]...)
			return
		}
	}
	c.SelectedTags = append(c.SelectedTags, tag)
}

// Clear resets every facet to its default.
func (c *Criteria) Clear() {
	*c = DefaultCriteria()
}

// ActiveCount is the number of active filters: one each for search,
// category and pricing when set, plus one per selected tag.
func (c *Criteria) ActiveCount() int {
	n := 0
	if c.Search != "" {
		n++
	}
	if !c.allCategories() {
		n++
	}
	if !c.allPricing() {
		n++
	}
	return n + len(c.SelectedTags)
}

// IsDefault reports whether the criteria filter nothing out.
func (c *Criteria) IsDefault() bool {
	return c.ActiveCount() == 0
}

func (c *Criteria) allCategories() bool {
	return c.Category == "" || c.Category == AllCategories
}

func (c *Criteria) allPricing() bool {
	return c.Pricing == "" || c.Pricing == PricingAll
}
