package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Category is one of the closed set of tool categories in the directory.
type Category string

const (
	CategoryEvaluation Category = "AI Evaluation & Testing Frameworks"
	CategoryAutomation Category = "Test Automation Frameworks"
	CategoryVisual     Category = "Visual Testing & UI Tools"
	CategoryUtilities  Category = "Specialized Testing Utilities"
	CategoryRunners    Category = "Local AI Runners (The Engines)"
	CategoryWebMobile  Category = "Web & Mobile Agents"
)

// ErrUnknownCategory is returned by ParseCategory for values outside the closed set.
var ErrUnknownCategory = errors.New("unknown category")

// Categories lists every category in declaration order. Facet output and
// summaries follow this order.
func Categories() []Category {
	return []Category{
		CategoryEvaluation,
		CategoryAutomation,
		CategoryVisual,
		CategoryUtilities,
		CategoryRunners,
		CategoryWebMobile,
	}
}

// categoryKeys maps short, URL-friendly keys to categories.
var categoryKeys = map[string]Category{
	"evaluation": CategoryEvaluation,
	"automation": CategoryAutomation,
	"visual":     CategoryVisual,
	"utilities":  CategoryUtilities,
	"runners":    CategoryRunners,
	"web-mobile": CategoryWebMobile,
}

// Key returns the short key for c, or "" for an unknown category.
func (c Category) Key() string {
	for k, v := range categoryKeys {
		if v == c {
			return k
		}
	}
	return ""
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	return c.Key() != ""
}

// ParseCategory accepts either the display name or the short key.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if c, ok := categoryKeys[strings.ToLower(s)]; ok {
		return c, nil
	}
	if c := Category(s); c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// UnmarshalText rejects unknown categories when decoding catalog files.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Tool is a single entry in the testing tools directory.
type Tool struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Category      Category `json:"category" yaml:"category"`
	Description   string   `json:"description" yaml:"description"`
	URL           string   `json:"url" yaml:"url"`
	HowToUse      string   `json:"howToUse" yaml:"howToUse"`
	Frameworks    []string `json:"frameworks" yaml:"frameworks"`
	Tags          []string `json:"tags" yaml:"tags"`
	IsPaid        bool     `json:"isPaid" yaml:"isPaid"`
	IsOpenSource  bool     `json:"isOpenSource" yaml:"isOpenSource"`
	AgentStrategy string   `json:"agentStrategy" yaml:"agentStrategy"`
	Version       *string  `json:"version,omitempty" yaml:"version,omitempty"`
	Logo          *string  `json:"logo,omitempty" yaml:"logo,omitempty"`
}

// HasTag reports whether tag is an exact member of the tool's tags or frameworks.
func (t *Tool) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	for _, v := range t.Frameworks {
		if v == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of t that shares no slices or pointers with it.
func (t *Tool) Clone() Tool {
	c := *t
	c.Tags = slices.Clone(t.Tags)
	c.Frameworks = slices.Clone(t.Frameworks)
	if t.Version != nil {
		v := *t.Version
		c.Version = &v
	}
	if t.Logo != nil {
		l := *t.Logo
		c.Logo = &l
	}
	return c
}

// PricingLabel returns the badge text shown on tool cards.
func (t *Tool) PricingLabel() string {
	if t.IsPaid {
		return "Paid Tier"
	}
	return "Free / OS"
}
