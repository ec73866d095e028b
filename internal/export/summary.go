package export

import "github.com/HerbHall/testerhub/pkg/models"

// CategoryCount is the number of tools in one category.
type CategoryCount struct {
	Category models.Category `json:"category"`
	Count    int             `json:"count"`
}

// Summary breaks a result set down by pricing and category.
type Summary struct {
	Total      int             `json:"total"`
	OpenSource int             `json:"openSource"`
	Paid       int             `json:"paid"`
	Neither    int             `json:"neither"`
	ByCategory []CategoryCount `json:"byCategory"`
}

// Summarize counts tools per pricing flag and per category. Tools that are
// both paid and open source count toward both totals. Categories are listed
// in declaration order, including empty ones.
func Summarize(tools []models.Tool) Summary {
	counts := make(map[models.Category]int)
	s := Summary{Total: len(tools)}
	for i := range tools {
		t := &tools[i]
		counts[t.Category]++
		if t.IsOpenSource {
			s.OpenSource++
		}
		if t.IsPaid {
			s.Paid++
		}
		if !t.IsOpenSource && !t.IsPaid {
			s.Neither++
		}
	}

	cats := models.Categories()
	s.ByCategory = make([]CategoryCount, 0, len(cats))
	for _, c := range cats {
		s.ByCategory = append(s.ByCategory, CategoryCount{Category: c, Count: counts[c]})
	}
	return s
}
