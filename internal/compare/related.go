// Package compare selects related tools and manages side-by-side
// comparison sessions around a focal tool.
package compare

import "github.com/HerbHall/testerhub/pkg/models"

// DefaultRelatedLimit caps the passive "related tools" list.
const DefaultRelatedLimit = 3

// RelatedScore rates how related candidate is to focal: one point for a
// shared category plus one per shared tag. Frameworks are not considered.
// Zero means unrelated.
func RelatedScore(focal, candidate *models.Tool) int {
	score := 0
	if focal.Category == candidate.Category {
		score++
	}
	for _, tag := range candidate.Tags {
		for _, ft := range focal.Tags {
			if tag == ft {
				score++
				break
			}
		}
	}
	return score
}

// Related returns up to limit tools with a positive RelatedScore, excluding
// focal itself, in catalog order. A limit <= 0 means no cap.
func Related(focal *models.Tool, tools []models.Tool, limit int) []models.Tool {
	out := []models.Tool{}
	for i := range tools {
		if tools[i].ID == focal.ID {
			continue
		}
		if RelatedScore(focal, &tools[i]) == 0 {
			continue
		}
		out = append(out, tools[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
