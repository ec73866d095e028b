package compare

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HerbHall/testerhub/internal/testutil"
	"github.com/HerbHall/testerhub/pkg/models"
)

func toolIDs(tools []models.Tool) []string {
	out := make([]string, len(tools))
	for i := range tools {
		out[i] = tools[i].ID
	}
	return out
}

func TestRelatedScore(t *testing.T) {
	focal := testutil.NewTool(testutil.WithCategory(models.CategoryVisual), testutil.WithTags("Web", "Visual AI"))

	tests := []struct {
		name      string
		candidate models.Tool
		want      int
	}{
		{"unrelated", testutil.NewTool(testutil.WithCategory(models.CategoryRunners), testutil.WithTags("Desktop")), 0},
		{"same category", testutil.NewTool(testutil.WithCategory(models.CategoryVisual)), 1},
		{"one shared tag", testutil.NewTool(testutil.WithCategory(models.CategoryRunners), testutil.WithTags("Web")), 1},
		{"category and two tags", testutil.NewTool(testutil.WithCategory(models.CategoryVisual), testutil.WithTags("Visual AI", "Web")), 3},
		{"frameworks ignored", testutil.NewTool(testutil.WithCategory(models.CategoryRunners), testutil.WithFrameworks("Web")), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelatedScore(&focal, &tt.candidate); got != tt.want {
				t.Errorf("RelatedScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRelated(t *testing.T) {
	tools := []models.Tool{
		testutil.NewTool(testutil.WithID("focal"), testutil.WithCategory(models.CategoryVisual), testutil.WithTags("Web")),
		testutil.NewTool(testutil.WithID("other-cat"), testutil.WithCategory(models.CategoryRunners)),
		testutil.NewTool(testutil.WithID("same-cat"), testutil.WithCategory(models.CategoryVisual)),
		testutil.NewTool(testutil.WithID("shared-tag"), testutil.WithCategory(models.CategoryRunners), testutil.WithTags("Web")),
		testutil.NewTool(testutil.WithID("both"), testutil.WithCategory(models.CategoryVisual), testutil.WithTags("Web")),
		testutil.NewTool(testutil.WithID("late"), testutil.WithCategory(models.CategoryVisual)),
	}
	focal := tools[0]

	got := Related(&focal, tools, DefaultRelatedLimit)
	if diff := cmp.Diff([]string{"same-cat", "shared-tag", "both"}, toolIDs(got)); diff != "" {
		t.Errorf("Related (-want +got):\n%s", diff)
	}

	all := Related(&focal, tools, 0)
	if diff := cmp.Diff([]string{"same-cat", "shared-tag", "both", "late"}, toolIDs(all)); diff != "" {
		t.Errorf("Related uncapped (-want +got):\n%s", diff)
	}
}

func TestRelated_NoneIsEmptySlice(t *testing.T) {
	focal := testutil.NewTool(testutil.WithCategory(models.CategoryRunners))
	got := Related(&focal, []models.Tool{focal}, DefaultRelatedLimit)
	if got == nil || len(got) != 0 {
		t.Errorf("Related = %#v, want empty slice", got)
	}
}
