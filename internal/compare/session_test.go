package compare

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HerbHall/testerhub/internal/testutil"
	"github.com/HerbHall/testerhub/pkg/models"
)

func sessionTools() []models.Tool {
	return []models.Tool{
		testutil.NewTool(testutil.WithID("x"), testutil.WithName("Playwright AI")),
		testutil.NewTool(testutil.WithID("y"), testutil.WithName("Cypress")),
		testutil.NewTool(testutil.WithID("z"), testutil.WithName("Percy")),
		testutil.NewTool(testutil.WithID("w"), testutil.WithName("Applitools Eyes")),
	}
}

func TestSession_ResetOnFocalChange(t *testing.T) {
	tools := sessionTools()
	s := NewSession()

	s.SetFocal(tools[0])
	if err := s.Add(tools[1]); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(s.Picks()) != 1 {
		t.Fatalf("Picks = %d, want 1", len(s.Picks()))
	}

	s.SetFocal(tools[2])
	if got := s.Picks(); len(got) != 0 {
		t.Errorf("switching focal tool should clear picks, got %v", toolIDs(got))
	}
	focal, ok := s.Focal()
	if !ok || focal.ID != "z" {
		t.Errorf("Focal = %q, %v; want z", focal.ID, ok)
	}
}

func TestSession_SameFocalKeepsPicks(t *testing.T) {
	tools := sessionTools()
	s := NewSession()
	s.SetFocal(tools[0])
	_ = s.Add(tools[1])

	s.SetFocal(tools[0])
	if len(s.Picks()) != 1 {
		t.Error("re-selecting the same focal tool should keep picks")
	}
}

func TestSession_AddRules(t *testing.T) {
	tools := sessionTools()

	s := NewSession()
	if err := s.Add(tools[1]); !errors.Is(err, ErrNoFocal) {
		t.Errorf("Add without focal = %v, want ErrNoFocal", err)
	}

	s.SetFocal(tools[0])
	if err := s.Add(tools[0]); !errors.Is(err, ErrFocalPick) {
		t.Errorf("Add focal = %v, want ErrFocalPick", err)
	}
	if err := s.Add(tools[1]); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(tools[1]); !errors.Is(err, ErrDuplicatePick) {
		t.Errorf("Add duplicate = %v, want ErrDuplicatePick", err)
	}
	if err := s.Add(tools[2]); err != nil {
		t.Fatalf("Add second: %v", err)
	}
	if !s.Full() {
		t.Error("expected session to be full")
	}
	if err := s.Add(tools[3]); !errors.Is(err, ErrSessionFull) {
		t.Errorf("Add third = %v, want ErrSessionFull", err)
	}
}

func TestSession_Remove(t *testing.T) {
	tools := sessionTools()
	s := NewSession()
	s.SetFocal(tools[0])
	_ = s.Add(tools[1])
	_ = s.Add(tools[2])

	if err := s.Remove("y"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if diff := cmp.Diff([]string{"z"}, toolIDs(s.Picks())); diff != "" {
		t.Errorf("Picks (-want +got):\n%s", diff)
	}
	if err := s.Remove("y"); !errors.Is(err, ErrPickNotFound) {
		t.Errorf("Remove missing = %v, want ErrPickNotFound", err)
	}
}

func TestSession_Candidates(t *testing.T) {
	tools := sessionTools()
	s := NewSession()
	s.SetFocal(tools[0])
	_ = s.Add(tools[2])

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"P", []string{"y", "w"}}, // Playwright is focal, Percy is picked
		{"CYPRESS", []string{"y"}},
		{"nothing", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := toolIDs(s.Candidates(tools, tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Candidates(%q) (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestSession_PicksReturnsCopy(t *testing.T) {
	tools := sessionTools()
	s := NewSession()
	s.SetFocal(tools[0])
	_ = s.Add(tools[1])

	picks := s.Picks()
	picks[0].ID = "mutated"
	if s.Picks()[0].ID != "y" {
		t.Error("Picks must return a copy")
	}
}
