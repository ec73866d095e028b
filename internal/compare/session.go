package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HerbHall/testerhub/pkg/models"
)

// MaxPicks is the number of tools a user may compare against the focal tool.
const MaxPicks = 2

// Session errors.
var (
	ErrNoFocal       = errors.New("no focal tool selected")
	ErrSessionFull   = errors.New("comparison list is full")
	ErrDuplicatePick = errors.New("tool already in comparison list")
	ErrFocalPick     = errors.New("cannot compare a tool with itself")
	ErrPickNotFound  = errors.New("tool not in comparison list")
)

// Session is one user's comparison view: a focal tool plus up to MaxPicks
// user-chosen tools. A Session is not safe for concurrent use; Manager
// serializes access.
type Session struct {
	focal *models.Tool
	picks []models.Tool
}

// NewSession returns an empty session with no focal tool.
func NewSession() *Session {
	return &Session{}
}

// Focal returns the focal tool and whether one is set.
func (s *Session) Focal() (models.Tool, bool) {
	if s.focal == nil {
		return models.Tool{}, false
	}
	return *s.focal, true
}

// SetFocal changes the focal tool. Switching to a different tool clears
// the picks; setting the same tool again keeps them.
func (s *Session) SetFocal(t models.Tool) {
	if s.focal == nil || s.focal.ID != t.ID {
		s.picks = nil
	}
	s.focal = &t
}

// Add appends t to the picks.
func (s *Session) Add(t models.Tool) error {
	switch {
	case s.focal == nil:
		return ErrNoFocal
	case t.ID == s.focal.ID:
		return ErrFocalPick
	case s.picked(t.ID):
		return fmt.Errorf("%w: %s", ErrDuplicatePick, t.ID)
	case len(s.picks) >= MaxPicks:
		return ErrSessionFull
	}
	s.picks = append(s.picks, t)
	return nil
}

// Remove drops the pick with the given id.
func (s *Session) Remove(id string) error {
	for i := range s.picks {
		if s.picks[i].ID == id {
			s.picks = append(s.picks[:i:i], s.picks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrPickNotFound, id)
}

// Picks returns a copy of the chosen tools in the order they were added.
func (s *Session) Picks() []models.Tool {
	out := make([]models.Tool, len(s.picks))
	copy(out, s.picks)
	return out
}

// Full reports whether no more picks can be added.
func (s *Session) Full() bool {
	return len(s.picks) >= MaxPicks
}

// Candidates returns tools whose name contains query (case-insensitive),
// excluding the focal tool and current picks, in catalog order. A blank
// query yields no candidates.
func (s *Session) Candidates(tools []models.Tool, query string) []models.Tool {
	out := []models.Tool{}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out
	}
	for i := range tools {
		t := &tools[i]
		if s.focal != nil && t.ID == s.focal.ID {
			continue
		}
		if s.picked(t.ID) {
			continue
		}
		if strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, *t)
		}
	}
	return out
}

func (s *Session) picked(id string) bool {
	for i := range s.picks {
		if s.picks[i].ID == id {
			return true
		}
	}
	return false
}
