package roles

import "basegraph.app/specforge/internal/model"

// Selection tracks the active role of a role switcher. Index always stays
// within [0, len(Roles)), or is 0 when there are no roles.
type Selection struct {
	roles []string
	index int
}

func NewSelection(roles []string) *Selection {
	s := &Selection{}
	s.SetRoles(roles)
	return s
}

// SetRoles replaces the role list and clamps the active index into range.
func (s *Selection) SetRoles(roles []string) {
	s.roles = append([]string(nil), roles...)
	s.index = clamp(s.index, len(s.roles))
}

// Select makes the role at i active. Out-of-range values are clamped.
func (s *Selection) Select(i int) {
	s.index = clamp(i, len(s.roles))
}

func (s *Selection) Index() int {
	return s.index
}

// Current returns the active role, or false when there are no roles.
func (s *Selection) Current() (string, bool) {
	if len(s.roles) == 0 {
		return "", false
	}
	return s.roles[s.index], true
}

// View projects features for the active role.
func (s *Selection) View(features []string) model.RoleView {
	role, ok := s.Current()
	if !ok {
		return model.RoleView{VisibleFeatures: []string{}}
	}
	return View(role, features)
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
