// Package roles projects the feature list onto what a given role may see.
package roles

import (
	"strings"

	"basegraph.app/specforge/internal/model"
)

// permissions maps a lower-cased role name to the substrings a feature must
// contain (any of them) to be visible. A nil entry grants every feature.
var permissions = map[string][]string{
	"admin":         nil,
	"administrator": nil,
	"teacher":       {"course", "grade", "manage", "view", "add"},
	"instructor":    {"course", "grade", "teach"},
	"student":       {"enrol", "view", "register", "submit"},
	"manager":       {"manage", "view", "report"},
	"user":          {"view", "read"},
}

// Project returns the features visible to role, preserving their order.
// Unknown roles see every feature.
func Project(role string, features []string) []string {
	if strings.TrimSpace(role) == "" || len(features) == 0 {
		return []string{}
	}

	predicates, known := permissions[model.Key(role)]
	if !known || predicates == nil {
		return append([]string{}, features...)
	}

	visible := make([]string, 0, len(features))
	for _, f := range features {
		lower := strings.ToLower(f)
		for _, p := range predicates {
			if strings.Contains(lower, p) {
				visible = append(visible, f)
				break
			}
		}
	}
	return visible
}

// View wraps Project into a RoleView.
func View(role string, features []string) model.RoleView {
	return model.RoleView{
		Role:            role,
		VisibleFeatures: Project(role, features),
	}
}
