// Package fallback produces deterministic, keyword-driven substitutes for
// artifacts the model could not deliver.
package fallback

import (
	"strings"

	"basegraph.app/specforge/internal/model"
)

type domainGroup struct {
	keywords []string
	entities []string
	roles    []string
}

// domainGroups are evaluated in order; the first group with a keyword in the
// description wins.
var domainGroups = []domainGroup{
	{
		keywords: []string{"student", "course"},
		entities: []string{"Student", "Course", "Grade"},
		roles:    []string{"Admin", "Teacher", "Student"},
	},
	{
		keywords: []string{"product", "shop", "store"},
		entities: []string{"Product", "Order", "Customer"},
		roles:    []string{"Admin", "Customer", "Manager"},
	},
	{
		keywords: []string{"blog", "post"},
		entities: []string{"User", "Post", "Comment"},
		roles:    []string{"Admin", "Author", "Reader"},
	},
}

// Requirements derives requirements from the description's whitespace-separated
// words. Features always use the generic default list.
func Requirements(description string) model.Requirements {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(description)) {
		words[w] = struct{}{}
	}

	req := model.Requirements{
		AppName:        model.DefaultAppName,
		Entities:       model.DefaultEntities(),
		Roles:          model.DefaultRoles(),
		Features:       model.DefaultFeatures(),
		OriginalPrompt: description,
	}

	for _, g := range domainGroups {
		if containsAny(words, g.keywords) {
			req.Entities = append([]string(nil), g.entities...)
			req.Roles = append([]string(nil), g.roles...)
			break
		}
	}

	return req
}

func containsAny(words map[string]struct{}, keywords []string) bool {
	for _, k := range keywords {
		if _, ok := words[k]; ok {
			return true
		}
	}
	return false
}
