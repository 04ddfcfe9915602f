// Package category maps an app's entity and feature vocabulary to a Category.
package category

import (
	"strings"

	"basegraph.app/specforge/internal/model"
)

type rule struct {
	keywords []string
	category model.Category
}

// rules are tested in priority order; the first match wins.
var rules = []rule{
	{[]string{"student", "course", "learn"}, model.CategoryEducation},
	{[]string{"product", "order", "shop"}, model.CategoryEcommerce},
	{[]string{"patient", "doctor", "health"}, model.CategoryHealthcare},
	{[]string{"payment", "transaction", "bank"}, model.CategoryFinance},
	{[]string{"post", "message", "social"}, model.CategorySocial},
	{[]string{"task", "project", "manage"}, model.CategoryProductivity},
}

// Classify joins the lower-cased entities and features into one blob and
// returns the category of the first rule with a keyword occurring in it.
func Classify(entities, features []string) model.Category {
	terms := make([]string, 0, len(entities)+len(features))
	for _, s := range entities {
		terms = append(terms, strings.ToLower(s))
	}
	for _, s := range features {
		terms = append(terms, strings.ToLower(s))
	}
	blob := strings.Join(terms, " ")

	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(blob, k) {
				return r.category
			}
		}
	}
	return model.CategoryOther
}
