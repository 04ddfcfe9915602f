package model

// Category is the fixed taxonomy label summarizing an application's domain.
type Category string

const (
	CategoryEducation    Category = "education"
	CategoryEcommerce    Category = "ecommerce"
	CategoryHealthcare   Category = "healthcare"
	CategoryFinance      Category = "finance"
	CategorySocial       Category = "social"
	CategoryProductivity Category = "productivity"
	CategoryOther        Category = "other"
)

func Categories() []Category {
	return []Category{
		CategoryEducation, CategoryEcommerce, CategoryHealthcare, CategoryFinance,
		CategorySocial, CategoryProductivity, CategoryOther,
	}
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// RoleView is the subset of features visible to one role, in feature order.
type RoleView struct {
	Role            string   `json:"role"`
	VisibleFeatures []string `json:"visibleFeatures"`
}
