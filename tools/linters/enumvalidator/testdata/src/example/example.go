package example

type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeSelect FieldType = "select"
)

type Category string

const (
	CategoryEducation Category = "education"
)

type Source string

const (
	SourceModel Source = "model"
)

type FieldSpec struct {
	Name string
	Type FieldType
}

type Metadata struct {
	Category Category
	Source   Source
}

func bad() {
	f := &FieldSpec{}
	f.Type = "checkbox" // want "enum field Type assigned string literal"

	m := &Metadata{}
	m.Category = "gaming" // want "enum field Category assigned string literal"

	_ = FieldSpec{Name: "Email", Type: "email"} // want "enum field Type set to string literal"
	_ = Metadata{Source: "cache"}               // want "enum field Source set to string literal"
}

func good() {
	f := &FieldSpec{}
	f.Type = FieldTypeSelect // OK: using constant
	f.Name = "Status"        // OK: not an enum

	_ = FieldSpec{Name: "Email", Type: FieldTypeText}
	_ = Metadata{Category: CategoryEducation, Source: SourceModel}
}

func alsoGood() {
	// OK: Variable, not literal
	category := CategoryEducation
	m := &Metadata{Category: category}
	_ = m
}
