package model

import (
	"errors"
	"fmt"
	"strings"
)

// FieldType is the closed set of form field kinds a renderer understands.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypePassword FieldType = "password"
	FieldTypeTel      FieldType = "tel"
)

// Element is the form control a field type is drawn with.
type Element string

const (
	ElementInput    Element = "input"
	ElementTextarea Element = "textarea"
	ElementSelect   Element = "select"
)

// Widget describes how a renderer draws one field type.
type Widget struct {
	Element   Element `json:"element"`
	InputType string  `json:"inputType,omitempty"`
}

// widgets is the renderer table. Adding a field type is one entry here.
var widgets = map[FieldType]Widget{
	FieldTypeText:     {Element: ElementInput, InputType: "text"},
	FieldTypeEmail:    {Element: ElementInput, InputType: "email"},
	FieldTypeNumber:   {Element: ElementInput, InputType: "number"},
	FieldTypeDate:     {Element: ElementInput, InputType: "date"},
	FieldTypeSelect:   {Element: ElementSelect},
	FieldTypeTextarea: {Element: ElementTextarea},
	FieldTypePassword: {Element: ElementInput, InputType: "password"},
	FieldTypeTel:      {Element: ElementInput, InputType: "tel"},
}

// FieldTypes lists every supported type in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText, FieldTypeEmail, FieldTypeNumber, FieldTypeDate,
		FieldTypeSelect, FieldTypeTextarea, FieldTypePassword, FieldTypeTel,
	}
}

// ParseFieldType matches s case-insensitively against the supported types.
func ParseFieldType(s string) (FieldType, bool) {
	t := FieldType(strings.ToLower(strings.TrimSpace(s)))
	_, ok := widgets[t]
	return t, ok
}

// Widget returns the renderer entry for t. Unknown types render as text inputs.
func (t FieldType) Widget() Widget {
	if w, ok := widgets[t]; ok {
		return w
	}
	return widgets[FieldTypeText]
}

var (
	ErrSelectWithoutOptions = errors.New("select field requires at least one option")
	ErrOptionsOnNonSelect   = errors.New("options are only allowed on select fields")
	ErrUnknownFieldType     = errors.New("unknown field type")
	ErrEmptyFieldName       = errors.New("field name is empty")
)

// FieldSpec describes one form field of an entity's data-entry form.
type FieldSpec struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// Validate checks the structural invariants of a field.
func (f FieldSpec) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyFieldName
	}
	if _, ok := widgets[f.Type]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFieldType, f.Type)
	}
	if f.Type == FieldTypeSelect && len(f.Options) == 0 {
		return fmt.Errorf("%s: %w", f.Name, ErrSelectWithoutOptions)
	}
	if f.Type != FieldTypeSelect && len(f.Options) > 0 {
		return fmt.Errorf("%s: %w", f.Name, ErrOptionsOnNonSelect)
	}
	return nil
}

// CloneFields returns a deep copy of fields.
func CloneFields(fields []FieldSpec) []FieldSpec {
	if fields == nil {
		return nil
	}
	out := make([]FieldSpec, len(fields))
	for i, f := range fields {
		f.Options = append([]string(nil), f.Options...)
		if len(f.Options) == 0 {
			f.Options = nil
		}
		out[i] = f
	}
	return out
}

// EntityFieldSet maps a lower-cased entity name to its ordered field list.
type EntityFieldSet map[string][]FieldSpec

// Lookup finds the fields of entity regardless of casing.
func (s EntityFieldSet) Lookup(entity string) ([]FieldSpec, bool) {
	fields, ok := s[Key(entity)]
	return fields, ok
}

// EntityFields is the synthesis result for a single entity.
type EntityFields struct {
	Entity string      `json:"entity"`
	Key    string      `json:"key"`
	Fields []FieldSpec `json:"fields"`
	Source Source      `json:"source"`
}
