// Package validate checks parsed model output against the expected artifact
// shapes, defaulting or rejecting member by member.
package validate

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tidwall/gjson"

	"basegraph.app/specforge/internal/model"
)

// Outcome reports how much of a candidate value survived validation.
type Outcome string

const (
	// Accepted means every member was present and well formed.
	Accepted Outcome = "accepted"
	// Defaulted means at least one member was substituted or dropped.
	Defaulted Outcome = "defaulted"
	// Rejected means nothing usable was found; the caller must fall back entirely.
	Rejected Outcome = "rejected"
)

const UnknownFieldName = "Unknown Field"

var textPolicy = bluemonday.StrictPolicy()

// maxCleanPasses bounds how many layers of entity encoding cleanText peels.
const maxCleanPasses = 4

// cleanText strips markup from model-produced text so it is safe to hand to a
// renderer. Entities are decoded before sanitizing, so encoded markup is
// stripped too, and the pass repeats until the text is stable.
func cleanText(s string) string {
	for range maxCleanPasses {
		next := html.UnescapeString(textPolicy.Sanitize(html.UnescapeString(s)))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	// still changing: keep the sanitized form with its escapes
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// Requirements validates a requirements object. Each of appName, entities,
// roles and features is kept when well formed and defaulted on its own otherwise.
// A value that is not an object is Rejected.
func Requirements(v gjson.Result) (model.Requirements, Outcome) {
	if !v.IsObject() {
		return model.Requirements{}, Rejected
	}

	outcome := Accepted
	var req model.Requirements

	if name, ok := stringValue(v.Get("appName")); ok {
		req.AppName = name
	} else {
		req.AppName = model.DefaultAppName
		outcome = Defaulted
	}

	lists := []struct {
		key      string
		dst      *[]string
		fallback func() []string
	}{
		{"entities", &req.Entities, model.DefaultEntities},
		{"roles", &req.Roles, model.DefaultRoles},
		{"features", &req.Features, model.DefaultFeatures},
	}
	for _, l := range lists {
		if values, ok := stringList(v.Get(l.key)); ok {
			*l.dst = values
		} else {
			*l.dst = l.fallback()
			outcome = Defaulted
		}
	}

	return req, outcome
}

// Fields validates a {"fields": [...]} object. A missing or empty list is
// Rejected. Members are defaulted per field; select fields without options are
// dropped. If no field survives the list is Rejected.
func Fields(v gjson.Result) ([]model.FieldSpec, Outcome) {
	list := v.Get("fields")
	if !v.IsObject() || !list.IsArray() {
		return nil, Rejected
	}

	elements := list.Array()
	if len(elements) == 0 {
		return nil, Rejected
	}

	outcome := Accepted
	fields := make([]model.FieldSpec, 0, len(elements))
	for _, el := range elements {
		field, defaulted, ok := fieldSpec(el)
		if !ok {
			outcome = Defaulted
			continue
		}
		if defaulted {
			outcome = Defaulted
		}
		fields = append(fields, field)
	}

	if len(fields) == 0 {
		return nil, Rejected
	}
	return fields, outcome
}

func fieldSpec(el gjson.Result) (model.FieldSpec, bool, bool) {
	if !el.IsObject() {
		return model.FieldSpec{}, false, false
	}

	defaulted := false
	var f model.FieldSpec

	if name, ok := stringValue(el.Get("name")); ok {
		f.Name = name
	} else {
		f.Name = UnknownFieldName
		defaulted = true
	}

	f.Type = model.FieldTypeText
	if raw, ok := stringValue(el.Get("type")); ok {
		if t, known := model.ParseFieldType(raw); known {
			f.Type = t
		} else {
			defaulted = true
		}
	} else {
		defaulted = true
	}

	switch req := el.Get("required"); req.Type {
	case gjson.True, gjson.False:
		f.Required = req.Bool()
	default:
		defaulted = true
	}

	if f.Type == model.FieldTypeSelect {
		options, ok := stringList(el.Get("options"))
		if !ok {
			return model.FieldSpec{}, true, false
		}
		f.Options = options
	}

	if placeholder, ok := stringValue(el.Get("placeholder")); ok {
		f.Placeholder = placeholder
	} else {
		f.Placeholder = "Enter " + strings.ToLower(f.Name)
	}

	if f.Validate() != nil {
		return model.FieldSpec{}, true, false
	}
	return f, defaulted, true
}

func stringValue(v gjson.Result) (string, bool) {
	if v.Type != gjson.String {
		return "", false
	}
	s := cleanText(v.Str)
	return s, s != ""
}

// stringList accepts only arrays whose members are all strings, skipping
// members that are blank after cleaning. An empty result is not ok.
func stringList(v gjson.Result) ([]string, bool) {
	if !v.IsArray() {
		return nil, false
	}

	var out []string
	for _, item := range v.Array() {
		if item.Type != gjson.String {
			return nil, false
		}
		if s := cleanText(item.Str); s != "" {
			out = append(out, s)
		}
	}
	return out, len(out) > 0
}
