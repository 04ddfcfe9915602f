package model

import "strings"

// Requirements is the structured extraction of a free-text app description.
// Entity, role and feature strings keep their display casing; use Key for lookups.
type Requirements struct {
	AppName        string   `json:"appName"`
	Entities       []string `json:"entities"`
	Roles          []string `json:"roles"`
	Features       []string `json:"features"`
	OriginalPrompt string   `json:"originalPrompt,omitempty"`
}

const DefaultAppName = "Generated App"

// DefaultEntities, DefaultRoles and DefaultFeatures are the generic values
// substituted when extraction yields nothing usable for a field.
func DefaultEntities() []string { return []string{"User", "Item", "Record"} }

func DefaultRoles() []string { return []string{"Admin", "User"} }

func DefaultFeatures() []string { return []string{"Create", "Read", "Update", "Delete"} }

// Complete reports whether entities, roles and features are all non-empty.
func (r Requirements) Complete() bool {
	return len(r.Entities) > 0 && len(r.Roles) > 0 && len(r.Features) > 0
}

// Clone returns a deep copy.
func (r Requirements) Clone() Requirements {
	r.Entities = append([]string(nil), r.Entities...)
	r.Roles = append([]string(nil), r.Roles...)
	r.Features = append([]string(nil), r.Features...)
	return r
}

// Key is the canonical case-insensitive lookup key for an entity, role or feature.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Source records whether an artifact was produced by the model or by the fallback engine.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)
