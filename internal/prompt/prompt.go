// Package prompt builds the deterministic instruction strings sent to the
// model gateway. Builders are pure: the same input always yields the same prompt.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
)

// Bounds on how much the model is asked to produce.
const (
	MinEntities = 3
	MaxEntities = 5
	MinRoles    = 2
	MaxRoles    = 4
	MinFeatures = 4
	MaxFeatures = 8
	MinFields   = 4
	MaxFields   = 6
	MinOptions  = 3
	MaxOptions  = 5
)

// RequirementsContract is the JSON object the requirements prompt asks for.
type RequirementsContract struct {
	AppName  string   `json:"appName" jsonschema:"description=Short descriptive name for the app"`
	Entities []string `json:"entities" jsonschema:"minItems=3,maxItems=5,description=Main data objects such as User or Product"`
	Roles    []string `json:"roles" jsonschema:"minItems=2,maxItems=4,description=User roles such as Admin or Customer"`
	Features []string `json:"features" jsonschema:"minItems=4,maxItems=8,description=Key actions users can perform"`
}

// FieldContract is one element of FieldsContract.Fields.
type FieldContract struct {
	Name        string   `json:"name" jsonschema:"description=User-friendly field label"`
	Type        string   `json:"type" jsonschema:"enum=text,enum=email,enum=number,enum=date,enum=select,enum=textarea,enum=password,enum=tel"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty" jsonschema:"minItems=3,maxItems=5,description=Only for select fields"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// FieldsContract is the JSON object the field prompt asks for.
type FieldsContract struct {
	Fields []FieldContract `json:"fields" jsonschema:"minItems=4,maxItems=6"`
}

var (
	requirementsSchema = sync.OnceValue(func() string { return schemaFor(&RequirementsContract{}) })
	fieldsSchema       = sync.OnceValue(func() string { return schemaFor(&FieldsContract{}) })
)

func schemaFor(v any) string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	schema := reflector.Reflect(v)
	schema.Version = ""
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		// Reflected schemas of static structs always marshal.
		panic(fmt.Sprintf("marshal prompt schema: %v", err))
	}
	return string(data)
}

// Requirements builds the prompt that extracts app requirements from a free-text description.
func Requirements(description string) string {
	var b strings.Builder

	b.WriteString("You are an expert software analyst. Analyze the following app description and extract structured requirements in JSON format.\n\n")
	fmt.Fprintf(&b, "App Description: %q\n\n", strings.TrimSpace(description))

	b.WriteString("Please respond with ONLY a valid JSON object containing:\n")
	b.WriteString(`{
  "appName": "Short descriptive name for the app",
  "entities": ["Entity1", "Entity2", "Entity3"],
  "roles": ["Role1", "Role2", "Role3"],
  "features": ["Feature1", "Feature2", "Feature3"]
}`)
	b.WriteString("\n\nThe object must satisfy this JSON Schema:\n")
	b.WriteString(requirementsSchema())

	b.WriteString("\n\nRules:\n")
	fmt.Fprintf(&b, "- Extract %d-%d main entities (data objects like User, Product, Order)\n", MinEntities, MaxEntities)
	fmt.Fprintf(&b, "- Extract %d-%d user roles (like Admin, Customer, Manager)\n", MinRoles, MaxRoles)
	fmt.Fprintf(&b, "- Extract %d-%d key features (actions users can perform)\n", MinFeatures, MaxFeatures)
	b.WriteString("- Keep names simple and clear\n")
	b.WriteString("- Respond with ONLY the JSON, no additional text\n\n")

	b.WriteString(`Example for "I want a blog app where users write posts and admins moderate":` + "\n")
	b.WriteString(`{
  "appName": "Blog Platform",
  "entities": ["User", "Post", "Comment"],
  "roles": ["Admin", "Author", "Reader"],
  "features": ["Write posts", "Moderate content", "Read posts", "Leave comments"]
}`)
	b.WriteString("\n")

	return b.String()
}

// Fields builds the prompt that generates form fields for one entity of an app.
func Fields(entity, appContext string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate appropriate form fields for a %q entity in a %q application.\n\n",
		strings.TrimSpace(entity), strings.TrimSpace(appContext))

	b.WriteString("Respond with ONLY a valid JSON object:\n")
	b.WriteString(`{
  "fields": [
    {
      "name": "Field Name",
      "type": "text|email|number|date|select|textarea|password|tel",
      "required": true|false,
      "options": ["option1", "option2"],
      "placeholder": "Optional placeholder text"
    }
  ]
}`)
	b.WriteString("\n\nThe object must satisfy this JSON Schema:\n")
	b.WriteString(fieldsSchema())

	b.WriteString("\n\nRules:\n")
	fmt.Fprintf(&b, "- Generate %d-%d relevant fields for the entity\n", MinFields, MaxFields)
	b.WriteString("- Use appropriate field types (email for email fields, number for quantities, etc.)\n")
	b.WriteString("- Mark essential fields as required (true), optional fields as false\n")
	fmt.Fprintf(&b, "- For select fields, provide %d-%d realistic options\n", MinOptions, MaxOptions)
	b.WriteString("- Keep field names user-friendly and professional\n")
	b.WriteString("- Add helpful placeholder text where appropriate\n\n")

	b.WriteString("Examples:\n\n")
	b.WriteString(`For "Student" in a "Course Management" app:` + "\n")
	b.WriteString(`{
  "fields": [
    {"name": "Full Name", "type": "text", "required": true, "placeholder": "Enter student's full name"},
    {"name": "Email", "type": "email", "required": true, "placeholder": "student@university.edu"},
    {"name": "Student ID", "type": "text", "required": true, "placeholder": "e.g., STU12345"},
    {"name": "Year Level", "type": "select", "required": true, "options": ["Freshman", "Sophomore", "Junior", "Senior"]},
    {"name": "Phone Number", "type": "tel", "required": false, "placeholder": "(555) 123-4567"},
    {"name": "Major", "type": "select", "required": false, "options": ["Computer Science", "Business", "Engineering", "Arts", "Sciences"]}
  ]
}`)
	b.WriteString("\n\n")
	b.WriteString(`For "Product" in an "E-commerce" app:` + "\n")
	b.WriteString(`{
  "fields": [
    {"name": "Product Name", "type": "text", "required": true, "placeholder": "Enter product name"},
    {"name": "Price", "type": "number", "required": true, "placeholder": "0.00"},
    {"name": "Category", "type": "select", "required": true, "options": ["Electronics", "Clothing", "Books", "Home", "Sports"]},
    {"name": "Description", "type": "textarea", "required": false, "placeholder": "Describe the product features..."},
    {"name": "SKU", "type": "text", "required": true, "placeholder": "e.g., PRD-12345"},
    {"name": "Stock Quantity", "type": "number", "required": true, "placeholder": "Available units"}
  ]
}`)
	b.WriteString("\n")

	return b.String()
}
