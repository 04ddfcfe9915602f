package fallback

import "basegraph.app/specforge/internal/model"

var fieldTable = map[string][]model.FieldSpec{
	"student": {
		{Name: "Full Name", Type: model.FieldTypeText, Required: true, Placeholder: "Enter student full name"},
		{Name: "Email Address", Type: model.FieldTypeEmail, Required: true, Placeholder: "student@university.edu"},
		{Name: "Student ID", Type: model.FieldTypeText, Required: true, Placeholder: "e.g., STU12345"},
		{Name: "Date of Birth", Type: model.FieldTypeDate},
		{Name: "Phone Number", Type: model.FieldTypeTel, Placeholder: "(555) 123-4567"},
		{Name: "Major", Type: model.FieldTypeSelect, Required: true, Options: []string{"Computer Science", "Business", "Engineering", "Arts", "Sciences"}},
	},
	"course": {
		{Name: "Course Title", Type: model.FieldTypeText, Required: true, Placeholder: "Enter course name"},
		{Name: "Course Code", Type: model.FieldTypeText, Required: true, Placeholder: "e.g., CS101"},
		{Name: "Credits", Type: model.FieldTypeNumber, Required: true, Placeholder: "3"},
		{Name: "Description", Type: model.FieldTypeTextarea, Placeholder: "Course description..."},
		{Name: "Prerequisites", Type: model.FieldTypeText, Placeholder: "Required previous courses"},
		{Name: "Semester", Type: model.FieldTypeSelect, Required: true, Options: []string{"Fall", "Spring", "Summer"}},
	},
	"grade": {
		{Name: "Student", Type: model.FieldTypeSelect, Required: true, Options: []string{"Select Student"}},
		{Name: "Course", Type: model.FieldTypeSelect, Required: true, Options: []string{"Select Course"}},
		{Name: "Grade", Type: model.FieldTypeSelect, Required: true, Options: []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "D", "F"}},
		{Name: "Assignment Type", Type: model.FieldTypeSelect, Required: true, Options: []string{"Exam", "Assignment", "Project", "Quiz"}},
		{Name: "Points Earned", Type: model.FieldTypeNumber, Placeholder: "Points received"},
		{Name: "Total Points", Type: model.FieldTypeNumber, Placeholder: "Total possible points"},
	},
	"teacher": {
		{Name: "Full Name", Type: model.FieldTypeText, Required: true, Placeholder: "Enter teacher full name"},
		{Name: "Email", Type: model.FieldTypeEmail, Required: true, Placeholder: "teacher@university.edu"},
		{Name: "Employee ID", Type: model.FieldTypeText, Required: true, Placeholder: "e.g., EMP12345"},
		{Name: "Department", Type: model.FieldTypeSelect, Required: true, Options: []string{"Computer Science", "Mathematics", "Physics", "Chemistry", "Biology"}},
		{Name: "Office Hours", Type: model.FieldTypeText, Placeholder: "Mon-Fri 2-4 PM"},
		{Name: "Phone", Type: model.FieldTypeTel, Placeholder: "(555) 123-4567"},
	},
	"user": {
		{Name: "Username", Type: model.FieldTypeText, Required: true, Placeholder: "Choose a username"},
		{Name: "Email", Type: model.FieldTypeEmail, Required: true, Placeholder: "user@example.com"},
		{Name: "Password", Type: model.FieldTypePassword, Required: true, Placeholder: "Secure password"},
		{Name: "Role", Type: model.FieldTypeSelect, Required: true, Options: []string{"Admin", "Teacher", "Student", "Manager"}},
		{Name: "Status", Type: model.FieldTypeSelect, Required: true, Options: []string{"Active", "Inactive", "Pending"}},
		{Name: "Department", Type: model.FieldTypeText, Placeholder: "User department"},
	},
	"product": {
		{Name: "Product Name", Type: model.FieldTypeText, Required: true, Placeholder: "Enter product name"},
		{Name: "Price", Type: model.FieldTypeNumber, Required: true, Placeholder: "0.00"},
		{Name: "Category", Type: model.FieldTypeSelect, Required: true, Options: []string{"Electronics", "Clothing", "Books", "Home", "Sports"}},
		{Name: "Description", Type: model.FieldTypeTextarea, Placeholder: "Product description..."},
		{Name: "SKU", Type: model.FieldTypeText, Required: true, Placeholder: "e.g., PRD-12345"},
		{Name: "Stock Quantity", Type: model.FieldTypeNumber, Required: true, Placeholder: "Available units"},
	},
	"order": {
		{Name: "Order ID", Type: model.FieldTypeText, Required: true, Placeholder: "Auto-generated"},
		{Name: "Customer", Type: model.FieldTypeSelect, Required: true, Options: []string{"Select Customer"}},
		{Name: "Order Date", Type: model.FieldTypeDate, Required: true},
		{Name: "Status", Type: model.FieldTypeSelect, Required: true, Options: []string{"Pending", "Processing", "Shipped", "Delivered", "Cancelled"}},
		{Name: "Total Amount", Type: model.FieldTypeNumber, Required: true, Placeholder: "0.00"},
		{Name: "Notes", Type: model.FieldTypeTextarea, Placeholder: "Order notes..."},
	},
	"customer": {
		{Name: "Full Name", Type: model.FieldTypeText, Required: true, Placeholder: "Customer full name"},
		{Name: "Email", Type: model.FieldTypeEmail, Required: true, Placeholder: "customer@example.com"},
		{Name: "Phone", Type: model.FieldTypeTel, Required: true, Placeholder: "(555) 123-4567"},
		{Name: "Address", Type: model.FieldTypeTextarea, Placeholder: "Customer address..."},
		{Name: "Customer Type", Type: model.FieldTypeSelect, Required: true, Options: []string{"Regular", "Premium", "VIP"}},
		{Name: "Join Date", Type: model.FieldTypeDate},
	},
}

var genericFields = []model.FieldSpec{
	{Name: "Name", Type: model.FieldTypeText, Required: true, Placeholder: "Enter name"},
	{Name: "Description", Type: model.FieldTypeTextarea, Placeholder: "Enter description..."},
	{Name: "Status", Type: model.FieldTypeSelect, Required: true, Options: []string{"Active", "Inactive"}},
	{Name: "Created Date", Type: model.FieldTypeDate},
}

// Fields returns the hand-written field list for entity, or the generic
// four-field list for unknown entities. The result is a fresh copy.
func Fields(entity string) []model.FieldSpec {
	if fields, ok := fieldTable[model.Key(entity)]; ok {
		return model.CloneFields(fields)
	}
	return model.CloneFields(genericFields)
}

// Known reports whether entity has a dedicated field list.
func Known(entity string) bool {
	_, ok := fieldTable[model.Key(entity)]
	return ok
}
