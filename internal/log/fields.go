package log

// Field names shared across packages so log output stays consistent.
const (
	FieldComponent = "component"
	FieldBackend   = "backend"
	FieldPath      = "path"
	FieldError     = "error"
	FieldExpenseID = "expense_id"
	FieldCount     = "count"
	FieldSkipped   = "skipped"
)

// Component names used with FieldComponent.
const (
	ComponentApp     = "app"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
)
