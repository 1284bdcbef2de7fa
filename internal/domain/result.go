package domain

// Result codes returned by entity mutations.
const (
	CodeAuthRequired      = "auth_required"
	CodeValidationError   = "validation_error"
	CodeDuplicateCategory = "duplicate_category"
	CodeDatabaseError     = "db_error"
	CodeNotFound          = "not_found"
)

// Result is the uniform outcome of an entity mutation. Mutations report
// failure through the Code/Error pair instead of returning a Go error, so
// callers can surface a notification without unwrapping anything.
type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Updated int    `json:"updated,omitempty"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(id string) Result {
	return Result{Success: true, ID: id}
}

func Fail(code, message string) Result {
	return Result{Success: false, Code: code, Error: message}
}
