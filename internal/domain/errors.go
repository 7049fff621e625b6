package domain

// APIError is the body of every error response. Code is stable and meant for
// programmatic branching, Message is for humans.
type APIError struct {
	Message string `json:"error"`
	Code    string `json:"code"`
	// Fields carries per-field detail for payload validation failures
	Fields map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// Codes that are produced outside the service layer
const (
	CodeInternal     = "INTERNAL_ERROR"
	CodeInvalidJSON  = "INVALID_JSON"
	CodeInvalidID    = "INVALID_ID"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeRateLimited  = "RATE_LIMITED"
	CodeNotFound     = "NOT_FOUND"

	CodeInvalidContentType = "INVALID_CONTENT_TYPE"
	CodeValidation         = "VALIDATION_ERROR"
)

// ValidationMessages maps validator tags to human-readable messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gte":      "Must be greater than or equal to minimum value",
	"gt":       "Must be greater than minimum value",
	"oneof":    "Must be one of the allowed values",
	"dive":     "One or more items are invalid",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
