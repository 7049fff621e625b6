package service

import "errors"

// Kind classifies a service error so the HTTP boundary can pick a status code
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

// Error is a service error carrying a stable machine-readable code.
// Sentinels are compared by identity, so two sentinels may share a code
// while mapping to different kinds.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// AsError unwraps err into a service Error if it is one
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Authorization
var (
	ErrUnauthorized = newError(KindUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrForbidden    = newError(KindForbidden, "FORBIDDEN", "You do not have permission to perform this action")
)

// Leads
var (
	ErrMissingRequiredFields = newError(KindInvalid, "MISSING_REQUIRED_FIELDS", "Name, email and source are required")
	ErrInvalidName           = newError(KindInvalid, "INVALID_NAME", "Name cannot be empty")
	ErrInvalidEmail          = newError(KindInvalid, "INVALID_EMAIL", "A valid email is required")
	ErrInvalidEmailFormat    = newError(KindInvalid, "INVALID_EMAIL_FORMAT", "Email format is invalid")
	ErrInvalidSource         = newError(KindInvalid, "INVALID_SOURCE", "Source must be one of: chat, wizard, contact")
	ErrInvalidLeadStatus     = newError(KindInvalid, "INVALID_STATUS", "Status must be one of: new, contacted, qualified, proposal, won, lost")
	ErrInvalidAssignedTo     = newError(KindInvalid, "INVALID_ASSIGNED_TO", "assignedTo must be a valid user id or null")
	ErrAssignedUserNotFound  = newError(KindInvalid, "USER_NOT_FOUND", "Assigned user does not exist")
	ErrLeadNotFound          = newError(KindNotFound, "LEAD_NOT_FOUND", "Lead not found")
	ErrLeadReferenceNotFound = newError(KindInvalid, "LEAD_NOT_FOUND", "Referenced lead does not exist")
	ErrLeadHasDependents     = newError(KindConflict, "LEAD_HAS_DEPENDENTS", "Lead has quotes, files or chat sessions; delete with cascade=true")

	ErrNameTooLong             = newError(KindInvalid, "INVALID_NAME", "Name must be at most 255 characters")
	ErrEmailTooLong            = newError(KindInvalid, "INVALID_EMAIL", "Email must be at most 255 characters")
	ErrInvalidPhone            = newError(KindInvalid, "INVALID_PHONE", "Phone must be at most 50 characters")
	ErrInvalidPreferredContact = newError(KindInvalid, "INVALID_PREFERRED_CONTACT", "preferredContact must be at most 50 characters")
	ErrInvalidTicketNumber     = newError(KindInvalid, "INVALID_TICKET_NUMBER", "ticketNumber must be at most 100 characters")
)

// Quotes and products
var (
	ErrMissingLeadID            = newError(KindInvalid, "MISSING_LEAD_ID", "leadId is required")
	ErrInvalidLeadID            = newError(KindInvalid, "INVALID_LEAD_ID", "leadId must be a valid integer")
	ErrMissingProductID         = newError(KindInvalid, "MISSING_PRODUCT_ID", "productId is required")
	ErrMissingEstimatedPrice    = newError(KindInvalid, "MISSING_ESTIMATED_PRICE", "estimatedPrice is required")
	ErrInvalidEstimatedPrice    = newError(KindInvalid, "INVALID_ESTIMATED_PRICE", "estimatedPrice must be a whole number greater than 0")
	ErrInvalidQuantity          = newError(KindInvalid, "INVALID_QUANTITY", "quantity must be at least 1")
	ErrInvalidQuoteStatus       = newError(KindInvalid, "INVALID_STATUS", "Status must be one of: draft, sent, accepted, rejected")
	ErrProductReferenceNotFound = newError(KindInvalid, "PRODUCT_NOT_FOUND", "Referenced product does not exist")
	ErrProductNotFound          = newError(KindNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	ErrQuoteNotFound            = newError(KindNotFound, "QUOTE_NOT_FOUND", "Quote not found")
)

// Estimates
var (
	ErrUserIDNotAllowed       = newError(KindInvalid, "USER_ID_NOT_ALLOWED", "User ID cannot be provided in request body")
	ErrMissingClientName      = newError(KindInvalid, "MISSING_CLIENT_NAME", "clientName is required")
	ErrMissingClientEmail     = newError(KindInvalid, "MISSING_CLIENT_EMAIL", "clientEmail is required")
	ErrMissingItems           = newError(KindInvalid, "MISSING_ITEMS", "At least one item is required")
	ErrInvalidItems           = newError(KindInvalid, "INVALID_ITEMS", "Each item needs a description, quantity > 0, unitPrice >= 0 and total >= 0")
	ErrInvalidSubtotal        = newError(KindInvalid, "INVALID_SUBTOTAL", "subtotal must be a number >= 0")
	ErrInvalidTotal           = newError(KindInvalid, "INVALID_TOTAL", "total must be a number >= 0")
	ErrInvalidAmount          = newError(KindInvalid, "INVALID_AMOUNT", "taxRate, taxAmount and shippingCost must be >= 0")
	ErrEstimateNotFound       = newError(KindNotFound, "ESTIMATE_NOT_FOUND", "Estimate not found")
	ErrQuoteNumberUnavailable = newError(KindInternal, "QUOTE_NUMBER_GENERATION_FAILED", "Could not generate a unique quote number")
)

// Chat sessions
var (
	ErrInvalidMessages         = newError(KindInvalid, "INVALID_MESSAGES", "messages must be a non-empty array")
	ErrInvalidMessageStructure = newError(KindInvalid, "INVALID_MESSAGE_STRUCTURE", "Each message needs a role and content")
	ErrInvalidChatStatus       = newError(KindInvalid, "INVALID_STATUS", "Status must be one of: active, closed")
	ErrNoUpdateFields          = newError(KindInvalid, "NO_UPDATE_FIELDS", "No fields to update")
	ErrChatSessionNotFound     = newError(KindNotFound, "CHAT_SESSION_NOT_FOUND", "Chat session not found")
)

// Files
var (
	ErrFileRequired = newError(KindInvalid, "FILE_REQUIRED", "A file is required")
	ErrFileTooLarge = newError(KindInvalid, "FILE_TOO_LARGE", "File exceeds the 10MB limit")
	ErrFileNotFound = newError(KindNotFound, "FILE_NOT_FOUND", "File not found")
)

// CRM users
var (
	ErrMissingAuthUserID = newError(KindInvalid, "MISSING_AUTH_USER_ID", "authUserId is required")
	ErrMissingEmail      = newError(KindInvalid, "MISSING_EMAIL", "email is required")
	ErrMissingName       = newError(KindInvalid, "MISSING_NAME", "name is required")
	ErrInvalidRole       = newError(KindInvalid, "INVALID_ROLE", "Role must be one of: admin, agent")
	ErrAuthUserNotFound  = newError(KindInvalid, "AUTH_USER_NOT_FOUND", "Authentication user does not exist")
	ErrEmailExists       = newError(KindInvalid, "EMAIL_EXISTS", "A CRM user with this email already exists")
	ErrAuthUserLinked    = newError(KindInvalid, "AUTH_USER_LINKED", "This authentication user is already linked to a CRM user")
	ErrUserNotFound      = newError(KindNotFound, "USER_NOT_FOUND", "User not found")
)

// Notes and intake
var (
	ErrMissingContent    = newError(KindInvalid, "MISSING_CONTENT", "content is required")
	ErrNoteNotFound      = newError(KindNotFound, "NOTE_NOT_FOUND", "Note not found")
	ErrIncompleteStep    = newError(KindInvalid, "INCOMPLETE_STEP", "The current step is missing required answers")
	ErrConversationEnded = newError(KindNotFound, "CONVERSATION_NOT_FOUND", "Conversation not found or expired")
	ErrEmptyMessage      = newError(KindInvalid, "EMPTY_MESSAGE", "message cannot be empty")
)
