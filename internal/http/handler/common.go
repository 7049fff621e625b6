package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// maxJSONBody bounds every JSON request body
const maxJSONBody = 1 << 20

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, domain.APIError{Message: message, Code: code})
}

// respondValidationError sends a 400 with one message per failing field
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}

	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Message: "One or more fields failed validation",
		Code:    domain.CodeValidation,
		Fields:  fields,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindInvalid:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes the response for err. Service errors carry their own
// code; anything else is logged and reported as a generic 500.
func handleError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	if svcErr, ok := service.AsError(err); ok {
		status := statusForKind(svcErr.Kind)
		if status == http.StatusInternalServerError {
			logger.Error(action, zap.String("code", svcErr.Code), zap.Error(err))
		}
		respondWithError(w, status, svcErr.Code, svcErr.Message)
		return
	}

	logger.Error(action, zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, domain.CodeInternal, "Internal server error")
}

// decodeJSON reads the request body into dst. It writes the 400 response
// itself and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, domain.CodeInvalidJSON, "Invalid JSON in request body")
		return false
	}
	return true
}

// resourceID reads the id from the {id} path segment or, for the legacy
// query-string routes, from ?id=
func resourceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		raw = r.URL.Query().Get("id")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, domain.CodeInvalidID, "Invalid or missing id")
		return 0, false
	}
	return id, true
}

// pagination returns the raw page and limit query values; unparsable values
// come back as zero and are normalized by the service
func pagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// optionalInt64Query parses a positive integer query parameter. ok is false
// when the parameter is present but malformed.
func optionalInt64Query(r *http.Request, name string) (value *int64, ok bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, false
	}
	return &v, true
}
