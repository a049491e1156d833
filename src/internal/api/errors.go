package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/maksimkurb/wgvpc/src/internal/config"
	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/log"
)

// APIError represents a structured API error response.
type APIError struct {
	Code    errors.ErrorCode       `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError for JSON responses.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code errors.ErrorCode, message string) APIError {
	return APIError{
		Code:    code,
		Message: message,
		Details: nil,
	}
}

// WithDetails adds details to an APIError.
func (e APIError) WithDetails(details map[string]interface{}) APIError {
	e.Details = details
	return e
}

// WriteError writes an error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, err APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// WriteInvalidRequest writes a 400 Bad Request error.
func WriteInvalidRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, NewAPIError(errors.ErrCodeValidation, message))
}

// WriteInternalError writes a 500 Internal Server Error.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(errors.ErrCodeInternal, message))
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeConflict, errors.ErrCodeState:
		return http.StatusConflict
	case errors.ErrCodeExternalTool:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError writes err with the status of its code. Validation
// failures list the offending fields in details.
func WriteDomainError(w http.ResponseWriter, err error) {
	code := errors.CodeOf(err)
	apiErr := NewAPIError(code, err.Error())

	details := map[string]interface{}{}
	var domainErr *errors.Error
	if stderrors.As(err, &domainErr) {
		apiErr.Message = domainErr.Message
		if domainErr.Reason != "" {
			details["reason"] = domainErr.Reason
		}
		if domainErr.Cause != nil {
			details["cause"] = domainErr.Cause.Error()
		}
	}
	var verrs config.ValidationErrors
	if stderrors.As(err, &verrs) {
		fields := make([]map[string]string, 0, len(verrs))
		for _, ve := range verrs {
			fields = append(fields, map[string]string{
				"item":    ve.ItemName,
				"field":   ve.FieldPath,
				"message": ve.Message,
			})
		}
		details["fields"] = fields
	}
	if len(details) > 0 {
		apiErr = apiErr.WithDetails(details)
	}

	status := StatusFor(code)
	if status == http.StatusInternalServerError {
		log.Errorf("API request failed: %v", err)
	}
	WriteError(w, status, apiErr)
}
