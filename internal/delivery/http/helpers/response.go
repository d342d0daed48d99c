package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"blogapi/internal/domain"
)

// Envelope status values.
const (
	StatusSuccess = "Success"
	StatusError   = "Error"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeUniqueViolation     = "UNIQUE_VIOLATION"
	ErrCodeNotNullViolation    = "NOT_NULL_VIOLATION"
	ErrCodeForeignKeyViolation = "FOREIGN_KEY_VIOLATION"
	ErrCodeInternalError       = "INTERNAL_SERVER_ERROR"
)

// APIResponse is the standardized envelope for all API responses.
// Absent fields are omitted from the JSON.
// swagger:model APIResponse
type APIResponse struct {
	Status   string              `json:"status"`
	Message  string              `json:"message,omitempty"`
	Location string              `json:"location,omitempty"`
	Data     any                 `json:"data,omitempty"`
	Code     string              `json:"code,omitempty"`
	Errors   []domain.FieldError `json:"errors,omitempty"`
}

// OK is the 200 envelope.
func OK(data any) APIResponse {
	return APIResponse{Status: StatusSuccess, Data: data}
}

// Created is the 201 envelope carrying the new resource's location.
func Created(location string, data any) APIResponse {
	return APIResponse{Status: StatusSuccess, Location: location, Data: data}
}

// BadRequest is the 400 envelope.
func BadRequest(message string) APIResponse {
	return errorResponse(ErrCodeBadRequest, message, nil)
}

// NotFound is the 404 envelope.
func NotFound(message string) APIResponse {
	if message == "" {
		message = "resource not found"
	}
	return errorResponse(ErrCodeNotFound, message, nil)
}

// Conflict is the 409 envelope.
func Conflict(code, message string) APIResponse {
	return errorResponse(code, message, nil)
}

// Unprocessable is the 422 envelope.
func Unprocessable(code, message string, details []domain.FieldError) APIResponse {
	return errorResponse(code, message, details)
}

// InternalError is the 500 envelope.
func InternalError(message string) APIResponse {
	if message == "" {
		message = "internal server error"
	}
	return errorResponse(ErrCodeInternalError, message, nil)
}

func errorResponse(code, message string, details []domain.FieldError) APIResponse {
	return APIResponse{Status: StatusError, Code: code, Message: message, Errors: details}
}

// WriteJSON sets Content-Type to application/json, writes statusCode and encodes resp.
func WriteJSON(w http.ResponseWriter, statusCode int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSONSuccess writes a Success envelope holding data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	WriteJSON(w, statusCode, OK(data))
}

// WriteCreated sets the Location header and writes a 201 envelope.
func WriteCreated(w http.ResponseWriter, location string, data any) {
	w.Header().Set("Location", location)
	WriteJSON(w, http.StatusCreated, Created(location, data))
}

// WriteJSONError writes an Error envelope with the given code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, errorResponse(code, message, nil))
}

// WriteError maps err onto a status code and envelope, writes it, and returns the status code.
func WriteError(w http.ResponseWriter, err error) int {
	status, resp := ErrorResponse(err)
	WriteJSON(w, status, resp)
	return status
}

// ErrorResponse classifies err into a status code and envelope.
func ErrorResponse(err error) (int, APIResponse) {
	var (
		vErr   *domain.ValidationError
		refErr *domain.ReferenceError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity, Unprocessable(ErrCodeInvalidInput, "validation failed", vErr.Fields)
	case errors.As(err, &refErr):
		details := make([]domain.FieldError, len(refErr.Missing))
		for i, m := range refErr.Missing {
			details[i] = domain.FieldError{Field: refErr.Kind, Message: "unknown reference " + m}
		}
		return http.StatusBadRequest, errorResponse(ErrCodeInvalidInput, refErr.Error(), details)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, NotFound("")
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse(ErrCodeUnauthorized, "unauthorized", nil)
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse(ErrCodeForbidden, "forbidden", nil)
	case errors.Is(err, domain.ErrUniqueViolation):
		return http.StatusConflict, Conflict(ErrCodeUniqueViolation, err.Error())
	case errors.Is(err, domain.ErrNotNullViolation):
		return http.StatusUnprocessableEntity, Unprocessable(ErrCodeNotNullViolation, err.Error(), nil)
	case errors.Is(err, domain.ErrForeignKeyViolation):
		return http.StatusConflict, Conflict(ErrCodeForeignKeyViolation, err.Error())
	case errors.Is(err, domain.ErrMalformedQuery):
		return http.StatusBadRequest, BadRequest(err.Error())
	}
	return http.StatusInternalServerError, InternalError(err.Error())
}
