// Package response implements the uniform JSON envelope shared by every
// endpoint, along with the error-code taxonomy.
package response

import (
	"encoding/json"
	"net/http"
)

type ErrorCode string

const (
	NotFound        ErrorCode = "not_found"
	Unauthorized    ErrorCode = "unauthorized"
	Forbidden       ErrorCode = "forbidden"
	Conflict        ErrorCode = "conflict"
	ValidationError ErrorCode = "validation_error"
	UpstreamFailure ErrorCode = "upstream_failure"
	TooManyRequests ErrorCode = "too_many_requests"
	InternalError   ErrorCode = "internal_error"
)

// Conflict is 400, not 409: duplicate username/email registrations have
// always surfaced as a plain bad request to the client.
var errorCodeToStatusCode = map[ErrorCode]int{
	NotFound:        http.StatusNotFound,
	Unauthorized:    http.StatusUnauthorized,
	Forbidden:       http.StatusForbidden,
	Conflict:        http.StatusBadRequest,
	ValidationError: http.StatusBadRequest,
	UpstreamFailure: http.StatusInternalServerError,
	TooManyRequests: http.StatusTooManyRequests,
	InternalError:   http.StatusInternalServerError,
}

func (ec ErrorCode) StatusCode() int {
	if code, ok := errorCodeToStatusCode[ec]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func (ec ErrorCode) String() string {
	return string(ec)
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrorBody is the structured error payload. Clients match on Code, never on
// Message.
type ErrorBody struct {
	Code      ErrorCode `json:"code"`
	RequestID string    `json:"request_id,omitempty"`
}

type Envelope struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// EncodeSuccess writes a success envelope with HTTP 200.
func EncodeSuccess(w http.ResponseWriter, data any, message string) error {
	if message == "" {
		message = "Success"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// EncodeError writes an error envelope with the status mapped from code.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, requestID string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.StatusCode())
	return json.NewEncoder(w).Encode(Envelope{
		Status:  StatusError,
		Message: message,
		Error: &ErrorBody{
			Code:      code,
			RequestID: requestID,
		},
	})
}

func EncodeInternalError(w http.ResponseWriter, requestID string) error {
	return EncodeError(w, InternalError, "internal server error", requestID)
}
