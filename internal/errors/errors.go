package errors

import "fmt"

// APIError represents a structured API error with an HTTP status code.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NotFound(resource, id string) *APIError {
	return &APIError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
		Status:  404,
	}
}

func Validation(msg string) *APIError {
	return &APIError{
		Code:    "VALIDATION_ERROR",
		Message: msg,
		Status:  400,
	}
}

func Unauthorized(msg string) *APIError {
	return &APIError{
		Code:    "UNAUTHORIZED",
		Message: msg,
		Status:  401,
	}
}

func Forbidden(msg string) *APIError {
	return &APIError{
		Code:    "FORBIDDEN",
		Message: msg,
		Status:  403,
	}
}

// PolicyViolation is returned when an operation requires an acceptable
// password but the candidate was rejected. The message carries the
// rejection reason verbatim.
func PolicyViolation(reason string) *APIError {
	return &APIError{
		Code:    "POLICY_VIOLATION",
		Message: reason,
		Status:  422,
	}
}

func Internal(msg string) *APIError {
	return &APIError{
		Code:    "INTERNAL_ERROR",
		Message: msg,
		Status:  500,
	}
}

func ServiceUnavailable(msg string) *APIError {
	return &APIError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: msg,
		Status:  503,
	}
}
