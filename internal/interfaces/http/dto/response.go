package dto

import "github.com/findash/backend/internal/domain/shared"

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response from a domain error. A
// non-empty detail replaces the error's generic message.
func NewErrorResponse(err *shared.DomainError, detail string) Response {
	message := err.Message
	if detail != "" {
		message = detail
	}
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    err.Code,
			Message: message,
		},
	}
}
