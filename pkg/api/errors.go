package api

import (
	"fmt"
	"net/http"
)

// Error is a handler-level failure that already knows its HTTP status.
type Error struct {
	Status  int
	Kind    string
	Message string
	Fields  map[string]string

	// Log is recorded server side and never sent to the client.
	Log error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

func (e *Error) Response() ErrorResponse {
	return ErrorResponse{Error: e.Message, Kind: e.Kind, Fields: e.Fields}
}

func ValidationError(fields map[string]string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Kind:    "validation",
		Message: "request validation failed",
		Fields:  fields,
	}
}

func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Kind: "validation", Message: msg}
}

func InternalError(msg string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Kind: "internal", Message: msg, Log: err}
}
