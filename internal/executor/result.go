package executor

import (
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"
	language "github.com/hanpama/beacon/internal/language"
)

// Location is a line and column in the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// GraphQLError represents an error that occurred during execution
type GraphQLError struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       Path           `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// ExecutionResult represents the result of executing a GraphQL query
type ExecutionResult struct {
	Data   any            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// newFieldError builds a located error for a resolver failure. Coded errors
// expose their code under extensions.
func newFieldError(err error, path Path, fields []*language.Field) GraphQLError {
	gerr := GraphQLError{Message: err.Error(), Path: path, Locations: fieldLocations(fields)}
	var coded *errbuilder.ErrBuilder
	if errors.As(err, &coded) {
		if code, ok := extensionCode(errbuilder.CodeOf(err)); ok {
			gerr.Extensions = map[string]any{"code": code}
		}
		if direct, ok := err.(*errbuilder.ErrBuilder); ok && direct.Msg != "" {
			gerr.Message = direct.Msg
		}
	}
	return gerr
}

func extensionCode(code errbuilder.ErrCode) (string, bool) {
	switch code {
	case errbuilder.CodeInvalidArgument:
		return "BAD_USER_INPUT", true
	case errbuilder.CodePermissionDenied:
		return "FORBIDDEN", true
	case errbuilder.CodeNotFound:
		return "NOT_FOUND", true
	case errbuilder.CodeFailedPrecondition:
		return "FAILED_PRECONDITION", true
	case errbuilder.CodeAlreadyExists:
		return "ALREADY_EXISTS", true
	case errbuilder.CodeInternal:
		return "INTERNAL", true
	}
	return "", false
}

func fieldLocations(fields []*language.Field) []Location {
	if len(fields) == 0 || fields[0] == nil || fields[0].Position == nil {
		return nil
	}
	pos := fields[0].Position
	return []Location{{Line: pos.Line, Column: pos.Column}}
}
