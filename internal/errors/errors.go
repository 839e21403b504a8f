// internal/errors/errors.go
package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents the phase that produced a diagnostic
type ErrorType string

const (
	SyntaxError  ErrorType = "SyntaxError"
	ResolveError ErrorType = "ResolveError"
	RuntimeError ErrorType = "RuntimeError"
)

// SourceLocation represents a location in source code
type SourceLocation struct {
	Line   int
	Column int
}

// ShimmerError is a user-facing diagnostic. Its Error method renders one of
// the fixed single-line shapes written to the error sink.
type ShimmerError struct {
	Type     ErrorType
	Message  string
	Location SourceLocation
	// Where is the syntax error suffix: "", " at end" or " at 'LEXEME'".
	Where string
}

func (e *ShimmerError) Error() string {
	var sb strings.Builder
	switch e.Type {
	case SyntaxError:
		fmt.Fprintf(&sb, "[Line %d, Col %d] Error%s: %s", e.Location.Line, e.Location.Column, e.Where, e.Message)
	case ResolveError:
		fmt.Fprintf(&sb, "[Line %d] Error: %s", e.Location.Line, e.Message)
	default:
		fmt.Fprintf(&sb, "[Line %d] Runtime error: %s", e.Location.Line, e.Message)
	}
	return sb.String()
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message, where string, line, column int) *ShimmerError {
	return &ShimmerError{
		Type:    SyntaxError,
		Message: message,
		Where:   where,
		Location: SourceLocation{
			Line:   line,
			Column: column,
		},
	}
}

// NewResolveError creates a new resolution error
func NewResolveError(message string, line int) *ShimmerError {
	return &ShimmerError{
		Type:     ResolveError,
		Message:  message,
		Location: SourceLocation{Line: line},
	}
}

// NewRuntimeError creates a new runtime error
func NewRuntimeError(message string, line int) *ShimmerError {
	return &ShimmerError{
		Type:     RuntimeError,
		Message:  message,
		Location: SourceLocation{Line: line},
	}
}

// Is reports whether err is a ShimmerError of the given type.
func Is(err error, t ErrorType) bool {
	se, ok := err.(*ShimmerError)
	return ok && se.Type == t
}
