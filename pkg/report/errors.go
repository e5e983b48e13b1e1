// Package report provides custom error types for better error handling and reporting.
package report

import (
	"fmt"
	"strings"
)

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// TableError represents an error during a table operation.
// Row and Col are -1 when the position is not applicable.
type TableError struct {
	Operation string
	Row       int
	Col       int
	Message   string
}

func (e *TableError) Error() string {
	if e.Row >= 0 && e.Col >= 0 {
		return fmt.Sprintf("table error in %s at row %d, column %d: %s", e.Operation, e.Row, e.Col, e.Message)
	} else if e.Row >= 0 {
		return fmt.Sprintf("table error in %s at row %d: %s", e.Operation, e.Row, e.Message)
	}
	return fmt.Sprintf("table error in %s: %s", e.Operation, e.Message)
}

// NewTableError creates a new table error
func NewTableError(operation string, row, col int, message string) error {
	return &TableError{
		Operation: operation,
		Row:       row,
		Col:       col,
		Message:   message,
	}
}

// ValidationIssue represents a single validation problem
type ValidationIssue struct {
	Field   string
	Message string
}

// ValidationError represents multiple validation issues
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation error"
	}

	if len(e.Issues) == 1 {
		return fmt.Sprintf("validation error: %s - %s", e.Issues[0].Field, e.Issues[0].Message)
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d validation issues:", len(e.Issues)))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("  %s: %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "\n")
}

// NewValidationError creates a validation error with a single issue
func NewValidationError(field, message string) error {
	return &ValidationError{
		Issues: []ValidationIssue{{Field: field, Message: message}},
	}
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}

	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d errors occurred:", len(m.errors)))
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsDocumentError checks if an error is a document error
func IsDocumentError(err error) bool {
	_, ok := err.(*DocumentError)
	return ok
}

// IsTableError checks if an error is a table error
func IsTableError(err error) bool {
	_, ok := err.(*TableError)
	return ok
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
