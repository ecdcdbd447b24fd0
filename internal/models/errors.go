package models

import "fmt"

// ErrorType represents different types of generator errors
type ErrorType int

const (
	ErrorTypeAnnotationSyntax ErrorType = iota
	ErrorTypeConfiguration
	ErrorTypeValidation
	ErrorTypeGeneration
	ErrorTypeFileSystem
)

// String returns the string representation of the error type
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeAnnotationSyntax:
		return "annotation syntax"
	case ErrorTypeConfiguration:
		return "configuration"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeGeneration:
		return "generation"
	case ErrorTypeFileSystem:
		return "file system"
	default:
		return "unknown"
	}
}

// GeneratorError represents an error that occurred during a generation run
type GeneratorError struct {
	Type        ErrorType // type of error
	File        string    // file where error occurred
	Line        int       // line number where error occurred
	Message     string    // error message
	Cause       error     // underlying error cause
	Suggestions []string  // optional hints shown to the user
}

// Error implements the error interface
func (e *GeneratorError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error cause
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}
