package annotations

import (
	"fmt"
	"strconv"
)

// Retention describes at which phase an annotation is visible.
// Interceptor annotations must stay visible to the generation phase, so
// handlers whose annotation declares a non-runtime retention are ignored.
type Retention int

const (
	RetentionUnspecified Retention = iota
	RetentionSource
	RetentionRuntime
)

// String returns the string representation of the retention
func (r Retention) String() string {
	switch r {
	case RetentionSource:
		return "source"
	case RetentionRuntime:
		return "runtime"
	default:
		return "unspecified"
	}
}

// Target describes the declaration kinds an annotation may be placed on
type Target int

const (
	TargetMethod Target = iota
	TargetType
	TargetField
)

// String returns the string representation of the target
func (t Target) String() string {
	switch t {
	case TargetMethod:
		return "method"
	case TargetType:
		return "type"
	case TargetField:
		return "field"
	default:
		return "unknown"
	}
}

// Spec declares an annotation recognized by a handler: its name as written
// after the intercept:: prefix, plus retention and target metadata. Zero
// values are permissive: an unspecified retention or an empty target list
// is treated as acceptable.
type Spec struct {
	Name        string
	Description string
	Retention   Retention
	Targets     []Target
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// ParsedAnnotation represents a fully parsed intercept annotation
type ParsedAnnotation struct {
	Name       string            // annotation name after the prefix
	Parameters map[string]string // -Key=value parameters
	Flags      []string          // bare -Flag items
	Location   SourceLocation    // source location of the comment
	Raw        string            // original comment text
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(name string, defaultValue ...string) string {
	if value, exists := p.Parameters[name]; exists {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetBool returns a boolean parameter value. Bare flags count as true.
func (p *ParsedAnnotation) GetBool(name string, defaultValue ...bool) bool {
	if value, exists := p.Parameters[name]; exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	if p.HasFlag(name) {
		return true
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// HasFlag checks whether a bare flag is present
func (p *ParsedAnnotation) HasFlag(name string) bool {
	for _, flag := range p.Flags {
		if flag == name {
			return true
		}
	}
	return false
}

// ParseError is a syntax error in an annotation comment
type ParseError struct {
	Message    string
	Location   SourceLocation
	Suggestion string
}

func (e ParseError) Error() string {
	msg := fmt.Sprintf("%s:%d:%d: %s",
		e.Location.File, e.Location.Line, e.Location.Column, e.Message)
	if e.Suggestion != "" {
		msg += ". " + e.Suggestion
	}
	return msg
}
