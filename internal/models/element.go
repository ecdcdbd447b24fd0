package models

import "fmt"

// SourceLocation represents the location of an annotated declaration in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String formats the location for diagnostics
func (l SourceLocation) String() string {
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return l.File
}

// ElementKind classifies the declaration an annotation was found on
type ElementKind int

const (
	KindMethod ElementKind = iota
	KindFunction
	KindType
	KindField
	KindInterfaceMethod
)

// String returns the string representation of the element kind
func (k ElementKind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindFunction:
		return "function"
	case KindType:
		return "type"
	case KindField:
		return "field"
	case KindInterfaceMethod:
		return "interface method"
	default:
		return "unknown"
	}
}

// Param represents one parameter of a method signature
type Param struct {
	Name string // parameter name as declared
	Type string // type expression as written in source
}

// Result represents one non-error result of a method signature
type Result struct {
	Type string // type expression as written in source
}

// Import is an import required by a method signature when it is
// reproduced in a generated file
type Import struct {
	Alias string // local alias, empty when the package name is used
	Path  string // import path
}

// TypeElement represents the struct type enclosing an intercepted method
type TypeElement struct {
	Name          string         // type name
	PackageName   string         // name of the declaring package
	PackagePath   string         // import path of the declaring package
	Location      SourceLocation // location of the type declaration
	FromGenerated bool           // declared in a machine-generated file
}

// Key returns the identity of the type across packages
func (t *TypeElement) Key() string {
	return t.PackagePath + "." + t.Name
}

// MethodElement represents one annotated method declaration
type MethodElement struct {
	Name            string         // method name
	Receiver        string         // receiver type name
	PointerReceiver bool           // receiver is declared as a pointer
	PackageName     string         // name of the declaring package
	PackagePath     string         // import path of the declaring package
	Params          []Param        // parameters in declaration order
	Results         []Result       // non-error results in declaration order
	ReturnsError    bool           // signature ends with an error result
	HasBody         bool           // false for interface contract methods
	Imports         []Import       // imports referenced by the signature
	Location        SourceLocation // location of the method declaration
}

// Key returns the identity of the method. Two bindings never share a key.
func (m *MethodElement) Key() string {
	return m.PackagePath + "." + m.Receiver + "." + m.Name
}

// Element is one annotated declaration as discovered by the source scanner.
// Method and Class are only set when Kind is KindMethod.
type Element struct {
	Kind     ElementKind
	Name     string         // declaration name, for diagnostics
	Location SourceLocation // location of the annotated declaration
	Method   *MethodElement
	Class    *TypeElement
}
