package models

// GeneratedInterceptor represents a generated wrapper source unit for one
// class. It is handed to the emitter and discarded after the run.
type GeneratedInterceptor struct {
	PackageName string           // package of the original class
	PackagePath string           // import path of the original class
	ClassName   string           // name of the wrapped class
	WrapperName string           // name of the generated wrapper type
	FileName    string           // deterministic output file name
	FilePath    string           // full path where the file is written
	Content     string           // generated Go code content
	Bindings    []*MethodBinding // bindings rendered into the wrapper
}

// TypeRef identifies a named type in some package, used by handlers to
// declare which interceptor implementation backs an annotation.
type TypeRef struct {
	PackagePath string // import path, empty for builtin types
	Name        string // type name
}

// String returns the qualified name of the referenced type
func (r TypeRef) String() string {
	if r.PackagePath == "" {
		return r.Name
	}
	return r.PackagePath + "." + r.Name
}
