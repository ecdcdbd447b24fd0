package registry

import "sort"

// HandlerRegistry indexes interceptor handlers by annotation name.
// Handlers are supplied as an explicit registration list at construction
// time; there is no runtime scanning.
type HandlerRegistry interface {
	// Discover returns the handlers deduplicated by annotation name.
	// When two handlers declare the same annotation, the last
	// registration wins.
	Discover() map[string]InterceptorHandler

	// AnnotationNames returns the recognized annotation names in
	// alphabetical order.
	AnnotationNames() []string
}

// handlerRegistry implements the HandlerRegistry interface
type handlerRegistry struct {
	byAnnotation map[string]InterceptorHandler
}

// NewHandlerRegistry creates a registry from an explicit handler list.
// Registration order only matters for duplicate annotations: the handler
// registered last for a given annotation name replaces earlier ones.
func NewHandlerRegistry(handlers ...InterceptorHandler) HandlerRegistry {
	byAnnotation := make(map[string]InterceptorHandler, len(handlers))
	for _, handler := range handlers {
		byAnnotation[handler.Annotation().Name] = handler
	}
	return &handlerRegistry{byAnnotation: byAnnotation}
}

// Discover returns the handler mapping keyed by annotation name
func (r *handlerRegistry) Discover() map[string]InterceptorHandler {
	discovered := make(map[string]InterceptorHandler, len(r.byAnnotation))
	for name, handler := range r.byAnnotation {
		discovered[name] = handler
	}
	return discovered
}

// AnnotationNames returns the recognized annotation names sorted
// alphabetically, the fixed processing order of a run.
func (r *handlerRegistry) AnnotationNames() []string {
	names := make([]string, 0, len(r.byAnnotation))
	for name := range r.byAnnotation {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
