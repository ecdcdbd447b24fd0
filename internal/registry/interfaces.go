package registry

import (
	"github.com/x3333/intercept/internal/annotations"
	"github.com/x3333/intercept/internal/models"
	"github.com/x3333/intercept/internal/utils"
)

// InterceptorHandler is the base contract for interceptor handlers. Each
// handler binds one annotation to one interceptor implementation from the
// runtime package.
type InterceptorHandler interface {
	// Annotation declares the annotation this handler reacts to,
	// including its retention and target metadata.
	Annotation() annotations.Spec

	// InterceptorType identifies the MethodInterceptor implementation
	// that backs the annotation at runtime.
	InterceptorType() models.TypeRef
}

// MethodValidator is optionally implemented by handlers that restrict
// which methods may carry their annotation. A non-nil error rejects the
// specific usage; the method stays eligible for other annotations.
type MethodValidator interface {
	ValidateMethod(method *models.MethodElement) error
}

// PostProcessor is optionally implemented by handlers that need
// cross-class bookkeeping. It is invoked exactly once per run, after all
// generation, with the subset of classes that carry the handler's
// annotation.
type PostProcessor interface {
	PostProcess(ctx *PostContext, bindings *models.ClassBindingGroup) error
}

// PostContext carries run-level information into PostProcess hooks
type PostContext struct {
	ModuleName     string // module path of the scanned project
	ManifestArmed  bool   // whether the registration manifest option is set
	Diagnostics    *utils.DiagnosticSystem
}
