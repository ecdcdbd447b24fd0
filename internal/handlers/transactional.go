package handlers

import (
	"fmt"

	"github.com/x3333/intercept/internal/annotations"
	"github.com/x3333/intercept/internal/models"
	"github.com/x3333/intercept/internal/registry"
)

// TransactionalHandler binds the transactional annotation to the
// transactional interceptor. It only accepts methods with an error
// result: begin, commit and rollback failures must have somewhere to
// surface.
type TransactionalHandler struct{}

// NewTransactionalHandler creates the transactional annotation handler
func NewTransactionalHandler() *TransactionalHandler {
	return &TransactionalHandler{}
}

// Annotation implements registry.InterceptorHandler
func (h *TransactionalHandler) Annotation() annotations.Spec {
	return annotations.Spec{
		Name:        "transactional",
		Description: "Wraps the call in a transaction, rolling back on error",
		Retention:   annotations.RetentionRuntime,
		Targets:     []annotations.Target{annotations.TargetMethod},
	}
}

// InterceptorType implements registry.InterceptorHandler
func (h *TransactionalHandler) InterceptorType() models.TypeRef {
	return models.TypeRef{PackagePath: interceptPkg, Name: "TransactionalInterceptor"}
}

// ValidateMethod implements registry.MethodValidator
func (h *TransactionalHandler) ValidateMethod(method *models.MethodElement) error {
	if !method.ReturnsError {
		return fmt.Errorf("transactional methods must return an error, %s.%s does not",
			method.Receiver, method.Name)
	}
	return nil
}

// PostProcess implements registry.PostProcessor
func (h *TransactionalHandler) PostProcess(ctx *registry.PostContext, bindings *models.ClassBindingGroup) error {
	for _, entry := range bindings.Classes() {
		ctx.Diagnostics.Verbose("transactional: %s has %d transactional method(s)",
			entry.Class.Key(), len(entry.Bindings))
	}
	return nil
}
