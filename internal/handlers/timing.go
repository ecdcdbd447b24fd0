package handlers

import (
	"github.com/x3333/intercept/internal/annotations"
	"github.com/x3333/intercept/internal/models"
)

// TimingHandler binds the timing annotation to the timing interceptor
type TimingHandler struct{}

// NewTimingHandler creates the timing annotation handler
func NewTimingHandler() *TimingHandler {
	return &TimingHandler{}
}

// Annotation implements registry.InterceptorHandler
func (h *TimingHandler) Annotation() annotations.Spec {
	return annotations.Spec{
		Name:        "timing",
		Description: "Measures and reports the duration of the call",
		Retention:   annotations.RetentionRuntime,
		Targets:     []annotations.Target{annotations.TargetMethod},
	}
}

// InterceptorType implements registry.InterceptorHandler
func (h *TimingHandler) InterceptorType() models.TypeRef {
	return models.TypeRef{PackagePath: interceptPkg, Name: "TimingInterceptor"}
}
