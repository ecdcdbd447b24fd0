package handlers

import (
	"github.com/x3333/intercept/internal/annotations"
	"github.com/x3333/intercept/internal/models"
)

// LoggingHandler binds the log annotation to the logging interceptor.
// Any method may carry it.
type LoggingHandler struct{}

// NewLoggingHandler creates the log annotation handler
func NewLoggingHandler() *LoggingHandler {
	return &LoggingHandler{}
}

// Annotation implements registry.InterceptorHandler
func (h *LoggingHandler) Annotation() annotations.Spec {
	return annotations.Spec{
		Name:        "log",
		Description: "Logs one line before and one line after the call",
		Retention:   annotations.RetentionRuntime,
		Targets:     []annotations.Target{annotations.TargetMethod},
	}
}

// InterceptorType implements registry.InterceptorHandler
func (h *LoggingHandler) InterceptorType() models.TypeRef {
	return models.TypeRef{PackagePath: interceptPkg, Name: "LoggingInterceptor"}
}
