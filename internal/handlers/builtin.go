// Package handlers ships the interceptor handlers built into the tool.
// Each handler binds one intercept:: annotation to a MethodInterceptor
// implementation from pkg/intercept. Additional handlers are wired in by
// extending the Builtin list; there is no runtime discovery.
package handlers

import "github.com/x3333/intercept/internal/registry"

const interceptPkg = "github.com/x3333/intercept/pkg/intercept"

// Builtin returns the handlers registered by default
func Builtin() []registry.InterceptorHandler {
	return []registry.InterceptorHandler{
		NewLoggingHandler(),
		NewTimingHandler(),
		NewTransactionalHandler(),
	}
}
