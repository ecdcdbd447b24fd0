// Package intercept is the runtime contract that generated wrapper types
// link against. The generator emits, for every intercepted method, an
// override that builds an Invocation around the original call and runs it
// through the interceptor chain matched to the method's annotations.
package intercept

// ProceedFunc calls the next layer of an invocation: either the next
// interceptor in the chain or, at the innermost layer, the original
// method implementation.
type ProceedFunc func() (interface{}, error)

// Invocation describes one intercepted method call. The result of Proceed
// is the single non-error return value of the method, or nil for methods
// without one.
type Invocation struct {
	// TypeName is the name of the type declaring the method
	TypeName string

	// Method is the name of the intercepted method
	Method string

	// Args are the call arguments in declaration order. Interceptors
	// may inspect them; the generated code passes the original typed
	// values to the underlying call, so mutating Args has no effect.
	Args []interface{}

	proceed ProceedFunc
}

// NewInvocation creates an invocation for one method call. The proceed
// function invokes the original implementation.
func NewInvocation(typeName, method string, args []interface{}, proceed ProceedFunc) *Invocation {
	return &Invocation{
		TypeName: typeName,
		Method:   method,
		Args:     args,
		proceed:  proceed,
	}
}

// Proceed runs the next layer of the call and returns its result. An
// interceptor that never calls Proceed suppresses the original method;
// an interceptor that calls it more than once runs it more than once.
func (inv *Invocation) Proceed() (interface{}, error) {
	return inv.proceed()
}

// MethodInterceptor wraps one intercepted method call. Implementations
// run their before logic, call inv.Proceed, run their after logic, and
// return the (possibly translated) result. Returning an error without
// calling Proceed cancels the call. Errors from Proceed must be returned
// unmodified unless the interceptor intentionally translates them.
type MethodInterceptor interface {
	Invoke(inv *Invocation) (interface{}, error)
}

// InterceptorFunc adapts a function to the MethodInterceptor interface
type InterceptorFunc func(inv *Invocation) (interface{}, error)

// Invoke implements MethodInterceptor
func (f InterceptorFunc) Invoke(inv *Invocation) (interface{}, error) {
	return f(inv)
}

// Chain runs an invocation through the given interceptors. The first
// interceptor is outermost: its before logic runs first and its after
// logic runs last. With no interceptors the original call runs directly.
func Chain(interceptors []MethodInterceptor, inv *Invocation) (interface{}, error) {
	next := inv
	for i := len(interceptors) - 1; i >= 0; i-- {
		interceptor := interceptors[i]
		inner := next
		next = &Invocation{
			TypeName: inv.TypeName,
			Method:   inv.Method,
			Args:     inv.Args,
			proceed: func() (interface{}, error) {
				return interceptor.Invoke(inner)
			},
		}
	}
	return next.Proceed()
}

// MustResult panics when a chain returned an error for a method whose
// signature has no error result. This is the unchecked propagation path:
// generated overrides of error-returning methods pass the error through
// instead.
func MustResult(result interface{}, err error) interface{} {
	if err != nil {
		panic(err)
	}
	return result
}
