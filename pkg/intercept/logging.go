package intercept

import (
	"log"
	"os"
)

// LoggingInterceptor logs one line before and one line after every
// intercepted call. It backs the built-in log annotation.
type LoggingInterceptor struct {
	logger *log.Logger
}

// NewLoggingInterceptor creates a logging interceptor writing to stderr
func NewLoggingInterceptor() *LoggingInterceptor {
	return &LoggingInterceptor{
		logger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// NewLoggingInterceptorWithLogger creates a logging interceptor writing
// to the given logger
func NewLoggingInterceptorWithLogger(logger *log.Logger) *LoggingInterceptor {
	return &LoggingInterceptor{logger: logger}
}

// Invoke implements MethodInterceptor
func (i *LoggingInterceptor) Invoke(inv *Invocation) (interface{}, error) {
	i.logger.Printf("calling %s.%s", inv.TypeName, inv.Method)
	result, err := inv.Proceed()
	if err != nil {
		i.logger.Printf("%s.%s failed: %v", inv.TypeName, inv.Method, err)
		return result, err
	}
	i.logger.Printf("%s.%s returned", inv.TypeName, inv.Method)
	return result, nil
}
