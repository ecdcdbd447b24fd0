package intercept

import (
	"log"
	"os"
	"time"
)

// TimingInterceptor measures the duration of every intercepted call.
// It backs the built-in timing annotation.
type TimingInterceptor struct {
	report func(typeName, method string, elapsed time.Duration)
}

// NewTimingInterceptor creates a timing interceptor that logs durations
// to stderr
func NewTimingInterceptor() *TimingInterceptor {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	return &TimingInterceptor{
		report: func(typeName, method string, elapsed time.Duration) {
			logger.Printf("%s.%s took %s", typeName, method, elapsed)
		},
	}
}

// NewTimingInterceptorWithReporter creates a timing interceptor invoking
// the given callback with every measurement
func NewTimingInterceptorWithReporter(report func(typeName, method string, elapsed time.Duration)) *TimingInterceptor {
	return &TimingInterceptor{report: report}
}

// Invoke implements MethodInterceptor
func (i *TimingInterceptor) Invoke(inv *Invocation) (interface{}, error) {
	start := time.Now()
	result, err := inv.Proceed()
	i.report(inv.TypeName, inv.Method, time.Since(start))
	return result, err
}
