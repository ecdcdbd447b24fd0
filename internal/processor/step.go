// Package processor is the pipeline step between the source scanner and
// the generator: it validates annotation usage, aggregates validated
// matches into per-method bindings and groups them by enclosing class.
package processor

import (
	"github.com/x3333/intercept/internal/models"
	"github.com/x3333/intercept/internal/registry"
	"github.com/x3333/intercept/internal/utils"
)

// Step processes one generation run. Handlers are fixed at construction;
// all other state is local to a single Process call.
type Step struct {
	handlers    map[string]registry.InterceptorHandler
	names       []string
	diagnostics *utils.DiagnosticSystem
}

// NewStep creates a processing step over the given handler registry
func NewStep(handlerRegistry registry.HandlerRegistry, diagnostics *utils.DiagnosticSystem) *Step {
	return &Step{
		handlers:    handlerRegistry.Discover(),
		names:       handlerRegistry.AnnotationNames(),
		diagnostics: diagnostics,
	}
}

// Handlers returns the discovered handler mapping
func (s *Step) Handlers() map[string]registry.InterceptorHandler {
	return s.handlers
}

// Process turns the scanner's annotation multimap into the class binding
// group. Annotations are processed in alphabetical order; a method
// carrying several recognized annotations ends up with a single binding
// holding all of them. Invalid usages are reported and excluded without
// affecting other annotations on the same method.
func (s *Step) Process(elementsByAnnotation map[string][]*models.Element) *models.ClassBindingGroup {
	if len(s.handlers) == 0 {
		s.diagnostics.Warn("no interceptor handlers registered, nothing will be generated")
	}

	builders := make(map[string]*models.BindingBuilder)
	order := make([]string, 0)

	for _, name := range s.names {
		handler := s.handlers[name]
		if !s.validateAnnotationSpec(handler) {
			continue
		}

		for _, element := range elementsByAnnotation[name] {
			if !s.validateElement(handler, name, element) {
				continue
			}

			key := element.Method.Key()
			builder, ok := builders[key]
			if !ok {
				builder = models.NewBindingBuilder(element.Method, element.Class)
				builders[key] = builder
				order = append(order, key)
			}
			builder.AddAnnotation(name)
		}
	}

	group := models.NewClassBindingGroup()
	for _, key := range order {
		group.Add(builders[key].Build())
	}
	return group
}

// PostProcess invokes every handler's post-processing hook exactly once,
// with the subset of classes carrying that handler's annotation. Hook
// failures are reported and do not affect other handlers.
func (s *Step) PostProcess(ctx *registry.PostContext, group *models.ClassBindingGroup) {
	for _, name := range s.names {
		postProcessor, ok := s.handlers[name].(registry.PostProcessor)
		if !ok {
			continue
		}
		subset := group.FilterByAnnotation(name)
		if err := postProcessor.PostProcess(ctx, subset); err != nil {
			s.diagnostics.Error("post-processing for annotation %q failed: %v", name, err)
		}
	}
}
