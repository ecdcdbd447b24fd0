package processor

import (
	"github.com/x3333/intercept/internal/annotations"
	"github.com/x3333/intercept/internal/models"
	"github.com/x3333/intercept/internal/registry"
)

// validateAnnotationSpec checks a handler's annotation metadata. An
// annotation that declares a non-runtime retention or a target set other
// than exactly {method} is excluded from the entire run with a warning.
// Unspecified metadata is accepted.
func (s *Step) validateAnnotationSpec(handler registry.InterceptorHandler) bool {
	spec := handler.Annotation()

	if spec.Retention != annotations.RetentionUnspecified && spec.Retention != annotations.RetentionRuntime {
		s.diagnostics.Warn("annotation %q must have runtime retention, ignoring its handler", spec.Name)
		return false
	}

	if len(spec.Targets) > 0 {
		if len(spec.Targets) != 1 || spec.Targets[0] != annotations.TargetMethod {
			s.diagnostics.Warn("annotation %q must target methods only, ignoring its handler", spec.Name)
			return false
		}
	}

	return true
}

// validateElement checks one annotated declaration against a handler.
// Structural problems are warnings; a handler rejection is an error tied
// to the method. Either way the element is excluded for this annotation
// only.
func (s *Step) validateElement(handler registry.InterceptorHandler, annotationName string, element *models.Element) bool {
	if element.Kind != models.KindMethod {
		s.diagnostics.WarnAt(element.Location.String(),
			"ignoring %q annotation on %s %s, only methods can be intercepted",
			annotationName, element.Kind, element.Name)
		return false
	}

	if element.Class.FromGenerated {
		s.diagnostics.WarnAt(element.Location.String(),
			"ignoring %q annotation on %s, declared in generated code",
			annotationName, element.Name)
		return false
	}

	if !element.Method.HasBody {
		s.diagnostics.WarnAt(element.Location.String(),
			"ignoring %q annotation on %s, method has no body to intercept",
			annotationName, element.Name)
		return false
	}

	if len(element.Method.Results) > 1 {
		s.diagnostics.ErrorAt(element.Location.String(),
			"cannot intercept %s: methods with more than one non-error result are not supported",
			element.Name)
		return false
	}

	if validator, ok := handler.(registry.MethodValidator); ok {
		if err := validator.ValidateMethod(element.Method); err != nil {
			s.diagnostics.ErrorAt(element.Location.String(), "%v", err)
			return false
		}
	}

	return true
}
