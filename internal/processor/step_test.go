package processor

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/x3333/intercept/internal/annotations"
	"github.com/x3333/intercept/internal/models"
	"github.com/x3333/intercept/internal/registry"
	"github.com/x3333/intercept/internal/utils"
)

// fakeHandler is a configurable handler for pipeline tests
type fakeHandler struct {
	spec           annotations.Spec
	validateErr    error
	postProcessErr error

	postProcessed []*models.ClassBindingGroup
}

func (h *fakeHandler) Annotation() annotations.Spec {
	return h.spec
}

func (h *fakeHandler) InterceptorType() models.TypeRef {
	return models.TypeRef{PackagePath: "example.com/runtime", Name: "FakeInterceptor"}
}

// validatingHandler adds a MethodValidator implementation
type validatingHandler struct {
	fakeHandler
}

func (h *validatingHandler) ValidateMethod(method *models.MethodElement) error {
	return h.validateErr
}

// postProcessingHandler adds a PostProcessor implementation
type postProcessingHandler struct {
	fakeHandler
}

func (h *postProcessingHandler) PostProcess(ctx *registry.PostContext, bindings *models.ClassBindingGroup) error {
	h.postProcessed = append(h.postProcessed, bindings)
	return h.postProcessErr
}

func newTestStep(handlers ...registry.InterceptorHandler) (*Step, *utils.DiagnosticSystem, *bytes.Buffer) {
	var buf bytes.Buffer
	diagnostics := utils.NewTestDiagnostics(&buf)
	return NewStep(registry.NewHandlerRegistry(handlers...), diagnostics), diagnostics, &buf
}

func methodElement(className, methodName string, results int, returnsError bool) *models.Element {
	class := &models.TypeElement{
		Name:        className,
		PackageName: "svc",
		PackagePath: "example.com/app/svc",
	}
	method := &models.MethodElement{
		Name:         methodName,
		Receiver:     className,
		PackageName:  "svc",
		PackagePath:  "example.com/app/svc",
		ReturnsError: returnsError,
		HasBody:      true,
	}
	for i := 0; i < results; i++ {
		method.Results = append(method.Results, models.Result{Type: "string"})
	}
	return &models.Element{
		Kind:     models.KindMethod,
		Name:     className + "." + methodName,
		Location: models.SourceLocation{File: "service.go", Line: 10},
		Method:   method,
		Class:    class,
	}
}

func TestProcessBindsEveryValidUsage(t *testing.T) {
	step, diagnostics, _ := newTestStep(
		&fakeHandler{spec: annotations.Spec{Name: "log"}},
		&fakeHandler{spec: annotations.Spec{Name: "timing"}},
	)

	charge := methodElement("PaymentService", "Charge", 1, true)
	balance := methodElement("PaymentService", "Balance", 1, false)

	group := step.Process(map[string][]*models.Element{
		"log":    {charge, balance},
		"timing": {balance},
	})

	if diagnostics.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %d", diagnostics.ErrorCount())
	}
	entries := group.Classes()
	if len(entries) != 1 {
		t.Fatalf("expected 1 class, got %d", len(entries))
	}
	bindings := entries[0].Bindings
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}

	// Sorted by method name: Balance carries both annotations.
	if bindings[0].Method.Name != "Balance" {
		t.Fatalf("expected Balance first, got %s", bindings[0].Method.Name)
	}
	if want := []string{"log", "timing"}; !reflect.DeepEqual(bindings[0].Annotations, want) {
		t.Errorf("expected Balance annotations %v, got %v", want, bindings[0].Annotations)
	}
	if want := []string{"log"}; !reflect.DeepEqual(bindings[1].Annotations, want) {
		t.Errorf("expected Charge annotations %v, got %v", want, bindings[1].Annotations)
	}
}

func TestProcessSkipsNonMethodElements(t *testing.T) {
	step, diagnostics, buf := newTestStep(&fakeHandler{spec: annotations.Spec{Name: "log"}})

	group := step.Process(map[string][]*models.Element{
		"log": {
			{Kind: models.KindType, Name: "Config", Location: models.SourceLocation{File: "config.go", Line: 3}},
			{Kind: models.KindField, Name: "Config.Name", Location: models.SourceLocation{File: "config.go", Line: 5}},
			{Kind: models.KindFunction, Name: "Helper", Location: models.SourceLocation{File: "util.go", Line: 8}},
		},
	})

	if group.Len() != 0 {
		t.Errorf("expected no bindings, got %d classes", group.Len())
	}
	if diagnostics.WarningCount() != 3 {
		t.Errorf("expected 3 warnings, got %d", diagnostics.WarningCount())
	}
	if diagnostics.ErrorCount() != 0 {
		t.Errorf("misplaced annotations must warn, not error, got %d errors", diagnostics.ErrorCount())
	}
	if !strings.Contains(buf.String(), "only methods can be intercepted") {
		t.Errorf("expected a skip reason, got: %s", buf.String())
	}
}

func TestProcessSkipsGeneratedClasses(t *testing.T) {
	step, diagnostics, _ := newTestStep(&fakeHandler{spec: annotations.Spec{Name: "log"}})

	element := methodElement("InterceptedService", "Do", 0, false)
	element.Class.FromGenerated = true

	group := step.Process(map[string][]*models.Element{"log": {element}})
	if group.Len() != 0 {
		t.Error("methods in generated files must not be re-bound")
	}
	if diagnostics.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", diagnostics.WarningCount())
	}
}

func TestProcessSkipsBodylessMethods(t *testing.T) {
	step, diagnostics, _ := newTestStep(&fakeHandler{spec: annotations.Spec{Name: "log"}})

	element := methodElement("Service", "Do", 0, false)
	element.Method.HasBody = false

	group := step.Process(map[string][]*models.Element{"log": {element}})
	if group.Len() != 0 {
		t.Error("bodyless methods must not be bound")
	}
	if diagnostics.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", diagnostics.WarningCount())
	}
}

func TestProcessRejectsMultipleResults(t *testing.T) {
	step, diagnostics, buf := newTestStep(&fakeHandler{spec: annotations.Spec{Name: "log"}})

	element := methodElement("Service", "Pair", 2, true)
	group := step.Process(map[string][]*models.Element{"log": {element}})

	if group.Len() != 0 {
		t.Error("methods with several non-error results must be rejected")
	}
	if diagnostics.ErrorCount() != 1 {
		t.Errorf("expected a hard error, got %d", diagnostics.ErrorCount())
	}
	if !strings.Contains(buf.String(), "more than one non-error result") {
		t.Errorf("expected the rejection reason, got: %s", buf.String())
	}
}

func TestProcessHandlerValidationIsolation(t *testing.T) {
	rejecting := &validatingHandler{}
	rejecting.spec = annotations.Spec{Name: "transactional"}
	rejecting.validateErr = errors.New("transactional methods must return an error")

	step, diagnostics, _ := newTestStep(
		&fakeHandler{spec: annotations.Spec{Name: "log"}},
		rejecting,
	)

	// One method carries both annotations; only transactional rejects it.
	element := methodElement("Service", "Balance", 1, false)
	group := step.Process(map[string][]*models.Element{
		"log":           {element},
		"transactional": {element},
	})

	if diagnostics.ErrorCount() != 1 {
		t.Fatalf("expected 1 error from the rejecting handler, got %d", diagnostics.ErrorCount())
	}
	entries := group.Classes()
	if len(entries) != 1 || len(entries[0].Bindings) != 1 {
		t.Fatal("expected the method to stay bound for the accepting annotation")
	}
	binding := entries[0].Bindings[0]
	if !binding.HasAnnotation("log") || binding.HasAnnotation("transactional") {
		t.Errorf("expected only the log annotation to survive, got %v", binding.Annotations)
	}
}

func TestProcessExcludesNonRuntimeRetention(t *testing.T) {
	step, diagnostics, buf := newTestStep(&fakeHandler{spec: annotations.Spec{
		Name:      "sourceonly",
		Retention: annotations.RetentionSource,
	}})

	group := step.Process(map[string][]*models.Element{
		"sourceonly": {methodElement("Service", "Do", 0, false)},
	})
	if group.Len() != 0 {
		t.Error("handlers with source retention must be excluded")
	}
	if diagnostics.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", diagnostics.WarningCount())
	}
	if !strings.Contains(buf.String(), "runtime retention") {
		t.Errorf("expected the exclusion reason, got: %s", buf.String())
	}
}

func TestProcessExcludesNonMethodTargets(t *testing.T) {
	step, diagnostics, _ := newTestStep(&fakeHandler{spec: annotations.Spec{
		Name:    "typelevel",
		Targets: []annotations.Target{annotations.TargetType},
	}})

	group := step.Process(map[string][]*models.Element{
		"typelevel": {methodElement("Service", "Do", 0, false)},
	})
	if group.Len() != 0 {
		t.Error("handlers targeting non-methods must be excluded")
	}
	if diagnostics.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", diagnostics.WarningCount())
	}
}

func TestProcessAcceptsExplicitMethodTarget(t *testing.T) {
	step, diagnostics, _ := newTestStep(&fakeHandler{spec: annotations.Spec{
		Name:      "log",
		Retention: annotations.RetentionRuntime,
		Targets:   []annotations.Target{annotations.TargetMethod},
	}})

	group := step.Process(map[string][]*models.Element{
		"log": {methodElement("Service", "Do", 0, false)},
	})
	if group.Len() != 1 {
		t.Error("explicit runtime retention and method target must be accepted")
	}
	if diagnostics.WarningCount() != 0 {
		t.Errorf("expected no warnings, got %d", diagnostics.WarningCount())
	}
}

func TestProcessWarnsWithoutHandlers(t *testing.T) {
	step, diagnostics, buf := newTestStep()

	group := step.Process(map[string][]*models.Element{
		"log": {methodElement("Service", "Do", 0, false)},
	})
	if group.Len() != 0 {
		t.Error("expected no bindings without handlers")
	}
	if diagnostics.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", diagnostics.WarningCount())
	}
	if !strings.Contains(buf.String(), "no interceptor handlers registered") {
		t.Errorf("expected the empty-registry warning, got: %s", buf.String())
	}
}

func TestProcessIgnoresUnknownAnnotations(t *testing.T) {
	step, diagnostics, _ := newTestStep(&fakeHandler{spec: annotations.Spec{Name: "log"}})

	group := step.Process(map[string][]*models.Element{
		"unknown": {methodElement("Service", "Do", 0, false)},
	})
	if group.Len() != 0 {
		t.Error("annotations without handlers must be ignored")
	}
	if diagnostics.WarningCount() != 0 || diagnostics.ErrorCount() != 0 {
		t.Error("unknown annotations are not diagnosed by the processor")
	}
}

func TestPostProcessReceivesFilteredSubset(t *testing.T) {
	logHandler := &postProcessingHandler{}
	logHandler.spec = annotations.Spec{Name: "log"}
	timingHandler := &postProcessingHandler{}
	timingHandler.spec = annotations.Spec{Name: "timing"}

	step, _, _ := newTestStep(logHandler, timingHandler)

	charge := methodElement("PaymentService", "Charge", 1, true)
	place := methodElement("OrderService", "Place", 0, true)
	group := step.Process(map[string][]*models.Element{
		"log":    {charge, place},
		"timing": {charge},
	})

	step.PostProcess(&registry.PostContext{ModuleName: "example.com/app"}, group)

	if len(logHandler.postProcessed) != 1 {
		t.Fatalf("expected exactly one post-process call, got %d", len(logHandler.postProcessed))
	}
	if logHandler.postProcessed[0].Len() != 2 {
		t.Errorf("expected both classes in the log subset, got %d", logHandler.postProcessed[0].Len())
	}
	if len(timingHandler.postProcessed) != 1 || timingHandler.postProcessed[0].Len() != 1 {
		t.Error("expected only the timing-annotated class in the timing subset")
	}
}

func TestPostProcessFailureIsReported(t *testing.T) {
	failing := &postProcessingHandler{}
	failing.spec = annotations.Spec{Name: "log"}
	failing.postProcessErr = errors.New("manifest write failed")
	other := &postProcessingHandler{}
	other.spec = annotations.Spec{Name: "timing"}

	step, diagnostics, buf := newTestStep(failing, other)
	group := step.Process(map[string][]*models.Element{})

	step.PostProcess(&registry.PostContext{}, group)

	if diagnostics.ErrorCount() != 1 {
		t.Errorf("expected the failure to be reported, got %d errors", diagnostics.ErrorCount())
	}
	if !strings.Contains(buf.String(), "post-processing") {
		t.Errorf("expected a post-processing error, got: %s", buf.String())
	}
	if len(other.postProcessed) != 1 {
		t.Error("one failing hook must not stop other handlers")
	}
}
