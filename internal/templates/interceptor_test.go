package templates

import (
	"strings"
	"testing"

	"github.com/x3333/intercept/internal/models"
)

func paymentClass() *models.TypeElement {
	return &models.TypeElement{
		Name:        "PaymentService",
		PackageName: "payments",
		PackagePath: "example.com/app/payments",
	}
}

func binding(class *models.TypeElement, method *models.MethodElement, annotationNames ...string) *models.MethodBinding {
	builder := models.NewBindingBuilder(method, class)
	for _, name := range annotationNames {
		builder.AddAnnotation(name)
	}
	return builder.Build()
}

func TestGenerateInterceptorFileHeader(t *testing.T) {
	class := paymentClass()
	content, err := GenerateInterceptorFile(class, []*models.MethodBinding{
		binding(class, &models.MethodElement{Name: "Do", Receiver: class.Name, HasBody: true}, "log"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(content, Header+"\n") {
		t.Error("generated file must start with the generated-code marker")
	}
	if !strings.Contains(content, "package payments\n") {
		t.Error("expected the package clause")
	}
	if !strings.Contains(content, `"`+RuntimePackage+`"`) {
		t.Error("expected the runtime import")
	}
}

func TestGenerateInterceptorFileNoBindings(t *testing.T) {
	if _, err := GenerateInterceptorFile(paymentClass(), nil); err == nil {
		t.Error("expected an error for a class without bindings")
	}
}

func TestGenerateWrapperTypeAndConstructor(t *testing.T) {
	class := paymentClass()
	content, err := GenerateInterceptorFile(class, []*models.MethodBinding{
		binding(class, &models.MethodElement{Name: "Do", Receiver: class.Name, HasBody: true}, "timing", "log"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(content, "type InterceptedPaymentService struct {") {
		t.Error("expected the wrapper type declaration")
	}
	if !strings.Contains(content, "*PaymentService") {
		t.Error("expected the original type to be embedded")
	}

	// Constructor parameters in alphabetical annotation order.
	if !strings.Contains(content,
		"func NewInterceptedPaymentService(delegate *PaymentService, logInterceptor intercept.MethodInterceptor, timingInterceptor intercept.MethodInterceptor) *InterceptedPaymentService {") {
		t.Errorf("unexpected constructor:\n%s", content)
	}
}

func TestGenerateOverrideValueAndError(t *testing.T) {
	class := paymentClass()
	method := &models.MethodElement{
		Name:         "Charge",
		Receiver:     class.Name,
		Params:       []models.Param{{Name: "id", Type: "string"}, {Name: "amount", Type: "float64"}},
		Results:      []models.Result{{Type: "string"}},
		ReturnsError: true,
		HasBody:      true,
	}
	content, err := GenerateInterceptorFile(class, []*models.MethodBinding{binding(class, method, "log")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(content, "func (w *InterceptedPaymentService) Charge(id string, amount float64) (string, error) {") {
		t.Errorf("override signature must match the original:\n%s", content)
	}
	if !strings.Contains(content, "w.PaymentService.Charge(id, amount)") {
		t.Error("expected the call to be delegated to the embedded original")
	}
	if !strings.Contains(content, "result, err := intercept.Chain([]intercept.MethodInterceptor{w.logInterceptor}, inv)") {
		t.Error("expected the chain call with the method's interceptor")
	}
	if !strings.Contains(content, "var zero string") || !strings.Contains(content, "return result.(string), nil") {
		t.Errorf("expected the typed result paths:\n%s", content)
	}
}

func TestGenerateOverrideValueOnly(t *testing.T) {
	class := paymentClass()
	method := &models.MethodElement{
		Name:     "Balance",
		Receiver: class.Name,
		Params:   []models.Param{{Name: "account", Type: "string"}},
		Results:  []models.Result{{Type: "float64"}},
		HasBody:  true,
	}
	content, err := GenerateInterceptorFile(class, []*models.MethodBinding{binding(class, method, "log")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(content, "func (w *InterceptedPaymentService) Balance(account string) float64 {") {
		t.Errorf("unexpected signature:\n%s", content)
	}
	if !strings.Contains(content, "result := intercept.MustResult(") {
		t.Error("methods without an error result must use the unchecked path")
	}
	if !strings.Contains(content, "return result.(float64)") {
		t.Error("expected the typed return")
	}
}

func TestGenerateOverrideErrorOnly(t *testing.T) {
	class := paymentClass()
	method := &models.MethodElement{
		Name:         "Refund",
		Receiver:     class.Name,
		Params:       []models.Param{{Name: "id", Type: "string"}},
		ReturnsError: true,
		HasBody:      true,
	}
	content, err := GenerateInterceptorFile(class, []*models.MethodBinding{binding(class, method, "transactional")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(content, "func (w *InterceptedPaymentService) Refund(id string) error {") {
		t.Errorf("unexpected signature:\n%s", content)
	}
	if !strings.Contains(content, "return nil, w.PaymentService.Refund(id)") {
		t.Error("expected the error-only delegation shape")
	}
	if !strings.Contains(content, "_, err := intercept.Chain(") || !strings.Contains(content, "return err") {
		t.Error("expected the error to be returned from the chain")
	}
}

func TestGenerateOverrideVoid(t *testing.T) {
	class := paymentClass()
	method := &models.MethodElement{
		Name:     "Reset",
		Receiver: class.Name,
		HasBody:  true,
	}
	content, err := GenerateInterceptorFile(class, []*models.MethodBinding{binding(class, method, "log")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(content, "func (w *InterceptedPaymentService) Reset() {") {
		t.Errorf("unexpected signature:\n%s", content)
	}
	if !strings.Contains(content, "intercept.MustResult(intercept.Chain(") {
		t.Error("void methods still run the chain through the unchecked path")
	}
}

func TestGenerateChainOrderIsAlphabetical(t *testing.T) {
	class := paymentClass()
	method := &models.MethodElement{
		Name:     "Do",
		Receiver: class.Name,
		HasBody:  true,
	}
	// Annotations added out of order; the chain must come out sorted.
	content, err := GenerateInterceptorFile(class, []*models.MethodBinding{
		binding(class, method, "timing", "audit", "log"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(content, "[]intercept.MethodInterceptor{w.auditInterceptor, w.logInterceptor, w.timingInterceptor}") {
		t.Errorf("expected the chain in alphabetical annotation order:\n%s", content)
	}
}

func TestGenerateVariadicDelegation(t *testing.T) {
	class := paymentClass()
	method := &models.MethodElement{
		Name:     "Tag",
		Receiver: class.Name,
		Params:   []models.Param{{Name: "id", Type: "string"}, {Name: "labels", Type: "...string"}},
		HasBody:  true,
	}
	content, err := GenerateInterceptorFile(class, []*models.MethodBinding{binding(class, method, "log")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(content, "Tag(id string, labels ...string)") {
		t.Errorf("unexpected signature:\n%s", content)
	}
	if !strings.Contains(content, "w.PaymentService.Tag(id, labels...)") {
		t.Error("variadic arguments must be spread in the delegated call")
	}
}

func TestGenerateSignatureImports(t *testing.T) {
	class := paymentClass()
	method := &models.MethodElement{
		Name:     "Fetch",
		Receiver: class.Name,
		Params:   []models.Param{{Name: "ctx", Type: "context.Context"}, {Name: "req", Type: "dto.Request"}},
		Imports: []models.Import{
			{Path: "context"},
			{Alias: "dto", Path: "example.com/app/types"},
		},
		ReturnsError: true,
		HasBody:      true,
	}
	content, err := GenerateInterceptorFile(class, []*models.MethodBinding{binding(class, method, "log")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(content, "\t\"context\"\n") {
		t.Error("expected the context import")
	}
	if !strings.Contains(content, "\tdto \"example.com/app/types\"\n") {
		t.Error("expected the aliased import")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	class := paymentClass()
	bindings := []*models.MethodBinding{
		binding(class, &models.MethodElement{Name: "Charge", Receiver: class.Name, ReturnsError: true, HasBody: true}, "log", "timing"),
		binding(class, &models.MethodElement{Name: "Refund", Receiver: class.Name, ReturnsError: true, HasBody: true}, "transactional"),
	}

	first, err := GenerateInterceptorFile(class, bindings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := GenerateInterceptorFile(class, bindings)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatal("repeated rendering of identical input must be byte-identical")
		}
	}
}
