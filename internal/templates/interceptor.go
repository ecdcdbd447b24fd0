// Package templates renders generated wrapper files. The generator hands
// it a class and its bindings; everything here is plain text assembly
// with deterministic ordering, formatting happens later in the emitter.
package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/x3333/intercept/internal/models"
)

// RuntimePackage is the import path of the runtime contract generated
// code links against
const RuntimePackage = "github.com/x3333/intercept/pkg/intercept"

// Header is the first line of every generated file. It matches the Go
// generated-code convention, which is also what keeps the scanner from
// re-processing our own output.
const Header = "// Code generated by intercept. DO NOT EDIT."

// GenerateInterceptorFile renders the wrapper source for one class.
// Bindings must be non-empty; callers never render classes without valid
// bindings.
func GenerateInterceptorFile(class *models.TypeElement, bindings []*models.MethodBinding) (string, error) {
	if len(bindings) == 0 {
		return "", fmt.Errorf("class %s has no bindings to generate", class.Name)
	}

	wrapperName := "Intercepted" + class.Name
	classAnnotations := collectAnnotations(bindings)

	var b strings.Builder
	b.WriteString(Header + "\n")
	b.WriteString("// This file was automatically generated and should not be modified manually.\n\n")
	b.WriteString(fmt.Sprintf("package %s\n\n", class.PackageName))

	writeImports(&b, bindings)
	writeWrapperType(&b, class, wrapperName, classAnnotations)
	writeConstructor(&b, class, wrapperName, classAnnotations)

	for _, binding := range bindings {
		writeOverride(&b, class, wrapperName, binding)
	}

	return b.String(), nil
}

// collectAnnotations returns the distinct annotations across all of a
// class's bindings, alphabetically. This fixes the field and constructor
// parameter order.
func collectAnnotations(bindings []*models.MethodBinding) []string {
	seen := make(map[string]struct{})
	for _, binding := range bindings {
		for _, name := range binding.Annotations {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writeImports emits the runtime import plus every import the rendered
// signatures reference, deduplicated by path.
func writeImports(b *strings.Builder, bindings []*models.MethodBinding) {
	byPath := map[string]models.Import{
		RuntimePackage: {Path: RuntimePackage},
	}
	for _, binding := range bindings {
		for _, imp := range binding.Method.Imports {
			byPath[imp.Path] = imp
		}
	}

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	b.WriteString("import (\n")
	for _, path := range paths {
		imp := byPath[path]
		if imp.Alias != "" {
			b.WriteString(fmt.Sprintf("\t%s %q\n", imp.Alias, imp.Path))
		} else {
			b.WriteString(fmt.Sprintf("\t%q\n", imp.Path))
		}
	}
	b.WriteString(")\n\n")
}

func writeWrapperType(b *strings.Builder, class *models.TypeElement, wrapperName string, classAnnotations []string) {
	b.WriteString(fmt.Sprintf("// %s wraps %s, applying the interceptors matched to its\n", wrapperName, class.Name))
	b.WriteString("// annotated methods.\n")
	b.WriteString(fmt.Sprintf("type %s struct {\n", wrapperName))
	b.WriteString(fmt.Sprintf("\t*%s\n\n", class.Name))
	for _, name := range classAnnotations {
		b.WriteString(fmt.Sprintf("\t%s intercept.MethodInterceptor\n", fieldName(name)))
	}
	b.WriteString("}\n\n")
}

func writeConstructor(b *strings.Builder, class *models.TypeElement, wrapperName string, classAnnotations []string) {
	params := make([]string, 0, len(classAnnotations)+1)
	params = append(params, fmt.Sprintf("delegate *%s", class.Name))
	for _, name := range classAnnotations {
		params = append(params, fmt.Sprintf("%s intercept.MethodInterceptor", fieldName(name)))
	}

	b.WriteString(fmt.Sprintf("// New%s creates an intercepted %s. Interceptor parameters\n", wrapperName, class.Name))
	b.WriteString("// are ordered alphabetically by annotation name.\n")
	b.WriteString(fmt.Sprintf("func New%s(%s) *%s {\n", wrapperName, strings.Join(params, ", "), wrapperName))
	b.WriteString(fmt.Sprintf("\treturn &%s{\n", wrapperName))
	b.WriteString(fmt.Sprintf("\t\t%s: delegate,\n", class.Name))
	for _, name := range classAnnotations {
		b.WriteString(fmt.Sprintf("\t\t%s: %s,\n", fieldName(name), fieldName(name)))
	}
	b.WriteString("\t}\n}\n\n")
}

// writeOverride emits one overriding method. The override's signature
// matches the original exactly; the body runs the method's interceptor
// chain around a call to the embedded original.
func writeOverride(b *strings.Builder, class *models.TypeElement, wrapperName string, binding *models.MethodBinding) {
	method := binding.Method

	b.WriteString(fmt.Sprintf("// %s applies the %s around %s.%s.\n",
		method.Name, describeChain(binding.Annotations), class.Name, method.Name))
	b.WriteString(fmt.Sprintf("func (w *%s) %s(%s)%s {\n",
		wrapperName, method.Name, paramList(method), resultList(method)))

	writeInvocation(b, class, method)
	writeChainCall(b, binding)
	writeReturn(b, method)

	b.WriteString("}\n\n")
}

func writeInvocation(b *strings.Builder, class *models.TypeElement, method *models.MethodElement) {
	b.WriteString(fmt.Sprintf("\tinv := intercept.NewInvocation(%q, %q, %s, func() (interface{}, error) {\n",
		class.Name, method.Name, argsLiteral(method)))

	call := fmt.Sprintf("w.%s.%s(%s)", class.Name, method.Name, argNames(method))
	switch {
	case len(method.Results) == 1 && method.ReturnsError:
		b.WriteString(fmt.Sprintf("\t\tr0, err := %s\n", call))
		b.WriteString("\t\treturn r0, err\n")
	case len(method.Results) == 1:
		b.WriteString(fmt.Sprintf("\t\treturn %s, nil\n", call))
	case method.ReturnsError:
		b.WriteString(fmt.Sprintf("\t\treturn nil, %s\n", call))
	default:
		b.WriteString(fmt.Sprintf("\t\t%s\n", call))
		b.WriteString("\t\treturn nil, nil\n")
	}

	b.WriteString("\t})\n")
}

func writeChainCall(b *strings.Builder, binding *models.MethodBinding) {
	interceptors := make([]string, 0, len(binding.Annotations))
	for _, name := range binding.Annotations {
		interceptors = append(interceptors, "w."+fieldName(name))
	}
	chain := fmt.Sprintf("intercept.Chain([]intercept.MethodInterceptor{%s}, inv)",
		strings.Join(interceptors, ", "))

	method := binding.Method
	switch {
	case method.ReturnsError && len(method.Results) == 1:
		b.WriteString(fmt.Sprintf("\tresult, err := %s\n", chain))
	case method.ReturnsError:
		b.WriteString(fmt.Sprintf("\t_, err := %s\n", chain))
	case len(method.Results) == 1:
		b.WriteString(fmt.Sprintf("\tresult := intercept.MustResult(%s)\n", chain))
	default:
		b.WriteString(fmt.Sprintf("\tintercept.MustResult(%s)\n", chain))
	}
}

func writeReturn(b *strings.Builder, method *models.MethodElement) {
	switch {
	case method.ReturnsError && len(method.Results) == 1:
		b.WriteString("\tif err != nil {\n")
		b.WriteString(fmt.Sprintf("\t\tvar zero %s\n", method.Results[0].Type))
		b.WriteString("\t\treturn zero, err\n")
		b.WriteString("\t}\n")
		b.WriteString(fmt.Sprintf("\treturn result.(%s), nil\n", method.Results[0].Type))
	case method.ReturnsError:
		b.WriteString("\treturn err\n")
	case len(method.Results) == 1:
		b.WriteString(fmt.Sprintf("\treturn result.(%s)\n", method.Results[0].Type))
	}
}

// describeChain produces the doc comment fragment for a method's chain
func describeChain(annotationNames []string) string {
	if len(annotationNames) == 1 {
		return annotationNames[0] + " interceptor"
	}
	return strings.Join(annotationNames[:len(annotationNames)-1], ", ") +
		" and " + annotationNames[len(annotationNames)-1] + " interceptors"
}

// fieldName derives the wrapper field holding an annotation's interceptor
func fieldName(annotationName string) string {
	return annotationName + "Interceptor"
}

func paramList(method *models.MethodElement) string {
	params := make([]string, 0, len(method.Params))
	for _, param := range method.Params {
		params = append(params, param.Name+" "+param.Type)
	}
	return strings.Join(params, ", ")
}

func resultList(method *models.MethodElement) string {
	var results []string
	for _, result := range method.Results {
		results = append(results, result.Type)
	}
	if method.ReturnsError {
		results = append(results, "error")
	}
	switch len(results) {
	case 0:
		return ""
	case 1:
		return " " + results[0]
	default:
		return " (" + strings.Join(results, ", ") + ")"
	}
}

func argsLiteral(method *models.MethodElement) string {
	if len(method.Params) == 0 {
		return "nil"
	}
	names := make([]string, 0, len(method.Params))
	for _, param := range method.Params {
		names = append(names, param.Name)
	}
	return "[]interface{}{" + strings.Join(names, ", ") + "}"
}

func argNames(method *models.MethodElement) string {
	names := make([]string, 0, len(method.Params))
	for _, param := range method.Params {
		name := param.Name
		if strings.HasPrefix(param.Type, "...") {
			name += "..."
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
