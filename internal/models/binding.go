package models

import "sort"

// MethodBinding represents one intercepted method and the full set of
// recognized annotations found on it. Immutable once built.
type MethodBinding struct {
	Method      *MethodElement
	Class       *TypeElement
	Annotations []string // sorted, unique, non-empty
}

// HasAnnotation reports whether the binding carries the given annotation
func (b *MethodBinding) HasAnnotation(name string) bool {
	for _, a := range b.Annotations {
		if a == name {
			return true
		}
	}
	return false
}

// BindingBuilder accumulates annotations for one method during the
// aggregation pass. It is created on first match and finalized into an
// immutable MethodBinding once every annotation has been processed.
type BindingBuilder struct {
	method      *MethodElement
	class       *TypeElement
	annotations map[string]struct{}
}

// NewBindingBuilder creates a builder for the given method
func NewBindingBuilder(method *MethodElement, class *TypeElement) *BindingBuilder {
	return &BindingBuilder{
		method:      method,
		class:       class,
		annotations: make(map[string]struct{}),
	}
}

// AddAnnotation records one recognized annotation present on the method.
// Adding the same annotation twice is a no-op.
func (b *BindingBuilder) AddAnnotation(name string) *BindingBuilder {
	b.annotations[name] = struct{}{}
	return b
}

// Build finalizes the builder into an immutable MethodBinding with the
// annotation set in alphabetical order.
func (b *BindingBuilder) Build() *MethodBinding {
	names := make([]string, 0, len(b.annotations))
	for name := range b.annotations {
		names = append(names, name)
	}
	sort.Strings(names)

	return &MethodBinding{
		Method:      b.method,
		Class:       b.class,
		Annotations: names,
	}
}

// ClassBindings holds every binding of one enclosing class
type ClassBindings struct {
	Class    *TypeElement
	Bindings []*MethodBinding
}

// ClassBindingGroup maps enclosing classes to their method bindings.
// Iteration through Classes is deterministic so repeated runs over
// identical input generate byte-identical output.
type ClassBindingGroup struct {
	byClass map[string]*ClassBindings
}

// NewClassBindingGroup creates an empty group
func NewClassBindingGroup() *ClassBindingGroup {
	return &ClassBindingGroup{
		byClass: make(map[string]*ClassBindings),
	}
}

// Add appends a binding under its enclosing class
func (g *ClassBindingGroup) Add(binding *MethodBinding) {
	key := binding.Class.Key()
	entry, ok := g.byClass[key]
	if !ok {
		entry = &ClassBindings{Class: binding.Class}
		g.byClass[key] = entry
	}
	entry.Bindings = append(entry.Bindings, binding)
}

// Len returns the number of classes with at least one binding
func (g *ClassBindingGroup) Len() int {
	return len(g.byClass)
}

// Classes returns every class entry sorted by package path and type name,
// each with its bindings sorted by method name.
func (g *ClassBindingGroup) Classes() []*ClassBindings {
	entries := make([]*ClassBindings, 0, len(g.byClass))
	for _, entry := range g.byClass {
		sort.Slice(entry.Bindings, func(i, j int) bool {
			return entry.Bindings[i].Method.Name < entry.Bindings[j].Method.Name
		})
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Class.PackagePath != entries[j].Class.PackagePath {
			return entries[i].Class.PackagePath < entries[j].Class.PackagePath
		}
		return entries[i].Class.Name < entries[j].Class.Name
	})
	return entries
}

// FilterByAnnotation returns the subset of the group containing only
// bindings tagged with the given annotation. Classes left with no bindings
// are dropped entirely.
func (g *ClassBindingGroup) FilterByAnnotation(name string) *ClassBindingGroup {
	filtered := NewClassBindingGroup()
	for _, entry := range g.byClass {
		for _, binding := range entry.Bindings {
			if binding.HasAnnotation(name) {
				filtered.Add(binding)
			}
		}
	}
	return filtered
}
