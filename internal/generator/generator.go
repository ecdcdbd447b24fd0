// Package generator synthesizes wrapper source units from class binding
// groups and hands them to an emitter. Generation is deterministic:
// identical input produces byte-identical output.
package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/x3333/intercept/internal/models"
	"github.com/x3333/intercept/internal/templates"
	"github.com/x3333/intercept/internal/utils"
)

// GeneratedFileSuffix is the deterministic suffix of every emitted file.
// The clean operation removes files matching it.
const GeneratedFileSuffix = "_intercept.gen.go"

// Generator builds GeneratedInterceptor units
type Generator struct{}

// NewGenerator creates a new interceptor generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateInterceptor synthesizes the wrapper source unit for one class.
// The wrapper lives in the same package as the class, embeds it, and
// overrides each bound method with its interceptor chain. Bindings must
// be non-empty: classes without valid bindings never reach generation.
func (g *Generator) GenerateInterceptor(class *models.TypeElement, bindings []*models.MethodBinding) (*models.GeneratedInterceptor, error) {
	if class == nil {
		return nil, fmt.Errorf("class cannot be nil")
	}
	if len(bindings) == 0 {
		return nil, fmt.Errorf("class %s has no bindings", class.Name)
	}

	content, err := templates.GenerateInterceptorFile(class, bindings)
	if err != nil {
		return nil, fmt.Errorf("failed to render interceptor for %s: %w", class.Name, err)
	}

	fileName := strings.ToLower(class.Name) + GeneratedFileSuffix
	return &models.GeneratedInterceptor{
		PackageName: class.PackageName,
		PackagePath: class.PackagePath,
		ClassName:   class.Name,
		WrapperName: "Intercepted" + class.Name,
		FileName:    fileName,
		FilePath:    filepath.Join(filepath.Dir(class.Location.File), fileName),
		Content:     content,
		Bindings:    bindings,
	}, nil
}

// GenerateAll generates every class in the group, isolating failures per
// class: one class's generation or emission error is reported through
// the diagnostics channel and its siblings still proceed.
func (g *Generator) GenerateAll(group *models.ClassBindingGroup, emitter Emitter, diagnostics *utils.DiagnosticSystem) []*models.GeneratedInterceptor {
	var generated []*models.GeneratedInterceptor
	for _, entry := range group.Classes() {
		unit, err := g.GenerateInterceptor(entry.Class, entry.Bindings)
		if err != nil {
			diagnostics.ErrorAt(entry.Class.Location.String(),
				"failed to generate interceptor for %s: %v", entry.Class.Name, err)
			continue
		}
		if err := emitter.Emit(unit); err != nil {
			diagnostics.ErrorAt(entry.Class.Location.String(),
				"error emitting generated source for %s: %v", entry.Class.Name, err)
			continue
		}
		generated = append(generated, unit)
	}
	return generated
}
