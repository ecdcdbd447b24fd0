package generator

import (
	"fmt"
	"os"

	"github.com/x3333/intercept/internal/models"
	"github.com/x3333/intercept/internal/utils"
)

// Emitter turns a generated interceptor description into an output
// artifact. The file emitter is the real backend; tests substitute
// in-memory implementations.
type Emitter interface {
	Emit(unit *models.GeneratedInterceptor) error
}

// FileEmitter formats generated source with goimports and writes it next
// to the original class, in the same package.
type FileEmitter struct {
	diagnostics *utils.DiagnosticSystem
}

// NewFileEmitter creates a file-writing emitter
func NewFileEmitter(diagnostics *utils.DiagnosticSystem) *FileEmitter {
	return &FileEmitter{diagnostics: diagnostics}
}

// Emit implements Emitter
func (e *FileEmitter) Emit(unit *models.GeneratedInterceptor) error {
	formatted, err := utils.FormatGeneratedCode(unit.FilePath, []byte(unit.Content))
	if err != nil {
		// Unformatted output still compiles in most failure modes and
		// beats losing the file; keep going with a warning.
		e.diagnostics.Warn("could not format %s: %v", unit.FileName, err)
		formatted = []byte(unit.Content)
	}

	if err := os.WriteFile(unit.FilePath, formatted, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", unit.FilePath, err)
	}

	e.diagnostics.Verbose("wrote %s", unit.FilePath)
	return nil
}
