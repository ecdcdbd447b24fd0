package cli

import (
	"fmt"

	"github.com/x3333/intercept/internal/generator"
	"github.com/x3333/intercept/internal/handlers"
	"github.com/x3333/intercept/internal/models"
	"github.com/x3333/intercept/internal/parser"
	"github.com/x3333/intercept/internal/processor"
	"github.com/x3333/intercept/internal/registry"
	"github.com/x3333/intercept/internal/utils"
)

// Generator coordinates the CLI generation process: scan directories,
// parse annotations, aggregate bindings, generate and emit interceptor
// files, then fan out post-processing hooks. The whole pipeline runs
// single-threaded within one invocation; nothing persists across runs.
type Generator struct {
	scanner         *DirectoryScanner
	moduleResolver  *ModuleResolver
	handlerRegistry registry.HandlerRegistry
	codeGenerator   *generator.Generator
	emitter         generator.Emitter
	diagnostics     *utils.DiagnosticSystem
	customModule    string
	summary         GenerationSummary
}

// NewGenerator creates a CLI generator with the built-in handlers
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	return NewGeneratorWithHandlers(diagnostics, handlers.Builtin()...)
}

// NewGeneratorWithHandlers creates a CLI generator with an explicit
// handler list, used by tests and by embedders shipping their own
// handlers.
func NewGeneratorWithHandlers(diagnostics *utils.DiagnosticSystem, handlerList ...registry.InterceptorHandler) *Generator {
	return &Generator{
		scanner:         NewDirectoryScanner(),
		moduleResolver:  NewModuleResolver(),
		handlerRegistry: registry.NewHandlerRegistry(handlerList...),
		codeGenerator:   generator.NewGenerator(),
		emitter:         generator.NewFileEmitter(diagnostics),
		diagnostics:     diagnostics,
	}
}

// SetCustomModule sets a custom module name for import path resolution
func (g *Generator) SetCustomModule(moduleName string) {
	g.customModule = moduleName
}

// SetEmitter replaces the emission backend, used by tests
func (g *Generator) SetEmitter(emitter generator.Emitter) {
	g.emitter = emitter
}

// GetSummary returns the generation summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Generate executes the generation process for the given directories
func (g *Generator) Generate(directories []string) error {
	return g.Run(Config{
		Directories: directories,
		ModuleName:  g.customModule,
	})
}

// Run executes the complete generation pipeline for one configuration
func (g *Generator) Run(config Config) error {
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}

	moduleName, err := g.moduleResolver.ResolveModuleName(config.ModuleName)
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeConfiguration,
			Message: fmt.Sprintf("failed to resolve module name: %v", err),
			Cause:   err,
			Suggestions: []string{
				"Check your go.mod file exists and is valid",
				"Try specifying the --module flag explicitly",
			},
		}
	}
	g.diagnostics.Verbose("resolved module: %s", moduleName)

	dirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			Message: fmt.Sprintf("failed to scan directories: %v", err),
			Cause:   err,
		}
	}
	if len(dirs) == 0 {
		g.diagnostics.Warn("no Go packages found in %v", config.Directories)
		return nil
	}

	// Phase 1: scan every package before any aggregation, so class-level
	// grouping sees every method of a class.
	sourceParser := parser.NewParser(g.diagnostics)
	merged := &parser.ScanResult{
		ElementsByAnnotation: make(map[string][]*models.Element),
	}
	for _, dir := range dirs {
		packagePath, err := g.moduleResolver.BuildPackagePath(dir)
		if err != nil {
			g.diagnostics.Warn("skipping %s: %v", dir, err)
			continue
		}
		result, err := sourceParser.ParseDirectory(dir, packagePath)
		if err != nil {
			g.diagnostics.Warn("skipping %s: %v", dir, err)
			continue
		}
		merged.Merge(result)
		g.summary.PackagesProcessed++
	}

	// Phase 2: validate and aggregate into per-class binding groups.
	step := processor.NewStep(g.handlerRegistry, g.diagnostics)
	group := step.Process(merged.ElementsByAnnotation)
	for _, entry := range group.Classes() {
		g.summary.MethodsBound += len(entry.Bindings)
	}
	g.summary.ClassesIntercepted = group.Len()

	// Phase 3: generate and emit, one unit per class, failures isolated.
	generated := g.codeGenerator.GenerateAll(group, g.emitter, g.diagnostics)
	for _, unit := range generated {
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, unit.FilePath)
	}

	// Phase 4: post-processing hooks, once per handler.
	if config.Manifest {
		// The aggregated registration manifest is reserved; the option
		// only arms the hook context for handlers that care.
		g.diagnostics.Info("manifest generation is not implemented yet, handlers only receive the option")
	}
	step.PostProcess(&registry.PostContext{
		ModuleName:    moduleName,
		ManifestArmed: config.Manifest,
		Diagnostics:   g.diagnostics,
	}, group)

	g.summary.Warnings = g.diagnostics.WarningCount()
	g.summary.Errors = g.diagnostics.ErrorCount()
	return nil
}
