package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/x3333/intercept/internal/utils"
)

// ModuleResolver resolves the Go module path of the scanned project so
// package import paths can be derived from directories.
type ModuleResolver struct {
	goMod *utils.GoModParser

	moduleName string
	moduleRoot string
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{goMod: utils.NewGoModParser()}
}

// ResolveModuleName resolves the module path. A non-empty customModule
// wins; otherwise the nearest go.mod above the working directory is read.
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	if customModule != "" {
		r.moduleName = customModule
		if r.moduleRoot == "" {
			if wd, err := os.Getwd(); err == nil {
				r.moduleRoot = wd
			}
		}
		return customModule, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	goModPath, err := r.goMod.FindGoModFile(wd)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	}

	moduleName, err := r.goMod.ParseModuleName(goModPath)
	if err != nil {
		return "", err
	}

	r.moduleName = moduleName
	r.moduleRoot = filepath.Dir(goModPath)
	return moduleName, nil
}

// BuildPackagePath derives the import path of a package directory from
// the resolved module.
func (r *ModuleResolver) BuildPackagePath(dir string) (string, error) {
	if r.moduleName == "" {
		return "", fmt.Errorf("module name not resolved")
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	rel, err := filepath.Rel(r.moduleRoot, absDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		// Outside the module root; fall back to the directory name.
		return r.moduleName + "/" + filepath.Base(absDir), nil
	}
	if rel == "." {
		return r.moduleName, nil
	}
	return r.moduleName + "/" + filepath.ToSlash(rel), nil
}
