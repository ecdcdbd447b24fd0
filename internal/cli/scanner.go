package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirectoryScanner expands directory arguments into the concrete list of
// package directories to scan. Supports Go-style "./..." patterns for
// recursive scanning.
type DirectoryScanner struct{}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{}
}

// ScanDirectories returns every directory containing Go files reachable
// from the given paths or patterns, sorted for deterministic processing.
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	seen := make(map[string]struct{})
	var dirs []string

	add := func(dir string) {
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	for _, rootDir := range rootDirs {
		if strings.HasSuffix(rootDir, "/...") {
			baseDir := strings.TrimSuffix(rootDir, "/...")
			if baseDir == "" {
				baseDir = "."
			}
			if err := s.walkGoDirs(baseDir, add); err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", rootDir, err)
			}
			continue
		}

		hasGo, err := s.containsGoFiles(rootDir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", rootDir, err)
		}
		if hasGo {
			add(filepath.Clean(rootDir))
		}
	}

	return dirs, nil
}

// walkGoDirs walks a tree and collects directories containing Go files,
// skipping hidden, vendor and testdata directories.
func (s *DirectoryScanner) walkGoDirs(baseDir string, add func(string)) error {
	return filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if path != baseDir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
			name == "vendor" || name == "testdata") {
			return filepath.SkipDir
		}

		hasGo, err := s.containsGoFiles(path)
		if err != nil {
			return err
		}
		if hasGo {
			add(filepath.Clean(path))
		}
		return nil
	})
}

// containsGoFiles checks whether a directory has any non-test Go file
func (s *DirectoryScanner) containsGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			return true, nil
		}
	}
	return false, nil
}
