package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/x3333/intercept/internal/generator"
)

// Cleaner removes generated interceptor files
type Cleaner struct{}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// CleanGeneratedFiles removes every *_intercept.gen.go file from the
// specified directories. Returns the removed file paths.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	var removed []string

	for _, dir := range directories {
		if strings.HasSuffix(dir, "/...") {
			baseDir := strings.TrimSuffix(dir, "/...")
			if baseDir == "" {
				baseDir = "."
			}
			if err := c.cleanRecursively(baseDir, &removed); err != nil {
				return removed, fmt.Errorf("failed to clean %s: %w", dir, err)
			}
			continue
		}
		if err := c.cleanSingleDirectory(dir, &removed); err != nil {
			return removed, fmt.Errorf("failed to clean %s: %w", dir, err)
		}
	}

	return removed, nil
}

func (c *Cleaner) cleanRecursively(baseDir string, removed *[]string) error {
	return filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			// Errors inside one directory should not stop the others.
			_ = c.cleanSingleDirectory(path, removed)
		}
		return nil
	})
}

func (c *Cleaner) cleanSingleDirectory(dir string, removed *[]string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*"+generator.GeneratedFileSuffix))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove %s: %w", match, err)
		}
		*removed = append(*removed, match)
	}
	return nil
}
