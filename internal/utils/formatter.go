package utils

import (
	"fmt"

	"golang.org/x/tools/imports"
)

// FormatGeneratedCode formats generated Go source with goimports, which
// also prunes imports left unused by the templates. The file name is used
// to resolve relative imports against the destination package.
func FormatGeneratedCode(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return formatted, nil
}
