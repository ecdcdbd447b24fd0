package cli

// Config holds the options of one generation run
type Config struct {
	Directories []string // directory paths or ./... style patterns
	ModuleName  string   // custom module path, empty to read go.mod
	Manifest    bool     // arm the registration manifest post-processing
	Verbose     bool
}

// GenerationSummary collects statistics for the final report
type GenerationSummary struct {
	PackagesProcessed  int
	MethodsBound       int
	ClassesIntercepted int
	GeneratedFiles     []string
	Warnings           int
	Errors             int
}
