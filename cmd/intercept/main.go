package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/x3333/intercept/internal/cli"
	"github.com/x3333/intercept/internal/utils"
)

func main() {
	var (
		moduleFlag   = flag.String("module", "", "Custom module name for import paths (defaults to go.mod module)")
		manifestFlag = flag.Bool("manifest", false, "Arm registration manifest post-processing (reserved)")
		verboseFlag  = flag.Bool("verbose", false, "Enable verbose output")
		quietFlag    = flag.Bool("quiet", false, "Only show errors and final results")
		cleanFlag    = flag.Bool("clean", false, "Delete generated interceptor files from the specified directories")
		helpFlag     = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <directory-paths...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Intercept Code Generator\n")
		fmt.Fprintf(os.Stderr, "Scans directories for Go methods with intercept:: annotations and generates\n")
		fmt.Fprintf(os.Stderr, "wrapper types that run the matched interceptors around each annotated method.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nArguments:\n")
		fmt.Fprintf(os.Stderr, "  directory-paths    One or more directories to scan for annotated Go files\n")
		fmt.Fprintf(os.Stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./...                                  # Scan everything recursively\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s ./internal/services                    # Scan one directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --module github.com/org/app ./...      # Specify the module path\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --clean ./...                          # Delete generated interceptor files\n", os.Args[0])
	}

	flag.Parse()

	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Error: At least one directory path is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	var diagnostics *utils.DiagnosticSystem
	if *quietFlag {
		diagnostics = utils.NewQuietDiagnostics()
	} else if *verboseFlag {
		diagnostics = utils.NewVerboseDiagnostics()
	} else {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	diagnostics.Section("Intercept Code Generator")

	if *cleanFlag {
		cleaner := cli.NewCleaner()
		removed, err := cleaner.CleanGeneratedFiles(args)
		if err != nil {
			diagnostics.Error("Clean operation failed: %v", err)
			os.Exit(1)
		}
		diagnostics.Success("Removed %d generated interceptor file(s)", len(removed))
		return
	}

	if *verboseFlag {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target directories: %s", strings.Join(args, ", "))
		if *moduleFlag != "" {
			diagnostics.List("Custom module: %s", *moduleFlag)
		}
	}

	generator := cli.NewGenerator(diagnostics)
	if *moduleFlag != "" {
		generator.SetCustomModule(*moduleFlag)
	}

	err := generator.Run(cli.Config{
		Directories: args,
		ModuleName:  *moduleFlag,
		Manifest:    *manifestFlag,
		Verbose:     *verboseFlag,
	})
	if err != nil {
		diagnostics.Error("Generation failed: %v", err)
		os.Exit(1)
	}

	summary := generator.GetSummary()
	diagnostics.Summary("Generation Complete!", map[string]interface{}{
		"Packages processed":  summary.PackagesProcessed,
		"Classes intercepted": summary.ClassesIntercepted,
		"Methods bound":       summary.MethodsBound,
		"Files generated":     len(summary.GeneratedFiles),
		"Warnings":            summary.Warnings,
	})

	if *verboseFlag && len(summary.GeneratedFiles) > 0 {
		diagnostics.Subsection("Generated Files")
		for _, file := range summary.GeneratedFiles {
			diagnostics.List("%s", file)
		}
	}

	// Errors are isolated per binding or class during the run; the exit
	// code still reflects that something was reported.
	if summary.Errors > 0 {
		os.Exit(1)
	}
}
