// Package parser is the source front-end: it scans Go files for
// intercept:: comment annotations and produces the annotation-to-element
// multimap the processor consumes. It only reports what it finds;
// deciding whether a usage is valid is the processor's job.
package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/x3333/intercept/internal/annotations"
	"github.com/x3333/intercept/internal/models"
	"github.com/x3333/intercept/internal/utils"
)

// generatedPattern matches the Go convention marking machine-generated
// files. Methods declared in such files are reported with their class
// flagged, so the processor can skip them instead of re-wrapping
// generated interceptors.
var generatedPattern = regexp.MustCompile(`^// Code generated .* DO NOT EDIT\.$`)

// ScanResult is the annotation multimap for one package
type ScanResult struct {
	PackageName string
	PackagePath string

	// ElementsByAnnotation maps annotation names to the elements that
	// carry them, in deterministic (file, line) order.
	ElementsByAnnotation map[string][]*models.Element
}

// Merge folds another package's scan result into this one
func (r *ScanResult) Merge(other *ScanResult) {
	for name, elements := range other.ElementsByAnnotation {
		r.ElementsByAnnotation[name] = append(r.ElementsByAnnotation[name], elements...)
	}
}

// Parser scans Go source for intercept annotations
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.Parser
	diagnostics *utils.DiagnosticSystem
}

// NewParser creates a new source scanner
func NewParser(diagnostics *utils.DiagnosticSystem) *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParser(),
		diagnostics: diagnostics,
	}
}

// ParseSource scans source code from a string, for tests
func (p *Parser) ParseSource(filename, source, packagePath string) (*ScanResult, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	result := &ScanResult{
		PackageName:          file.Name.Name,
		PackagePath:          packagePath,
		ElementsByAnnotation: make(map[string][]*models.Element),
	}
	p.scanFiles(result, map[string]*ast.File{filename: file})
	return result, nil
}

// ParseDirectory scans every Go file in the given directory. A file that
// fails to parse is reported as a warning and skipped; the remaining
// files are still scanned.
func (p *Parser) ParseDirectory(path, packagePath string) (*ScanResult, error) {
	pkgs, err := parser.ParseDir(p.fileSet, path, nil, parser.ParseComments)
	if err != nil {
		// ParseDir aborts on the first syntax error; fall back to
		// per-file parsing so one broken file does not hide the rest.
		pkgs, err = p.parseDirPerFile(path)
		if err != nil {
			return nil, err
		}
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages found in directory %s", path)
	}

	result := &ScanResult{
		PackagePath:          packagePath,
		ElementsByAnnotation: make(map[string][]*models.Element),
	}
	for name, pkg := range pkgs {
		if strings.HasSuffix(name, "_test") {
			continue
		}
		result.PackageName = name
		p.scanFiles(result, pkg.Files)
	}
	return result, nil
}

func (p *Parser) parseDirPerFile(path string) (map[string]*ast.Package, error) {
	matches, err := filepath.Glob(filepath.Join(path, "*.go"))
	if err != nil {
		return nil, err
	}

	pkgs := make(map[string]*ast.Package)
	for _, match := range matches {
		file, err := parser.ParseFile(p.fileSet, match, nil, parser.ParseComments)
		if err != nil {
			p.diagnostics.Warn("skipping unparsable file %s: %v", match, err)
			continue
		}
		name := file.Name.Name
		pkg, ok := pkgs[name]
		if !ok {
			pkg = &ast.Package{Name: name, Files: make(map[string]*ast.File)}
			pkgs[name] = pkg
		}
		pkg.Files[match] = file
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no parsable Go files in directory %s", path)
	}
	return pkgs, nil
}

// scanFiles walks a package's files in deterministic order. The first
// pass records every type declaration so that method receivers can be
// resolved to their enclosing type; the second pass collects annotated
// declarations.
func (p *Parser) scanFiles(result *ScanResult, files map[string]*ast.File) {
	fileNames := make([]string, 0, len(files))
	for name := range files {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	classes := make(map[string]*models.TypeElement)
	generated := make(map[string]bool)
	for _, fileName := range fileNames {
		file := files[fileName]
		generated[fileName] = p.isGeneratedFile(file)
		p.collectTypes(result, classes, file, fileName, generated[fileName])
	}

	for _, fileName := range fileNames {
		p.collectAnnotated(result, classes, files[fileName], fileName, generated[fileName])
	}
}

// isGeneratedFile checks the file header for the generated-code marker
func (p *Parser) isGeneratedFile(file *ast.File) bool {
	packageLine := p.fileSet.Position(file.Package).Line
	for _, group := range file.Comments {
		if p.fileSet.Position(group.Pos()).Line >= packageLine {
			break
		}
		for _, comment := range group.List {
			if generatedPattern.MatchString(comment.Text) {
				return true
			}
		}
	}
	return false
}

// collectTypes records struct type declarations and any annotations
// placed directly on them
func (p *Parser) collectTypes(result *ScanResult, classes map[string]*models.TypeElement, file *ast.File, fileName string, fromGenerated bool) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			class := &models.TypeElement{
				Name:          typeSpec.Name.Name,
				PackageName:   result.PackageName,
				PackagePath:   result.PackagePath,
				Location:      p.location(fileName, typeSpec.Pos()),
				FromGenerated: fromGenerated,
			}
			classes[class.Name] = class

			doc := typeSpec.Doc
			if doc == nil {
				doc = genDecl.Doc
			}
			p.collectFromDoc(result, doc, &models.Element{
				Kind:     models.KindType,
				Name:     class.Name,
				Location: class.Location,
			})

			p.collectMembers(result, typeSpec, fileName)
		}
	}
}

// collectMembers reports annotations misplaced on struct fields and
// interface contract methods
func (p *Parser) collectMembers(result *ScanResult, typeSpec *ast.TypeSpec, fileName string) {
	switch t := typeSpec.Type.(type) {
	case *ast.StructType:
		for _, field := range t.Fields.List {
			name := typeSpec.Name.Name + " field"
			if len(field.Names) > 0 {
				name = typeSpec.Name.Name + "." + field.Names[0].Name
			}
			p.collectFromDoc(result, field.Doc, &models.Element{
				Kind:     models.KindField,
				Name:     name,
				Location: p.location(fileName, field.Pos()),
			})
		}
	case *ast.InterfaceType:
		for _, method := range t.Methods.List {
			if len(method.Names) == 0 {
				continue
			}
			p.collectFromDoc(result, method.Doc, &models.Element{
				Kind:     models.KindInterfaceMethod,
				Name:     typeSpec.Name.Name + "." + method.Names[0].Name,
				Location: p.location(fileName, method.Pos()),
			})
		}
	}
}

// collectAnnotated reports annotated functions and methods
func (p *Parser) collectAnnotated(result *ScanResult, classes map[string]*models.TypeElement, file *ast.File, fileName string, fromGenerated bool) {
	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok || funcDecl.Doc == nil {
			continue
		}

		if funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 {
			p.collectFromDoc(result, funcDecl.Doc, &models.Element{
				Kind:     models.KindFunction,
				Name:     funcDecl.Name.Name,
				Location: p.location(fileName, funcDecl.Pos()),
			})
			continue
		}

		method := p.buildMethodElement(result, file, funcDecl, fileName)
		class, ok := classes[method.Receiver]
		if !ok {
			class = &models.TypeElement{
				Name:          method.Receiver,
				PackageName:   result.PackageName,
				PackagePath:   result.PackagePath,
				Location:      method.Location,
				FromGenerated: fromGenerated,
			}
			classes[method.Receiver] = class
		}
		if fromGenerated {
			// A method added to a hand-written type by a generated
			// file must not be re-processed either.
			class = &models.TypeElement{
				Name:          class.Name,
				PackageName:   class.PackageName,
				PackagePath:   class.PackagePath,
				Location:      class.Location,
				FromGenerated: true,
			}
		}

		p.collectFromDoc(result, funcDecl.Doc, &models.Element{
			Kind:     models.KindMethod,
			Name:     method.Receiver + "." + method.Name,
			Location: method.Location,
			Method:   method,
			Class:    class,
		})
	}
}

// collectFromDoc parses every annotation line of a doc comment and files
// the element under each annotation name found
func (p *Parser) collectFromDoc(result *ScanResult, doc *ast.CommentGroup, element *models.Element) {
	if doc == nil {
		return
	}
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		pos := p.fileSet.Position(comment.Pos())
		parsed, err := p.annotations.Parse(comment.Text, annotations.SourceLocation{
			File:   element.Location.File,
			Line:   pos.Line,
			Column: pos.Column,
		})
		if err != nil {
			p.diagnostics.WarnAt(element.Location.String(), "ignoring malformed annotation: %v", err)
			continue
		}
		result.ElementsByAnnotation[parsed.Name] = append(result.ElementsByAnnotation[parsed.Name], element)
	}
}

// buildMethodElement extracts the signature of an annotated method
func (p *Parser) buildMethodElement(result *ScanResult, file *ast.File, funcDecl *ast.FuncDecl, fileName string) *models.MethodElement {
	recv := funcDecl.Recv.List[0]
	receiverName, pointer := receiverType(recv.Type)

	method := &models.MethodElement{
		Name:            funcDecl.Name.Name,
		Receiver:        receiverName,
		PointerReceiver: pointer,
		PackageName:     result.PackageName,
		PackagePath:     result.PackagePath,
		HasBody:         funcDecl.Body != nil,
		Location:        p.location(fileName, funcDecl.Pos()),
	}

	if funcDecl.Type.Params != nil {
		index := 0
		for _, field := range funcDecl.Type.Params.List {
			typeText := types.ExprString(field.Type)
			if len(field.Names) == 0 {
				method.Params = append(method.Params, models.Param{
					Name: fmt.Sprintf("p%d", index),
					Type: typeText,
				})
				index++
				continue
			}
			for _, name := range field.Names {
				paramName := name.Name
				if paramName == "_" {
					paramName = fmt.Sprintf("p%d", index)
				}
				method.Params = append(method.Params, models.Param{
					Name: paramName,
					Type: typeText,
				})
				index++
			}
		}
	}

	if funcDecl.Type.Results != nil {
		var resultTypes []string
		for _, field := range funcDecl.Type.Results.List {
			typeText := types.ExprString(field.Type)
			count := len(field.Names)
			if count == 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				resultTypes = append(resultTypes, typeText)
			}
		}
		for i, typeText := range resultTypes {
			if typeText == "error" && i == len(resultTypes)-1 {
				method.ReturnsError = true
				continue
			}
			method.Results = append(method.Results, models.Result{Type: typeText})
		}
	}

	method.Imports = signatureImports(file, funcDecl.Type)
	return method
}

// receiverType unwraps the receiver expression into its type name
func receiverType(expr ast.Expr) (name string, pointer bool) {
	switch t := expr.(type) {
	case *ast.StarExpr:
		name, _ = receiverType(t.X)
		return name, true
	case *ast.Ident:
		return t.Name, false
	case *ast.IndexExpr:
		return receiverType(t.X)
	case *ast.IndexListExpr:
		name, pointer = receiverType(t.X)
		return name, pointer
	default:
		return "", false
	}
}

// signatureImports resolves the imports a signature references, so the
// generated file can reproduce the parameter and result types.
func signatureImports(file *ast.File, funcType *ast.FuncType) []models.Import {
	used := make(map[string]struct{})
	collect := func(fields *ast.FieldList) {
		if fields == nil {
			return
		}
		for _, field := range fields.List {
			ast.Inspect(field.Type, func(n ast.Node) bool {
				if sel, ok := n.(*ast.SelectorExpr); ok {
					if ident, ok := sel.X.(*ast.Ident); ok {
						used[ident.Name] = struct{}{}
					}
				}
				return true
			})
		}
	}
	collect(funcType.Params)
	collect(funcType.Results)

	var imports []models.Import
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		localName := path[strings.LastIndex(path, "/")+1:]
		alias := ""
		if spec.Name != nil {
			localName = spec.Name.Name
			alias = spec.Name.Name
		}
		if _, ok := used[localName]; ok {
			imports = append(imports, models.Import{Alias: alias, Path: path})
		}
	}
	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })
	return imports
}

func (p *Parser) location(fileName string, pos token.Pos) models.SourceLocation {
	position := p.fileSet.Position(pos)
	return models.SourceLocation{
		File:   fileName,
		Line:   position.Line,
		Column: position.Column,
	}
}
