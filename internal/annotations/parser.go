package annotations

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Prefix is the marker that distinguishes interceptor annotations from
// ordinary comments.
const Prefix = "intercept::"

// annotationAST is the participle grammar for the annotation body, after
// the comment slashes and prefix have been stripped.
type annotationAST struct {
	Name  string    `parser:"@Ident"`
	Items []itemAST `parser:"@@*"`
}

// itemAST is a single -Key=value parameter or bare -Flag
type itemAST struct {
	Key   string    `parser:"Dash @Ident"`
	Value *valueAST `parser:"( Equals @@ )?"`
}

type valueAST struct {
	Str    *string `parser:"@String"`
	Number *string `parser:"| @Number"`
	Ident  *string `parser:"| @Ident"`
}

func (v *valueAST) text() string {
	switch {
	case v.Str != nil:
		return strings.Trim(*v.Str, `"`)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	}
	return ""
}

// Parser parses intercept:: comment annotations
type Parser struct {
	parser *participle.Parser[annotationAST]
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
		{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
		{Name: "Dash", Pattern: `-`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	return &Parser{
		parser: participle.MustBuild[annotationAST](
			participle.Lexer(lex),
			participle.Elide("Whitespace"),
		),
	}
}

// IsAnnotation reports whether a comment line carries the intercept prefix
func IsAnnotation(comment string) bool {
	content := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(comment), "//"))
	return strings.HasPrefix(content, Prefix)
}

// Parse parses a single //intercept::name annotation comment
func (p *Parser) Parse(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	body, err := p.stripPrefix(comment, location)
	if err != nil {
		return nil, err
	}

	ast, err := p.parser.ParseString(location.File, body)
	if err != nil {
		return nil, ParseError{
			Message:    "invalid annotation syntax: " + err.Error(),
			Location:   location,
			Suggestion: "Use format: //intercept::name -Key=value -Flag",
		}
	}

	parsed := &ParsedAnnotation{
		Name:       ast.Name,
		Parameters: make(map[string]string),
		Location:   location,
		Raw:        comment,
	}
	for _, item := range ast.Items {
		if item.Value != nil {
			parsed.Parameters[item.Key] = item.Value.text()
		} else {
			parsed.Flags = append(parsed.Flags, item.Key)
		}
	}

	return parsed, nil
}

// stripPrefix removes the comment slashes and the intercept:: marker
func (p *Parser) stripPrefix(comment string, location SourceLocation) (string, error) {
	input := strings.TrimSpace(comment)

	if !strings.HasPrefix(input, "//") {
		return "", ParseError{
			Message:    "annotation must start with '//'",
			Location:   location,
			Suggestion: "Use format: //intercept::name",
		}
	}
	content := strings.TrimSpace(input[2:])

	if !strings.HasPrefix(content, Prefix) {
		return "", ParseError{
			Message:    "annotation must contain the 'intercept::' prefix",
			Location:   location,
			Suggestion: "Use format: //intercept::name",
		}
	}
	body := strings.TrimSpace(content[len(Prefix):])

	if body == "" {
		return "", ParseError{
			Message:    "annotation is missing a name",
			Location:   location,
			Suggestion: "Use format: //intercept::name",
		}
	}

	return body, nil
}
