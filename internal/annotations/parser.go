package annotations

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/iocscan/internal/errors"
)

// directive is the grammar root: [//] ioc::<kind> {-Key[=Value]}
type directive struct {
	Comment   bool     `parser:"@Comment?"`
	Namespace string   `parser:"@Word Separator"`
	Kind      string   `parser:"@Word"`
	Params    []*param `parser:"@@*"`
}

type param struct {
	Pos   lexer.Position
	Key   string  `parser:"Dash @Word"`
	Value *string `parser:"( Equals @(String | Word) )?"`
}

// Parser parses marker directives. It is safe for concurrent use.
type Parser struct {
	parser *participle.Parser[directive]
}

// NewParser builds the marker grammar.
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Comment", Pattern: `//`},
		{Name: "Separator", Pattern: `::`},
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Dash", Pattern: `-`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Word", Pattern: `[^\s=":/\-][^\s=:"]*`},
	})

	return &Parser{
		parser: participle.MustBuild[directive](
			participle.Lexer(lex),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
		),
	}
}

var defaultParser = NewParser()

// Parse parses a marker directive with the default parser.
func Parse(text string) (*Annotation, error) {
	return defaultParser.Parse(text)
}

// ParseMarker parses an initialize directive with the default parser.
func ParseMarker(text string) (*Marker, error) {
	return defaultParser.ParseMarker(text)
}

// Parse parses and validates a directive.
func (p *Parser) Parse(text string) (*Annotation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewSyntaxError("empty marker").
			WithSuggestion("write a directive such as 'ioc::initialize -Interface=IStore'")
	}

	d, err := p.parser.ParseString("", text)
	if err != nil {
		return nil, syntaxError(err)
	}

	if d.Namespace != Namespace {
		return nil, errors.NewSyntaxErrorWithToken("unknown marker namespace", d.Namespace, 0).
			WithSuggestion(fmt.Sprintf("markers start with '%s::'", Namespace))
	}

	kind := Kind(d.Kind)
	if !kind.Known() {
		return nil, errors.NewSyntaxErrorWithToken("unknown marker directive", d.Kind, len(Namespace)+2).
			WithSuggestion(fmt.Sprintf("use '%s::%s'", Namespace, KindInitialize))
	}

	a := &Annotation{
		Kind:       kind,
		Parameters: make(map[string]string, len(d.Params)),
		Raw:        text,
	}
	for _, prm := range d.Params {
		if !kind.Accepts(prm.Key) {
			serr := errors.NewSyntaxErrorWithToken("unknown parameter", prm.Key, prm.Pos.Offset)
			if match, ok := kind.suggest(prm.Key); ok {
				serr.WithSuggestion(fmt.Sprintf("did you mean '-%s'?", match))
			} else {
				serr.WithSuggestion(fmt.Sprintf("'%s' accepts %s", kind, strings.Join(prefixed(schemas[kind]), ", ")))
			}
			return nil, serr
		}
		if _, dup := a.Parameters[prm.Key]; dup {
			return nil, errors.NewSyntaxErrorWithToken("duplicate parameter", prm.Key, prm.Pos.Offset)
		}
		if prm.Value == nil {
			return nil, errors.NewSyntaxErrorWithToken("parameter requires a value", prm.Key, prm.Pos.Offset).
				WithSuggestion(fmt.Sprintf("write -%s=<value>", prm.Key))
		}
		a.Parameters[prm.Key] = *prm.Value
	}

	return a, nil
}

// ParseMarker parses an initialize directive into a Marker.
func (p *Parser) ParseMarker(text string) (*Marker, error) {
	a, err := p.Parse(text)
	if err != nil {
		return nil, err
	}
	if a.Kind != KindInitialize {
		return nil, errors.NewSyntaxErrorWithToken("not an initialize directive", a.Kind.String(), 0)
	}

	iface, set := a.Get(ParamInterface)
	if set && iface == "" {
		return nil, errors.NewSyntaxErrorWithToken("empty interface reference", ParamInterface, 0)
	}
	return &Marker{
		Interface: iface,
		Name:      a.GetString(ParamName),
	}, nil
}

func syntaxError(err error) *errors.SyntaxError {
	var unexpected *participle.UnexpectedTokenError
	if stderrors.As(err, &unexpected) {
		return errors.NewSyntaxErrorWithToken("unexpected token", unexpected.Unexpected.Value, unexpected.Unexpected.Pos.Offset).
			WithSuggestion("parameters are written -Key=Value")
	}

	var perr participle.Error
	if stderrors.As(err, &perr) {
		return errors.NewSyntaxErrorWithToken(perr.Message(), "", perr.Position().Offset)
	}
	return errors.NewSyntaxError(err.Error())
}

func prefixed(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "-" + n
	}
	return out
}
