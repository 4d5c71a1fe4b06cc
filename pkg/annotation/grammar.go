package annotation

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// declaration is a parameter name followed by its markers:
//
//	filter? = nil @FromQuery(name="q", enforceTypes=true)
type declaration struct {
	Pos      lexer.Position
	Name     string        `parser:"@Ident"`
	Nullable bool          `parser:"@'?'?"`
	Default  *literal      `parser:"('=' @@)?"`
	Markers  []*markerNode `parser:"@@*"`
}

type markerList struct {
	Markers []*markerNode `parser:"@@*"`
}

type markerNode struct {
	Pos  lexer.Position
	Name string      `parser:"'@' @Ident"`
	Args []*argument `parser:"('(' (@@ (',' @@)*)? ')')?"`
}

type argument struct {
	Pos   lexer.Position
	Key   string   `parser:"@Ident '='"`
	Value *literal `parser:"@@"`
}

type literal struct {
	String *string  `parser:"  @String"`
	Number *string  `parser:"| @Number"`
	Bool   *boolean `parser:"| @('true' | 'false')"`
	Nil    bool     `parser:"| @'nil'"`
	Ident  *string  `parser:"| @Ident"`
}

type boolean bool

func (b *boolean) Capture(values []string) error {
	*b = values[0] == "true"
	return nil
}

// value converts the literal to string, int, float64, bool or nil
func (l *literal) value() interface{} {
	switch {
	case l == nil || l.Nil:
		return nil
	case l.String != nil:
		return *l.String
	case l.Number != nil:
		if !strings.ContainsAny(*l.Number, ".eE") {
			if i, err := strconv.Atoi(*l.Number); err == nil {
				return i
			}
		}
		f, _ := strconv.ParseFloat(*l.Number, 64)
		return f
	case l.Bool != nil:
		return bool(*l.Bool)
	case l.Ident != nil:
		return *l.Ident
	}
	return nil
}

var declarationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
	{Name: "Punct", Pattern: `[@()=,?]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	declarationParser = participle.MustBuild[declaration](
		participle.Lexer(declarationLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	markerListParser = participle.MustBuild[markerList](
		participle.Lexer(declarationLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
)
