package dsl

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

var parser = buildParser()

// buildParser constructs the participle parser once at package init,
// grounded on kanso-lang-kanso/internal/parser/parser.go's
// participle.Build[T] + participle.Lexer + participle.Elide +
// participle.UseLookahead pattern (lookahead is needed here too, since a
// Factor's Call and Ident alternatives both start with an Ident token).
func buildParser() *participle.Parser[Program] {
	p, err := participle.Build[Program](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(4),
	)
	if err != nil {
		panic(fmt.Errorf("dsl: failed to build parser: %w", err))
	}
	return p
}

// ParseString parses source (named sourceName in error messages) into a
// Program.
func ParseString(sourceName, source string) (*Program, error) {
	return parser.ParseString(sourceName, source)
}
