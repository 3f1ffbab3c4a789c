// Package dsl implements the small pipeline description language
// SPEC_FULL.md §10 names to give lower.Lower real input: a textual surface
// syntax for declaring Functions and their Schedules. It is additive scope
// — spec.md excludes the Function/Schedule builder as an external
// collaborator "described only by signature," so this package is the thing
// standing in for that collaborator, grounded on kanso-lang-kanso's
// participle-based grammar/lexer/parser split.
package dsl

import "github.com/alecthomas/participle/v2/lexer"

// Lexer tokenizes .hdsl source, grounded on kanso-lang-kanso/grammar/lexer.go's
// stateful-lexer idiom (one "Root" state, ordered rules, elided whitespace).
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `[0-9]+`, nil},
		{"Operator", `(==|!=|<=|>=|[-+*/%<>=])`, nil},
		{"Punctuation", `[(),.]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
