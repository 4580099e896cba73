package irtext

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// LirLexer tokenizes the .lir textual IR form. Block labels are written
// with a leading "%" at their definition ("%entry:") so the parser never
// has to backtrack between "start of a new block" and "start of an
// instruction" — both otherwise begin with a bare identifier.
var LirLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `(//|;)[^\n]*`, nil},
		{"Arrow", `->`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `[0-9]+`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Punctuation", `[%{}()\[\],:.=<>]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
