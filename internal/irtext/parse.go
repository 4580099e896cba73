// Package irtext parses the ".lir" textual form of the IR — the assembly-
// like notation internal/ir.Printer renders — back into *ir.Function
// values, grounded in the teacher's grammar/ participle usage
// (grammar.go's struct tags, lexer.go's stateful lexer, parser.go's
// caret-style error reporting).
//
// This package parses the IR itself, not the Lumen contract source
// language; it exists so the CLI and tests can build non-trivial functions
// without hand-constructing internal/ir structs for every case.
package irtext

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"github.com/lumenvm/lumen/internal/ir"
)

var parser = participle.MustBuild[File](
	participle.Lexer(LirLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(5),
)

// ParseFile reads path and parses every function it contains.
func ParseFile(path string) ([]*ir.Function, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("irtext: failed to read %s: %w", path, err)
	}
	return ParseString(path, string(source))
}

// ParseString parses source (named filename for diagnostics) into its
// functions.
func ParseString(filename, source string) ([]*ir.Function, error) {
	file, err := parser.ParseString(filename, source)
	if err != nil {
		reportParseError(source, err)
		return nil, err
	}

	fns := make([]*ir.Function, 0, len(file.Functions))
	for _, decl := range file.Functions {
		fn, err := buildFunction(decl)
		if err != nil {
			return nil, fmt.Errorf("irtext: %s: %w", filename, err)
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

// ParseFunction parses source expecting exactly one function and returns
// it; a convenience for the common single-function test/CLI case.
func ParseFunction(filename, source string) (*ir.Function, error) {
	fns, err := ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	if len(fns) != 1 {
		return nil, fmt.Errorf("irtext: %s: expected exactly one function, found %d", filename, len(fns))
	}
	return fns[0], nil
}

// reportParseError prints a caret-style parse error, matching
// grammar.ParseFile's diagnostic style.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("irtext: unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("irtext: syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}
