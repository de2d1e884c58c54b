package parser

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	cnxlex "github.com/cnx-lang/cnxc/lib/lexer"
)

var def = participle.MustBuild[Program](
	participle.Lexer(cnxlex.Definition),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

func ParseFile(filename string) (*Program, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return ParseString(filename, string(src))
}

func ParseString(filename, source string) (*Program, error) {
	ast, err := def.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return ast, nil
}

// EBNF returns the grammar in EBNF form, for the --ebnf debugging flag.
func EBNF() string {
	return def.String()
}
