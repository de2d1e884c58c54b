package cnxlex

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Definition tokenizes C-Next source. Multi-character operators are listed
// before their single-character prefixes so that `<-` and `<<` lex as one
// token each instead of two.
var Definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?:[^*]|\*+[^*/])*\*+/`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Directive", Pattern: `#[a-z]+`},
	{Name: "Float", Pattern: `\d+\.\d+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `'(?:\\.|[^'\\])'`},
	{Name: "Assign", Pattern: `<-`},
	{Name: "Operator", Pattern: `<<|>>|<=|>=|==|!=|&&|\|\||[-+*/%<>=!&|^~]`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[.,;:(){}\[\]]`},
})
