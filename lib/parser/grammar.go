package parser

import "github.com/alecthomas/participle/v2/lexer"

type Bool bool

func (b *Bool) Capture(values []string) error {
	*b = values[0] == "true"
	return nil
}

type Program struct {
	Pos lexer.Position

	Decls []*Declaration `parser:"@@*"`
}

type Declaration struct {
	Include  *Include    `parser:"  @@"`
	Struct   *StructDecl `parser:"| (?= 'struct') @@"`
	Enum     *EnumDecl   `parser:"| (?= 'enum') @@"`
	Scope    *ScopeDecl  `parser:"| (?= 'scope') @@"`
	Function *FuncDecl   `parser:"| (?= Ident ( '[' Int? ']' )? Ident '(') @@"`
	Var      *VarDecl    `parser:"| @@"`
}

type Include struct {
	Pos lexer.Position

	Path string `parser:"'#include' @String"`
}

type StructDecl struct {
	Pos lexer.Position

	Name   string       `parser:"'struct' @Ident '{'"`
	Fields []*FieldDecl `parser:"@@* '}' ';'?"`
}

type FieldDecl struct {
	Pos lexer.Position

	Type *TypeRef `parser:"@@"`
	Name string   `parser:"@Ident ';'"`
}

type EnumDecl struct {
	Pos lexer.Position

	Name    string   `parser:"'enum' @Ident '{'"`
	Members []string `parser:"( @Ident ( ',' @Ident )* ','? )? '}' ';'?"`
}

// ScopeDecl is a named module holding member variables and functions. Scope
// members behave like globals for initialization purposes.
type ScopeDecl struct {
	Pos lexer.Position

	Name string         `parser:"'scope' @Ident '{'"`
	Body []*ScopeMember `parser:"@@* '}'"`
}

type ScopeMember struct {
	Function *FuncDecl `parser:"  (?= Ident ( '[' Int? ']' )? Ident '(') @@"`
	Var      *VarDecl  `parser:"| @@"`
}

type FuncDecl struct {
	Pos lexer.Position

	ReturnType *TypeRef     `parser:"@@"`
	Name       string       `parser:"@Ident"`
	Params     []*Param     `parser:"'(' ( @@ ( ',' @@ )* )? ')'"`
	Body       []*Statement `parser:"'{' @@* '}'"`
}

type Param struct {
	Pos lexer.Position

	Type *TypeRef `parser:"@@"`
	Name string   `parser:"@Ident"`
}

// TypeRef is a type name with an optional array dimension, e.g. `u8[10]`.
type TypeRef struct {
	Pos lexer.Position

	Name string     `parser:"@Ident"`
	Arr  *ArraySpec `parser:"@@?"`
}

type ArraySpec struct {
	Size *uint64 `parser:"'[' @Int? ']'"`
}

type VarDecl struct {
	Pos lexer.Position

	Type  *TypeRef    `parser:"@@"`
	Name  string      `parser:"@Ident"`
	Value *Expression `parser:"( '<-' @@ )? ';'"`
}

type Statement struct {
	If       *IfStmt       `parser:"  (?= 'if') @@"`
	While    *WhileStmt    `parser:"| (?= 'while') @@"`
	DoWhile  *DoWhileStmt  `parser:"| (?= 'do') @@"`
	For      *ForStmt      `parser:"| (?= 'for') @@"`
	Switch   *SwitchStmt   `parser:"| (?= 'switch') @@"`
	Critical *CriticalStmt `parser:"| (?= 'critical') @@"`
	Return   *ReturnStmt   `parser:"| (?= 'return') @@"`
	Break    *BreakStmt    `parser:"| (?= 'break') @@"`
	Continue *ContinueStmt `parser:"| (?= 'continue') @@"`
	Block    *BlockStmt    `parser:"| (?= '{') @@"`
	Var      *VarDecl      `parser:"| (?= Ident ( '[' Int? ']' )? Ident ( '<-' | ';' )) @@"`
	Simple   *SimpleStmt   `parser:"| @@"`
}

// SimpleStmt is either a bare expression statement (usually a call) or an
// assignment when the arrow and right-hand side are present.
type SimpleStmt struct {
	Pos lexer.Position

	Expr  *Expression `parser:"@@"`
	Value *Expression `parser:"( '<-' @@ )? ';'"`
}

type IfStmt struct {
	Pos lexer.Position

	Cond   *Expression  `parser:"'if' '(' @@ ')'"`
	Then   []*Statement `parser:"'{' @@* '}'"`
	ElseIf *IfStmt      `parser:"( 'else' ( (?= 'if') @@"`
	Else   []*Statement `parser:"| '{' @@* '}' ) )?"`
}

type WhileStmt struct {
	Pos lexer.Position

	Cond *Expression  `parser:"'while' '(' @@ ')'"`
	Body []*Statement `parser:"'{' @@* '}'"`
}

type DoWhileStmt struct {
	Pos lexer.Position

	Body []*Statement `parser:"'do' '{' @@* '}'"`
	Cond *Expression  `parser:"'while' '(' @@ ')' ';'"`
}

type ForStmt struct {
	Pos lexer.Position

	Init *ForInit     `parser:"'for' '(' @@ ';'"`
	Cond *Expression  `parser:"@@ ';'"`
	Step *ForAssign   `parser:"@@ ')'"`
	Body []*Statement `parser:"'{' @@* '}'"`
}

type ForInit struct {
	Decl   *ForDecl   `parser:"  (?= Ident Ident) @@"`
	Assign *ForAssign `parser:"| @@"`
}

type ForDecl struct {
	Pos lexer.Position

	Type  *TypeRef    `parser:"@@"`
	Name  string      `parser:"@Ident"`
	Value *Expression `parser:"'<-' @@"`
}

type ForAssign struct {
	Pos lexer.Position

	Name  string      `parser:"@Ident"`
	Value *Expression `parser:"'<-' @@"`
}

type SwitchStmt struct {
	Pos lexer.Position

	Tag   *Expression   `parser:"'switch' '(' @@ ')' '{'"`
	Cases []*SwitchCase `parser:"@@* '}'"`
}

type SwitchCase struct {
	Pos lexer.Position

	Value   *Expression  `parser:"( 'case' @@ ':'"`
	Default bool         `parser:"| @'default' ':' )"`
	Body    []*Statement `parser:"@@*"`
}

type CriticalStmt struct {
	Pos lexer.Position

	Body []*Statement `parser:"'critical' '{' @@* '}'"`
}

type ReturnStmt struct {
	Pos lexer.Position

	Value *Expression `parser:"'return' @@? ';'"`
}

type BreakStmt struct {
	Pos lexer.Position

	Keyword string `parser:"@'break' ';'"`
}

type ContinueStmt struct {
	Pos lexer.Position

	Keyword string `parser:"@'continue' ';'"`
}

type BlockStmt struct {
	Pos lexer.Position

	Body []*Statement `parser:"'{' @@* '}'"`
}

type Expression struct {
	Pos lexer.Position

	Left  *Comparison     `parser:"@@"`
	Right []*OpExpression `parser:"@@*"`
}

type OpExpression struct {
	Op         string      `parser:"@( '+' | '-' | '&' | '|' | '^' )"`
	Expression *Expression `parser:"@@"`
}

type Comparison struct {
	Pos lexer.Position

	Left  *Term           `parser:"@@"`
	Right []*OpComparison `parser:"@@*"`
}

type OpComparison struct {
	Op         string      `parser:"@( '<' | '<=' | '>' | '>=' | '==' | '!=' | '&&' | '||' )"`
	Comparison *Comparison `parser:"@@"`
}

type Term struct {
	Pos lexer.Position

	Left  *Factor   `parser:"@@"`
	Right []*OpTerm `parser:"@@*"`
}

type OpTerm struct {
	Op   string `parser:"@( '*' | '/' | '%' | '<<' | '>>' )"`
	Term *Term  `parser:"@@"`
}

// Factor is a primary term followed by its postfix chain of member accesses,
// subscripts and calls, evaluated left to right.
type Factor struct {
	Pos lexer.Position

	Base *Primary   `parser:"@@"`
	Tail []*Postfix `parser:"@@*"`
}

type Postfix struct {
	Pos lexer.Position

	Field *string     `parser:"  '.' @Ident"`
	Index *Expression `parser:"| '[' @@ ']'"`
	Call  *ArgList    `parser:"| '(' @@ ')'"`
}

type ArgList struct {
	Args []*Expression `parser:"( @@ ( ',' @@ )* )?"`
}

type Primary struct {
	Pos lexer.Position

	Float     *float64       `parser:"  @Float"`
	Int       *uint64        `parser:"| @Int"`
	Bool      *Bool          `parser:"| @( 'true' | 'false' )"`
	String    *string        `parser:"| @String"`
	Char      *string        `parser:"| @Char"`
	Unary     *Unary         `parser:"| @@"`
	Composite *CompositeInit `parser:"| @@"`
	Sub       *Expression    `parser:"| '(' @@ ')'"`
	Ident     string         `parser:"| @Ident"`
}

type Unary struct {
	Pos lexer.Position

	Op      string  `parser:"@( '!' | '-' | '~' )"`
	Operand *Factor `parser:"@@"`
}

// CompositeInit is a brace-enclosed struct or array initializer, e.g.
// `{ 1, 2 }`.
type CompositeInit struct {
	Pos lexer.Position

	Values []*Expression `parser:"'{' ( @@ ( ',' @@ )* ','? )? '}'"`
}
