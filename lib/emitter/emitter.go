// Package emitter lowers a verified C-Next program to C99. The passes in
// lib/analyzer never mutate the AST, so emission is a straight walk over the
// same tree they saw.
package emitter

import (
	"fmt"
	"strings"

	"github.com/cnx-lang/cnxc/lib/analyzer"
	"github.com/cnx-lang/cnxc/lib/parser"
)

type Emitter struct {
	b       strings.Builder
	table   *analyzer.SymbolTable
	indent  int
	scope   string
	members map[string]bool
}

func New(table *analyzer.SymbolTable) *Emitter {
	return &Emitter{table: table}
}

func (e *Emitter) Emit(prog *parser.Program) string {
	e.line("#include <stdint.h>")
	e.line("#include <stdbool.h>")
	e.line("#include <string.h>")
	for _, d := range prog.Decls {
		if d.Include != nil {
			e.line(fmt.Sprintf("#include %q", d.Include.Path))
		}
	}
	e.line("")
	for _, d := range prog.Decls {
		switch {
		case d.Struct != nil:
			e.structDecl(d.Struct)
		case d.Enum != nil:
			e.enumDecl(d.Enum)
		case d.Scope != nil:
			e.scopeDecl(d.Scope)
		case d.Function != nil:
			e.funcDecl(d.Function)
		case d.Var != nil:
			e.varDecl(d.Var, "")
		}
	}
	return e.b.String()
}

func (e *Emitter) line(s string) {
	e.b.WriteString(strings.Repeat("    ", e.indent))
	e.b.WriteString(s)
	e.b.WriteString("\n")
}

func cType(name string) string {
	switch name {
	case "u8":
		return "uint8_t"
	case "u16":
		return "uint16_t"
	case "u32":
		return "uint32_t"
	case "u64":
		return "uint64_t"
	case "i8":
		return "int8_t"
	case "i16":
		return "int16_t"
	case "i32":
		return "int32_t"
	case "i64":
		return "int64_t"
	case "f32":
		return "float"
	case "f64":
		return "double"
	case "string":
		return "const char *"
	default:
		return name
	}
}

func (e *Emitter) declarator(tr *parser.TypeRef, name string) string {
	if tr == nil {
		return "void " + name
	}
	out := cType(tr.Name) + " " + name
	if tr.Arr != nil {
		if tr.Arr.Size != nil {
			out += fmt.Sprintf("[%d]", *tr.Arr.Size)
		} else {
			out += "[]"
		}
	}
	return out
}

func (e *Emitter) structDecl(d *parser.StructDecl) {
	e.line("typedef struct {")
	e.indent++
	for _, f := range d.Fields {
		e.line(e.declarator(f.Type, f.Name) + ";")
	}
	e.indent--
	e.line("} " + d.Name + ";")
	e.line("")
}

func (e *Emitter) enumDecl(d *parser.EnumDecl) {
	e.line("typedef enum {")
	e.indent++
	for i, m := range d.Members {
		sep := ","
		if i == len(d.Members)-1 {
			sep = ""
		}
		e.line(d.Name + "_" + m + sep)
	}
	e.indent--
	e.line("} " + d.Name + ";")
	e.line("")
}

// scopeDecl lowers a scope to file-static members and prefixed functions.
func (e *Emitter) scopeDecl(d *parser.ScopeDecl) {
	e.scope = d.Name
	e.members = make(map[string]bool)
	for _, m := range d.Body {
		if m.Var != nil {
			e.members[m.Var.Name] = true
		}
		if m.Function != nil {
			e.members[m.Function.Name] = true
		}
	}
	for _, m := range d.Body {
		if m.Var != nil {
			e.varDecl(m.Var, "static ")
		}
	}
	for _, m := range d.Body {
		if m.Function != nil {
			e.funcDecl(m.Function)
		}
	}
	e.scope = ""
	e.members = nil
}

func (e *Emitter) funcDecl(fn *parser.FuncDecl) {
	var params []string
	for _, p := range fn.Params {
		params = append(params, e.declarator(p.Type, p.Name))
	}
	if len(params) == 0 {
		params = []string{"void"}
	}
	e.line(e.declarator(fn.ReturnType, e.rename(fn.Name)) + "(" + strings.Join(params, ", ") + ") {")
	e.indent++
	e.stmts(fn.Body)
	e.indent--
	e.line("}")
	e.line("")
}

func (e *Emitter) rename(name string) string {
	if e.members != nil && e.members[name] {
		return e.scope + "_" + name
	}
	return name
}

func (e *Emitter) varDecl(v *parser.VarDecl, prefix string) {
	decl := prefix + e.declarator(v.Type, e.rename(v.Name))
	if v.Value != nil {
		decl += " = " + e.expr(v.Value)
	}
	e.line(decl + ";")
}

func (e *Emitter) stmts(stmts []*parser.Statement) {
	for _, s := range stmts {
		e.stmt(s)
	}
}

func (e *Emitter) stmt(s *parser.Statement) {
	switch {
	case s.Var != nil:
		e.varDecl(s.Var, "")
	case s.Simple != nil:
		e.simpleStmt(s.Simple)
	case s.If != nil:
		e.ifStmt(s.If, "if")
	case s.While != nil:
		e.line("while (" + e.expr(s.While.Cond) + ") {")
		e.indent++
		e.stmts(s.While.Body)
		e.indent--
		e.line("}")
	case s.DoWhile != nil:
		e.line("do {")
		e.indent++
		e.stmts(s.DoWhile.Body)
		e.indent--
		e.line("} while (" + e.expr(s.DoWhile.Cond) + ");")
	case s.For != nil:
		e.forStmt(s.For)
	case s.Switch != nil:
		e.switchStmt(s.Switch)
	case s.Critical != nil:
		// critical sections have no initialization semantics; lower to a
		// plain block the target toolchain can guard
		e.line("{")
		e.indent++
		e.stmts(s.Critical.Body)
		e.indent--
		e.line("}")
	case s.Return != nil:
		if s.Return.Value != nil {
			e.line("return " + e.expr(s.Return.Value) + ";")
		} else {
			e.line("return;")
		}
	case s.Break != nil:
		e.line("break;")
	case s.Continue != nil:
		e.line("continue;")
	case s.Block != nil:
		e.line("{")
		e.indent++
		e.stmts(s.Block.Body)
		e.indent--
		e.line("}")
	}
}

func (e *Emitter) simpleStmt(s *parser.SimpleStmt) {
	if s.Value == nil {
		e.line(e.expr(s.Expr) + ";")
		return
	}
	if bit, ok := e.bitTarget(s.Expr); ok {
		v := e.expr(s.Value)
		e.line(fmt.Sprintf("%s = (%s) ? (%s | (1u << (%s))) : (%s & ~(1u << (%s)));",
			bit.base, v, bit.base, bit.index, bit.base, bit.index))
		return
	}
	e.line(e.expr(s.Expr) + " = " + e.expr(s.Value) + ";")
}

type bitAccess struct {
	base  string
	index string
}

// bitTarget recognizes a single-subscript on a plain integer variable, which
// is a bit access rather than an array access.
func (e *Emitter) bitTarget(target *parser.Expression) (bitAccess, bool) {
	f := e.onlyFactor(target)
	if f == nil || f.Base == nil || f.Base.Ident == "" {
		return bitAccess{}, false
	}
	if len(f.Tail) != 1 || f.Tail[0].Index == nil {
		return bitAccess{}, false
	}
	typ, ok := e.table.TypeOf(f.Base.Ident)
	if !ok || !analyzer.IsIntegerType(typ) {
		return bitAccess{}, false
	}
	return bitAccess{base: e.rename(f.Base.Ident), index: e.expr(f.Tail[0].Index)}, true
}

func (e *Emitter) onlyFactor(x *parser.Expression) *parser.Factor {
	if x == nil || x.Left == nil || len(x.Right) > 0 {
		return nil
	}
	if len(x.Left.Right) > 0 || x.Left.Left == nil {
		return nil
	}
	if len(x.Left.Left.Right) > 0 {
		return nil
	}
	return x.Left.Left.Left
}

func (e *Emitter) ifStmt(s *parser.IfStmt, kw string) {
	e.line(kw + " (" + e.expr(s.Cond) + ") {")
	e.indent++
	e.stmts(s.Then)
	e.indent--
	switch {
	case s.ElseIf != nil:
		e.b.WriteString(strings.Repeat("    ", e.indent) + "} else ")
		e.ifStmtInline(s.ElseIf)
	case s.Else != nil:
		e.line("} else {")
		e.indent++
		e.stmts(s.Else)
		e.indent--
		e.line("}")
	default:
		e.line("}")
	}
}

func (e *Emitter) ifStmtInline(s *parser.IfStmt) {
	e.b.WriteString("if (" + e.expr(s.Cond) + ") {\n")
	e.indent++
	e.stmts(s.Then)
	e.indent--
	switch {
	case s.ElseIf != nil:
		e.b.WriteString(strings.Repeat("    ", e.indent) + "} else ")
		e.ifStmtInline(s.ElseIf)
	case s.Else != nil:
		e.line("} else {")
		e.indent++
		e.stmts(s.Else)
		e.indent--
		e.line("}")
	default:
		e.line("}")
	}
}

func (e *Emitter) forStmt(s *parser.ForStmt) {
	var init string
	if s.Init != nil {
		switch {
		case s.Init.Decl != nil:
			d := s.Init.Decl
			init = e.declarator(d.Type, e.rename(d.Name)) + " = " + e.expr(d.Value)
		case s.Init.Assign != nil:
			init = e.rename(s.Init.Assign.Name) + " = " + e.expr(s.Init.Assign.Value)
		}
	}
	step := ""
	if s.Step != nil {
		step = e.rename(s.Step.Name) + " = " + e.expr(s.Step.Value)
	}
	e.line("for (" + init + "; " + e.expr(s.Cond) + "; " + step + ") {")
	e.indent++
	e.stmts(s.Body)
	e.indent--
	e.line("}")
}

func (e *Emitter) switchStmt(s *parser.SwitchStmt) {
	e.line("switch (" + e.expr(s.Tag) + ") {")
	for _, c := range s.Cases {
		if c.Value != nil {
			e.line("case " + e.expr(c.Value) + ": {")
		} else {
			e.line("default: {")
		}
		e.indent++
		e.stmts(c.Body)
		e.line("break;")
		e.indent--
		e.line("}")
	}
	e.line("}")
}

// expressions

func (e *Emitter) expr(x *parser.Expression) string {
	if x == nil || x.Left == nil {
		return ""
	}
	out := e.comparison(x.Left)
	for _, op := range x.Right {
		out += " " + op.Op + " " + e.expr(op.Expression)
	}
	return out
}

func (e *Emitter) comparison(c *parser.Comparison) string {
	out := e.term(c.Left)
	for _, op := range c.Right {
		out += " " + op.Op + " " + e.comparison(op.Comparison)
	}
	return out
}

func (e *Emitter) term(t *parser.Term) string {
	out := e.factor(t.Left)
	for _, op := range t.Right {
		out += " " + op.Op + " " + e.term(op.Term)
	}
	return out
}

func (e *Emitter) factor(f *parser.Factor) string {
	if f == nil || f.Base == nil {
		return ""
	}
	p := f.Base
	tail := f.Tail
	var out string
	var curType string
	callee := p.Ident
	switch {
	case p.Float != nil:
		out = fmt.Sprintf("%g", *p.Float)
	case p.Int != nil:
		out = fmt.Sprintf("%d", *p.Int)
	case p.Bool != nil:
		if bool(*p.Bool) {
			out = "true"
		} else {
			out = "false"
		}
	case p.String != nil:
		out = fmt.Sprintf("%q", *p.String)
	case p.Char != nil:
		out = *p.Char
	case p.Unary != nil:
		return p.Unary.Op + e.factor(p.Unary.Operand)
	case p.Sub != nil:
		out = "(" + e.expr(p.Sub) + ")"
	case p.Composite != nil:
		var vals []string
		for _, v := range p.Composite.Values {
			vals = append(vals, e.expr(v))
		}
		return "{" + strings.Join(vals, ", ") + "}"
	default:
		out = e.rename(p.Ident)
		curType, _ = e.table.TypeOf(p.Ident)
		// dotted enum member lowers to the prefixed C constant
		if e.table.IsEnum(p.Ident) && len(tail) > 0 && tail[0].Field != nil {
			return p.Ident + "_" + *tail[0].Field
		}
		// scope-qualified access lowers to the prefixed C name
		if e.table.IsScope(p.Ident) && len(tail) > 0 && tail[0].Field != nil {
			callee = *tail[0].Field
			out = p.Ident + "_" + callee
			curType, _ = e.table.TypeOf(callee)
			tail = tail[1:]
		}
	}
	for _, pf := range tail {
		switch {
		case pf.Field != nil:
			if curType == analyzer.TypeString && *pf.Field == "length" {
				out = "strlen(" + out + ")"
				curType = "u32"
				continue
			}
			out += "." + *pf.Field
			curType, _ = e.table.FieldType(curType, *pf.Field)
		case pf.Index != nil:
			if analyzer.IsIntegerType(curType) {
				out = "((" + out + " >> (" + e.expr(pf.Index) + ")) & 1u)"
				curType = analyzer.TypeBool
				continue
			}
			out += "[" + e.expr(pf.Index) + "]"
			curType = analyzer.ElemType(curType)
		case pf.Call != nil:
			var args []string
			for _, a := range pf.Call.Args {
				args = append(args, e.expr(a))
			}
			out += "(" + strings.Join(args, ", ") + ")"
			curType, _ = e.table.ReturnType(callee)
		}
	}
	return out
}
