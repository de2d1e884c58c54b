package analyzer

import (
	"fmt"

	"github.com/cnx-lang/cnxc/lib/parser"
)

// IndexCheck verifies that every subscript index is built from unsigned
// integers, enums or literals. It shares the resolver's fail-open contract:
// a sub-term that cannot be resolved never produces a diagnostic.
type IndexCheck struct {
	table *SymbolTable
	diags []Diagnostic
}

func NewIndexCheck(table *SymbolTable) *IndexCheck {
	return &IndexCheck{table: table}
}

func (c *IndexCheck) Analyze(prog *parser.Program) []Diagnostic {
	for _, d := range prog.Decls {
		switch {
		case d.Function != nil:
			c.stmts(d.Function.Body)
		case d.Scope != nil:
			for _, m := range d.Scope.Body {
				if m.Function != nil {
					c.stmts(m.Function.Body)
				}
			}
		case d.Var != nil:
			c.expr(d.Var.Value)
		}
	}
	return c.diags
}

// Errors returns the diagnostics collected so far. Idempotent.
func (c *IndexCheck) Errors() []Diagnostic {
	return c.diags
}

func (c *IndexCheck) stmts(stmts []*parser.Statement) {
	for _, s := range stmts {
		c.stmt(s)
	}
}

func (c *IndexCheck) stmt(s *parser.Statement) {
	switch {
	case s.Var != nil:
		c.expr(s.Var.Value)
	case s.Simple != nil:
		c.expr(s.Simple.Expr)
		c.expr(s.Simple.Value)
	case s.If != nil:
		c.ifStmt(s.If)
	case s.While != nil:
		c.expr(s.While.Cond)
		c.stmts(s.While.Body)
	case s.DoWhile != nil:
		c.stmts(s.DoWhile.Body)
		c.expr(s.DoWhile.Cond)
	case s.For != nil:
		if s.For.Init != nil {
			if s.For.Init.Decl != nil {
				c.expr(s.For.Init.Decl.Value)
			}
			if s.For.Init.Assign != nil {
				c.expr(s.For.Init.Assign.Value)
			}
		}
		c.expr(s.For.Cond)
		if s.For.Step != nil {
			c.expr(s.For.Step.Value)
		}
		c.stmts(s.For.Body)
	case s.Switch != nil:
		c.expr(s.Switch.Tag)
		for _, cs := range s.Switch.Cases {
			c.expr(cs.Value)
			c.stmts(cs.Body)
		}
	case s.Critical != nil:
		c.stmts(s.Critical.Body)
	case s.Return != nil:
		c.expr(s.Return.Value)
	case s.Block != nil:
		c.stmts(s.Block.Body)
	}
}

func (c *IndexCheck) ifStmt(s *parser.IfStmt) {
	c.expr(s.Cond)
	c.stmts(s.Then)
	if s.ElseIf != nil {
		c.ifStmt(s.ElseIf)
	}
	c.stmts(s.Else)
}

func (c *IndexCheck) expr(e *parser.Expression) {
	if e == nil || e.Left == nil {
		return
	}
	c.comparison(e.Left)
	for _, op := range e.Right {
		c.expr(op.Expression)
	}
}

func (c *IndexCheck) comparison(cm *parser.Comparison) {
	if cm == nil || cm.Left == nil {
		return
	}
	c.term(cm.Left)
	for _, op := range cm.Right {
		c.comparison(op.Comparison)
	}
}

func (c *IndexCheck) term(t *parser.Term) {
	if t == nil || t.Left == nil {
		return
	}
	c.factor(t.Left)
	for _, op := range t.Right {
		c.term(op.Term)
	}
}

func (c *IndexCheck) factor(f *parser.Factor) {
	if f == nil || f.Base == nil {
		return
	}
	p := f.Base
	switch {
	case p.Unary != nil:
		c.factor(p.Unary.Operand)
	case p.Sub != nil:
		c.expr(p.Sub)
	case p.Composite != nil:
		for _, v := range p.Composite.Values {
			c.expr(v)
		}
	}
	for _, pf := range f.Tail {
		switch {
		case pf.Index != nil:
			c.checkIndex(pf.Index)
			c.expr(pf.Index)
		case pf.Call != nil:
			for _, arg := range pf.Call.Args {
				c.expr(arg)
			}
		}
	}
}

// checkIndex resolves every sub-term of an index expression; the first
// signed or float term anywhere in the chain is reported with its actual
// type. Unknown terms stay silent.
func (c *IndexCheck) checkIndex(e *parser.Expression) {
	for _, f := range chainFactors(e, nil) {
		typ := resolveFactor(f, c.table)
		switch {
		case typ == Unknown:
		case IsSignedType(typ):
			c.report(CodeSignedIndex, f, typ,
				fmt.Sprintf("index expression has signed type '%s'", typ),
				"use an unsigned type for the index, or cast the value to one")
			return
		case IsFloatType(typ):
			c.report(CodeFloatIndex, f, typ,
				fmt.Sprintf("index expression has floating-point type '%s'", typ),
				"indexes must be unsigned integers")
			return
		case validIndexType(typ, c.table):
		default:
			c.report(CodeInvalidIndex, f, typ,
				fmt.Sprintf("type '%s' cannot be used in an index expression", typ),
				"use an unsigned integer, an enum value, or a literal")
			return
		}
	}
}

func validIndexType(typ string, t *SymbolTable) bool {
	return IsUnsignedType(typ) || typ == TypeBool || t.IsEnum(typ)
}

// chainFactors flattens an index expression into its factors, descending
// through parenthesized sub-expressions and unary operators.
func chainFactors(e *parser.Expression, out []*parser.Factor) []*parser.Factor {
	if e == nil || e.Left == nil {
		return out
	}
	out = chainComparison(e.Left, out)
	for _, op := range e.Right {
		out = chainFactors(op.Expression, out)
	}
	return out
}

func chainComparison(cm *parser.Comparison, out []*parser.Factor) []*parser.Factor {
	if cm == nil || cm.Left == nil {
		return out
	}
	out = chainTerm(cm.Left, out)
	for _, op := range cm.Right {
		out = chainComparison(op.Comparison, out)
	}
	return out
}

func chainTerm(t *parser.Term, out []*parser.Factor) []*parser.Factor {
	if t == nil || t.Left == nil {
		return out
	}
	out = chainFactor(t.Left, out)
	for _, op := range t.Right {
		out = chainTerm(op.Term, out)
	}
	return out
}

func chainFactor(f *parser.Factor, out []*parser.Factor) []*parser.Factor {
	if f == nil || f.Base == nil {
		return out
	}
	switch {
	case f.Base.Sub != nil:
		return chainFactors(f.Base.Sub, out)
	case f.Base.Unary != nil:
		return chainFactor(f.Base.Unary.Operand, out)
	}
	return append(out, f)
}

func (c *IndexCheck) report(code string, f *parser.Factor, typ, msg, help string) {
	d := Diagnostic{
		Code:       code,
		Line:       f.Pos.Line,
		Col:        f.Pos.Column,
		Message:    msg,
		Help:       help,
		ActualType: typ,
		Operator:   "[]",
	}
	if f.Base != nil && f.Base.Ident != "" {
		d.Variable = f.Base.Ident
	}
	c.diags = append(c.diags, d)
}
