package analyzer

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/cnx-lang/cnxc/lib/parser"
)

// InitState is the two-point lattice tracked per location.
type InitState uint8

const (
	NotDefinite InitState = iota
	Initialized
)

// joinState is the pessimistic merge applied at every control-flow join: a
// location stays Initialized only when both paths agree. No join may ever
// produce a false Initialized.
func joinState(a, b InitState) InitState {
	if a == Initialized && b == Initialized {
		return Initialized
	}
	return NotDefinite
}

// Access tells the expression walker whether it is visiting a read or an
// assignment target, so targets never produce false read diagnostics. It is
// threaded through the walk as an explicit argument.
type Access int

const (
	AccessRead Access = iota
	AccessWrite
)

type frame map[string]InitState

// InitAnalyzer is the flow-sensitive definite-assignment pass. It tracks,
// per variable (and per "var.field" for struct locals with enumerable
// fields), whether a location is guaranteed initialized at each read, and
// reports E0381 when it provably is not. Unresolvable constructs suppress
// the check rather than trigger it. The pass never mutates the AST or the
// symbol table.
type InitAnalyzer struct {
	table  *SymbolTable
	frames []frame
	diags  []Diagnostic
}

func NewInitAnalyzer(table *SymbolTable) *InitAnalyzer {
	return &InitAnalyzer{table: table}
}

// Analyze walks every function body in the unit and returns the diagnostics
// in source order.
func (a *InitAnalyzer) Analyze(prog *parser.Program) []Diagnostic {
	for _, d := range prog.Decls {
		switch {
		case d.Function != nil:
			a.analyzeFunction(d.Function)
		case d.Scope != nil:
			for _, m := range d.Scope.Body {
				if m.Function != nil {
					a.analyzeFunction(m.Function)
				}
			}
		}
	}
	return a.diags
}

// Errors returns the diagnostics collected so far. Idempotent.
func (a *InitAnalyzer) Errors() []Diagnostic {
	return a.diags
}

func (a *InitAnalyzer) analyzeFunction(fn *parser.FuncDecl) {
	a.frames = []frame{make(frame)}
	for _, p := range fn.Params {
		a.DeclareParam(p.Name, TypeName(p.Type))
	}
	a.walkStmts(fn.Body)
	a.frames = nil
}

// DeclareParam records a function parameter as definitely initialized. It is
// exported so callers analyzing a body out of band can seed parameters
// without going through the normal walk.
func (a *InitAnalyzer) DeclareParam(name, typ string) {
	if len(a.frames) == 0 {
		a.frames = []frame{make(frame)}
	}
	a.declareWhole(name, typ, Initialized)
}

// frame stack

func (a *InitAnalyzer) push() {
	a.frames = append(a.frames, make(frame))
}

// pop discards the block's own locations; writes to outer locations were
// recorded in their owning frames and survive.
func (a *InitAnalyzer) pop() {
	a.frames = a.frames[:len(a.frames)-1]
}

// declare records a location in the innermost frame.
func (a *InitAnalyzer) declare(key string, st InitState) {
	a.frames[len(a.frames)-1][key] = st
}

// set updates a location in its owning frame. Untracked locations (globals,
// scope members, unresolvable names) are left alone.
func (a *InitAnalyzer) set(key string, st InitState) {
	for i := len(a.frames) - 1; i >= 0; i-- {
		if _, ok := a.frames[i][key]; ok {
			a.frames[i][key] = st
			return
		}
	}
}

func (a *InitAnalyzer) state(key string) (InitState, bool) {
	for i := len(a.frames) - 1; i >= 0; i-- {
		if st, ok := a.frames[i][key]; ok {
			return st, true
		}
	}
	return NotDefinite, false
}

// snapshot deep-copies the frame stack so a branch can be analyzed without
// disturbing the pre-statement state.
func (a *InitAnalyzer) snapshot() []frame {
	s := make([]frame, len(a.frames))
	for i, f := range a.frames {
		c := make(frame, len(f))
		for k, v := range f {
			c[k] = v
		}
		s[i] = c
	}
	return s
}

// joinFrames merges two end-states of identical depth key by key.
func joinFrames(x, y []frame) []frame {
	out := make([]frame, len(x))
	for i := range x {
		f := make(frame, len(x[i]))
		for k, xv := range x[i] {
			yv, ok := y[i][k]
			if !ok {
				yv = NotDefinite
			}
			f[k] = joinState(xv, yv)
		}
		out[i] = f
	}
	return out
}

// statements

func (a *InitAnalyzer) walkStmts(stmts []*parser.Statement) {
	for _, s := range stmts {
		a.walkStmt(s)
	}
}

func (a *InitAnalyzer) walkBlock(stmts []*parser.Statement) {
	a.push()
	a.walkStmts(stmts)
	a.pop()
}

func (a *InitAnalyzer) walkStmt(s *parser.Statement) {
	switch {
	case s.Var != nil:
		a.declStmt(s.Var)
	case s.Simple != nil:
		a.simpleStmt(s.Simple)
	case s.If != nil:
		a.ifStmt(s.If)
	case s.While != nil:
		// a while body may execute zero times: reads inside are checked
		// against the incoming state, writes never propagate out
		a.VisitExpr(s.While.Cond, AccessRead)
		pre := a.snapshot()
		a.walkBlock(s.While.Body)
		a.frames = pre
	case s.DoWhile != nil:
		// the body runs at least once: plain sequential analysis, body
		// writes persist into the after-state
		a.walkBlock(s.DoWhile.Body)
		a.VisitExpr(s.DoWhile.Cond, AccessRead)
	case s.For != nil:
		a.forStmt(s.For)
	case s.Switch != nil:
		// sequential block analysis, no specialized join
		a.VisitExpr(s.Switch.Tag, AccessRead)
		for _, c := range s.Switch.Cases {
			if c.Value != nil {
				a.VisitExpr(c.Value, AccessRead)
			}
			a.walkBlock(c.Body)
		}
	case s.Critical != nil:
		a.walkBlock(s.Critical.Body)
	case s.Return != nil:
		a.VisitExpr(s.Return.Value, AccessRead)
	case s.Block != nil:
		a.walkBlock(s.Block.Body)
	}
}

func (a *InitAnalyzer) declStmt(v *parser.VarDecl) {
	typ := TypeName(v.Type)
	if v.Value != nil {
		a.VisitExpr(v.Value, AccessRead)
		a.declareWhole(v.Name, typ, Initialized)
		return
	}
	// a declaration statement always introduces a local, even when its name
	// shadows a global or scope member in the flat table
	st := NotDefinite
	if a.autoInitialized(typ) {
		st = Initialized
	}
	a.declareWhole(v.Name, typ, st)
}

// autoInitialized reports whether a type carries a host default constructor.
// Foreign structs and classes do; a foreign enum has no constructor and is
// not exempt.
func (a *InitAnalyzer) autoInitialized(typ string) bool {
	k, ok := a.table.ForeignKind(ElemType(typ))
	return ok && (k == KindForeignStruct || k == KindForeignClass)
}

// declareWhole declares the variable key and, for struct locals with
// enumerable fields, one key per field. Arrays stay at whole-variable
// granularity.
func (a *InitAnalyzer) declareWhole(name, typ string, st InitState) {
	a.declare(name, st)
	if IsArrayType(typ) {
		return
	}
	if d, ok := a.table.Struct(typ); ok {
		for _, f := range d.Order {
			a.declare(name+"."+f, st)
		}
	}
}

// markAssigned records a whole-variable assignment: the variable and every
// field key it owns become Initialized.
func (a *InitAnalyzer) markAssigned(name string) {
	a.set(name, Initialized)
	if typ, ok := a.table.TypeOf(name); ok {
		if d, ok := a.table.Struct(typ); ok {
			for _, f := range d.Order {
				a.set(name+"."+f, Initialized)
			}
		}
	}
}

func (a *InitAnalyzer) simpleStmt(s *parser.SimpleStmt) {
	if s.Value == nil {
		a.VisitExpr(s.Expr, AccessRead)
		return
	}
	// right-hand side reads happen against the pre-assignment state
	a.VisitExpr(s.Value, AccessRead)
	a.VisitExpr(s.Expr, AccessWrite)
}

func (a *InitAnalyzer) ifStmt(s *parser.IfStmt) {
	a.VisitExpr(s.Cond, AccessRead)
	pre := a.snapshot()
	a.walkBlock(s.Then)
	thenEnd := a.frames
	a.frames = pre
	elseEnd := pre
	switch {
	case s.ElseIf != nil:
		a.ifStmt(s.ElseIf)
		elseEnd = a.frames
	case s.Else != nil:
		a.walkBlock(s.Else)
		elseEnd = a.frames
	}
	a.frames = joinFrames(thenEnd, elseEnd)
}

func (a *InitAnalyzer) forStmt(s *parser.ForStmt) {
	a.push()
	var loopVar string
	var fromZero bool
	if s.Init != nil {
		switch {
		case s.Init.Decl != nil:
			d := s.Init.Decl
			a.VisitExpr(d.Value, AccessRead)
			a.declareWhole(d.Name, TypeName(d.Type), Initialized)
			loopVar, fromZero = d.Name, isLiteralZero(d.Value)
		case s.Init.Assign != nil:
			as := s.Init.Assign
			a.VisitExpr(as.Value, AccessRead)
			a.markAssigned(as.Name)
			loopVar, fromZero = as.Name, isLiteralZero(as.Value)
		}
	}
	a.VisitExpr(s.Cond, AccessRead)

	// The loop is deterministic (at least one iteration is guaranteed, so
	// body writes survive the loop) exactly when it counts from literal 0
	// with a strict `<` bound on a literal > 0.
	if fromZero && loopVar != "" && isStrictUpperBound(s.Cond, loopVar) {
		a.walkBlock(s.Body)
		a.stepStmt(s.Step)
	} else {
		pre := a.snapshot()
		a.walkBlock(s.Body)
		a.stepStmt(s.Step)
		a.frames = pre
	}
	a.pop()
}

func (a *InitAnalyzer) stepStmt(st *parser.ForAssign) {
	if st == nil {
		return
	}
	a.VisitExpr(st.Value, AccessRead)
	a.markAssigned(st.Name)
}

func isLiteralZero(e *parser.Expression) bool {
	f := singleFactor(e)
	return f != nil && len(f.Tail) == 0 && f.Base != nil &&
		f.Base.Int != nil && *f.Base.Int == 0
}

func isStrictUpperBound(e *parser.Expression, loopVar string) bool {
	if e == nil || e.Left == nil || len(e.Right) != 0 {
		return false
	}
	c := e.Left
	if len(c.Right) != 1 || c.Right[0].Op != "<" {
		return false
	}
	if name, ok := bareIdent(c.Left); !ok || name != loopVar {
		return false
	}
	rc := c.Right[0].Comparison
	if rc == nil || len(rc.Right) != 0 {
		return false
	}
	n, ok := intLiteral(rc.Left)
	return ok && n > 0
}

func bareIdent(t *parser.Term) (string, bool) {
	if t == nil || len(t.Right) != 0 || t.Left == nil {
		return "", false
	}
	f := t.Left
	if len(f.Tail) != 0 || f.Base == nil || f.Base.Ident == "" {
		return "", false
	}
	return f.Base.Ident, true
}

func intLiteral(t *parser.Term) (uint64, bool) {
	if t == nil || len(t.Right) != 0 || t.Left == nil {
		return 0, false
	}
	f := t.Left
	if len(f.Tail) != 0 || f.Base == nil || f.Base.Int == nil {
		return 0, false
	}
	return *f.Base.Int, true
}

// expressions

// VisitExpr walks an expression with the given access context. It is the
// entry the assignment-statement handling uses to visit a target without
// producing a false read.
func (a *InitAnalyzer) VisitExpr(e *parser.Expression, access Access) {
	a.visitExpr(e, access, false)
}

func (a *InitAnalyzer) visitExpr(e *parser.Expression, access Access, inArgs bool) {
	if e == nil || e.Left == nil {
		return
	}
	a.visitComparison(e.Left, access, inArgs)
	for _, op := range e.Right {
		a.visitExpr(op.Expression, AccessRead, inArgs)
	}
}

func (a *InitAnalyzer) visitComparison(c *parser.Comparison, access Access, inArgs bool) {
	if c == nil || c.Left == nil {
		return
	}
	a.visitTerm(c.Left, access, inArgs)
	for _, op := range c.Right {
		a.visitComparison(op.Comparison, AccessRead, inArgs)
	}
}

func (a *InitAnalyzer) visitTerm(t *parser.Term, access Access, inArgs bool) {
	if t == nil || t.Left == nil {
		return
	}
	a.visitFactor(t.Left, access, inArgs)
	for _, op := range t.Right {
		a.visitTerm(op.Term, AccessRead, inArgs)
	}
}

func (a *InitAnalyzer) visitFactor(f *parser.Factor, access Access, inArgs bool) {
	if f == nil || f.Base == nil {
		return
	}
	p := f.Base
	switch {
	case p.Float != nil, p.Int != nil, p.Bool != nil, p.String != nil, p.Char != nil:
		return
	case p.Unary != nil:
		a.visitFactor(p.Unary.Operand, AccessRead, inArgs)
		return
	case p.Sub != nil:
		a.visitExpr(p.Sub, AccessRead, inArgs)
		a.visitTailIndexes(f.Tail, inArgs)
		return
	case p.Composite != nil:
		for _, v := range p.Composite.Values {
			a.visitExpr(v, AccessRead, inArgs)
		}
		return
	}

	name := p.Ident
	tail := f.Tail

	// enum member references are not variable reads
	if a.table.IsEnum(name) {
		a.visitTailIndexes(tail, inArgs)
		return
	}

	// call on a bare function name: visit arguments, nothing else tracked
	if len(tail) > 0 && tail[0].Call != nil {
		a.visitArgs(tail[0].Call)
		a.visitTailIndexes(tail[1:], inArgs)
		return
	}

	switch {
	case len(tail) == 0:
		if access == AccessWrite {
			a.markAssigned(name)
			return
		}
		a.checkRead(name, f.Pos)
	case tail[0].Field != nil:
		field := *tail[0].Field
		a.visitTailIndexes(tail[1:], inArgs)
		if access == AccessWrite {
			// single-field assignment: only this field's key changes; at
			// whole-variable granularity the variable itself does
			if _, ok := a.state(name + "." + field); ok {
				a.set(name+"."+field, Initialized)
			} else {
				a.set(name, Initialized)
			}
			return
		}
		if typ, ok := a.table.TypeOf(name); ok && typ == TypeString && field == "length" {
			// .length reads the string variable itself
			a.checkRead(name, f.Pos)
			return
		}
		if inArgs {
			// field reads nested in a call's argument list are suppressed
			return
		}
		a.checkFieldRead(name, field, f.Pos)
	case tail[0].Index != nil:
		a.visitExpr(tail[0].Index, AccessRead, inArgs)
		a.visitTailIndexes(tail[1:], inArgs)
		if access == AccessWrite {
			// element writes initialize the whole array variable
			a.markAssigned(name)
			return
		}
		a.checkRead(name, f.Pos)
	}
}

// visitTailIndexes walks subscript sub-expressions further down a postfix
// chain so reads inside them are still checked.
func (a *InitAnalyzer) visitTailIndexes(tail []*parser.Postfix, inArgs bool) {
	for _, pf := range tail {
		switch {
		case pf.Index != nil:
			a.visitExpr(pf.Index, AccessRead, inArgs)
		case pf.Call != nil:
			a.visitArgs(pf.Call)
		}
	}
}

// visitArgs handles a call's argument list. An identifier passed by itself
// may be written through by the callee, so it is not checked and is
// conservatively Initialized afterward; for everything else the sub-
// expression is visited with field-read checks suppressed.
func (a *InitAnalyzer) visitArgs(args *parser.ArgList) {
	if args == nil {
		return
	}
	for _, arg := range args.Args {
		f := singleFactor(arg)
		if f != nil && f.Base != nil && f.Base.Ident != "" && !a.table.IsEnum(f.Base.Ident) {
			switch {
			case len(f.Tail) == 0:
				a.markAssigned(f.Base.Ident)
				continue
			case len(f.Tail) == 1 && f.Tail[0].Field != nil:
				a.set(f.Base.Ident+"."+*f.Tail[0].Field, Initialized)
				continue
			}
		}
		a.visitExpr(arg, AccessRead, true)
	}
}

// checks

func (a *InitAnalyzer) checkRead(name string, pos lexer.Position) {
	st, ok := a.state(name)
	if !ok || st == Initialized {
		return
	}
	// a struct local tracked per field is definite once every field is
	if typ, tok := a.table.TypeOf(name); tok {
		if d, sok := a.table.Struct(typ); sok && len(d.Order) > 0 {
			all := true
			for _, fn := range d.Order {
				fs, fok := a.state(name + "." + fn)
				if !fok || fs == NotDefinite {
					all = false
					break
				}
			}
			if all {
				return
			}
		}
	}
	a.report381(name, pos)
}

func (a *InitAnalyzer) checkFieldRead(name, field string, pos lexer.Position) {
	key := name + "." + field
	if st, ok := a.state(key); ok {
		if st == NotDefinite {
			a.report381(key, pos)
		}
		return
	}
	// fields not enumerable: fall back to whole-variable granularity
	if st, ok := a.state(name); ok && st == NotDefinite {
		a.report381(name, pos)
	}
}

func (a *InitAnalyzer) report381(name string, pos lexer.Position) {
	a.diags = append(a.diags, Diagnostic{
		Code:     CodeUninitialized,
		Line:     pos.Line,
		Col:      pos.Column,
		Variable: name,
		Message:  fmt.Sprintf("'%s' may be used before it has been assigned a value", name),
		Help:     fmt.Sprintf("assign a value to '%s' on every path before this use", name),
	})
}
