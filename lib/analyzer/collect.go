package analyzer

import "github.com/cnx-lang/cnxc/lib/parser"

// CollectDeclarations builds the symbol table for one compilation unit:
// globals, scope members, structs, enums, functions and function locals. The
// table may already hold foreign symbols registered from headers; this walk
// only adds to it.
func CollectDeclarations(prog *parser.Program, t *SymbolTable) {
	for _, d := range prog.Decls {
		switch {
		case d.Struct != nil:
			sd := t.DeclareStruct(d.Struct.Name)
			for _, f := range d.Struct.Fields {
				sd.AddField(f.Name, f.Type.Name, f.Type.Arr != nil)
			}
		case d.Enum != nil:
			t.DeclareEnum(d.Enum.Name, d.Enum.Members)
		case d.Scope != nil:
			t.DeclareScope(d.Scope.Name)
			for _, m := range d.Scope.Body {
				switch {
				case m.Var != nil:
					t.AddScopeMember(d.Scope.Name, m.Var.Name)
					t.DeclareVariable(Symbol{
						Name:        m.Var.Name,
						Type:        TypeName(m.Var.Type),
						ScopeMember: true,
						Line:        m.Var.Pos.Line,
						Col:         m.Var.Pos.Column,
					})
				case m.Function != nil:
					t.AddScopeMember(d.Scope.Name, m.Function.Name)
					collectFunction(m.Function, t)
				}
			}
		case d.Function != nil:
			collectFunction(d.Function, t)
		case d.Var != nil:
			t.DeclareVariable(Symbol{
				Name:   d.Var.Name,
				Type:   TypeName(d.Var.Type),
				Global: true,
				Line:   d.Var.Pos.Line,
				Col:    d.Var.Pos.Column,
			})
		}
	}
}

func collectFunction(fn *parser.FuncDecl, t *SymbolTable) {
	var params []Field
	for _, p := range fn.Params {
		params = append(params, Field{Type: p.Type.Name, IsArray: p.Type.Arr != nil})
	}
	t.DeclareFunction(fn.Name, TypeName(fn.ReturnType), params...)
	for _, p := range fn.Params {
		t.DeclareVariable(Symbol{
			Name:  p.Name,
			Type:  TypeName(p.Type),
			Param: true,
			Line:  p.Pos.Line,
			Col:   p.Pos.Column,
		})
	}
	collectLocals(fn.Body, t)
}

func collectLocals(stmts []*parser.Statement, t *SymbolTable) {
	for _, s := range stmts {
		switch {
		case s.Var != nil:
			t.DeclareVariable(Symbol{
				Name: s.Var.Name,
				Type: TypeName(s.Var.Type),
				Line: s.Var.Pos.Line,
				Col:  s.Var.Pos.Column,
			})
		case s.If != nil:
			collectIf(s.If, t)
		case s.While != nil:
			collectLocals(s.While.Body, t)
		case s.DoWhile != nil:
			collectLocals(s.DoWhile.Body, t)
		case s.For != nil:
			if s.For.Init != nil && s.For.Init.Decl != nil {
				d := s.For.Init.Decl
				t.DeclareVariable(Symbol{
					Name: d.Name,
					Type: TypeName(d.Type),
					Line: d.Pos.Line,
					Col:  d.Pos.Column,
				})
			}
			collectLocals(s.For.Body, t)
		case s.Switch != nil:
			for _, c := range s.Switch.Cases {
				collectLocals(c.Body, t)
			}
		case s.Critical != nil:
			collectLocals(s.Critical.Body, t)
		case s.Block != nil:
			collectLocals(s.Block.Body, t)
		}
	}
}

func collectIf(s *parser.IfStmt, t *SymbolTable) {
	collectLocals(s.Then, t)
	if s.ElseIf != nil {
		collectIf(s.ElseIf, t)
	}
	collectLocals(s.Else, t)
}
