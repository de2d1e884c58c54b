package analyzer

import "github.com/cnx-lang/cnxc/lib/parser"

// ResolveType infers the static type of an expression from declared symbols.
// It unwraps the expression down to its primary term and folds the postfix
// chain left to right, replacing the current type at each step. Any step
// that cannot be determined yields Unknown; the function never panics and
// never emits diagnostics.
func ResolveType(e *parser.Expression, t *SymbolTable) string {
	f := primaryFactor(e)
	if f == nil {
		return Unknown
	}
	return resolveFactor(f, t)
}

// primaryFactor unwraps the precedence ladder to the leading factor of an
// expression.
func primaryFactor(e *parser.Expression) *parser.Factor {
	if e == nil || e.Left == nil || e.Left.Left == nil {
		return nil
	}
	return e.Left.Left.Left
}

// singleFactor returns the expression's only factor, or nil when the
// expression is an operator chain.
func singleFactor(e *parser.Expression) *parser.Factor {
	if e == nil || e.Left == nil || len(e.Right) > 0 {
		return nil
	}
	c := e.Left
	if c.Left == nil || len(c.Right) > 0 {
		return nil
	}
	tm := c.Left
	if tm.Left == nil || len(tm.Right) > 0 {
		return nil
	}
	return tm.Left
}

func resolveFactor(f *parser.Factor, t *SymbolTable) string {
	if f == nil || f.Base == nil {
		return Unknown
	}
	p := f.Base
	tail := f.Tail

	var cur string
	switch {
	case p.Float != nil:
		cur = "f32"
	case p.Int != nil:
		// integer literals are always a valid unsigned index
		cur = "u32"
	case p.Bool != nil:
		cur = TypeBool
	case p.String != nil:
		cur = TypeString
	case p.Char != nil:
		cur = "u8"
	case p.Unary != nil:
		cur = resolveFactor(p.Unary.Operand, t)
	case p.Sub != nil:
		sf := singleFactor(p.Sub)
		if sf == nil {
			return Unknown
		}
		cur = resolveFactor(sf, t)
	case p.Composite != nil:
		return Unknown
	case p.Ident != "":
		name := p.Ident
		if typ, ok := t.TypeOf(name); ok {
			cur = typ
			break
		}
		// scope-qualified member: Counter.count or Counter.bump()
		if t.IsScope(name) && len(tail) > 0 && tail[0].Field != nil {
			member := *tail[0].Field
			if !t.IsScopeMember(name, member) {
				return Unknown
			}
			tail = tail[1:]
			if len(tail) > 0 && tail[0].Call != nil {
				ret, ok := t.ReturnType(member)
				if !ok {
					return Unknown
				}
				cur = ret
				tail = tail[1:]
				break
			}
			typ, ok := t.TypeOf(member)
			if !ok {
				return Unknown
			}
			cur = typ
			break
		}
		// dotted enum member: Color.RED resolves as the enum itself
		if t.IsEnum(name) && len(tail) > 0 && tail[0].Field != nil {
			if !t.IsEnumMember(name, *tail[0].Field) {
				return Unknown
			}
			cur = name
			tail = tail[1:]
			break
		}
		// call on a known function name
		if len(tail) > 0 && tail[0].Call != nil {
			ret, ok := t.ReturnType(name)
			if !ok {
				return Unknown
			}
			cur = ret
			tail = tail[1:]
			break
		}
		return Unknown
	default:
		return Unknown
	}

	for _, pf := range tail {
		if cur == Unknown {
			return Unknown
		}
		switch {
		case pf.Field != nil:
			if cur == TypeString && *pf.Field == "length" {
				cur = "u32"
				continue
			}
			ft, ok := t.FieldType(cur, *pf.Field)
			if !ok {
				return Unknown
			}
			cur = ft
		case pf.Index != nil:
			switch {
			case IsArrayType(cur):
				cur = ElemType(cur)
			case IsIntegerType(cur):
				// single-index on a plain integer is a bit test
				cur = TypeBool
			default:
				return Unknown
			}
		case pf.Call != nil:
			// calls further down a chain (method syntax) are not resolvable
			return Unknown
		}
	}
	return cur
}
