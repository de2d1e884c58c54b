package analyzer

// Origin distinguishes symbols declared in C-Next source from symbols
// registered out of foreign (host-language) headers.
type Origin int

const (
	OriginNative Origin = iota
	OriginForeign
)

type Kind int

const (
	KindVariable Kind = iota
	KindStruct
	KindEnum
	KindFunction
	KindForeignStruct
	KindForeignClass
	KindForeignEnum
)

type Symbol struct {
	Name        string
	Kind        Kind
	Type        string // declared type, arrays carry a "[]" suffix
	Origin      Origin
	Global      bool
	ScopeMember bool
	Param       bool
	Line        int
	Col         int
}

type Field struct {
	Type    string
	IsArray bool
}

// StructDescriptor maps a struct's field names to their types in declaration
// order. Built once at declaration time, read-only afterwards.
type StructDescriptor struct {
	Name   string
	Order  []string
	Fields map[string]Field
}

func (d *StructDescriptor) AddField(name, typ string, isArray bool) {
	d.Order = append(d.Order, name)
	d.Fields[name] = Field{Type: typ, IsArray: isArray}
}

type FunctionDescriptor struct {
	Name       string
	ReturnType string
	Params     []Field
}

type EnumDescriptor struct {
	Name    string
	Members []string
}

// SymbolTable records every declared name for one compilation unit. The
// caller owns it: one instance per compilation, Reset between independent
// runs, never shared across concurrent analyses. Lookups degrade gracefully,
// returning not-found instead of an error for unknown names.
type SymbolTable struct {
	vars    map[string]*Symbol
	structs map[string]*StructDescriptor
	enums   map[string]*EnumDescriptor
	funcs   map[string]*FunctionDescriptor
	foreign map[string]*Symbol
	scopes  map[string]map[string]bool
}

func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{}
	t.Reset()
	return t
}

// Reset clears every declaration so the table can be reused for the next
// compilation unit.
func (t *SymbolTable) Reset() {
	t.vars = make(map[string]*Symbol)
	t.structs = make(map[string]*StructDescriptor)
	t.enums = make(map[string]*EnumDescriptor)
	t.funcs = make(map[string]*FunctionDescriptor)
	t.foreign = make(map[string]*Symbol)
	t.scopes = make(map[string]map[string]bool)
}

func (t *SymbolTable) DeclareVariable(sym Symbol) {
	sym.Kind = KindVariable
	t.vars[sym.Name] = &sym
}

func (t *SymbolTable) DeclareStruct(name string) *StructDescriptor {
	d := &StructDescriptor{Name: name, Fields: make(map[string]Field)}
	t.structs[name] = d
	return d
}

func (t *SymbolTable) DeclareEnum(name string, members []string) {
	t.enums[name] = &EnumDescriptor{Name: name, Members: members}
}

func (t *SymbolTable) DeclareFunction(name, returnType string, params ...Field) {
	t.funcs[name] = &FunctionDescriptor{Name: name, ReturnType: returnType, Params: params}
}

// DeclareScope records a scope name so qualified accesses like Counter.bump
// can be resolved. Members themselves live in the flat variable and function
// maps under their bare names.
func (t *SymbolTable) DeclareScope(name string) {
	if _, ok := t.scopes[name]; !ok {
		t.scopes[name] = make(map[string]bool)
	}
}

func (t *SymbolTable) AddScopeMember(scope, member string) {
	t.DeclareScope(scope)
	t.scopes[scope][member] = true
}

func (t *SymbolTable) IsScope(name string) bool {
	_, ok := t.scopes[name]
	return ok
}

func (t *SymbolTable) IsScopeMember(scope, member string) bool {
	m, ok := t.scopes[scope]
	return ok && m[member]
}

// RegisterForeign records a struct, class or enum declared in a host-language
// header. The kind is the sole input the initialization analyzer uses to
// exempt locals of that type from definite-assignment checking.
func (t *SymbolTable) RegisterForeign(name string, kind Kind) {
	t.foreign[name] = &Symbol{Name: name, Kind: kind, Origin: OriginForeign}
}

func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	s, ok := t.vars[name]
	return s, ok
}

// TypeOf returns the declared type of a variable.
func (t *SymbolTable) TypeOf(name string) (string, bool) {
	if s, ok := t.vars[name]; ok {
		return s.Type, true
	}
	return "", false
}

// FieldType returns the declared type of a struct field, with arrays carrying
// a "[]" suffix.
func (t *SymbolTable) FieldType(structName, field string) (string, bool) {
	d, ok := t.structs[structName]
	if !ok {
		return "", false
	}
	f, ok := d.Fields[field]
	if !ok {
		return "", false
	}
	if f.IsArray {
		return f.Type + "[]", true
	}
	return f.Type, true
}

func (t *SymbolTable) ReturnType(fn string) (string, bool) {
	d, ok := t.funcs[fn]
	if !ok {
		return "", false
	}
	return d.ReturnType, true
}

func (t *SymbolTable) Struct(name string) (*StructDescriptor, bool) {
	d, ok := t.structs[name]
	return d, ok
}

func (t *SymbolTable) IsStruct(name string) bool {
	if _, ok := t.structs[name]; ok {
		return true
	}
	if f, ok := t.foreign[name]; ok {
		return f.Kind == KindForeignStruct || f.Kind == KindForeignClass
	}
	return false
}

func (t *SymbolTable) IsEnum(name string) bool {
	if _, ok := t.enums[name]; ok {
		return true
	}
	if f, ok := t.foreign[name]; ok {
		return f.Kind == KindForeignEnum
	}
	return false
}

func (t *SymbolTable) IsEnumMember(enum, member string) bool {
	d, ok := t.enums[enum]
	if !ok {
		// foreign enum members are not enumerable; accept any
		f, fok := t.foreign[enum]
		return fok && f.Kind == KindForeignEnum
	}
	for _, m := range d.Members {
		if m == member {
			return true
		}
	}
	return false
}

// ForeignKind returns the registered kind of a foreign type name.
func (t *SymbolTable) ForeignKind(name string) (Kind, bool) {
	f, ok := t.foreign[name]
	if !ok {
		return 0, false
	}
	return f.Kind, true
}
