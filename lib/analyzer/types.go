package analyzer

import (
	"strings"

	"github.com/cnx-lang/cnxc/lib/parser"
)

// Unknown is the resolver's "cannot determine" result. A caller receiving
// Unknown must not emit a diagnostic.
const Unknown = ""

const (
	TypeBool   = "bool"
	TypeString = "string"
	TypeVoid   = "void"
)

func IsUnsignedType(name string) bool {
	switch name {
	case "u8", "u16", "u32", "u64":
		return true
	}
	return false
}

func IsSignedType(name string) bool {
	switch name {
	case "i8", "i16", "i32", "i64":
		return true
	}
	return false
}

func IsFloatType(name string) bool {
	return name == "f32" || name == "f64"
}

func IsIntegerType(name string) bool {
	return IsUnsignedType(name) || IsSignedType(name)
}

// IsArrayType reports whether a type name carries an array dimension, which
// is recorded as a "[]" suffix, e.g. "u8[]".
func IsArrayType(name string) bool {
	return strings.HasSuffix(name, "[]")
}

// ElemType strips one array dimension from a type name.
func ElemType(name string) string {
	return strings.TrimSuffix(name, "[]")
}

// TypeName renders a parsed type reference as a table type name. A nil
// reference means void.
func TypeName(tr *parser.TypeRef) string {
	if tr == nil {
		return TypeVoid
	}
	if tr.Arr != nil {
		return tr.Name + "[]"
	}
	return tr.Name
}
