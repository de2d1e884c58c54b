package analyzer_test

import (
	"testing"

	"github.com/cnx-lang/cnxc/lib/analyzer"
)

func TestSymbolTableLookups(t *testing.T) {
	table := analyzer.NewSymbolTable()
	table.DeclareVariable(analyzer.Symbol{Name: "x", Type: "u32"})
	sd := table.DeclareStruct("Point")
	sd.AddField("x", "u32", false)
	sd.AddField("tags", "u8", true)
	table.DeclareEnum("Color", []string{"RED", "GREEN"})
	table.DeclareFunction("delta", "i32")

	if typ, ok := table.TypeOf("x"); !ok || typ != "u32" {
		t.Errorf("TypeOf(x) = %q, %v", typ, ok)
	}
	if typ, ok := table.FieldType("Point", "x"); !ok || typ != "u32" {
		t.Errorf("FieldType(Point, x) = %q, %v", typ, ok)
	}
	if typ, ok := table.FieldType("Point", "tags"); !ok || typ != "u8[]" {
		t.Errorf("FieldType(Point, tags) = %q, %v", typ, ok)
	}
	if typ, ok := table.ReturnType("delta"); !ok || typ != "i32" {
		t.Errorf("ReturnType(delta) = %q, %v", typ, ok)
	}
	if !table.IsStruct("Point") || table.IsStruct("Color") {
		t.Error("IsStruct misclassified")
	}
	if !table.IsEnum("Color") || table.IsEnum("Point") {
		t.Error("IsEnum misclassified")
	}
	if !table.IsEnumMember("Color", "RED") || table.IsEnumMember("Color", "MAGENTA") {
		t.Error("IsEnumMember misclassified")
	}
}

func TestLookupsReturnNotFoundForUnknownNames(t *testing.T) {
	table := analyzer.NewSymbolTable()
	if _, ok := table.TypeOf("ghost"); ok {
		t.Error("TypeOf(ghost) should be not-found")
	}
	if _, ok := table.FieldType("Ghost", "f"); ok {
		t.Error("FieldType on unknown struct should be not-found")
	}
	if _, ok := table.ReturnType("ghost"); ok {
		t.Error("ReturnType(ghost) should be not-found")
	}
	if _, ok := table.ForeignKind("Ghost"); ok {
		t.Error("ForeignKind(Ghost) should be not-found")
	}
}

func TestForeignRegistration(t *testing.T) {
	table := analyzer.NewSymbolTable()
	table.RegisterForeign("Widget", analyzer.KindForeignStruct)
	table.RegisterForeign("Message", analyzer.KindForeignClass)
	table.RegisterForeign("Mode", analyzer.KindForeignEnum)

	if k, ok := table.ForeignKind("Widget"); !ok || k != analyzer.KindForeignStruct {
		t.Errorf("ForeignKind(Widget) = %v, %v", k, ok)
	}
	if !table.IsStruct("Widget") || !table.IsStruct("Message") {
		t.Error("foreign structs and classes should count as structs")
	}
	if !table.IsEnum("Mode") {
		t.Error("foreign enum should count as an enum")
	}
	// foreign enum members are not enumerable; any member is accepted
	if !table.IsEnumMember("Mode", "ANY") {
		t.Error("foreign enum member lookup should accept any member")
	}
}

func TestResetClearsEverything(t *testing.T) {
	table := analyzer.NewSymbolTable()
	table.DeclareVariable(analyzer.Symbol{Name: "x", Type: "u32"})
	table.DeclareStruct("Point")
	table.DeclareEnum("Color", nil)
	table.DeclareFunction("f", "void")
	table.RegisterForeign("Widget", analyzer.KindForeignStruct)

	table.Reset()

	if _, ok := table.TypeOf("x"); ok {
		t.Error("variable survived Reset")
	}
	if table.IsStruct("Point") || table.IsEnum("Color") || table.IsStruct("Widget") {
		t.Error("type declarations survived Reset")
	}
	if _, ok := table.ReturnType("f"); ok {
		t.Error("function survived Reset")
	}
}
