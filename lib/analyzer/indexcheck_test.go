package analyzer_test

import (
	"testing"

	"github.com/cnx-lang/cnxc/lib/analyzer"
	"github.com/cnx-lang/cnxc/lib/parser"
)

func checkIndexes(t *testing.T, src string) []analyzer.Diagnostic {
	t.Helper()
	prog, err := parser.ParseString("test.cnx", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	table := analyzer.NewSymbolTable()
	analyzer.CollectDeclarations(prog, table)
	return analyzer.NewIndexCheck(table).Analyze(prog)
}

func expectIndexDiag(t *testing.T, diags []analyzer.Diagnostic, code, actualType string) {
	t.Helper()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %+v", len(diags), diags)
	}
	if diags[0].Code != code {
		t.Errorf("Code = %s, want %s", diags[0].Code, code)
	}
	if diags[0].ActualType != actualType {
		t.Errorf("ActualType = %q, want %q", diags[0].ActualType, actualType)
	}
}

func TestSignedIndexReported(t *testing.T) {
	diags := checkIndexes(t, `
void main() {
    u8[10] arr;
    i32 idx <- 0;
    arr[idx] <- 1;
}`)
	expectIndexDiag(t, diags, analyzer.CodeSignedIndex, "i32")
	if diags[0].Variable != "idx" {
		t.Errorf("Variable = %q, want idx", diags[0].Variable)
	}
	if diags[0].Operator != "[]" {
		t.Errorf("Operator = %q, want []", diags[0].Operator)
	}
}

func TestUnsignedIndexAccepted(t *testing.T) {
	diags := checkIndexes(t, `
void main() {
    u8[10] arr;
    u32 idx <- 0;
    arr[idx] <- 1;
    u8 x <- arr[idx + 1];
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", diags)
	}
}

func TestLiteralIndexAccepted(t *testing.T) {
	diags := checkIndexes(t, `
void main() {
    u8[10] arr;
    arr[3] <- 1;
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", diags)
	}
}

func TestEnumIndexAccepted(t *testing.T) {
	diags := checkIndexes(t, `
enum Channel { LEFT, RIGHT }
void main() {
    u8[2] levels;
    levels[Channel.LEFT] <- 1;
    Channel c <- Channel.RIGHT;
    levels[c] <- 2;
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", diags)
	}
}

func TestFloatIndexReported(t *testing.T) {
	diags := checkIndexes(t, `
void main() {
    u8[10] arr;
    f32 f <- 1.5;
    arr[f] <- 1;
}`)
	expectIndexDiag(t, diags, analyzer.CodeFloatIndex, "f32")
}

func TestSignedSubTermAnywhereInChain(t *testing.T) {
	diags := checkIndexes(t, `
void main() {
    u8[10] arr;
    u32 base <- 0;
    i8 off <- 1;
    arr[base + (off * 2)] <- 1;
}`)
	expectIndexDiag(t, diags, analyzer.CodeSignedIndex, "i8")
}

func TestStringIndexOperandReported(t *testing.T) {
	diags := checkIndexes(t, `
void main() {
    u8[10] arr;
    string s <- "hi";
    arr[s] <- 1;
}`)
	expectIndexDiag(t, diags, analyzer.CodeInvalidIndex, "string")
}

func TestUnresolvableIndexStaysSilent(t *testing.T) {
	diags := checkIndexes(t, `
void main() {
    u8[10] arr;
    arr[mystery] <- 1;
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", diags)
	}
}

func TestBitIndexOnIntegerChecked(t *testing.T) {
	diags := checkIndexes(t, `
void main() {
    u32 reg <- 0;
    i32 bit <- 3;
    reg[bit] <- 1;
}`)
	expectIndexDiag(t, diags, analyzer.CodeSignedIndex, "i32")
}

func TestStructFieldIndexResolvedThroughChain(t *testing.T) {
	diags := checkIndexes(t, `
struct Cursor {
    i16 pos;
}
void main() {
    u8[10] arr;
    Cursor c;
    c.pos <- 0;
    u8 x <- arr[c.pos];
}`)
	expectIndexDiag(t, diags, analyzer.CodeSignedIndex, "i16")
}
