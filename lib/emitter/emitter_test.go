package emitter_test

import (
	"strings"
	"testing"

	"github.com/cnx-lang/cnxc/lib/analyzer"
	"github.com/cnx-lang/cnxc/lib/emitter"
	"github.com/cnx-lang/cnxc/lib/parser"
)

func emit(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.ParseString("test.cnx", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	table := analyzer.NewSymbolTable()
	analyzer.CollectDeclarations(prog, table)
	return emitter.New(table).Emit(prog)
}

func expectLines(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n%s", w, out)
		}
	}
}

func TestEmitTypesAndDeclarations(t *testing.T) {
	out := emit(t, `
struct Point {
    u32 x;
    i16 y;
}
enum Color { RED, GREEN }
u8[10] buf;
void main() {
    u32 n <- 5;
    f64 r <- 1.5;
    string s <- "hi";
}
`)
	expectLines(t, out,
		"#include <stdint.h>",
		"typedef struct {",
		"uint32_t x;",
		"int16_t y;",
		"} Point;",
		"typedef enum {",
		"Color_RED,",
		"Color_GREEN",
		"} Color;",
		"uint8_t buf[10];",
		"void main(void) {",
		"uint32_t n = 5;",
		"double r = 1.5;",
		`const char * s = "hi";`,
	)
}

func TestEmitScopePrefixing(t *testing.T) {
	out := emit(t, `
scope Counter {
    u32 count;
    void bump() {
        count <- count + 1;
    }
}
void main() {
    Counter.bump();
}
`)
	expectLines(t, out,
		"static uint32_t Counter_count;",
		"void Counter_bump(void) {",
		"Counter_count = Counter_count + 1;",
		"Counter_bump();",
	)
}

func TestEmitBitAccess(t *testing.T) {
	out := emit(t, `
void main() {
    u32 reg <- 0;
    reg[3] <- true;
    bool b <- reg[3];
}
`)
	expectLines(t, out,
		"reg = (true) ? (reg | (1u << (3))) : (reg & ~(1u << (3)));",
		"bool b = ((reg >> (3)) & 1u);",
	)
}

func TestEmitArraySubscriptStaysSubscript(t *testing.T) {
	out := emit(t, `
void main() {
    u8[10] arr;
    u32 i <- 2;
    arr[i] <- 1;
    u8 x <- arr[i];
}
`)
	expectLines(t, out,
		"arr[i] = 1;",
		"uint8_t x = arr[i];",
	)
}

func TestEmitStringLength(t *testing.T) {
	out := emit(t, `
void main() {
    string s <- "hello";
    u32 n <- s.length;
}
`)
	expectLines(t, out, "uint32_t n = strlen(s);")
}

func TestEmitEnumMemberAccess(t *testing.T) {
	out := emit(t, `
enum Color { RED, GREEN }
void main() {
    Color c <- Color.GREEN;
}
`)
	expectLines(t, out, "Color c = Color_GREEN;")
}

func TestEmitControlFlow(t *testing.T) {
	out := emit(t, `
void main() {
    u32 x <- 0;
    if (x == 0) {
        x <- 1;
    } else if (x == 1) {
        x <- 2;
    } else {
        x <- 3;
    }
    for (u32 i <- 0; i < 4; i <- i + 1) {
        x <- x + i;
    }
    switch (x) {
        case 1:
            x <- 0;
        default:
            x <- 9;
    }
}
`)
	expectLines(t, out,
		"if (x == 0) {",
		"} else if (x == 1) {",
		"} else {",
		"for (uint32_t i = 0; i < 4; i = i + 1) {",
		"switch (x) {",
		"case 1: {",
		"default: {",
		"break;",
	)
}
