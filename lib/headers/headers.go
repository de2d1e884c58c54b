// Package headers extracts struct, class and enum declarations from C and
// C++ headers named by #include directives and registers them as foreign
// symbols. It is a line-oriented best-effort scan, not a C parser: anything
// it cannot recognize is simply skipped, matching the analyzer's fail-open
// policy.
package headers

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cnx-lang/cnxc/lib/analyzer"
)

var (
	typedefStructRe = regexp.MustCompile(`typedef\s+struct[^{}]*\{[^{}]*\}\s*(\w+)\s*;`)
	structRe        = regexp.MustCompile(`(?m)^\s*struct\s+(\w+)\s*\{`)
	classRe         = regexp.MustCompile(`(?m)^\s*class\s+(\w+)`)
	enumClassRe     = regexp.MustCompile(`enum\s+class\s+(\w+)`)
	typedefEnumRe   = regexp.MustCompile(`typedef\s+enum[^{}]*\{[^{}]*\}\s*(\w+)\s*;`)
	enumRe          = regexp.MustCompile(`(?m)^\s*enum\s+(\w+)\s*\{`)
)

// ScanFile registers every declaration found in the header at path.
func ScanFile(path string, table *analyzer.SymbolTable) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading header %s: %w", path, err)
	}
	cpp := strings.HasSuffix(path, ".hpp") || strings.HasSuffix(path, ".hh")
	Scan(string(src), cpp, table)
	return nil
}

// Scan registers every declaration found in header source text. Plain
// structs in C++ headers count as classes: both carry default constructors,
// which is what the initialization analyzer cares about.
func Scan(src string, cpp bool, table *analyzer.SymbolTable) {
	structKind := analyzer.KindForeignStruct
	if cpp {
		structKind = analyzer.KindForeignClass
	}
	for _, m := range typedefStructRe.FindAllStringSubmatch(src, -1) {
		table.RegisterForeign(m[1], structKind)
	}
	for _, m := range structRe.FindAllStringSubmatch(src, -1) {
		table.RegisterForeign(m[1], structKind)
	}
	if cpp {
		for _, m := range classRe.FindAllStringSubmatch(src, -1) {
			table.RegisterForeign(m[1], analyzer.KindForeignClass)
		}
		for _, m := range enumClassRe.FindAllStringSubmatch(src, -1) {
			table.RegisterForeign(m[1], analyzer.KindForeignEnum)
		}
	}
	for _, m := range typedefEnumRe.FindAllStringSubmatch(src, -1) {
		table.RegisterForeign(m[1], analyzer.KindForeignEnum)
	}
	for _, m := range enumRe.FindAllStringSubmatch(src, -1) {
		if m[1] == "class" {
			continue
		}
		table.RegisterForeign(m[1], analyzer.KindForeignEnum)
	}
}

// Resolve finds an included header in the search directories and registers
// its declarations. A header that cannot be found is not an error; its
// symbols stay unknown and the analyzers degrade gracefully.
func Resolve(include string, searchDirs []string, table *analyzer.SymbolTable) (string, bool) {
	for _, dir := range searchDirs {
		p := filepath.Join(dir, include)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := ScanFile(p, table); err != nil {
			continue
		}
		return p, true
	}
	return "", false
}
