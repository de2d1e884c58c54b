package headers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cnx-lang/cnxc/lib/analyzer"
	"github.com/cnx-lang/cnxc/lib/headers"
)

const cHeader = `
#ifndef DRIVER_H
#define DRIVER_H

typedef struct {
    int fd;
} Device;

struct Packet {
    unsigned char data[64];
};

typedef enum { MODE_A, MODE_B } Mode;

enum Status {
    OK,
    FAILED
};

#endif
`

const cppHeader = `
#pragma once

class Stream {
public:
    Stream();
};

struct Buffer {
    char data[256];
};

enum class Level { LOW, HIGH };
`

func TestScanCHeader(t *testing.T) {
	table := analyzer.NewSymbolTable()
	headers.Scan(cHeader, false, table)

	for _, name := range []string{"Device", "Packet"} {
		if k, ok := table.ForeignKind(name); !ok || k != analyzer.KindForeignStruct {
			t.Errorf("%s = %v, %v, want foreign struct", name, k, ok)
		}
	}
	for _, name := range []string{"Mode", "Status"} {
		if k, ok := table.ForeignKind(name); !ok || k != analyzer.KindForeignEnum {
			t.Errorf("%s = %v, %v, want foreign enum", name, k, ok)
		}
	}
}

func TestScanCppHeader(t *testing.T) {
	table := analyzer.NewSymbolTable()
	headers.Scan(cppHeader, true, table)

	if k, ok := table.ForeignKind("Stream"); !ok || k != analyzer.KindForeignClass {
		t.Errorf("Stream = %v, %v, want foreign class", k, ok)
	}
	// C++ structs have default constructors too
	if k, ok := table.ForeignKind("Buffer"); !ok || k != analyzer.KindForeignClass {
		t.Errorf("Buffer = %v, %v, want foreign class", k, ok)
	}
	if k, ok := table.ForeignKind("Level"); !ok || k != analyzer.KindForeignEnum {
		t.Errorf("Level = %v, %v, want foreign enum", k, ok)
	}
	if _, ok := table.ForeignKind("class"); ok {
		t.Error("'enum class' keyword leaked in as a type name")
	}
}

func TestResolveSearchesDirectoriesInOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "driver.h"), []byte(cHeader), 0644); err != nil {
		t.Fatal(err)
	}

	table := analyzer.NewSymbolTable()
	path, ok := headers.Resolve("driver.h", []string{t.TempDir(), dir}, table)
	if !ok {
		t.Fatal("header not found")
	}
	if path != filepath.Join(dir, "driver.h") {
		t.Errorf("resolved path = %s", path)
	}
	if _, ok := table.ForeignKind("Device"); !ok {
		t.Error("resolved header was not scanned")
	}
}

func TestResolveMissingHeaderIsNotAnError(t *testing.T) {
	table := analyzer.NewSymbolTable()
	if _, ok := headers.Resolve("no_such.h", []string{t.TempDir()}, table); ok {
		t.Error("missing header reported as found")
	}
}

func TestScanFileUsesExtensionForLanguage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.hpp")
	if err := os.WriteFile(path, []byte(cppHeader), 0644); err != nil {
		t.Fatal(err)
	}
	table := analyzer.NewSymbolTable()
	if err := headers.ScanFile(path, table); err != nil {
		t.Fatal(err)
	}
	if k, ok := table.ForeignKind("Buffer"); !ok || k != analyzer.KindForeignClass {
		t.Errorf("Buffer = %v, %v, want foreign class for .hpp", k, ok)
	}
}
