package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cnx-lang/cnxc/lib/cache"
)

func TestDirsListsInstalledPackages(t *testing.T) {
	base := t.TempDir()
	for _, d := range []string{"drivers@v1.0.0", "hal"} {
		if err := os.Mkdir(filepath.Join(base, d), 0700); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(base, "stray.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	p := cache.PackageCache{BaseDir: base}
	dirs, err := p.Dirs()
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 2 {
		t.Errorf("Dirs() = %v, want 2 package directories", dirs)
	}
}

func TestDirsWithoutBaseDirIsEmpty(t *testing.T) {
	p := cache.PackageCache{BaseDir: filepath.Join(t.TempDir(), "missing")}
	dirs, err := p.Dirs()
	if err != nil || dirs != nil {
		t.Errorf("Dirs() = %v, %v, want empty without error", dirs, err)
	}
}

func TestInstallReusesExistingCheckout(t *testing.T) {
	base := t.TempDir()
	existing := filepath.Join(base, "drivers@v1.0.0")
	if err := os.Mkdir(existing, 0700); err != nil {
		t.Fatal(err)
	}

	p := cache.PackageCache{BaseDir: base}
	dir, err := p.Install("https://example.com/pkgs/drivers", "v1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if dir != existing {
		t.Errorf("Install() = %s, want %s", dir, existing)
	}
}
