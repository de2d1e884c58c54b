// Package cache manages the per-user store of installed header-library
// packages. Packages are plain git repositories of C-Next sources and
// headers, fetched with go-git and added to the include path at build time.
package cache

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

type PackageCache struct {
	BaseDir string
}

func (p *PackageCache) Init() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	libDir := filepath.Join(homeDir, ".local", "lib", "cnxc")
	if runtime.GOOS == "windows" {
		libDir = filepath.Join(homeDir, "AppData", "Local", "Programs", "cnxc")
	}

	baseDir := filepath.Join(libDir, "packages")
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return err
	}

	p.BaseDir = baseDir
	return nil
}

// Install clones a package repository into the cache, checked out at the
// given tag when one is supplied, and returns its directory.
func (p *PackageCache) Install(url, version string) (string, error) {
	dir := filepath.Join(p.BaseDir, identifier(url, version))
	if _, err := os.Stat(dir); err == nil {
		return dir, nil
	}

	opts := &git.CloneOptions{
		URL:   url,
		Depth: 1,
	}
	if version != "" {
		opts.ReferenceName = plumbing.NewTagReferenceName(version)
	}
	if _, err := git.PlainClone(dir, false, opts); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("cloning %s: %w", url, err)
	}
	return dir, nil
}

// Dirs lists the directories of every installed package, for the include
// search path.
func (p *PackageCache) Dirs() ([]string, error) {
	entries, err := os.ReadDir(p.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(p.BaseDir, e.Name()))
		}
	}
	return dirs, nil
}

// identifier derives the cache directory name from the package URL, so
// path (not filepath) semantics apply.
func identifier(url, version string) string {
	id := path.Base(url)
	if version != "" {
		id += "@" + version
	}
	return id
}
