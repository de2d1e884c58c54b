package project_test

import (
	"path/filepath"
	"testing"

	"github.com/cnx-lang/cnxc/lib/project"
	"github.com/go-test/deep"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	conf := project.CnxConf{
		Name:      "blinky",
		Version:   "0.1.0",
		Main:      "src/main.cnx",
		SourceDir: "src",
		Target:    "c",
		Includes:  []string{"vendor/include"},
		Dependencies: []project.Dependency{
			{Package: "https://example.com/drivers.git", Version: "v1.2.0"},
		},
		Author:  "someone",
		License: "MIT",
	}
	if err := conf.Save(filepath.Join(dir, project.ConfFileName), false); err != nil {
		t.Fatal(err)
	}

	loaded, err := project.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(conf, loaded); diff != nil {
		t.Errorf("round trip mismatch: %v", diff)
	}
}

func TestSaveRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.ConfFileName)

	var conf project.CnxConf
	conf.CreateDefault("demo")
	if err := conf.Save(path, false); err != nil {
		t.Fatal(err)
	}
	if err := conf.Save(path, false); err == nil {
		t.Error("expected an error without overwrite")
	}
	if err := conf.Save(path, true); err != nil {
		t.Errorf("overwrite save failed: %v", err)
	}
}

func TestCreateDefault(t *testing.T) {
	var conf project.CnxConf
	conf.CreateDefault(".")
	if conf.Name != "NewProject" {
		t.Errorf("Name = %q", conf.Name)
	}
	if conf.Main != "src/main.cnx" || conf.SourceDir != "src" || conf.Target != "c" {
		t.Errorf("unexpected defaults: %+v", conf)
	}
}

func TestLoadMissingConfig(t *testing.T) {
	if _, err := project.Load(t.TempDir()); err == nil {
		t.Error("expected an error for a directory without a config")
	}
}
