package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const ConfFileName = "cnxconf.yaml"

type CnxConf struct {
	Name         string       `yaml:"name"`
	Description  string       `yaml:"description"`
	Version      string       `yaml:"version"`
	Main         string       `yaml:"main"`
	SourceDir    string       `yaml:"source"`
	Target       string       `yaml:"target"`
	Includes     []string     `yaml:"includes,omitempty"`
	Dependencies []Dependency `yaml:"dependencies,omitempty"`
	Author       string       `yaml:"author"`
	License      string       `yaml:"license"`
}

type Dependency struct {
	Package string `yaml:"package"`
	Version string `yaml:"version"`
}

func (c *CnxConf) CreateDefault(name string) {
	if name == "." || name == "" {
		name = "NewProject"
	}
	c.Name = name
	c.Description = "A new C-Next project"
	c.Version = "0.1.0"
	c.Main = "src/main.cnx"
	c.SourceDir = "src"
	c.Target = "c"
	c.Author = "Anonymous"
	c.License = "MIT"
}

func (c *CnxConf) Save(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s already exists", path)
	}
	out, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}

func Load(dir string) (CnxConf, error) {
	var conf CnxConf
	file, err := os.Open(filepath.Join(dir, ConfFileName))
	if err != nil {
		return CnxConf{}, err
	}
	defer file.Close()
	if err := yaml.NewDecoder(file).Decode(&conf); err != nil {
		return CnxConf{}, fmt.Errorf("parsing %s: %w", ConfFileName, err)
	}
	return conf, nil
}
