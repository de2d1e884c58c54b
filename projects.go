package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/cnx-lang/cnxc/lib/cache"
	"github.com/cnx-lang/cnxc/lib/project"
)

func init() {
	commands = append(commands,
		&cli.Command{
			Name:      "init",
			Category:  "project",
			Usage:     "Create a new C-Next project",
			ArgsUsage: "[name]",
			Action:    initProject,
		},
		&cli.Command{
			Name:      "install",
			Category:  "project",
			Usage:     "Install a header-library package into the local cache",
			ArgsUsage: "url[@version]",
			Action:    install,
		},
	)
}

func initProject(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		name = "."
	}
	if name != "." {
		if err := os.MkdirAll(name, 0755); err != nil {
			return cli.Exit(color.RedString("Error creating project directory: %s", err), 1)
		}
	}

	var conf project.CnxConf
	conf.CreateDefault(filepath.Base(name))
	if err := conf.Save(filepath.Join(name, project.ConfFileName), false); err != nil {
		return cli.Exit(color.RedString("Error writing config: %s", err), 1)
	}
	if err := os.MkdirAll(filepath.Join(name, conf.SourceDir), 0755); err != nil {
		return cli.Exit(color.RedString("Error creating source directory: %s", err), 1)
	}

	mainFile := filepath.Join(name, conf.Main)
	if _, err := os.Stat(mainFile); os.IsNotExist(err) {
		src := "void main() {\n}\n"
		if err := os.WriteFile(mainFile, []byte(src), 0644); err != nil {
			return cli.Exit(color.RedString("Error writing %s: %s", mainFile, err), 1)
		}
	}

	color.Green("Created project %s", conf.Name)
	return nil
}

func install(c *cli.Context) error {
	arg := c.Args().First()
	if arg == "" {
		return cli.Exit(color.RedString("Usage: cnxc install url[@version]"), 1)
	}
	url, version := arg, ""
	if at := strings.LastIndex(arg, "@"); at > strings.LastIndex(arg, "/") {
		url, version = arg[:at], arg[at+1:]
	}

	pcache := cache.PackageCache{}
	if err := pcache.Init(); err != nil {
		return cli.Exit(color.RedString("Error initializing package cache: %s", err), 1)
	}
	dir, err := pcache.Install(url, version)
	if err != nil {
		return cli.Exit(color.RedString("Error installing %s: %s", url, err), 1)
	}
	color.Green("Installed %s", dir)

	// record the dependency when run inside a project
	if conf, err := project.Load("."); err == nil {
		for _, d := range conf.Dependencies {
			if d.Package == url {
				return nil
			}
		}
		conf.Dependencies = append(conf.Dependencies, project.Dependency{Package: url, Version: version})
		if err := conf.Save(project.ConfFileName, true); err != nil {
			return cli.Exit(color.RedString("Error updating config: %s", err), 1)
		}
	}
	return nil
}
