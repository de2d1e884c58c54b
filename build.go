package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/cnx-lang/cnxc/lib/analyzer"
	"github.com/cnx-lang/cnxc/lib/cache"
	"github.com/cnx-lang/cnxc/lib/emitter"
	"github.com/cnx-lang/cnxc/lib/headers"
	"github.com/cnx-lang/cnxc/lib/parser"
	"github.com/cnx-lang/cnxc/lib/project"
)

func init() {
	buildFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "The path to the project config file",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "The name for the emitted C file",
		},
		&cli.StringSliceFlag{
			Name:    "include",
			Aliases: []string{"i"},
			Usage:   "Add a directory to the header include path",
		},
		&cli.BoolFlag{
			Name:  "ebnf",
			Usage: "Print the EBNF grammar and exit",
		},
	}

	commands = append(commands,
		&cli.Command{
			Name:     "build",
			Category: "compile",
			Usage:    "Verify a C-Next file and emit C",
			Flags:    buildFlags,
			Action:   build,
		},
		&cli.Command{
			Name:     "check",
			Category: "compile",
			Usage:    "Run the verification passes without emitting code",
			Flags:    buildFlags,
			Action:   check,
		},
		&cli.Command{
			Name:     "run",
			Category: "compile",
			Usage:    "Build a C-Next file, compile it with cc and run it",
			Flags:    buildFlags,
			Action:   run,
		},
	)
}

func build(c *cli.Context) error {
	if c.Bool("ebnf") {
		fmt.Println(parser.EBNF())
		return nil
	}
	path, conf, err := resolveInput(c)
	if err != nil {
		return cli.Exit(color.RedString("%s", err), 1)
	}

	diags, code, err := compileUnit(c, path, conf)
	if err != nil {
		return cli.Exit(color.RedString("%s", err), 1)
	}
	if len(diags) > 0 {
		printDiagnostics(path, diags)
		return cli.Exit("", 1)
	}

	out := c.String("output")
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".c"
	}
	if err := os.WriteFile(out, []byte(code), 0644); err != nil {
		return cli.Exit(color.RedString("Error writing %s: %s", out, err), 1)
	}
	return nil
}

func check(c *cli.Context) error {
	path, conf, err := resolveInput(c)
	if err != nil {
		return cli.Exit(color.RedString("%s", err), 1)
	}
	diags, _, err := compileUnit(c, path, conf)
	if err != nil {
		return cli.Exit(color.RedString("%s", err), 1)
	}
	if len(diags) > 0 {
		printDiagnostics(path, diags)
		return cli.Exit("", 1)
	}
	color.Green("%s: no issues found", path)
	return nil
}

func run(c *cli.Context) error {
	if err := build(c); err != nil {
		return err
	}
	path, _, err := resolveInput(c)
	if err != nil {
		return cli.Exit(color.RedString("%s", err), 1)
	}
	cfile := c.String("output")
	if cfile == "" {
		cfile = strings.TrimSuffix(path, filepath.Ext(path)) + ".c"
	}
	bin := strings.TrimSuffix(cfile, ".c")
	cmd := exec.Command("cc", "-o", bin, cfile)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return cli.Exit(color.RedString("Error compiling C output: %s", err), 1)
	}
	prog := exec.Command(bin)
	prog.Stdout = os.Stdout
	prog.Stderr = os.Stderr
	if err := prog.Run(); err != nil {
		return cli.Exit(color.RedString("Error running binary: %s", err), 1)
	}
	return nil
}

// resolveInput finds the file to compile: the first CLI argument, or the
// project config's main file when no argument is given.
func resolveInput(c *cli.Context) (string, project.CnxConf, error) {
	var conf project.CnxConf

	f := c.Args().First()
	if f != "" {
		return f, conf, nil
	}

	dir := "."
	if c.String("config") != "" {
		dir = strings.TrimSuffix(c.String("config"), project.ConfFileName)
	}
	conf, err := project.Load(dir)
	if err != nil {
		return "", conf, fmt.Errorf("no input file and no %s: %w", project.ConfFileName, err)
	}
	return filepath.Join(dir, conf.Main), conf, nil
}

// compileUnit runs the full front half of the pipeline on one compilation
// unit: parse, register foreign header symbols, collect declarations, run
// both verification passes, and emit C when the unit is clean.
func compileUnit(c *cli.Context, path string, conf project.CnxConf) ([]analyzer.Diagnostic, string, error) {
	prog, err := parser.ParseFile(path)
	if err != nil {
		return nil, "", err
	}

	table := analyzer.NewSymbolTable()

	searchDirs := append([]string{filepath.Dir(path)}, conf.Includes...)
	searchDirs = append(searchDirs, c.StringSlice("include")...)
	pcache := cache.PackageCache{}
	if err := pcache.Init(); err == nil {
		if dirs, err := pcache.Dirs(); err == nil {
			searchDirs = append(searchDirs, dirs...)
		}
	}
	for _, d := range prog.Decls {
		if d.Include != nil {
			headers.Resolve(d.Include.Path, searchDirs, table)
		}
	}

	analyzer.CollectDeclarations(prog, table)

	diags := analyzer.NewInitAnalyzer(table).Analyze(prog)
	diags = append(diags, analyzer.NewIndexCheck(table).Analyze(prog)...)
	if len(diags) > 0 {
		return diags, "", nil
	}

	return nil, emitter.New(table).Emit(prog), nil
}

func printDiagnostics(path string, diags []analyzer.Diagnostic) {
	bold := color.New(color.Bold)
	for _, d := range diags {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error[%s]", d.Code)
		bold.Fprintf(os.Stderr, ": %s\n", d.Message)
		fmt.Fprintf(os.Stderr, "  --> %s:%d:%d\n", path, d.Line, d.Col)
		if d.Help != "" {
			color.New(color.FgCyan).Fprintf(os.Stderr, "  help: %s\n", d.Help)
		}
	}
	fmt.Fprintf(os.Stderr, "%d error(s) found\n", len(diags))
}
