package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var commands []*cli.Command

func main() {
	app := &cli.App{
		Name:                   "cnxc",
		Usage:                  "A C-Next transpiler with semantic verification",
		Version:                "0.1.0",
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Commands:               commands,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
