package main

import (
	"errors"
	"fmt"

	"github.com/jbmukiza/mahudhurio/core"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf *core.Config
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  createdb                  - create the app user and database if missing")
	fmt.Println("  migrate [COMMAND] [ARGS]  - run a migration command (default: up)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "createdb":
		return cli.createDB()
	case "migrate":
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
