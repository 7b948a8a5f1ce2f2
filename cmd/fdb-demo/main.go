// Command fdb-demo is a thin, one-shot front end over the fdb core
// (spec.md §1's "interactive command-line front-end" collaborator, kept
// deliberately out of the core itself). It is not a SQL shell: no parser
// is wired, matching the core's explicit non-goal.
package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/cli"

	"github.com/joeandaverde/fdb/cmd/fdb-demo/command"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = append(args, "--help")
	}

	commands := map[string]cli.CommandFactory{
		"open": func() (cli.Command, error) {
			return &command.OpenCommand{}, nil
		},
		"bootstrap-info": func() (cli.Command, error) {
			return &command.BootstrapInfoCommand{}, nil
		},
	}

	demoCLI := &cli.CLI{
		Name:     "fdb-demo",
		Args:     args,
		Commands: commands,
		HelpFunc: cli.BasicHelpFunc("fdb-demo"),
	}

	exitCode, err := demoCLI.Run()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}
	os.Exit(exitCode)
}
