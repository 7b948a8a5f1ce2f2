package command

import (
	"fmt"
	"strings"

	"github.com/mattn/go-colorable"

	"github.com/joeandaverde/fdb"
)

// OpenCommand opens (bootstrapping if necessary) a database file and
// prints its page size and instance id, exercising Db.Open (spec.md §3.1).
type OpenCommand struct{}

func (c *OpenCommand) Help() string {
	return strings.TrimSpace(`
Usage: fdb-demo open <path>

  Opens (or bootstraps) a database file and reports its page size.
`)
}

func (c *OpenCommand) Synopsis() string {
	return "Open or bootstrap a database file"
}

func (c *OpenCommand) Run(args []string) int {
	out := colorable.NewColorableStdout()

	if len(args) != 1 {
		fmt.Fprintln(out, "usage: fdb-demo open <path>")
		return 1
	}

	db, isNew, err := fdb.Open(args[0])
	if err != nil {
		fmt.Fprintf(out, "error opening %s: %v\n", args[0], err)
		return 1
	}

	status := "existing"
	if isNew {
		status = "bootstrapped"
	}
	fmt.Fprintf(out, "%s database %s: page_size=%d instance=%s\n", status, args[0], db.PageSize(), db.InstanceID)
	return 0
}
