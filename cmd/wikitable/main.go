package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"pkt.systems/version"
)

func init() {
	version.SetDefaultModule("github.com/spicery/wikitext-table")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var unclosed *unclosedTableError
		if errors.As(err, &unclosed) {
			fmt.Fprintf(stderr, "Parse error: %v\n", err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
