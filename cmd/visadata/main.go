// Command visadata cleans visa issuance tables and aggregates them by
// continent and country.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/visadata/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	// ExitErrors were already written by the command's formatter.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
