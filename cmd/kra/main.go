// Command kra standardizes and validates the analysis notebooks of a workspace.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/krlabs/kra/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	err := cli.Execute(context.Background(), version, wire)
	if err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.ExitCode(err))
}
