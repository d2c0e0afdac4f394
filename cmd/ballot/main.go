// Package main is the entry point of the ballot cli.
package main

import (
	"os"

	"github.com/spf13/afero"

	"github.com/spacemeshos/go-ballot/cmd"
)

func main() {
	ctx, cancel := cmd.Context()
	defer cancel()
	if err := newRootCmd(afero.NewOsFs()).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
