// Command rash is the CLI entry point for the augmented shell history
// recorder and searcher.
package main

import (
	"fmt"
	"os"

	"github.com/harrison/rash/internal/cmd"
	"github.com/harrison/rash/internal/rashhome"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	paths, err := rashhome.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rash: %v\n", err)
		os.Exit(1)
	}

	cmd.Version = version
	if err := cmd.NewRootCommand(paths).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rash: %v\n", err)
		os.Exit(1)
	}
}
