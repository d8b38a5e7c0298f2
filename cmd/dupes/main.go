// Command dupes finds and reports groups of byte-identical files.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dupes/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
