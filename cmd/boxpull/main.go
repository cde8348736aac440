// Command boxpull pulls container image layer blobs out of OCI registries
// and onto the local file system.
package main

import (
	"os"

	"github.com/boxpull/boxpull/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
