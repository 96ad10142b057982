// The main package for the radar-ingest executable.
package main

import (
	"os"

	"github.com/radarlegislativo/ingest/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
