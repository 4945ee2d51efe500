package main

import (
	"os"

	"github.com/nulzo/llm-translate/cmd"
)

// set by -ldflags "-X main.version=..."
var version = "v0.0.0-dev"

func main() {
	if err := cmd.NewRootCmd(version).Execute(); err != nil {
		os.Exit(1)
	}
}
