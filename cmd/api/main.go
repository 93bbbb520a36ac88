package main

import (
	"os"
)

// Preenchidos no build via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := newRootCmd(version, commit)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
