// Package main provides the BoilerBrain CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/boilerbrain-ai/boilerbrain/cmd/boilerbrain/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
