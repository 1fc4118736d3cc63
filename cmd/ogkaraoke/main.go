// Package main is the entry point for the ogkaraoke CLI.
//
// Usage:
//
//	ogkaraoke [flags] <command> [args]
//
// Commands:
//
//	play     - Play an OGG karaoke file to the default audio device
//	probe    - Inspect a file's streams without playing it
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/ogkaraoke/cmd/ogkaraoke/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
