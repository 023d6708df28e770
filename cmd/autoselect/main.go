// cmd/autoselect/main.go
//
// This is the entry point for the autoselect CLI.
//
// Commands:
//   form   run the form TUI against the configured source
//   serve  serve the project catalog over HTTP
//   items  print catalog matches as a table

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewCLI().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
