// Package main is the entry point of the muncher command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/indigo-web/muncher/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
