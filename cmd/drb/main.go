// Package main is the entry point for the drb CLI.
package main

import (
	"fmt"
	"os"

	"github.com/dont-rust-bro/drb/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
