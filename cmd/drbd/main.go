// Package main is the entry point for the drbd daemon.
package main

import (
	"fmt"
	"os"

	"github.com/dont-rust-bro/drb/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "drbd: %v\n", err)
		if cmd.IsAlreadyRunning(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
