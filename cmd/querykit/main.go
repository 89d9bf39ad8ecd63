// Package main provides the CLI entry point for querykit.
package main

import (
	"os"

	"github.com/leapstack-labs/querykit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
