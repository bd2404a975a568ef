// Package main provides the CLI for sitewriter.
package main

import (
	"os"

	"github.com/leapstack-labs/sitewriter/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
