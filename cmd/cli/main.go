// Package main - Entry point for the gutter CLI
package main

import (
	"os"

	"gutter-api/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
