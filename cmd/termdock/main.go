// Package main is the entry point for the termdock CLI.
package main

import (
	"os"

	"github.com/termdock/termdock/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
