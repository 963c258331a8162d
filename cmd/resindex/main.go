// Package main provides resindex, a one-shot loader that prints the resource
// payload as JSON or YAML.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/cory-johannsen/resources/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
