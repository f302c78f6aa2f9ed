// Package main is the entry point for the devgenie CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/devgenie/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
