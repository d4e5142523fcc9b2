package main

import (
	"os"

	"github.com/LinkHawk/LinkHawk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
