package main

import (
	"os"

	"github.com/nvoss/strongbox/cmd/safectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
