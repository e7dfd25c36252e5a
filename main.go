package main

import (
	"os"

	"github.com/agpm-dev/agpm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
