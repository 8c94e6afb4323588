package main

import (
	"os"

	"github.com/altinukshini/enablehub/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
