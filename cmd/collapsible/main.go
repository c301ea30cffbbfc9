package main

import (
	"os"

	"github.com/go-drift/collapsible/cmd/collapsible/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
