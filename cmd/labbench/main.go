package main

import (
	"fmt"
	"os"

	"github.com/copyleftdev/labbench/internal/config"
)

func main() {
	defaults, err := config.LoadCLI()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd(defaults).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
