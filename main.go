// Package main is the entrypoint for the housingrisk CLI.
// It delegates all command handling to the cmd package.
package main

import (
	"fmt"
	"os"

	"github.com/toyinlola/housingrisk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
