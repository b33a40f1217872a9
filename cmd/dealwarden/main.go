// Package main is the entry point for the dealwarden server.
package main

import (
	"os"

	"github.com/dealwarden/dealwarden/cmd/dealwarden/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
