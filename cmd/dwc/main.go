// Package main is the entry point for the dwc CLI.
package main

import (
	"github.com/dealwarden/dealwarden/cmd/dwc/cmd"
)

func main() {
	cmd.Execute()
}
