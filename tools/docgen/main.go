// Package main generates Markdown reference pages for the dwc command tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/dealwarden/dealwarden/cmd/dwc/cmd"
)

func main() {
	outDir := flag.String("output", "docs/cli", "directory for the generated markdown")
	flag.Parse()

	if err := run(*outDir); err != nil {
		log.Fatal(err)
	}
}

func run(outDir string) error {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// Timestamps in the footer would make every regeneration a diff.
	root := cmd.Root()
	root.DisableAutoGenTag = true

	if err := doc.GenMarkdownTree(root, outDir); err != nil {
		return fmt.Errorf("generating docs: %w", err)
	}

	log.Printf("CLI reference written to %s", outDir)
	return nil
}
