// Package cmd implements the coursepipe CLI using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/coursepipe/crawl"
)

var rootCmd = &cobra.Command{
	Use:   "coursepipe",
	Short: "coursepipe — extract structured training content from course sites",
	Long: `coursepipe crawls a structured training course (course → learning paths →
modules → units), extracts each unit's content, and writes a resumable
course tree plus a flattened JSONL training record stream.

Usage:
  coursepipe scrape <course-url> [flags]`,
	SilenceUsage: true,
}

// Execute runs the root command. A course-rank failure ("no data
// extracted") exits with a status distinct from usage errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, crawl.ErrNoData) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
