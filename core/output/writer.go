// Package output handles artifact naming and writing. Artifact filenames
// are keyed by the course-title slug so a later run of the same course
// finds its prior tree.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[-\s]+`)
)

// Slug derives the artifact filename stem from a course title.
// "Develop solutions for Microsoft Azure" → "develop-solutions-for-microsoft-azure".
func Slug(title string) string {
	s := slugStripRe.ReplaceAllString(title, "")
	s = strings.TrimSpace(s)
	s = slugCollapseRe.ReplaceAllString(s, "-")
	s = strings.ToLower(s)
	if s == "" {
		return "unknown-course"
	}
	return s
}

// TreeFile is the persisted course tree that resume reads.
func TreeFile(slug string) string { return slug + "_complete.json" }

// RecordsFile is the flattened training record stream.
func RecordsFile(slug string) string { return slug + "_training.jsonl" }

// SummaryFile is the run summary.
func SummaryFile(slug string) string { return slug + "_summary.json" }

// OutlineFile is the optional course-outline PDF.
func OutlineFile(slug string) string { return slug + "_outline.pdf" }

// Writer writes rendered artifacts to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory, creating it
// if needed. If outputDir is empty, it defaults to the current working
// directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write writes one named artifact and returns its full path.
func (w *Writer) Write(name string, data []byte) (string, error) {
	path := filepath.Join(w.OutputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}
