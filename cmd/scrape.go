// Package cmd — scrape command.
// Orchestrates the pipeline: crawl → merge prior content → render → write.
package cmd

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/fetch"
	"github.com/gaurav-prasanna/coursepipe/core/logging"
	"github.com/gaurav-prasanna/coursepipe/core/output"
	"github.com/gaurav-prasanna/coursepipe/core/render"
	"github.com/gaurav-prasanna/coursepipe/crawl"
)

// Flag variables.
var (
	flagMaxPaths   int
	flagMaxModules int
	flagMaxUnits   int
	flagNoContent  bool
	flagNoResume   bool
	flagPDF        bool
	flagDebug      bool
	flagOutputDir  string
	flagDelay      time.Duration
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <course-url>",
	Short: "Crawl a course and extract its training content",
	Long: `Scrape walks a course page, discovers its learning paths, modules, and
units, extracts structured unit content, and writes the artifacts into the
output directory: the full course tree (JSON), a flattened training record
stream (JSONL), and a run summary (JSON).

Re-runs reuse previously extracted unit content unless --no-resume is given.

Examples:
  coursepipe scrape https://learn.microsoft.com/en-us/training/courses/dp-100t01
  coursepipe scrape https://learn.microsoft.com/en-us/training/courses/az-900t00 --max-paths 2 --max-modules 3
  coursepipe scrape https://learn.microsoft.com/en-us/training/courses/ai-102t00 --no-content --pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	// Traversal limits: 0 means unlimited.
	scrapeCmd.Flags().IntVar(&flagMaxPaths, "max-paths", 0, "Maximum number of learning paths to process")
	scrapeCmd.Flags().IntVar(&flagMaxModules, "max-modules", 0, "Maximum number of modules per learning path")
	scrapeCmd.Flags().IntVar(&flagMaxUnits, "max-units", 0, "Maximum number of units per module")

	scrapeCmd.Flags().BoolVar(&flagNoContent, "no-content", false, "Skip content extraction (structure only)")
	scrapeCmd.Flags().BoolVar(&flagNoResume, "no-resume", false, "Start from scratch (ignore existing data)")
	scrapeCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Also write a course outline PDF")
	scrapeCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	scrapeCmd.Flags().StringVar(&flagOutputDir, "output-dir", "output", "Output directory for artifacts")
	scrapeCmd.Flags().DurationVar(&flagDelay, "delay", crawl.DefaultDelay, "Minimum delay between fetches")
}

func runScrape(cmd *cobra.Command, args []string) error {
	courseURL := args[0]

	if err := validateFlags(); err != nil {
		return err
	}

	parsed, err := url.Parse(courseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid course URL: %s (must include scheme, e.g. https://learn.microsoft.com/en-us/training/courses/az-900t00)", courseURL)
	}

	logger, err := logging.New(flagDebug)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	opts := crawl.Options{
		ExtractContent: !flagNoContent,
		Limits: crawl.Limits{
			MaxPaths:          flagMaxPaths,
			MaxModulesPerPath: flagMaxModules,
			MaxUnitsPerModule: flagMaxUnits,
		},
		Delay: flagDelay,
	}
	if !flagNoResume {
		opts.ResumeDir = writer.OutputDir
	}

	crawler := crawl.New(fetch.New(), logger, opts)

	started := time.Now().UTC()
	tree, err := crawler.Run(cmd.Context(), courseURL)
	if err != nil {
		return err
	}

	return writeArtifacts(writer, tree, opts, started, logger)
}

// writeArtifacts renders and writes the tree, the training records, the
// optional outline PDF, and last the run summary listing them all.
func writeArtifacts(writer *output.Writer, tree *core.CourseTree, opts crawl.Options, started time.Time, logger *zap.Logger) error {
	slug := output.Slug(tree.Title)

	treeData, err := render.Tree(tree)
	if err != nil {
		return err
	}
	treePath, err := writer.Write(output.TreeFile(slug), treeData)
	if err != nil {
		return err
	}
	files := []string{output.TreeFile(slug)}

	if opts.ExtractContent {
		records, err := render.Records(tree, func() time.Time { return started })
		if err != nil {
			return err
		}
		if _, err := writer.Write(output.RecordsFile(slug), records); err != nil {
			return err
		}
		files = append(files, output.RecordsFile(slug))
	}

	if flagPDF {
		outline, err := render.Outline(tree)
		if err != nil {
			return err
		}
		if _, err := writer.Write(output.OutlineFile(slug), outline); err != nil {
			return err
		}
		files = append(files, output.OutlineFile(slug))
	}

	summary, err := render.Summary(tree, render.AppliedLimits{
		MaxPaths:          opts.Limits.MaxPaths,
		MaxModulesPerPath: opts.Limits.MaxModulesPerPath,
		MaxUnitsPerModule: opts.Limits.MaxUnitsPerModule,
	}, opts.ExtractContent, started, files)
	if err != nil {
		return err
	}
	if _, err := writer.Write(output.SummaryFile(slug), summary); err != nil {
		return err
	}

	logger.Info("scrape complete",
		zap.String("course", tree.Title),
		zap.Int("learning_paths", len(tree.LearningPaths)),
		zap.Int("modules", tree.ModuleCount()),
		zap.Int("units", tree.UnitCount()),
		zap.String("tree", treePath))

	return nil
}

// validateFlags rejects out-of-range configuration before the crawl
// starts; a zero limit means unlimited.
func validateFlags() error {
	limits := map[string]int{
		"--max-paths":   flagMaxPaths,
		"--max-modules": flagMaxModules,
		"--max-units":   flagMaxUnits,
	}
	for _, name := range []string{"--max-paths", "--max-modules", "--max-units"} {
		if limits[name] < 0 {
			return fmt.Errorf("%s must be a positive integer (got %d)", name, limits[name])
		}
	}
	if flagDelay < 0 {
		return fmt.Errorf("--delay must not be negative (got %s)", flagDelay)
	}
	return nil
}
